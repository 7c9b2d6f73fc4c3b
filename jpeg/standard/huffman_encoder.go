package standard

import (
	"io"
	"math/bits"
)

// BitWriter packs Huffman codes and magnitude bits MSB first, inserting a
// 0x00 after every 0xFF data byte.
type BitWriter struct {
	w     io.ByteWriter
	bits  uint32 // pending bits, left-aligned at bit 23
	nBits int    // number of pending bits (always < 8 between calls)
}

// NewBitWriter creates a new bit writer
func NewBitWriter(w io.ByteWriter) *BitWriter {
	return &BitWriter{w: w}
}

// WriteBits writes the low n (0..16) bits of code
func (e *BitWriter) WriteBits(code uint32, n int) error {
	if n == 0 {
		return nil
	}

	e.nBits += n
	e.bits |= (code & (1<<uint(n) - 1)) << uint(24-e.nBits)

	for e.nBits >= 8 {
		if err := e.writeByte(byte(e.bits >> 16)); err != nil {
			return err
		}
		e.bits <<= 8
		e.nBits -= 8
	}
	return nil
}

// writeByte writes a byte with byte stuffing
func (e *BitWriter) writeByte(b byte) error {
	if err := e.w.WriteByte(b); err != nil {
		return err
	}
	// Byte stuffing: if we write 0xFF, follow with 0x00
	if b == 0xFF {
		return e.w.WriteByte(0x00)
	}
	return nil
}

// Flush pads the last partial byte with 1 bits. An aligned writer is left as is.
func (e *BitWriter) Flush() error {
	if e.nBits == 0 {
		return nil
	}
	return e.WriteBits(0x7F, 8-e.nBits)
}

// EncodeCategory returns the magnitude category of val and its low
// cat bits, ones' complement for negative values.
func EncodeCategory(val int32) (cat int, code uint32) {
	abs := val
	if val < 0 {
		abs = -val
		val--
	}
	cat = bits.Len32(uint32(abs))
	return cat, uint32(val) & (1<<uint(cat) - 1)
}
