package common

import "fmt"

// LookupBits is the width of the decoder's direct lookup table. Codes of up
// to this length, together with their magnitude bits when those fit too,
// resolve with a single table access.
const LookupBits = 10

// Lookup entry layout (int32):
//
//	resolved:   value<<16 | run<<8 | 128 | unused   (value already sign-extended)
//	size only:  size<<16  | run<<8 | unused         (magnitude bits still to read)
//	zero:       code longer than LookupBits, take the slow path
//
// unused is the number of the LookupBits peeked bits that belong to the next symbol.
const (
	LookupResolved = 128
	LookupUnused   = 127
)

// HuffmanTable is the decoder form of a canonical Huffman code.
type HuffmanTable struct {
	maxcode [17]int32 // one past the last code of each length; [16] terminates any walk
	valptr  [16]int32 // index in vals of the first symbol of each length
	vals    [256]uint8
	lookup  [1 << LookupBits]int32
}

// NewHuffmanTable builds decoder tables from a DHT specification.
func NewHuffmanTable(spec *HuffmanSpec) (*HuffmanTable, error) {
	n := spec.Count()
	if n > 256 || n > len(spec.Values) {
		return nil, fmt.Errorf("%w: huffman table lists %d codes for %d symbols", ErrBadTables, n, len(spec.Values))
	}

	h := &HuffmanTable{}
	code := int32(0)
	k := 0
	for i := 0; i < 16; i++ {
		if code+int32(spec.Bits[i]) > 1<<(i+1) {
			return nil, fmt.Errorf("%w: too many huffman codes of length %d", ErrBadTables, i+1)
		}
		h.valptr[i] = int32(k)
		for j := 0; j < int(spec.Bits[i]); j++ {
			sym := spec.Values[k]
			h.vals[k] = sym
			if i < LookupBits {
				h.fillLookup(code, i+1, sym)
			}
			code++
			k++
		}
		h.maxcode[i] = code
		code <<= 1
	}
	h.maxcode[16] = 0x20000

	return h, nil
}

// fillLookup writes every lookup slot whose top bits equal code.
func (h *HuffmanTable) fillLookup(code int32, length int, sym uint8) {
	free := LookupBits - length
	size := int32(sym & 0x0f)
	run := int32(sym&0xf0) << 4
	base := code << free

	for d := int32(0); d < 1<<free; d++ {
		var entry int32
		if int(size)+length <= LookupBits {
			v := d >> (int32(free) - size)
			if size != 0 && v < 1<<(size-1) {
				v += (int32(-1) << size) + 1
			}
			entry = v<<16 | run | (int32(free) - size) | LookupResolved
		} else {
			entry = size<<16 | run | int32(free)
		}
		h.lookup[base|d] = entry
	}
}

// Lookup returns the direct table entry for a LookupBits-wide bit prefix.
func (h *HuffmanTable) Lookup(prefix uint32) int32 {
	return h.lookup[prefix&(1<<LookupBits-1)]
}

// MaxCode returns one past the last code of length i+1 (i == 16 is the sentinel).
func (h *HuffmanTable) MaxCode(i int) int32 {
	return h.maxcode[i]
}

// Symbol returns the symbol of the (i+1)-bit code c. ok is false when c does
// not index a listed symbol.
func (h *HuffmanTable) Symbol(i int, c int32) (uint8, bool) {
	idx := h.valptr[i] + c - h.maxcode[i-1]*2
	if idx < 0 || idx > 255 {
		return 0, false
	}
	return h.vals[idx], true
}

// HuffmanCode is one entry of an encoder table. Len 0 marks a symbol the
// table cannot emit.
type HuffmanCode struct {
	Code uint16
	Len  uint8
}

// HuffmanEncodeTable maps each symbol to its code.
type HuffmanEncodeTable [256]HuffmanCode

// NewHuffmanEncodeTable assigns canonical codes to the symbols of spec.
func NewHuffmanEncodeTable(spec *HuffmanSpec) (*HuffmanEncodeTable, error) {
	codes, err := CanonicalCodes(spec)
	if err != nil {
		return nil, err
	}
	t := &HuffmanEncodeTable{}
	for i, c := range codes {
		t[spec.Values[i]] = c
	}
	return t, nil
}

// CanonicalCodes returns the code of every listed symbol, in the order of
// spec.Values.
func CanonicalCodes(spec *HuffmanSpec) ([]HuffmanCode, error) {
	n := spec.Count()
	if n > 256 || n > len(spec.Values) {
		return nil, fmt.Errorf("%w: huffman table lists %d codes for %d symbols", ErrBadTables, n, len(spec.Values))
	}

	codes := make([]HuffmanCode, 0, n)
	code := 0
	for l := 0; l < 16; l++ {
		if code+int(spec.Bits[l]) > 1<<(l+1) {
			return nil, fmt.Errorf("%w: too many huffman codes of length %d", ErrBadTables, l+1)
		}
		for i := 0; i < int(spec.Bits[l]); i++ {
			codes = append(codes, HuffmanCode{Code: uint16(code), Len: uint8(l + 1)})
			code++
		}
		code <<= 1
	}
	return codes, nil
}

// Standard decoder tables are immutable after construction and shared.
var (
	standardDecodeTables [4]*HuffmanTable
	standardEncodeTables [4]*HuffmanEncodeTable
)

func init() {
	specs := StandardHuffmanSpecs()
	for i := range specs {
		dt, err := NewHuffmanTable(specs[i])
		if err != nil {
			panic(err)
		}
		et, err := NewHuffmanEncodeTable(specs[i])
		if err != nil {
			panic(err)
		}
		standardDecodeTables[i] = dt
		standardEncodeTables[i] = et
	}
}

// StandardHuffmanSpecs returns the four baseline tables indexed by
// class*2+destination: DC luma, DC chroma, AC luma, AC chroma.
func StandardHuffmanSpecs() [4]*HuffmanSpec {
	return [4]*HuffmanSpec{
		&StandardDCLuminance,
		&StandardDCChrominance,
		&StandardACLuminance,
		&StandardACChrominance,
	}
}

// StandardHuffmanTable returns the shared decoder table for slot class*2+destination.
func StandardHuffmanTable(slot int) *HuffmanTable {
	return standardDecodeTables[slot]
}

// StandardHuffmanEncodeTable returns the shared encoder table for slot class*2+destination.
func StandardHuffmanEncodeTable(slot int) *HuffmanEncodeTable {
	return standardEncodeTables[slot]
}
