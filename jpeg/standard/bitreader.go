package standard

import (
	"io"

	"github.com/cocosip/go-dicom-jpeg/jpeg/common"
)

// Pseudo marker values latched by BitReader besides real marker bytes.
const (
	// MarkerBadHuffman is latched when entropy data holds a code that no
	// table entry matches.
	MarkerBadHuffman = -1

	// MarkerEndOfData is latched when the source ends inside entropy data.
	MarkerEndOfData = 0x100
)

// BitReader is the decoder's bit cursor over entropy-coded data. It removes
// byte stuffing and stops consuming input at the first marker, which stays
// latched until ReadMarker acknowledges it. Once a marker is latched, reads
// return zero bits.
type BitReader struct {
	src    io.ByteReader
	bits   uint32
	left   int
	marker int
}

// NewBitReader creates a bit cursor reading from src.
func NewBitReader(src io.ByteReader) *BitReader {
	return &BitReader{src: src}
}

func (b *BitReader) latch(m int) {
	b.marker = m
	if b.left <= 16 {
		b.bits <<= 16
		b.left += 16
	}
}

func (b *BitReader) fill() {
	if b.marker != 0 {
		if b.left <= 16 {
			b.bits <<= 16
			b.left += 16
		}
		return
	}

	for b.left <= 24 {
		c, err := b.src.ReadByte()
		if err != nil {
			b.latch(MarkerEndOfData)
			return
		}
		if c == 0xFF {
			m, err := b.src.ReadByte()
			for err == nil && m == 0xFF {
				m, err = b.src.ReadByte()
			}
			if err != nil {
				b.latch(MarkerEndOfData)
				return
			}
			if m != 0 {
				b.latch(int(m))
				return
			}
		}
		b.bits = b.bits<<8 | uint32(c)
		b.left += 8
	}
}

// GetBits consumes n (0..16) bits and returns them MSB first.
func (b *BitReader) GetBits(n int) int32 {
	if b.left < n {
		b.fill()
	}
	b.left -= n
	return int32(b.bits>>uint(b.left)) & (1<<n - 1)
}

// UngetBits pushes back the last n consumed bits.
func (b *BitReader) UngetBits(n int) {
	b.left += n
}

// ReadMarker returns and clears the latched marker (the byte following 0xFF),
// discarding any buffered bits. It returns 0 when the data continues without
// a marker.
func (b *BitReader) ReadMarker() int {
	b.fill()
	m := b.marker
	if m == 0 {
		return 0
	}
	b.bits = 0
	b.left = 0
	b.marker = 0
	return m
}

// Poisoned reports whether an undecodable Huffman code was met.
func (b *BitReader) Poisoned() bool {
	return b.marker == MarkerBadHuffman
}

// Receive reads an n-bit magnitude and sign-extends it.
func (b *BitReader) Receive(n int) int32 {
	v := b.GetBits(n)
	if v < 1<<(n-1) {
		v += (int32(-1) << n) + 1
	}
	return v
}

// Decode reads one Huffman symbol and, when the symbol carries a magnitude
// size, the magnitude bits. It returns the symbol's zero run and the
// sign-extended value. Short codes resolve through the table's direct
// lookup; longer ones walk the per-length limits.
func (b *BitReader) Decode(h *common.HuffmanTable) (run int, value int32) {
	code := b.GetBits(common.LookupBits)
	e := h.Lookup(uint32(code))

	var size int32
	switch {
	case e&common.LookupResolved != 0:
		b.UngetBits(int(e & common.LookupUnused))
		return int(e>>8) & 15, e >> 16

	case e != 0:
		b.UngetBits(int(e & common.LookupUnused))
		run = int(e>>8) & 15
		size = e >> 16

	default:
		i := common.LookupBits
		for {
			code = code<<1 | b.GetBits(1)
			if code < h.MaxCode(i) {
				break
			}
			i++
		}
		if i >= 16 {
			b.marker = MarkerBadHuffman
			return 0, 0
		}
		sym, ok := h.Symbol(i, code)
		if !ok {
			b.marker = MarkerBadHuffman
			return 0, 0
		}
		run = int(sym >> 4)
		size = int32(sym & 15)
	}

	if size == 0 {
		return run, 0
	}
	return run, b.Receive(int(size))
}
