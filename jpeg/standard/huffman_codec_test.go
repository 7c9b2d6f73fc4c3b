package standard

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/cocosip/go-dicom-jpeg/jpeg/common"
)

func TestEncodeCategory(t *testing.T) {
	tests := []struct {
		val  int32
		cat  int
		bits uint32
	}{
		{0, 0, 0},
		{1, 1, 1},
		{-1, 1, 0},
		{2, 2, 2},
		{-2, 2, 1},
		{3, 2, 3},
		{-3, 2, 0},
		{1023, 10, 1023},
		{-1023, 10, 0},
		{2047, 11, 2047},
		{-2040, 11, 7},
	}

	for _, tt := range tests {
		cat, bits := EncodeCategory(tt.val)
		if cat != tt.cat || bits != tt.bits {
			t.Errorf("EncodeCategory(%d) = (%d, %d), want (%d, %d)", tt.val, cat, bits, tt.cat, tt.bits)
		}
	}
}

func TestBitWriterStuffing(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBitWriter(&buf)
	if err := bw.WriteBits(0xFF, 8); err != nil {
		t.Fatal(err)
	}
	if err := bw.WriteBits(0x5, 3); err != nil {
		t.Fatal(err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatal(err)
	}

	want := []byte{0xFF, 0x00, 0xBF}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % X, want % X", buf.Bytes(), want)
	}
}

func TestBitWriterFlushAligned(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBitWriter(&buf)
	if err := bw.WriteBits(0x12, 8); err != nil {
		t.Fatal(err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0x12}) {
		t.Errorf("got % X, want 12", buf.Bytes())
	}

	// nothing is left pending, so the next byte starts clean
	if err := bw.WriteBits(0x34, 8); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{0x12, 0x34}) {
		t.Errorf("got % X, want 12 34", buf.Bytes())
	}
}

func randomBlock(rng *rand.Rand, density float64) [64]int32 {
	var b [64]int32
	b[0] = int32(rng.Intn(2041) - 1020)
	for k := 1; k < 64; k++ {
		if rng.Float64() < density {
			v := int32(rng.Intn(1023) + 1)
			if rng.Intn(2) == 0 {
				v = -v
			}
			b[k] = v
		}
	}
	return b
}

func TestBlockRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		dc, ac  int
		density float64
	}{
		{"luma sparse", 0, 2, 0.05},
		{"luma dense", 0, 2, 0.9},
		{"chroma sparse", 1, 3, 0.05},
		{"chroma medium", 1, 3, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(tt.ac*100) + int64(tt.density*10)))
			blocks := make([][64]int32, 300)
			for i := range blocks {
				blocks[i] = randomBlock(rng, tt.density)
			}
			// exercise long zero runs and a full last position
			blocks[0] = [64]int32{5, 40: 1}
			blocks[1] = [64]int32{-5, 63: -7}
			blocks[2] = [64]int32{}

			var buf bytes.Buffer
			bw := NewBitWriter(&buf)
			encDC := common.StandardHuffmanEncodeTable(tt.dc)
			encAC := common.StandardHuffmanEncodeTable(tt.ac)
			var pred int32
			for i := range blocks {
				if err := EncodeBlock(bw, &blocks[i], &pred, encDC, encAC); err != nil {
					t.Fatalf("block %d: %v", i, err)
				}
			}
			if err := bw.Flush(); err != nil {
				t.Fatal(err)
			}
			buf.Write([]byte{0xFF, 0xD9})
			t.Logf("%d blocks in %d bytes", len(blocks), buf.Len())

			br := NewBitReader(bytes.NewReader(buf.Bytes()))
			decDC := common.StandardHuffmanTable(tt.dc)
			decAC := common.StandardHuffmanTable(tt.ac)
			pred = 0
			for i := range blocks {
				var coef [64]int32
				n := DecodeBlock(br, &coef, &pred, decDC, decAC)
				if coef != blocks[i] {
					t.Fatalf("block %d mismatch:\n got  %v\n want %v", i, coef, blocks[i])
				}
				for k := n; k < 64; k++ {
					if coef[k] != 0 {
						t.Fatalf("block %d: n=%d but position %d is %d", i, n, k, coef[k])
					}
				}
			}
			if br.Poisoned() {
				t.Fatal("reader poisoned")
			}
			if m := br.ReadMarker(); m != 0xD9 {
				t.Errorf("ReadMarker() = 0x%X, want 0xD9", m)
			}
		})
	}
}

func TestDecodeBlockBadCode(t *testing.T) {
	// DC luma code "00" (diff 0), then 16 one bits which no AC luma code uses
	data := []byte{0x3F, 0xFF, 0x00, 0xC0, 0x00, 0x00}
	br := NewBitReader(bytes.NewReader(data))

	var coef [64]int32
	var pred int32
	DecodeBlock(br, &coef, &pred, common.StandardHuffmanTable(0), common.StandardHuffmanTable(2))

	if !br.Poisoned() {
		t.Fatal("expected poisoned reader")
	}
	if m := br.ReadMarker(); m != MarkerBadHuffman {
		t.Errorf("ReadMarker() = %d, want MarkerBadHuffman", m)
	}
}

func TestDecodeBlockRunOverflow(t *testing.T) {
	// ZRL symbols repeated past the end of the block must not index out of range
	enc := common.StandardHuffmanEncodeTable(2)
	var buf bytes.Buffer
	bw := NewBitWriter(&buf)
	if err := EncodeDC(bw, 0, common.StandardHuffmanEncodeTable(0)); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		zrl := enc[0xF0]
		if err := bw.WriteBits(uint32(zrl.Code), int(zrl.Len)); err != nil {
			t.Fatal(err)
		}
	}
	if err := bw.Flush(); err != nil {
		t.Fatal(err)
	}

	br := NewBitReader(bytes.NewReader(buf.Bytes()))
	var coef [64]int32
	var pred int32
	if n := DecodeBlock(br, &coef, &pred, common.StandardHuffmanTable(0), common.StandardHuffmanTable(2)); n != 64 {
		t.Errorf("n = %d, want 64", n)
	}
}

func BenchmarkDecodeBlock(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	var buf bytes.Buffer
	bw := NewBitWriter(&buf)
	var pred int32
	for i := 0; i < 1000; i++ {
		blk := randomBlock(rng, 0.2)
		if err := EncodeBlock(bw, &blk, &pred, common.StandardHuffmanEncodeTable(0), common.StandardHuffmanEncodeTable(2)); err != nil {
			b.Fatal(err)
		}
	}
	if err := bw.Flush(); err != nil {
		b.Fatal(err)
	}
	data := buf.Bytes()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		br := NewBitReader(bytes.NewReader(data))
		var coef [64]int32
		pred = 0
		for j := 0; j < 1000; j++ {
			DecodeBlock(br, &coef, &pred, common.StandardHuffmanTable(0), common.StandardHuffmanTable(2))
		}
	}
}
