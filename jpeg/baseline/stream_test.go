package baseline

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/cocosip/go-dicom-jpeg/jpeg/common"
	"github.com/cocosip/go-dicom-jpeg/jpeg/standard"
)

// testStream writes baseline streams with layouts and restart options the
// encoder does not produce. Quantization tables are all ones.
type testStream struct {
	width, height int
	sampling      Sampling
	dri           int  // restart interval in MCUs
	markerEvery   int  // MCUs between written restart markers, defaults to dri
	dht           bool // write the luma tables instead of relying on defaults
	badRestart    int  // 1-based index of a restart marker written with the wrong number
	corruptMCU    int  // 1-based index of an MCU replaced by undecodable bytes
}

// chromaSize returns the dimensions of the Cb and Cr planes.
func (ts testStream) chromaSize() (int, int) {
	switch ts.sampling {
	case Sampling420:
		return (ts.width + 1) / 2, (ts.height + 1) / 2
	case Sampling422:
		return (ts.width + 1) / 2, ts.height
	}
	return ts.width, ts.height
}

func (ts testStream) lumaHV() byte {
	switch ts.sampling {
	case Sampling420:
		return 0x22
	case Sampling422:
		return 0x21
	}
	return 0x11
}

// planes returns random but locally smooth Y, Cb and Cr planes.
func (ts testStream) planes(seed int64) (y, cb, cr []byte) {
	rng := rand.New(rand.NewSource(seed))
	smooth := func(w, h int) []byte {
		p := make([]byte, w*h)
		for j := 0; j < h; j++ {
			for i := 0; i < w; i++ {
				v := 40 + (i*5+j*3)%160 + rng.Intn(16)
				p[j*w+i] = byte(v)
			}
		}
		return p
	}
	cw, ch := ts.chromaSize()
	return smooth(ts.width, ts.height), smooth(cw, ch), smooth(cw, ch)
}

func (ts testStream) build(t testing.TB, y, cb, cr []byte) []byte {
	t.Helper()

	var ones [64]uint8
	for i := range ones {
		ones[i] = 1
	}
	fdct := common.NewFDCTTable(&ones)

	var buf bytes.Buffer
	w := standard.NewWriter(&buf)
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}

	must(w.WriteMarker(common.MarkerSOI))
	must(w.WriteSegment(common.MarkerDQT, append([]byte{0x00}, ones[:]...)))

	gray := ts.sampling == SamplingGray
	nc := 3
	if gray {
		nc = 1
	}
	sof := []byte{
		8, byte(ts.height >> 8), byte(ts.height), byte(ts.width >> 8), byte(ts.width), byte(nc),
		1, ts.lumaHV(), 0,
		2, 0x11, 0,
		3, 0x11, 0,
	}
	must(w.WriteSegment(common.MarkerSOF0, sof[:6+nc*3]))

	if ts.dht {
		// luma tables only, chroma falls back to the defaults
		specs := common.StandardHuffmanSpecs()
		dht := common.AppendHuffmanTable(nil, 0, 0, specs[0])
		dht = common.AppendHuffmanTable(dht, 1, 0, specs[2])
		must(w.WriteSegment(common.MarkerDHT, dht))
	}
	if ts.dri > 0 {
		must(w.WriteSegment(common.MarkerDRI, []byte{byte(ts.dri >> 8), byte(ts.dri)}))
	}

	sos := []byte{byte(nc), 1, 0x00, 2, 0x11, 3, 0x11}
	sos = append(sos[:1+nc*2], 0, 63, 0)
	must(w.WriteSegment(common.MarkerSOS, sos))

	every := ts.markerEvery
	if every == 0 {
		every = ts.dri
	}

	bw := standard.NewBitWriter(w)
	var preds [3]int32
	var block [64]float32
	var coef [64]int32
	encode := func(plane []byte, pw, ph, x0, y0, c int) {
		for j := 0; j < 8; j++ {
			sy := min(y0+j, ph-1)
			for i := 0; i < 8; i++ {
				sx := min(x0+i, pw-1)
				block[j*8+i] = float32(plane[sy*pw+sx]) - 128
			}
		}
		common.FDCT(&block)
		common.Quantize(&block, fdct, &coef)
		slot := min(c, 1)
		must(standard.EncodeBlock(bw, &coef, &preds[c],
			common.StandardHuffmanEncodeTable(slot), common.StandardHuffmanEncodeTable(2+slot)))
	}

	mw, mh := ts.sampling.mcuSize()
	cw, ch := ts.chromaSize()
	mcusX := (ts.width + mw - 1) / mw
	mcusY := (ts.height + mh - 1) / mh

	n, restarts := 0, 0
	for my := 0; my < mcusY; my++ {
		for mx := 0; mx < mcusX; mx++ {
			if every > 0 && n > 0 && n%every == 0 {
				must(bw.Flush())
				restarts++
				rst := restarts - 1
				if restarts == ts.badRestart {
					rst++
				}
				must(w.WriteMarker(common.MarkerRST0 + uint16(rst&7)))
				preds = [3]int32{}
			}
			n++

			if n == ts.corruptMCU {
				_, err := w.Write([]byte{0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00})
				must(err)
				continue
			}

			for by := 0; by < mh; by += 8 {
				for bx := 0; bx < mw; bx += 8 {
					encode(y, ts.width, ts.height, mx*mw+bx, my*mh+by, 0)
				}
			}
			if !gray {
				encode(cb, cw, ch, mx*8, my*8, 1)
				encode(cr, cw, ch, mx*8, my*8, 2)
			}
		}
	}

	must(bw.Flush())
	must(w.WriteMarker(common.MarkerEOI))
	must(w.Flush())
	return buf.Bytes()
}
