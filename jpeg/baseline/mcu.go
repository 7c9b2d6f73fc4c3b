package baseline

import (
	"fmt"

	"github.com/cocosip/go-dicom-jpeg/jpeg/common"
	"github.com/cocosip/go-dicom-jpeg/jpeg/standard"
)

// Sample layout of one MCU after the inverse transform: luma blocks at 0, 64,
// 128 and 192 (left to right, top to bottom), Cb at 256 and Cr at 320.
const (
	mcuCbOffset = 256
	mcuCrOffset = 320
)

type mcuSamples [384]int32

// tileConverter writes one MCU of samples as YUYV at pixel (x0, y0),
// dropping pixels outside the width x height raster.
type tileConverter func(out *mcuSamples, pix []byte, x0, y0, width, height int)

func converterFor(s Sampling) tileConverter {
	switch s {
	case Sampling420:
		return convert420
	case Sampling422:
		return convert422
	case Sampling444:
		return convert444
	}
	return convertGray
}

// blockOffset returns where block b of an MCU lands in mcuSamples.
func blockOffset(b, blocks int) int {
	luma := blocks - 2
	if blocks == 1 {
		luma = 1
	}
	if b < luma {
		return b * 64
	}
	return mcuCbOffset + (b-luma)*64
}

func (s *decodeState) resetPredictors() {
	for i := range s.scans {
		s.scans[i].pred = 0
	}
}

// decodeScan runs the MCU loop over the entropy-coded segment that follows
// the scan header, then checks for EOI.
func (s *decodeState) decodeScan(pix []byte) error {
	br := standard.NewBitReader(s.r)
	convert := converterFor(s.sampling)
	blocks := s.sampling.BlocksPerMCU()

	mw, mh := s.sampling.mcuSize()
	mcusX := (s.width + mw - 1) / mw
	mcusY := (s.height + mh - 1) / mh

	var (
		coef [64]int32
		out  mcuSamples
	)

	s.resetPredictors()
	toGo := s.dri + 1 // MCUs until the next restart marker
	rst := 0          // expected restart marker number

	for my := 0; my < mcusY; my++ {
		for mx := 0; mx < mcusX; mx++ {
			if s.dri != 0 {
				toGo--
				if toGo == 0 {
					if m := br.ReadMarker(); m != 0xD0+rst {
						return fmt.Errorf("%w: expected RST%d before MCU %d, got %s",
							common.ErrWrongMarker, rst, my*mcusX+mx, markerDescription(m))
					}
					toGo = s.dri
					rst = (rst + 1) & 7
					s.resetPredictors()
				}
			}

			// Once a bad code poisoned the reader the remaining data is
			// meaningless; the next marker check reports it.
			if br.Poisoned() {
				continue
			}

			sc := 0
			left := blocks
			for b := 0; b < blocks; b++ {
				scan := &s.scans[sc]
				n := standard.DecodeBlock(br, &coef, &scan.pred, scan.dc, scan.ac)

				bias := common.IDCTBiasChroma
				if sc == 0 {
					bias = common.IDCTBiasLuma
				}
				off := blockOffset(b, blocks)
				common.IDCT(&coef, n, scan.dq, bias, (*[64]int32)(out[off:off+64]))

				left--
				if left == scan.next {
					sc++
				}
			}

			convert(&out, pix, mx*mw, my*mh, s.width, s.height)
		}
	}

	if m := br.ReadMarker(); m != 0xD9 {
		return fmt.Errorf("%w: got %s", common.ErrNoEOI, markerDescription(m))
	}
	return nil
}

func markerDescription(m int) string {
	switch m {
	case 0:
		return "entropy data"
	case standard.MarkerBadHuffman:
		return "undecodable huffman code"
	case standard.MarkerEndOfData:
		return "end of data"
	}
	return common.MarkerName(uint16(0xFF00 | m))
}
