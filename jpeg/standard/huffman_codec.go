package standard

import (
	"fmt"

	"github.com/cocosip/go-dicom-jpeg/jpeg/common"
)

func writeCode(bw *BitWriter, t *common.HuffmanEncodeTable, symbol int) error {
	code := t[symbol]
	if code.Len == 0 {
		return fmt.Errorf("%w: symbol 0x%02X has no huffman code", common.ErrBadTables, symbol)
	}
	return bw.WriteBits(uint32(code.Code), int(code.Len))
}

// EncodeDC encodes a DC coefficient difference
func EncodeDC(bw *BitWriter, diff int32, dcCodes *common.HuffmanEncodeTable) error {
	cat, bits := EncodeCategory(diff)
	if err := writeCode(bw, dcCodes, cat); err != nil {
		return err
	}
	return bw.WriteBits(bits, cat)
}

// EncodeAC encodes the AC coefficients of a block given in zigzag order
func EncodeAC(bw *BitWriter, block *[64]int32, acCodes *common.HuffmanEncodeTable) error {
	last := 63
	for last > 0 && block[last] == 0 {
		last--
	}
	if last == 0 {
		return writeCode(bw, acCodes, 0x00)
	}

	for k := 1; k <= last; k++ {
		start := k
		for block[k] == 0 {
			k++
		}
		runLength := k - start

		// ZRL (Zero Run Length) for every complete run of 16 zeros
		for ; runLength >= 16; runLength -= 16 {
			if err := writeCode(bw, acCodes, 0xF0); err != nil {
				return err
			}
		}

		cat, bits := EncodeCategory(block[k])
		if err := writeCode(bw, acCodes, runLength<<4|cat); err != nil {
			return err
		}
		if err := bw.WriteBits(bits, cat); err != nil {
			return err
		}
	}

	if last != 63 {
		return writeCode(bw, acCodes, 0x00)
	}
	return nil
}

// EncodeBlock entropy codes one quantized block (zigzag order) and updates
// the DC predictor.
func EncodeBlock(bw *BitWriter, block *[64]int32, pred *int32, dc, ac *common.HuffmanEncodeTable) error {
	diff := block[0] - *pred
	*pred = block[0]
	if err := EncodeDC(bw, diff, dc); err != nil {
		return err
	}
	return EncodeAC(bw, block, ac)
}

// DecodeBlock decodes one block into coef (zigzag order), adding the DC
// difference to *pred. It returns how many leading zigzag positions may be
// non-zero, which lets the IDCT take its shortcuts.
//
// Runs that would step past the end of the block stop decoding of that block
// instead of writing out of range.
func DecodeBlock(br *BitReader, coef *[64]int32, pred *int32, dc, ac *common.HuffmanTable) int {
	*coef = [64]int32{}

	_, diff := br.Decode(dc)
	*pred += diff
	coef[0] = *pred

	k := 1
	for k < 64 {
		run, v := br.Decode(ac)
		if run == 0 && v == 0 {
			// EOB, or a bad code that poisoned the reader
			break
		}
		k += run
		if k > 63 {
			return 64
		}
		coef[k] = v
		k++
	}
	return k
}
