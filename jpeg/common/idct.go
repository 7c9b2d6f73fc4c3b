package common

// IDCTShift is the number of fractional bits of the fixed-point inverse transform.
const IDCTShift = 11

// Rounding biases added to the DC term before the transform. Luma blocks also
// carry the +128 level shift; chroma stays centred on zero.
const (
	IDCTBiasLuma   int32 = 263168 // 128.5 << IDCTShift
	IDCTBiasChroma int32 = 1024   // 0.5 << IDCTShift
)

// AAN butterfly constants, scaled by 1<<IDCTShift
const (
	fix1_414213562 = 2896
	fix1_847759065 = 3784
	fix1_082392200 = 2217
	fix2_613125930 = 5352
)

// aanIDCTScale[k] is cos(k*pi/16)/2 for k > 0 and 1/(2*sqrt(2)) for k == 0.
// The product of a row and a column factor folds both the AAN output scaling
// and the 1/8 normalisation into the dequantizer.
var aanIDCTScale = [8]float64{
	0.3535533906, 0.4903926402, 0.4619397663, 0.4157348062,
	0.3535533906, 0.2777851165, 0.1913417162, 0.0975451610,
}

// DequantTable holds fixed-point dequantization multipliers in zigzag order.
type DequantTable [64]int32

// NewDequantTable derives the transform-ready multipliers from a quantization
// table in natural order.
func NewDequantTable(q *[64]uint8) *DequantTable {
	dq := &DequantTable{}
	for k := 0; k < 64; k++ {
		n := ZigZag[k]
		scale := aanIDCTScale[n>>3] * aanIDCTScale[n&7]
		dq[k] = int32(q[n]) * int32(scale*(1<<IDCTShift)+0.5)
	}
	return dq
}

func imul(a, b int64) int64 {
	return (a * b) >> IDCTShift
}

// IDCT dequantizes coef (zigzag order, of which only the first n positions
// can be non-zero) and runs the scaled AAN inverse transform, writing 64
// samples in natural order to out. Samples are not clamped.
func IDCT(coef *[64]int32, n int, dq *DequantTable, bias int32, out *[64]int32) {
	if n <= 1 {
		v := int32((int64(coef[0])*int64(dq[0]) + int64(bias)) >> IDCTShift)
		for i := range out {
			out[i] = v
		}
		return
	}
	if n > 64 {
		n = 64
	}

	var ws [64]int64
	for k := 0; k < n; k++ {
		if coef[k] != 0 {
			ws[ZigZag[k]] = int64(coef[k]) * int64(dq[k])
		}
	}
	ws[0] += int64(bias)

	// columns
	for c := 0; c < 8; c++ {
		if ws[8+c] == 0 && ws[16+c] == 0 && ws[24+c] == 0 && ws[32+c] == 0 &&
			ws[40+c] == 0 && ws[48+c] == 0 && ws[56+c] == 0 {
			dc := ws[c]
			for r := 8; r < 64; r += 8 {
				ws[r+c] = dc
			}
			continue
		}
		idct1D(ws[:], c, 8)
	}

	// rows
	for r := 0; r < 64; r += 8 {
		if ws[r+1] == 0 && ws[r+2] == 0 && ws[r+3] == 0 && ws[r+4] == 0 &&
			ws[r+5] == 0 && ws[r+6] == 0 && ws[r+7] == 0 {
			v := int32(ws[r] >> IDCTShift)
			for i := 0; i < 8; i++ {
				out[r+i] = v
			}
			continue
		}
		idct1D(ws[:], r, 1)
		for i := 0; i < 8; i++ {
			out[r+i] = int32(ws[r+i] >> IDCTShift)
		}
	}
}

// idct1D transforms the 8 samples ws[off], ws[off+step], ... in place.
func idct1D(ws []int64, off, step int) {
	// even part
	tmp0 := ws[off]
	tmp1 := ws[off+2*step]
	tmp2 := ws[off+4*step]
	tmp3 := ws[off+6*step]

	tmp10 := tmp0 + tmp2
	tmp11 := tmp0 - tmp2
	tmp13 := tmp1 + tmp3
	tmp12 := imul(tmp1-tmp3, fix1_414213562) - tmp13

	tmp0 = tmp10 + tmp13
	tmp3 = tmp10 - tmp13
	tmp1 = tmp11 + tmp12
	tmp2 = tmp11 - tmp12

	// odd part
	tmp4 := ws[off+step]
	tmp5 := ws[off+3*step]
	tmp6 := ws[off+5*step]
	tmp7 := ws[off+7*step]

	z13 := tmp6 + tmp5
	z10 := tmp6 - tmp5
	z11 := tmp4 + tmp7
	z12 := tmp4 - tmp7

	tmp7 = z11 + z13
	tmp11 = imul(z11-z13, fix1_414213562)
	z5 := imul(z10+z12, fix1_847759065)
	tmp10 = imul(z12, fix1_082392200) - z5
	tmp12 = imul(z10, -fix2_613125930) + z5

	tmp6 = tmp12 - tmp7
	tmp5 = tmp11 - tmp6
	tmp4 = tmp10 + tmp5

	ws[off] = tmp0 + tmp7
	ws[off+7*step] = tmp0 - tmp7
	ws[off+step] = tmp1 + tmp6
	ws[off+6*step] = tmp1 - tmp6
	ws[off+2*step] = tmp2 + tmp5
	ws[off+5*step] = tmp2 - tmp5
	ws[off+4*step] = tmp3 + tmp4
	ws[off+3*step] = tmp3 - tmp4
}
