package common

// aanFDCTScale[k] is sqrt(2)*cos(k*pi/16) for k > 0 (1 for k == 0), times
// 2*sqrt(2) so that a row and a column factor together carry the 1/8 of the
// forward transform.
var aanFDCTScale = [8]float32{
	1.0 * 2.828427125,
	1.387039845 * 2.828427125,
	1.306562965 * 2.828427125,
	1.175875602 * 2.828427125,
	1.0 * 2.828427125,
	0.785694958 * 2.828427125,
	0.541196100 * 2.828427125,
	0.275899379 * 2.828427125,
}

// FDCTTable holds reciprocal quantizer steps in natural order with the AAN
// output scale folded in.
type FDCTTable [64]float32

// NewFDCTTable builds the encoder table for a quantization table in natural order.
func NewFDCTTable(q *[64]uint8) *FDCTTable {
	t := &FDCTTable{}
	for n := 0; n < 64; n++ {
		t[n] = 1 / (float32(q[n]) * aanFDCTScale[n>>3] * aanFDCTScale[n&7])
	}
	return t
}

// FDCT runs the separable float AAN forward transform on a level-shifted
// block in natural order, rows first. The result is scaled; Quantize removes
// the scale.
func FDCT(block *[64]float32) {
	for r := 0; r < 64; r += 8 {
		fdct1D(block[:], r, 1)
	}
	for c := 0; c < 8; c++ {
		fdct1D(block[:], c, 8)
	}
}

func fdct1D(d []float32, off, step int) {
	d0, d1, d2, d3 := d[off], d[off+step], d[off+2*step], d[off+3*step]
	d4, d5, d6, d7 := d[off+4*step], d[off+5*step], d[off+6*step], d[off+7*step]

	tmp0 := d0 + d7
	tmp7 := d0 - d7
	tmp1 := d1 + d6
	tmp6 := d1 - d6
	tmp2 := d2 + d5
	tmp5 := d2 - d5
	tmp3 := d3 + d4
	tmp4 := d3 - d4

	// even part
	tmp10 := tmp0 + tmp3
	tmp13 := tmp0 - tmp3
	tmp11 := tmp1 + tmp2
	tmp12 := tmp1 - tmp2

	d[off] = tmp10 + tmp11
	d[off+4*step] = tmp10 - tmp11

	z1 := (tmp12 + tmp13) * 0.707106781
	d[off+2*step] = tmp13 + z1
	d[off+6*step] = tmp13 - z1

	// odd part
	tmp10 = tmp4 + tmp5
	tmp11 = tmp5 + tmp6
	tmp12 = tmp6 + tmp7

	z5 := (tmp10 - tmp12) * 0.382683433
	z2 := tmp10*0.541196100 + z5
	z4 := tmp12*1.306562965 + z5
	z3 := tmp11 * 0.707106781

	z11 := tmp7 + z3
	z13 := tmp7 - z3

	d[off+5*step] = z13 + z2
	d[off+3*step] = z13 - z2
	d[off+step] = z11 + z4
	d[off+7*step] = z11 - z4
}

// Quantize divides a transformed block by its quantizer steps, rounding half
// away from zero, and stores the result in zigzag order.
func Quantize(block *[64]float32, t *FDCTTable, out *[64]int32) {
	for n := 0; n < 64; n++ {
		v := block[n] * t[n]
		var q int32
		if v < 0 {
			q = int32(v - 0.5)
		} else {
			q = int32(v + 0.5)
		}
		out[NaturalToZigZag[n]] = q
	}
}
