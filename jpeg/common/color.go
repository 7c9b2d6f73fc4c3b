package common

import "sync"

// Integer colour conversion tables, built once per process and read-only afterwards.
var (
	lutOnce sync.Once
	lut     struct {
		yr, yg, yb [256]int32 // Y contributions of R, G, B
		vr, vrY    [256]int32 // V = vr[R] + vrY[Y]
		ub, ubY    [256]int32 // U = ub[B] + ubY[Y]
		rv         [256]int32 // R = Y + rv[V]
		gu, gv     [256]int32 // G = Y + gu[U] + gv[V]
		bu         [256]int32 // B = Y + bu[U]
	}
)

// Fixed-point coefficients in thousandths
const (
	coefYR = 299
	coefYG = 587
	coefYB = 114
	coefVR = 711
	coefUB = 560
	coefRV = 1402
	coefGU = 344
	coefGV = 714
	coefBU = 1772
)

func initLUT() {
	for i := int32(0); i < 256; i++ {
		lut.yr[i] = i * coefYR / 1000
		lut.yg[i] = i * coefYG / 1000
		lut.yb[i] = i * coefYB / 1000
		lut.vr[i] = i * coefVR / 1000
		lut.vrY[i] = 128 - i*coefVR/1000
		lut.ub[i] = i * coefUB / 1000
		lut.ubY[i] = 128 - i*coefUB/1000
		lut.rv[i] = (i - 128) * coefRV / 1000
		lut.gu[i] = (128 - i) * coefGU / 1000
		lut.gv[i] = (128 - i) * coefGV / 1000
		lut.bu[i] = (i - 128) * coefBU / 1000
	}
}

// Clamp8 clamps v to [0, 255].
func Clamp8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// RGBToYCbCr converts one pixel using the lookup tables.
func RGBToYCbCr(r, g, b uint8) (y, cb, cr uint8) {
	lutOnce.Do(initLUT)
	y = Clamp8(lut.yr[r] + lut.yg[g] + lut.yb[b])
	cb = Clamp8(lut.ub[b] + lut.ubY[y])
	cr = Clamp8(lut.vr[r] + lut.vrY[y])
	return y, cb, cr
}

// YCbCrToRGB converts one pixel using the lookup tables.
func YCbCrToRGB(y, cb, cr uint8) (r, g, b uint8) {
	lutOnce.Do(initLUT)
	yy := int32(y)
	r = Clamp8(yy + lut.rv[cr])
	g = Clamp8(yy + lut.gu[cb] + lut.gv[cr])
	b = Clamp8(yy + lut.bu[cb])
	return r, g, b
}

// YUYVToRGB converts packed Y0 U Y1 V pixel pairs to interleaved RGB.
// dst must hold len(src)/2*3 bytes.
func YUYVToRGB(dst, src []byte) {
	for i, j := 0, 0; i+3 < len(src); i, j = i+4, j+6 {
		u, v := src[i+1], src[i+3]
		dst[j], dst[j+1], dst[j+2] = YCbCrToRGB(src[i], u, v)
		dst[j+3], dst[j+4], dst[j+5] = YCbCrToRGB(src[i+2], u, v)
	}
}

// RGBToYUYV converts interleaved RGB to packed YUYV, averaging the chroma of
// each horizontal pixel pair. The pixel count must be even.
func RGBToYUYV(dst, src []byte) {
	for i, j := 0, 0; i+5 < len(src); i, j = i+6, j+4 {
		y0, u0, v0 := RGBToYCbCr(src[i], src[i+1], src[i+2])
		y1, u1, v1 := RGBToYCbCr(src[i+3], src[i+4], src[i+5])
		dst[j] = y0
		dst[j+1] = uint8((uint16(u0) + uint16(u1) + 1) >> 1)
		dst[j+2] = y1
		dst[j+3] = uint8((uint16(v0) + uint16(v1) + 1) >> 1)
	}
}
