package baseline

import "github.com/cocosip/go-dicom-jpeg/jpeg/common"

// The converters below emit Y0 U Y1 V for every horizontal pixel pair. Frame
// widths are multiples of 8, so a pair never straddles the raster edge.

// convert420 upsamples one chroma sample over a 2x2 luma footprint.
func convert420(out *mcuSamples, pix []byte, x0, y0, width, height int) {
	cb, cr := out[mcuCbOffset:mcuCrOffset], out[mcuCrOffset:]
	for y := 0; y < 16 && y0+y < height; y++ {
		row := pix[((y0+y)*width+x0)*2:]
		for x := 0; x < 16 && x0+x < width; x += 2 {
			yi := (y>>3)*128 + (x>>3)*64 + (y&7)*8 + x&7
			ci := (y>>1)*8 + x>>1
			row[x*2] = common.Clamp8(out[yi])
			row[x*2+1] = common.Clamp8(128 + cb[ci])
			row[x*2+2] = common.Clamp8(out[yi+1])
			row[x*2+3] = common.Clamp8(128 + cr[ci])
		}
	}
}

// convert422 shares each chroma sample between two horizontal pixels.
func convert422(out *mcuSamples, pix []byte, x0, y0, width, height int) {
	cb, cr := out[mcuCbOffset:mcuCrOffset], out[mcuCrOffset:]
	for y := 0; y < 8 && y0+y < height; y++ {
		row := pix[((y0+y)*width+x0)*2:]
		for x := 0; x < 16 && x0+x < width; x += 2 {
			yi := (x>>3)*64 + y*8 + x&7
			ci := y*8 + x>>1
			row[x*2] = common.Clamp8(out[yi])
			row[x*2+1] = common.Clamp8(128 + cb[ci])
			row[x*2+2] = common.Clamp8(out[yi+1])
			row[x*2+3] = common.Clamp8(128 + cr[ci])
		}
	}
}

// convert444 keeps the chroma of the even pixel of each pair.
func convert444(out *mcuSamples, pix []byte, x0, y0, width, height int) {
	cb, cr := out[mcuCbOffset:mcuCrOffset], out[mcuCrOffset:]
	for y := 0; y < 8 && y0+y < height; y++ {
		row := pix[((y0+y)*width+x0)*2:]
		for x := 0; x < 8; x += 2 {
			i := y*8 + x
			row[x*2] = common.Clamp8(out[i])
			row[x*2+1] = common.Clamp8(128 + cb[i])
			row[x*2+2] = common.Clamp8(out[i+1])
			row[x*2+3] = common.Clamp8(128 + cr[i])
		}
	}
}

func convertGray(out *mcuSamples, pix []byte, x0, y0, width, height int) {
	for y := 0; y < 8 && y0+y < height; y++ {
		row := pix[((y0+y)*width+x0)*2:]
		for x := 0; x < 8; x += 2 {
			i := y*8 + x
			row[x*2] = common.Clamp8(out[i])
			row[x*2+1] = 128
			row[x*2+2] = common.Clamp8(out[i+1])
			row[x*2+3] = 128
		}
	}
}
