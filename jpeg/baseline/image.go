package baseline

import (
	"fmt"
	"image"

	"github.com/cocosip/go-dicom-jpeg/jpeg/common"
)

// Image is a decoded frame in packed YUYV 4:2:2: two bytes per pixel, a row
// stride of Width*2, and every subsampled source upsampled by replication.
type Image struct {
	Pix           []byte
	Width, Height int
	Components    int // components declared by the frame header
	Sampling      Sampling
}

// NewImageRGB converts interleaved 8-bit RGB to a YUYV image. The two pixels
// of each pair share the average of their chroma, so width must be even.
func NewImageRGB(rgb []byte, width, height int) (*Image, error) {
	if width <= 0 || height <= 0 || width&1 != 0 || len(rgb) < width*height*3 {
		return nil, fmt.Errorf("%w: %dx%d RGB image from %d bytes", common.ErrInvalidArgument, width, height, len(rgb))
	}
	img := &Image{
		Pix:        make([]byte, width*height*2),
		Width:      width,
		Height:     height,
		Components: 3,
		Sampling:   Sampling422,
	}
	common.RGBToYUYV(img.Pix, rgb[:width*height*3])
	return img, nil
}

// Stride returns the number of bytes per row.
func (m *Image) Stride() int {
	return m.Width * 2
}

// RGB converts the image to interleaved 8-bit RGB.
func (m *Image) RGB() []byte {
	rgb := make([]byte, m.Width*m.Height*3)
	common.YUYVToRGB(rgb, m.Pix)
	return rgb
}

// Gray returns the luma plane.
func (m *Image) Gray() []byte {
	gray := make([]byte, m.Width*m.Height)
	for i := range gray {
		gray[i] = m.Pix[i*2]
	}
	return gray
}

// YCbCr copies the image into an image.YCbCr with 4:2:2 subsampling, for
// callers that work with the standard image packages.
func (m *Image) YCbCr() *image.YCbCr {
	img := image.NewYCbCr(image.Rect(0, 0, m.Width, m.Height), image.YCbCrSubsampleRatio422)
	for y := 0; y < m.Height; y++ {
		src := m.Pix[y*m.Stride():]
		yRow := img.Y[y*img.YStride:]
		cRow := y * img.CStride
		for x := 0; x < m.Width; x += 2 {
			yRow[x] = src[x*2]
			yRow[x+1] = src[x*2+2]
			img.Cb[cRow+x/2] = src[x*2+1]
			img.Cr[cRow+x/2] = src[x*2+3]
		}
	}
	return img
}
