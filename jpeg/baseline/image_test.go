package baseline

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cocosip/go-dicom-jpeg/jpeg/common"
)

func TestImageHelpers(t *testing.T) {
	img := &Image{
		Pix: []byte{
			10, 128, 20, 128, 30, 90, 40, 200,
			50, 128, 60, 128, 70, 90, 80, 200,
		},
		Width:    4,
		Height:   2,
		Sampling: Sampling422,
	}

	if got := img.Stride(); got != 8 {
		t.Errorf("Stride = %d, want 8", got)
	}

	if got, want := img.Gray(), []byte{10, 20, 30, 40, 50, 60, 70, 80}; !bytes.Equal(got, want) {
		t.Errorf("Gray = %v, want %v", got, want)
	}

	rgb := img.RGB()
	if len(rgb) != 4*2*3 {
		t.Fatalf("RGB length = %d", len(rgb))
	}
	// neutral chroma gives gray pixels
	if rgb[0] != 10 || rgb[1] != 10 || rgb[2] != 10 {
		t.Errorf("RGB of first pixel = %v, want [10 10 10]", rgb[:3])
	}
	// Cr 200 pushes red up and Cb 90 pulls blue down
	if r, b := rgb[6], rgb[8]; r <= 30 || b >= 30 {
		t.Errorf("RGB of third pixel = %v", rgb[6:9])
	}

	ycc := img.YCbCr()
	if ycc.Rect.Dx() != 4 || ycc.Rect.Dy() != 2 {
		t.Fatalf("YCbCr bounds = %v", ycc.Rect)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			c := ycc.YCbCrAt(x, y)
			p := y*img.Stride() + x*2
			wantCb, wantCr := img.Pix[p-(x&1)*2+1], img.Pix[p-(x&1)*2+3]
			if c.Y != img.Pix[p] || c.Cb != wantCb || c.Cr != wantCr {
				t.Errorf("YCbCrAt(%d, %d) = %v, want Y %d Cb %d Cr %d", x, y, c, img.Pix[p], wantCb, wantCr)
			}
		}
	}
}

func TestNewImageRGB(t *testing.T) {
	width, height := 32, 16
	src := gradientRGB(width, height)

	img, err := NewImageRGB(src, width, height)
	if err != nil {
		t.Fatalf("NewImageRGB failed: %v", err)
	}
	if img.Stride() != width*2 || img.Components != 3 || img.Sampling != Sampling422 {
		t.Fatalf("unexpected image: %dx%d stride %d, %d components, %v",
			img.Width, img.Height, img.Stride(), img.Components, img.Sampling)
	}

	// RGB -> YUYV -> RGB on a smooth gradient
	back := img.RGB()
	maxErr := 0
	for i := range src {
		maxErr = max(maxErr, absDiff(src[i], back[i]))
	}
	t.Logf("Maximum channel error: %d", maxErr)
	if maxErr > 12 {
		t.Errorf("Maximum error too large: %d (expected <= 12)", maxErr)
	}

	// luma agrees with what the decoder produces for the same picture
	data, err := Encode(src, width, height, 3, 100)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := DecodeYUYV(data)
	if err != nil {
		t.Fatalf("DecodeYUYV failed: %v", err)
	}
	maxErr = 0
	for i := 0; i < len(img.Pix); i += 2 {
		maxErr = max(maxErr, absDiff(img.Pix[i], decoded.Pix[i]))
	}
	t.Logf("Maximum luma difference to decoder: %d", maxErr)
	if maxErr > 8 {
		t.Errorf("Luma differs from decoder by %d (expected <= 8)", maxErr)
	}
}

func TestNewImageRGBInvalid(t *testing.T) {
	tests := []struct {
		name          string
		rgb           []byte
		width, height int
	}{
		{"odd width", make([]byte, 3*4*3), 3, 4},
		{"zero height", nil, 4, 0},
		{"short buffer", make([]byte, 10), 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewImageRGB(tt.rgb, tt.width, tt.height); !errors.Is(err, common.ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestSamplingString(t *testing.T) {
	tests := []struct {
		s      Sampling
		name   string
		blocks int
	}{
		{SamplingGray, "gray", 1},
		{Sampling444, "4:4:4", 3},
		{Sampling422, "4:2:2", 4},
		{Sampling420, "4:2:0", 6},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.s.BlocksPerMCU(); got != tt.blocks {
			t.Errorf("%s: BlocksPerMCU() = %d, want %d", tt.name, got, tt.blocks)
		}
	}
	if got := Sampling(9).String(); got != "Sampling(9)" {
		t.Errorf("String() = %q", got)
	}
}

func TestBlockOffset(t *testing.T) {
	tests := []struct {
		blocks int
		want   []int
	}{
		{1, []int{0}},
		{3, []int{0, 256, 320}},
		{4, []int{0, 64, 256, 320}},
		{6, []int{0, 64, 128, 192, 256, 320}},
	}
	for _, tt := range tests {
		for b, want := range tt.want {
			if got := blockOffset(b, tt.blocks); got != want {
				t.Errorf("blockOffset(%d, %d) = %d, want %d", b, tt.blocks, got, want)
			}
		}
	}
}
