package codec_test

import (
	"errors"
	"testing"

	"github.com/cocosip/go-dicom-jpeg/codec"
	_ "github.com/cocosip/go-dicom-jpeg/jpeg/baseline"
)

func TestCodecRegistry(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		wantFound bool
	}{
		{"Get baseline by UID", "1.2.840.10008.1.2.4.50", true},
		{"Get baseline by name", "jpeg-baseline", true},
		{"Get lossless by UID", "1.2.840.10008.1.2.4.70", false},
		{"Get non-existent codec", "non-existent", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := codec.Get(tt.key)

			if !tt.wantFound {
				if !errors.Is(err, codec.ErrCodecNotFound) {
					t.Errorf("Get(%q) error = %v, want %v", tt.key, err, codec.ErrCodecNotFound)
				}
				return
			}

			if err != nil {
				t.Fatalf("Get(%q) unexpected error: %v", tt.key, err)
			}
			if c.UID() != "1.2.840.10008.1.2.4.50" {
				t.Errorf("Get(%q).UID() = %q", tt.key, c.UID())
			}
			if c.Name() != "jpeg-baseline" {
				t.Errorf("Get(%q).Name() = %q", tt.key, c.Name())
			}
		})
	}
}

func TestListCodecs(t *testing.T) {
	codecs := codec.List()

	found := false
	for _, c := range codecs {
		if c.UID() == "1.2.840.10008.1.2.4.50" {
			found = true
		}
	}
	if !found {
		t.Error("List() did not include JPEG Baseline codec")
	}
}

type fakeCodec struct{ name, uid string }

func (f *fakeCodec) Encode(codec.EncodeParams) ([]byte, error) {
	return nil, nil
}

func (f *fakeCodec) Decode([]byte) (*codec.DecodeResult, error) {
	return nil, nil
}

func (f *fakeCodec) UID() string {
	return f.uid
}

func (f *fakeCodec) Name() string {
	return f.name
}

func TestRegistryOrderAndReplace(t *testing.T) {
	r := codec.NewRegistry()
	r.Register(&fakeCodec{"b", "1.2"})
	r.Register(&fakeCodec{"a", "1.1"})
	r.Register(&fakeCodec{"c", "1.2"}) // replaces "b" for UID 1.2

	list := r.List()
	if len(list) != 3 || list[0].Name() != "a" || list[2].Name() != "c" {
		t.Errorf("List() order wrong: %d codecs", len(list))
	}
	if c, _ := r.Get("1.2"); c.Name() != "c" {
		t.Errorf("Get(1.2) = %q, want c", c.Name())
	}
}

func TestBaselineCodecEncodeDecode(t *testing.T) {
	c, err := codec.Get("1.2.840.10008.1.2.4.50")
	if err != nil {
		t.Fatalf("Failed to get baseline codec: %v", err)
	}

	tests := []struct {
		name           string
		components     int
		wantComponents int
		options        codec.Options
	}{
		// the encoder always writes a YCbCr frame
		{"gray default quality", 1, 3, nil},
		{"rgb quality 95", 3, 3, &codec.BaseOptions{Quality: 95}},
	}

	width, height := 64, 48
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pixelData := make([]byte, width*height*tt.components)
			for i := range pixelData {
				pixelData[i] = byte(i % 251)
			}

			compressed, err := c.Encode(codec.EncodeParams{
				PixelData:  pixelData,
				Width:      width,
				Height:     height,
				Components: tt.components,
				BitDepth:   8,
				Options:    tt.options,
			})
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			t.Logf("Compressed size: %d bytes", len(compressed))

			result, err := c.Decode(compressed)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if result.Width != width || result.Height != height {
				t.Errorf("Size = %dx%d, want %dx%d", result.Width, result.Height, width, height)
			}
			if result.Components != tt.wantComponents {
				t.Errorf("Components = %d, want %d", result.Components, tt.wantComponents)
			}
			if result.BitDepth != 8 {
				t.Errorf("BitDepth = %d, want 8", result.BitDepth)
			}
		})
	}
}

func TestBaselineCodecRejects(t *testing.T) {
	c, err := codec.Get("jpeg-baseline")
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Encode(codec.EncodeParams{PixelData: make([]byte, 64), Width: 8, Height: 8, Components: 1, BitDepth: 12})
	if !errors.Is(err, codec.ErrUnsupportedFormat) {
		t.Errorf("12-bit: got %v", err)
	}

	_, err = c.Encode(codec.EncodeParams{PixelData: make([]byte, 64), Width: 8, Height: 8, Components: 1,
		Options: &codec.BaseOptions{Quality: 101}})
	if !errors.Is(err, codec.ErrInvalidQuality) {
		t.Errorf("quality 101: got %v", err)
	}
}
