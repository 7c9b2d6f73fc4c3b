package baseline

import (
	"github.com/cocosip/go-dicom-jpeg/codec"
)

// Codec implements the codec.Codec interface for JPEG Baseline
type Codec struct{}

// NewCodec creates a new JPEG Baseline codec
func NewCodec() *Codec {
	return &Codec{}
}

// Encode encodes pixel data using JPEG Baseline
func (c *Codec) Encode(params codec.EncodeParams) ([]byte, error) {
	if params.BitDepth != 0 && params.BitDepth != 8 {
		return nil, codec.ErrUnsupportedFormat
	}

	quality := DefaultQuality
	if params.Options != nil {
		if err := params.Options.Validate(); err != nil {
			return nil, err
		}
		switch opts := params.Options.(type) {
		case *Options:
			if opts.Quality != 0 {
				quality = opts.Quality
			}
		case *codec.BaseOptions:
			if opts.Quality != 0 {
				quality = opts.Quality
			}
		}
	}

	return Encode(
		params.PixelData,
		params.Width,
		params.Height,
		params.Components,
		quality,
	)
}

// Decode decodes JPEG Baseline data
func (c *Codec) Decode(data []byte) (*codec.DecodeResult, error) {
	pixelData, width, height, components, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return &codec.DecodeResult{
		PixelData:  pixelData,
		Width:      width,
		Height:     height,
		Components: components,
		BitDepth:   8, // Baseline is always 8-bit
	}, nil
}

// UID returns the DICOM Transfer Syntax UID for JPEG Baseline
func (c *Codec) UID() string {
	return "1.2.840.10008.1.2.4.50"
}

// Name returns the human-readable name
func (c *Codec) Name() string {
	return "jpeg-baseline"
}

// Options contains encoding options for JPEG Baseline
type Options struct {
	codec.BaseOptions
}

// Register registers this codec with the local registry
func init() {
	codec.Register(NewCodec())
}
