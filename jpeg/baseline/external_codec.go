package baseline

import (
	"fmt"

	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"

	"github.com/cocosip/go-dicom-jpeg/jpeg/common"
)

var _ codec.Codec = (*BaselineCodec)(nil)

// BaselineCodec implements the external codec.Codec interface for JPEG Baseline (Process 1)
type BaselineCodec struct {
	transferSyntax *transfer.Syntax
	quality        int
}

// NewBaselineCodec creates a new JPEG Baseline codec
// quality: 1-100, where 100 is best quality (default 85)
func NewBaselineCodec(quality int) *BaselineCodec {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	return &BaselineCodec{
		transferSyntax: transfer.JPEGBaseline8Bit,
		quality:        quality,
	}
}

// Name returns the codec name
func (c *BaselineCodec) Name() string {
	return fmt.Sprintf("JPEG Baseline (Quality %d)", c.quality)
}

// TransferSyntax returns the transfer syntax this codec handles
func (c *BaselineCodec) TransferSyntax() *transfer.Syntax {
	return c.transferSyntax
}

// GetDefaultParameters returns the default codec parameters
func (c *BaselineCodec) GetDefaultParameters() codec.Parameters {
	return NewBaselineParameters().WithQuality(c.quality)
}

// encodeQuality resolves the quality for one Encode call
func (c *BaselineCodec) encodeQuality(parameters codec.Parameters) int {
	if parameters == nil {
		return c.quality
	}

	// Try to use typed parameters if provided
	baselineParams, ok := parameters.(*JPEGBaselineParameters)
	if !ok {
		// Fallback: create from generic parameters
		baselineParams = NewBaselineParameters().WithQuality(c.quality)
		if q := parameters.GetParameter("quality"); q != nil {
			if qInt, ok := q.(int); ok {
				baselineParams.Quality = qInt
			}
		}
	}
	baselineParams.Validate()
	return baselineParams.Quality
}

// Encode encodes pixel data to JPEG Baseline format
func (c *BaselineCodec) Encode(oldPixelData imagetypes.PixelData, newPixelData imagetypes.PixelData, parameters codec.Parameters) error {
	if oldPixelData == nil || newPixelData == nil {
		return fmt.Errorf("source and destination PixelData cannot be nil")
	}

	// Get frame info
	frameInfo := oldPixelData.GetFrameInfo()
	if frameInfo == nil {
		return fmt.Errorf("failed to get frame info from source pixel data")
	}
	if frameInfo.BitsAllocated != 8 || frameInfo.BitsStored == 0 || frameInfo.BitsStored > 8 {
		return fmt.Errorf("%w: JPEG Baseline needs 8-bit samples, got BitsAllocated=%d BitsStored=%d",
			common.ErrDepthMismatch, frameInfo.BitsAllocated, frameInfo.BitsStored)
	}

	width := int(frameInfo.Width)
	height := int(frameInfo.Height)
	components := int(frameInfo.SamplesPerPixel)
	if components != 1 && components != 3 {
		return fmt.Errorf("%w: unsupported SamplesPerPixel %d", common.ErrInvalidArgument, components)
	}

	quality := c.encodeQuality(parameters)

	// Process all frames
	frameCount := oldPixelData.FrameCount()
	for frameIndex := 0; frameIndex < frameCount; frameIndex++ {
		frameData, err := oldPixelData.GetFrame(frameIndex)
		if err != nil {
			return fmt.Errorf("failed to get frame %d: %w", frameIndex, err)
		}
		if len(frameData) == 0 {
			return fmt.Errorf("frame %d pixel data is empty", frameIndex)
		}

		if components == 3 && frameInfo.PlanarConfiguration == 1 {
			frameData = interleavePlanes(frameData, width*height)
		}
		// The DCT works on unsigned samples
		if frameInfo.PixelRepresentation == 1 {
			frameData = common.ShiftSignedToUnsigned8(frameData, int(frameInfo.BitsStored))
		}

		jpegData, err := Encode(frameData, width, height, components, quality)
		if err != nil {
			return fmt.Errorf("JPEG Baseline encode failed for frame %d: %w", frameIndex, err)
		}

		if err := newPixelData.AddFrame(jpegData); err != nil {
			return fmt.Errorf("failed to add encoded frame %d: %w", frameIndex, err)
		}
	}

	return nil
}

// Decode decodes JPEG Baseline data to uncompressed pixel data
func (c *BaselineCodec) Decode(oldPixelData imagetypes.PixelData, newPixelData imagetypes.PixelData, parameters codec.Parameters) error {
	if oldPixelData == nil || newPixelData == nil {
		return fmt.Errorf("source and destination PixelData cannot be nil")
	}

	frameInfo := oldPixelData.GetFrameInfo()
	if frameInfo == nil {
		return fmt.Errorf("failed to get frame info from source pixel data")
	}

	// Frames must match the declared size
	decoder := &Decoder{Width: int(frameInfo.Width), Height: int(frameInfo.Height)}
	var img Image

	frameCount := oldPixelData.FrameCount()
	for frameIndex := 0; frameIndex < frameCount; frameIndex++ {
		frameData, err := oldPixelData.GetFrame(frameIndex)
		if err != nil {
			return fmt.Errorf("failed to get frame %d: %w", frameIndex, err)
		}
		if len(frameData) == 0 {
			return fmt.Errorf("frame %d pixel data is empty", frameIndex)
		}

		// img.Pix is reused between frames of the same size
		if err := decoder.DecodeBytes(frameData, &img); err != nil {
			return fmt.Errorf("JPEG Baseline decode failed for frame %d: %w", frameIndex, err)
		}

		var pixelData []byte
		switch frameInfo.SamplesPerPixel {
		case 1:
			pixelData = img.Gray()
		case 3:
			pixelData = img.RGB()
		default:
			return fmt.Errorf("%w: unsupported SamplesPerPixel %d", common.ErrInvalidArgument, frameInfo.SamplesPerPixel)
		}

		if frameInfo.PixelRepresentation == 1 {
			pixelData = common.ShiftUnsignedToSigned8(pixelData, int(frameInfo.BitsStored))
		}

		if err := newPixelData.AddFrame(pixelData); err != nil {
			return fmt.Errorf("failed to add decoded frame %d: %w", frameIndex, err)
		}
	}

	return nil
}

// interleavePlanes converts RRR..GGG..BBB.. to RGBRGB..
func interleavePlanes(data []byte, pixels int) []byte {
	if len(data) < pixels*3 {
		return data
	}
	out := make([]byte, pixels*3)
	for i := 0; i < pixels; i++ {
		out[i*3] = data[i]
		out[i*3+1] = data[pixels+i]
		out[i*3+2] = data[2*pixels+i]
	}
	return out
}

// RegisterBaselineCodec registers the JPEG Baseline codec with the global registry
func RegisterBaselineCodec(quality int) {
	registry := codec.GetGlobalRegistry()
	baselineCodec := NewBaselineCodec(quality)
	registry.RegisterCodec(transfer.JPEGBaseline8Bit, baselineCodec)
}

func init() {
	RegisterBaselineCodec(DefaultQuality)
}
