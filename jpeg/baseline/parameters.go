package baseline

import (
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
)

// DefaultQuality is the quality the DICOM codecs encode with when none is given.
const DefaultQuality = 85

// Ensure JPEGBaselineParameters implements codec.Parameters
var _ codec.Parameters = (*JPEGBaselineParameters)(nil)

// JPEGBaselineParameters contains parameters for JPEG Baseline compression
type JPEGBaselineParameters struct {
	// Quality controls the JPEG compression quality (1-100)
	// - 100: Quantization tables of all ones
	// - 85:  High quality (default)
	// - 50:  Standard tables unscaled
	// - 1:   Lowest quality, maximum compression
	Quality int

	// internal storage for compatibility with generic parameter interface
	params map[string]interface{}
}

// NewBaselineParameters creates a new JPEGBaselineParameters with default values
func NewBaselineParameters() *JPEGBaselineParameters {
	return &JPEGBaselineParameters{
		Quality: DefaultQuality,
		params:  make(map[string]interface{}),
	}
}

// GetParameter retrieves a parameter by name (implements codec.Parameters)
func (p *JPEGBaselineParameters) GetParameter(name string) interface{} {
	if name == "quality" {
		return p.Quality
	}
	return p.params[name]
}

// SetParameter sets a parameter value (implements codec.Parameters)
func (p *JPEGBaselineParameters) SetParameter(name string, value interface{}) {
	if name == "quality" {
		if v, ok := value.(int); ok {
			p.Quality = v
		}
		return
	}
	if p.params == nil {
		p.params = make(map[string]interface{})
	}
	p.params[name] = value
}

// Validate resets an out-of-range quality to DefaultQuality
func (p *JPEGBaselineParameters) Validate() error {
	if p.Quality < 1 || p.Quality > 100 {
		p.Quality = DefaultQuality
	}
	return nil
}

// WithQuality sets the quality and returns the parameters for chaining
func (p *JPEGBaselineParameters) WithQuality(quality int) *JPEGBaselineParameters {
	p.Quality = quality
	return p
}
