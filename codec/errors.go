package codec

import "errors"

var (
	// ErrCodecNotFound is returned when a codec is not found in the registry
	ErrCodecNotFound = errors.New("codec not found")

	// ErrInvalidQuality is returned when quality parameter is invalid
	ErrInvalidQuality = errors.New("invalid quality (must be 0-100)")

	// ErrUnsupportedFormat is returned when the codec cannot handle the pixel format
	ErrUnsupportedFormat = errors.New("unsupported format")
)
