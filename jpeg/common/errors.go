package common

import "errors"

// Error is a decode or encode failure kind. Code is the stable numeric status
// reported to callers that work with integer results.
type Error struct {
	Code int
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// Decode error kinds, numbered as in the classic baseline decoder status table.
var (
	ErrNoSOI              = &Error{1, "jpeg: missing SOI marker"}
	ErrNot8Bit            = &Error{2, "jpeg: sample precision is not 8 bits"}
	ErrHeightMismatch     = &Error{3, "jpeg: frame height does not match expected height"}
	ErrWidthMismatch      = &Error{4, "jpeg: frame width does not match expected width"}
	ErrBadWidthOrHeight   = &Error{5, "jpeg: width or height is not a multiple of 8"}
	ErrTooManyComponents  = &Error{6, "jpeg: more than 4 components"}
	ErrIllegalHV          = &Error{7, "jpeg: sampling factor greater than 3"}
	ErrQuantTableSelector = &Error{8, "jpeg: table selector out of range"}
	ErrNotYCbCr221111     = &Error{9, "jpeg: unsupported chroma layout"}
	ErrUnknownCIDInScan   = &Error{10, "jpeg: scan references unknown component"}
	ErrNotSequentialDCT   = &Error{11, "jpeg: not a baseline sequential DCT frame"}
	ErrWrongMarker        = &Error{12, "jpeg: restart marker mismatch"}
	ErrNoEOI              = &Error{13, "jpeg: missing EOI marker"}
	ErrBadTables          = &Error{14, "jpeg: malformed table segment"}
	ErrDepthMismatch      = &Error{15, "jpeg: bit depth mismatch"}
)

// ErrInvalidArgument is returned by the encoder for unusable input.
var ErrInvalidArgument = &Error{-1, "jpeg: invalid argument"}

// Code maps err to its integer status: 0 for nil, the kind's code for a wrapped
// *Error and -1 for anything else.
func Code(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return -1
}
