package standard

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// BufferSize is the size of the intermediate buffer between the codec and the
// caller's io.Reader or io.Writer.
const BufferSize = 4096

// ErrInvalidMarker is returned when a marker was expected but the stream
// holds something else.
var ErrInvalidMarker = errors.New("invalid JPEG marker")

type byteSource interface {
	io.Reader
	io.ByteReader
}

// Reader provides utilities for reading JPEG data
type Reader struct {
	r   byteSource
	buf [2]byte
}

// NewReader creates a new JPEG reader. Sources that are not already
// byte-addressable are buffered with BufferSize bytes.
func NewReader(r io.Reader) *Reader {
	if src, ok := r.(byteSource); ok {
		return &Reader{r: src}
	}
	return &Reader{r: bufio.NewReaderSize(r, BufferSize)}
}

// NewBytesReader creates a JPEG reader over an in-memory stream.
func NewBytesReader(data []byte) *Reader {
	return &Reader{r: bytes.NewReader(data)}
}

// ReadByte reads a single byte
func (r *Reader) ReadByte() (byte, error) {
	return r.r.ReadByte()
}

// ReadUint16 reads a 16-bit big-endian value
func (r *Reader) ReadUint16() (uint16, error) {
	if _, err := io.ReadFull(r.r, r.buf[:2]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(r.buf[:2]), nil
}

// ReadMarker reads the next JPEG marker, skipping 0xFF fill bytes.
func (r *Reader) ReadMarker() (uint16, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if b != 0xFF {
		return 0, ErrInvalidMarker
	}

	for {
		b, err = r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b != 0xFF {
			break
		}
	}

	// 0x00 is a stuffed byte (escaped 0xFF in data), not a marker
	if b == 0x00 {
		return 0, ErrInvalidMarker
	}

	return uint16(0xFF00) | uint16(b), nil
}

// ReadLength reads a segment length field and returns the number of payload
// bytes that follow it.
func (r *Reader) ReadLength() (int, error) {
	length, err := r.ReadUint16()
	if err != nil {
		return 0, err
	}
	// Length includes itself (2 bytes)
	if length < 2 {
		return 0, io.ErrUnexpectedEOF
	}
	return int(length) - 2, nil
}

// ReadSegment reads a segment with its length
// Returns the segment data (without the length field)
func (r *Reader) ReadSegment() ([]byte, error) {
	n, err := r.ReadLength()
	if err != nil {
		return nil, err
	}

	data := make([]byte, n)
	if _, err := io.ReadFull(r.r, data); err != nil {
		return nil, err
	}
	return data, nil
}

// ReadFull reads exactly len(buf) bytes
func (r *Reader) ReadFull(buf []byte) error {
	_, err := io.ReadFull(r.r, buf)
	return err
}

// Skip skips n bytes
func (r *Reader) Skip(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, r.r, int64(n))
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}
