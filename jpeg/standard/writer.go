package standard

import (
	"bufio"
	"encoding/binary"
	"io"
)

// Writer provides utilities for writing JPEG data. Output is collected in a
// BufferSize buffer and handed to the underlying io.Writer only when the
// buffer is full or on Flush. The first write error is sticky.
type Writer struct {
	w   *bufio.Writer
	buf [2]byte
}

// NewWriter creates a new JPEG writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, BufferSize)}
}

// WriteByte writes a single byte
func (w *Writer) WriteByte(b byte) error {
	return w.w.WriteByte(b)
}

// WriteUint16 writes a 16-bit big-endian value
func (w *Writer) WriteUint16(v uint16) error {
	binary.BigEndian.PutUint16(w.buf[:2], v)
	_, err := w.w.Write(w.buf[:2])
	return err
}

// WriteMarker writes a JPEG marker
func (w *Writer) WriteMarker(marker uint16) error {
	return w.WriteUint16(marker)
}

// WriteSegment writes a segment with length
// The length field is automatically calculated and includes itself (2 bytes)
func (w *Writer) WriteSegment(marker uint16, data []byte) error {
	if err := w.WriteMarker(marker); err != nil {
		return err
	}

	// Length includes the 2 bytes for the length field itself
	if err := w.WriteUint16(uint16(len(data) + 2)); err != nil {
		return err
	}

	_, err := w.w.Write(data)
	return err
}

// Write writes raw bytes
func (w *Writer) Write(data []byte) (int, error) {
	return w.w.Write(data)
}

// Flush hands buffered bytes to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
