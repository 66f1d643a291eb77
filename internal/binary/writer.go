package binary

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer provides buffered big-endian writing for bplist encoding.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer with room for size bytes.
func NewWriter(size int) *Writer {
	buf := &bytes.Buffer{}
	if size > 0 {
		buf.Grow(size)
	}
	return &Writer{buf: buf}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// WriteString writes the raw bytes of s.
func (w *Writer) WriteString(s string) {
	w.buf.WriteString(s)
}

// WriteUint writes the low width bytes of v, most significant first.
// Width must be between 1 and 8.
func (w *Writer) WriteUint(v uint64, width int) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	w.buf.Write(buf[8-width:])
}

// WriteU64 writes a big-endian uint64 (fixed 8 bytes).
func (w *Writer) WriteU64(v uint64) {
	w.WriteUint(v, 8)
}

// WriteF32 writes the IEEE-754 bits of v big-endian (fixed 4 bytes).
func (w *Writer) WriteF32(v float32) {
	w.WriteUint(uint64(math.Float32bits(v)), 4)
}

// WriteF64 writes the IEEE-754 bits of v big-endian (fixed 8 bytes).
func (w *Writer) WriteF64(v float64) {
	w.WriteU64(math.Float64bits(v))
}

// WriteUTF16 writes UTF-16 code units big-endian.
func (w *Writer) WriteUTF16(units []uint16) {
	var buf [2]byte
	for _, u := range units {
		binary.BigEndian.PutUint16(buf[:], u)
		w.buf.Write(buf[:])
	}
}
