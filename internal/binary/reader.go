package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrShortRead is returned when a read runs past the end of the data.
var ErrShortRead = errors.New("binary: short read")

// Reader reads big-endian fields from an in-memory buffer with random access.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Seek moves to an absolute position.
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return fmt.Errorf("%w: seek to %d (length %d)", ErrShortRead, pos, len(r.data))
	}
	r.pos = pos
	return nil
}

// Len returns the total length of the underlying data.
func (r *Reader) Len() int {
	return len(r.data)
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrShortRead
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, fmt.Errorf("%w: need %d bytes at %d (length %d)", ErrShortRead, n, r.pos, len(r.data))
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadUint reads a width-byte big-endian unsigned integer (width 1..8).
func (r *Reader) ReadUint(width int) (uint64, error) {
	if width < 1 || width > 8 {
		return 0, fmt.Errorf("binary: invalid width %d", width)
	}
	b, err := r.ReadBytes(width)
	if err != nil {
		return 0, err
	}
	var buf [8]byte
	copy(buf[8-width:], b)
	return binary.BigEndian.Uint64(buf[:]), nil
}

// ReadF64 reads a big-endian IEEE-754 double.
func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadUint(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadF32 reads a big-endian IEEE-754 single.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadUint(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

// ReadUTF16 reads n big-endian UTF-16 code units.
func (r *Reader) ReadUTF16(n int) ([]uint16, error) {
	b, err := r.ReadBytes(2 * n)
	if err != nil {
		return nil, err
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(b[2*i:])
	}
	return units, nil
}
