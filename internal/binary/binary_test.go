package binary

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestWriterWriteUint(t *testing.T) {
	tests := []struct {
		v     uint64
		width int
		want  []byte
	}{
		{0x01, 1, []byte{0x01}},
		{0xff, 1, []byte{0xff}},
		{0x0102, 2, []byte{0x01, 0x02}},
		{0x01020304, 4, []byte{0x01, 0x02, 0x03, 0x04}},
		{0x0102030405060708, 8, []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		// high bytes beyond width are dropped
		{0x1234, 1, []byte{0x34}},
	}

	for _, tt := range tests {
		w := NewWriter(0)
		w.WriteUint(tt.v, tt.width)
		if !bytes.Equal(w.Bytes(), tt.want) {
			t.Errorf("WriteUint(%#x, %d) = %x, want %x", tt.v, tt.width, w.Bytes(), tt.want)
		}
	}
}

func TestWriterFloats(t *testing.T) {
	w := NewWriter(12)
	w.WriteF32(1.5)
	w.WriteF64(-2.25)
	want := []byte{0x3f, 0xc0, 0x00, 0x00, 0xc0, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("floats = %x, want %x", w.Bytes(), want)
	}
	if w.Len() != 12 {
		t.Errorf("Len = %d, want 12", w.Len())
	}
}

func TestWriterUTF16(t *testing.T) {
	w := NewWriter(0)
	w.WriteUTF16([]uint16{0x0061, 0x00e9, 0xd83d, 0xde00})
	want := []byte{0x00, 0x61, 0x00, 0xe9, 0xd8, 0x3d, 0xde, 0x00}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("WriteUTF16 = %x, want %x", w.Bytes(), want)
	}
}

func TestReaderRoundTrip(t *testing.T) {
	w := NewWriter(0)
	w.Byte(0xaa)
	w.WriteUint(0xbeef, 2)
	w.WriteF64(math.Pi)
	w.WriteF32(0.5)
	w.WriteUTF16([]uint16{0x263a})
	w.WriteString("ok")

	r := NewReader(w.Bytes())
	b, err := r.ReadByte()
	if err != nil || b != 0xaa {
		t.Fatalf("ReadByte = %#x, %v", b, err)
	}
	u, err := r.ReadUint(2)
	if err != nil || u != 0xbeef {
		t.Fatalf("ReadUint = %#x, %v", u, err)
	}
	f, err := r.ReadF64()
	if err != nil || f != math.Pi {
		t.Fatalf("ReadF64 = %v, %v", f, err)
	}
	f32, err := r.ReadF32()
	if err != nil || f32 != 0.5 {
		t.Fatalf("ReadF32 = %v, %v", f32, err)
	}
	units, err := r.ReadUTF16(1)
	if err != nil || len(units) != 1 || units[0] != 0x263a {
		t.Fatalf("ReadUTF16 = %v, %v", units, err)
	}
	s, err := r.ReadBytes(2)
	if err != nil || string(s) != "ok" {
		t.Fatalf("ReadBytes = %q, %v", s, err)
	}
	if r.Position() != r.Len() {
		t.Errorf("position %d, want %d", r.Position(), r.Len())
	}
	if _, err := r.ReadByte(); !errors.Is(err, ErrShortRead) {
		t.Errorf("expected ErrShortRead, got %v", err)
	}
}

func TestReaderSeek(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	if err := r.Seek(2); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	b, _ := r.ReadByte()
	if b != 3 {
		t.Errorf("after seek got %d, want 3", b)
	}
	if err := r.Seek(4); !errors.Is(err, ErrShortRead) {
		t.Errorf("seek past end: got %v", err)
	}
	if _, err := r.ReadUint(9); err == nil {
		t.Error("expected error for width 9")
	}
}
