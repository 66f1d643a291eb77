// Package bplisttest reads bplist00 bytes back for tests. It understands
// exactly the subset the encoder writes and reports structural violations
// as errors.
package bplisttest

import (
	"fmt"
	"math/big"
	"time"
	"unicode/utf16"

	"github.com/wippyai/bplist/internal/binary"
	"github.com/wippyai/bplist/internal/format"
	"github.com/wippyai/bplist/value"
)

// Trailer is the decoded 32-byte trailer.
type Trailer struct {
	SortVersion uint8
	OffsetWidth uint8
	RefWidth    uint8
	NumObjects  uint64
	Root        uint64
	TableOffset uint64
}

// Object is one decoded object.
type Object struct {
	Big    *big.Int
	Bytes  []byte
	Text   string
	Refs   []uint64
	Keys   []uint64
	Int    int64
	Float  float64
	UID    uint64
	Offset int
	Width  int
	Kind   value.Kind
	Marker byte
	Bool   bool
}

// File is a parsed bplist.
type File struct {
	Data    []byte
	Trailer Trailer
	Offsets []uint64
}

// Parse checks the magic and reads the trailer and offset table.
func Parse(data []byte) (*File, error) {
	if len(data) < format.HeaderSize+format.TrailerSize {
		return nil, fmt.Errorf("bplist too short: %d bytes", len(data))
	}
	if string(data[:format.HeaderSize]) != format.Magic {
		return nil, fmt.Errorf("bad magic %q", data[:format.HeaderSize])
	}

	r := binary.NewReader(data)
	if err := r.Seek(len(data) - format.TrailerSize); err != nil {
		return nil, err
	}
	unused, _ := r.ReadBytes(5)
	for _, b := range unused {
		if b != 0 {
			return nil, fmt.Errorf("trailer unused bytes not zero: %x", unused)
		}
	}

	var t Trailer
	t.SortVersion, _ = r.ReadByte()
	t.OffsetWidth, _ = r.ReadByte()
	t.RefWidth, _ = r.ReadByte()
	t.NumObjects, _ = r.ReadUint(8)
	t.Root, _ = r.ReadUint(8)
	t.TableOffset, _ = r.ReadUint(8)

	if t.Root >= t.NumObjects {
		return nil, fmt.Errorf("root %d out of range (count %d)", t.Root, t.NumObjects)
	}
	end := t.TableOffset + t.NumObjects*uint64(t.OffsetWidth)
	if end != uint64(len(data)-format.TrailerSize) {
		return nil, fmt.Errorf("offset table ends at %d, trailer starts at %d", end, len(data)-format.TrailerSize)
	}

	f := &File{Data: data, Trailer: t, Offsets: make([]uint64, t.NumObjects)}
	if err := r.Seek(int(t.TableOffset)); err != nil {
		return nil, err
	}
	for i := range f.Offsets {
		off, err := r.ReadUint(int(t.OffsetWidth))
		if err != nil {
			return nil, err
		}
		if off < uint64(format.HeaderSize) || off >= t.TableOffset {
			return nil, fmt.Errorf("object %d offset %d outside body", i, off)
		}
		f.Offsets[i] = off
	}
	return f, nil
}

// Object decodes the object at index i.
func (f *File) Object(i uint64) (*Object, error) {
	if i >= f.Trailer.NumObjects {
		return nil, fmt.Errorf("ref %d out of range (count %d)", i, f.Trailer.NumObjects)
	}
	r := binary.NewReader(f.Data)
	if err := r.Seek(int(f.Offsets[i])); err != nil {
		return nil, err
	}
	marker, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	obj := &Object{Marker: marker, Offset: int(f.Offsets[i])}
	hi, lo := marker&0xF0, marker&0x0F

	switch {
	case marker == format.TagNull:
		obj.Kind = value.KindNull
	case marker == format.TagFalse || marker == format.TagTrue:
		obj.Kind = value.KindBool
		obj.Bool = marker == format.TagTrue
	case hi == format.TagInteger:
		obj.Kind = value.KindInteger
		obj.Width = 1 << lo
		if err := readInt(r, obj); err != nil {
			return nil, err
		}
	case marker == format.TagDate:
		obj.Kind = value.KindDate
		obj.Width = 8
		obj.Float, err = r.ReadF64()
	case hi == format.TagReal:
		obj.Kind = value.KindReal
		obj.Width = 1 << lo
		switch obj.Width {
		case 4:
			var f32 float32
			f32, err = r.ReadF32()
			obj.Float = float64(f32)
		case 8:
			obj.Float, err = r.ReadF64()
		default:
			return nil, fmt.Errorf("object %d: real width %d", i, obj.Width)
		}
	case hi == format.TagData || hi == format.TagASCIIString:
		obj.Kind = value.KindData
		if hi == format.TagASCIIString {
			obj.Kind = value.KindASCIIString
		}
		n, err := readCount(r, lo)
		if err != nil {
			return nil, err
		}
		obj.Bytes, err = r.ReadBytes(n)
		if err != nil {
			return nil, err
		}
		obj.Text = string(obj.Bytes)
	case hi == format.TagUTF16String:
		obj.Kind = value.KindUTF16String
		n, err := readCount(r, lo)
		if err != nil {
			return nil, err
		}
		units, err := r.ReadUTF16(n)
		if err != nil {
			return nil, err
		}
		obj.Text = string(utf16.Decode(units))
	case hi == format.TagUID:
		obj.Kind = value.KindUID
		obj.Width = int(lo) + 1
		obj.UID, err = r.ReadUint(obj.Width)
	case hi == format.TagArray:
		obj.Kind = value.KindArray
		n, err := readCount(r, lo)
		if err != nil {
			return nil, err
		}
		obj.Refs, err = f.readRefs(r, n)
		if err != nil {
			return nil, err
		}
	case hi == format.TagDictionary:
		obj.Kind = value.KindDictionary
		n, err := readCount(r, lo)
		if err != nil {
			return nil, err
		}
		if obj.Keys, err = f.readRefs(r, n); err != nil {
			return nil, err
		}
		if obj.Refs, err = f.readRefs(r, n); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("object %d: unknown marker %#02x", i, marker)
	}
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// Decode converts the object at i and its children to Go values:
// nil, bool, int64, *big.Int, float64, time.Time, []byte, string,
// value.UID, []any and value.Dict.
func (f *File) Decode(i uint64) (any, error) {
	return f.decode(i, 0)
}

// DecodeRoot decodes the root object.
func (f *File) DecodeRoot() (any, error) {
	return f.Decode(f.Trailer.Root)
}

func (f *File) decode(i uint64, depth int) (any, error) {
	if depth > 1024 {
		return nil, fmt.Errorf("nesting too deep at object %d", i)
	}
	obj, err := f.Object(i)
	if err != nil {
		return nil, err
	}
	switch obj.Kind {
	case value.KindNull:
		return nil, nil
	case value.KindBool:
		return obj.Bool, nil
	case value.KindInteger:
		if obj.Big != nil {
			return obj.Big, nil
		}
		return obj.Int, nil
	case value.KindReal:
		return obj.Float, nil
	case value.KindDate:
		return value.DateSeconds(obj.Float).Time(), nil
	case value.KindData:
		return obj.Bytes, nil
	case value.KindASCIIString, value.KindUTF16String:
		return obj.Text, nil
	case value.KindUID:
		return value.UID(obj.UID), nil
	case value.KindArray:
		out := make([]any, len(obj.Refs))
		for j, ref := range obj.Refs {
			if out[j], err = f.decode(ref, depth+1); err != nil {
				return nil, err
			}
		}
		return out, nil
	case value.KindDictionary:
		out := make(value.Dict, len(obj.Refs))
		for j := range obj.Refs {
			if out[j].Key, err = f.decode(obj.Keys[j], depth+1); err != nil {
				return nil, err
			}
			if out[j].Value, err = f.decode(obj.Refs[j], depth+1); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("object %d: kind %s", i, obj.Kind)
}

func (f *File) readRefs(r *binary.Reader, n int) ([]uint64, error) {
	refs := make([]uint64, n)
	for j := range refs {
		ref, err := r.ReadUint(int(f.Trailer.RefWidth))
		if err != nil {
			return nil, err
		}
		if ref >= f.Trailer.NumObjects {
			return nil, fmt.Errorf("ref %d out of range (count %d)", ref, f.Trailer.NumObjects)
		}
		refs[j] = ref
	}
	return refs, nil
}

func readInt(r *binary.Reader, obj *Object) error {
	switch obj.Width {
	case 1, 2, 4:
		v, err := r.ReadUint(obj.Width)
		obj.Int = int64(v)
		return err
	case 8:
		v, err := r.ReadUint(8)
		obj.Int = int64(v)
		return err
	case 16:
		b, err := r.ReadBytes(16)
		if err != nil {
			return err
		}
		n := new(big.Int).SetBytes(b)
		if b[0]&0x80 != 0 {
			n.Sub(n, new(big.Int).Lsh(big.NewInt(1), 128))
		}
		obj.Big = n
		return nil
	}
	return fmt.Errorf("integer width %d", obj.Width)
}

func readCount(r *binary.Reader, lo byte) (int, error) {
	if lo != format.TagExtended {
		return int(lo), nil
	}
	marker, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if marker&0xF0 != format.TagInteger {
		return 0, fmt.Errorf("extended count marker %#02x is not an integer", marker)
	}
	obj := &Object{Width: 1 << (marker & 0x0F)}
	if err := readInt(r, obj); err != nil {
		return 0, err
	}
	return int(obj.Int), nil
}

// Epoch re-exports the date reference for assertions.
var Epoch = value.Epoch

// Since returns seconds since Epoch for t.
func Since(t time.Time) float64 {
	return value.Date(t).Float
}
