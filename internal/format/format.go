package format

import (
	"math"
	"math/big"

	"github.com/wippyai/bplist/errors"
	"github.com/wippyai/bplist/value"
)

// Magic identifies the format and version.
const Magic = "bplist00"

const (
	HeaderSize  = len(Magic)
	TrailerSize = 32
	// MaxInlineCount is the largest count stored in a marker's low nibble.
	MaxInlineCount = 14
)

// Marker bytes and type nibbles.
const (
	TagNull        byte = 0x00
	TagFalse       byte = 0x08
	TagTrue        byte = 0x09
	TagInteger     byte = 0x10
	TagReal        byte = 0x20
	TagDate        byte = 0x33
	TagData        byte = 0x40
	TagASCIIString byte = 0x50
	TagUTF16String byte = 0x60
	TagUID         byte = 0x80
	TagArray       byte = 0xA0
	TagDictionary  byte = 0xD0
	TagExtended    byte = 0x0F
)

var (
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	twoTo128  = new(big.Int).Lsh(big.NewInt(1), 128)
)

// IntWidth returns the byte width of an int64 integer object.
func IntWidth(v int64) int {
	switch {
	case v < 0:
		return 8
	case v <= math.MaxUint8:
		return 1
	case v <= math.MaxUint16:
		return 2
	case v <= math.MaxUint32:
		return 4
	default:
		return 8
	}
}

// UintWidth returns the smallest of 1, 2, 4 or 8 bytes that holds v.
// It sizes UIDs, object refs and offsets.
func UintWidth(v uint64) int {
	switch {
	case v <= math.MaxUint8:
		return 1
	case v <= math.MaxUint16:
		return 2
	case v <= math.MaxUint32:
		return 4
	default:
		return 8
	}
}

// WidthCode returns log2(width) for the low nibble of integer, real and
// UID markers.
func WidthCode(width int) byte {
	switch width {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	case 8:
		return 3
	default:
		return 4
	}
}

// FitsInt128 reports whether b is representable as a 16-byte two's
// complement integer.
func FitsInt128(b *big.Int) bool {
	return b.Cmp(minInt128) >= 0 && b.Cmp(maxInt128) <= 0
}

// Int128Bytes returns the 16-byte big-endian two's complement form of b.
// b must satisfy FitsInt128.
func Int128Bytes(b *big.Int) [16]byte {
	var out [16]byte
	if b.Sign() >= 0 {
		b.FillBytes(out[:])
		return out
	}
	new(big.Int).Add(twoTo128, b).FillBytes(out[:])
	return out
}

// IntegerSize returns the marker plus payload size of an integer value.
func IntegerSize(v *value.Value) (int, error) {
	if v.Big != nil && !v.Big.IsInt64() {
		if !FitsInt128(v.Big) {
			return 0, errors.Overflow(errors.PhasePlan, nil, v.Big, "128-bit integer")
		}
		return 1 + 16, nil
	}
	return 1 + IntWidth(IntValue(v)), nil
}

// IntValue returns the int64 content of an integer value that fits int64.
func IntValue(v *value.Value) int64 {
	if v.Big != nil {
		return v.Big.Int64()
	}
	return v.Int
}

// CountSize returns the size of a marker carrying count, including the
// trailing integer object when count does not fit the low nibble.
func CountSize(count int) int {
	if count <= MaxInlineCount {
		return 1
	}
	return 1 + 1 + IntWidth(int64(count))
}

// ObjectSize returns the encoded length of v, with container references
// refWidth bytes wide.
func ObjectSize(v *value.Value, refWidth int) (int, error) {
	switch v.Kind {
	case value.KindNull, value.KindBool:
		return 1, nil
	case value.KindInteger:
		return IntegerSize(v)
	case value.KindReal:
		if v.Single {
			return 1 + 4, nil
		}
		return 1 + 8, nil
	case value.KindDate:
		return 1 + 8, nil
	case value.KindData, value.KindASCIIString:
		return CountSize(len(v.Bytes)) + len(v.Bytes), nil
	case value.KindUTF16String:
		return CountSize(len(v.UTF16)) + 2*len(v.UTF16), nil
	case value.KindUID:
		return 1 + UintWidth(v.UID), nil
	case value.KindArray:
		n := len(v.Elems)
		return CountSize(n) + n*refWidth, nil
	case value.KindDictionary:
		n := len(v.Elems)
		return CountSize(n) + 2*n*refWidth, nil
	}
	return 0, errors.New(errors.PhasePlan, errors.KindUnsupportedType).
		Detail("unknown value kind %d", v.Kind).
		Build()
}
