package graph

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/bplist/value"
)

// appendKey appends the uniquing key of a leaf: its kind tag followed by
// its content bytes. Integers are keyed on their full value; reals on
// their width and IEEE bits.
func appendKey(buf []byte, v *value.Value) []byte {
	buf = append(buf, byte(v.Kind))
	switch v.Kind {
	case value.KindBool:
		if v.Bool {
			return append(buf, 1)
		}
		return append(buf, 0)
	case value.KindInteger:
		if v.Big != nil && !v.Big.IsInt64() {
			// sign, then magnitude
			buf = append(buf, 'b', byte(v.Big.Sign()+1))
			return v.Big.Append(buf, 16)
		}
		n := v.Int
		if v.Big != nil {
			n = v.Big.Int64()
		}
		buf = append(buf, 'i')
		return binary.BigEndian.AppendUint64(buf, uint64(n))
	case value.KindReal:
		if v.Single {
			buf = append(buf, 4)
			return binary.BigEndian.AppendUint32(buf, math.Float32bits(float32(v.Float)))
		}
		buf = append(buf, 8)
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(v.Float))
	case value.KindDate:
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(v.Float))
	case value.KindUID:
		return binary.BigEndian.AppendUint64(buf, v.UID)
	case value.KindData, value.KindASCIIString:
		return append(buf, v.Bytes...)
	case value.KindUTF16String:
		for _, u := range v.UTF16 {
			buf = binary.BigEndian.AppendUint16(buf, u)
		}
		return buf
	}
	return buf
}
