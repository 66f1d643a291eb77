package writer

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/bplist/errors"
	"github.com/wippyai/bplist/graph"
	"github.com/wippyai/bplist/internal/binary"
	"github.com/wippyai/bplist/internal/format"
	"github.com/wippyai/bplist/layout"
	"github.com/wippyai/bplist/value"
)

// Serialize writes t using the widths and offsets of p. A nil logger
// disables tracing.
func Serialize(t *graph.Table, p layout.Plan, log *zap.Logger) ([]byte, error) {
	if len(p.Offsets) != t.Len() {
		return nil, errors.New(errors.PhaseSerialize, errors.KindInvalidInput).
			Detail("plan covers %d objects, table has %d", len(p.Offsets), t.Len()).
			Build()
	}

	s := &serializer{w: binary.NewWriter(p.Size), refWidth: p.RefWidth}
	s.w.WriteString(format.Magic)

	for i := range t.Objects {
		start := s.w.Len()
		if start != p.Offsets[i] {
			return nil, errors.New(errors.PhaseSerialize, errors.KindInvalidInput).
				Path(objectPath(i)).
				Detail("object starts at %d, planned %d", start, p.Offsets[i]).
				Build()
		}
		if err := s.object(&t.Objects[i]); err != nil {
			if e, ok := err.(*errors.Error); ok && len(e.Path) == 0 {
				e.Path = []string{objectPath(i)}
			}
			return nil, err
		}
		if log != nil {
			log.Debug("write object",
				zap.Int("ref", i),
				zap.Int("offset", start),
				zap.Int("len", s.w.Len()-start),
				zap.Stringer("value", t.Objects[i].Value),
			)
		}
	}

	tableOffset := s.w.Len()
	if tableOffset != p.TableOffset {
		return nil, errors.New(errors.PhaseSerialize, errors.KindInvalidInput).
			Detail("offset table starts at %d, planned %d", tableOffset, p.TableOffset).
			Build()
	}
	for _, off := range p.Offsets {
		s.w.WriteUint(uint64(off), p.OffsetWidth)
	}
	if log != nil {
		log.Debug("offset table",
			zap.Int("ref_width", p.RefWidth),
			zap.Int("offset_width", p.OffsetWidth),
			zap.Int("offset", tableOffset),
			zap.Int("len", p.OffsetWidth*t.Len()),
		)
	}

	s.trailer(t, p)
	return s.w.Bytes(), nil
}

type serializer struct {
	w        *binary.Writer
	refWidth int
}

func (s *serializer) trailer(t *graph.Table, p layout.Plan) {
	var unused [5]byte
	s.w.WriteBytes(unused[:])
	s.w.Byte(0) // sort version
	s.w.Byte(byte(p.OffsetWidth))
	s.w.Byte(byte(p.RefWidth))
	s.w.WriteU64(uint64(t.Len()))
	s.w.WriteU64(uint64(t.Root))
	s.w.WriteU64(uint64(p.TableOffset))
}

func (s *serializer) object(obj *graph.Object) error {
	v := obj.Value
	switch v.Kind {
	case value.KindNull:
		s.w.Byte(format.TagNull)
	case value.KindBool:
		if v.Bool {
			s.w.Byte(format.TagTrue)
		} else {
			s.w.Byte(format.TagFalse)
		}
	case value.KindInteger:
		return s.integer(v)
	case value.KindReal:
		if v.Single {
			s.w.Byte(format.TagReal | format.WidthCode(4))
			s.w.WriteF32(float32(v.Float))
		} else {
			s.w.Byte(format.TagReal | format.WidthCode(8))
			s.w.WriteF64(v.Float)
		}
	case value.KindDate:
		s.w.Byte(format.TagDate)
		s.w.WriteF64(v.Float)
	case value.KindData:
		s.count(format.TagData, len(v.Bytes))
		s.w.WriteBytes(v.Bytes)
	case value.KindASCIIString:
		s.count(format.TagASCIIString, len(v.Bytes))
		s.w.WriteBytes(v.Bytes)
	case value.KindUTF16String:
		s.count(format.TagUTF16String, len(v.UTF16))
		s.w.WriteUTF16(v.UTF16)
	case value.KindUID:
		width := format.UintWidth(v.UID)
		s.w.Byte(format.TagUID | byte(width-1))
		s.w.WriteUint(v.UID, width)
	case value.KindArray:
		s.count(format.TagArray, len(v.Elems))
		s.refs(obj.Refs)
	case value.KindDictionary:
		s.count(format.TagDictionary, len(v.Elems))
		s.refs(obj.Refs)
	default:
		return errors.New(errors.PhaseSerialize, errors.KindUnsupportedType).
			Detail("unknown value kind %d", v.Kind).
			Build()
	}
	return nil
}

func (s *serializer) integer(v *value.Value) error {
	if v.Big != nil && !v.Big.IsInt64() {
		if !format.FitsInt128(v.Big) {
			return errors.Overflow(errors.PhaseSerialize, nil, v.Big, "128-bit integer")
		}
		b := format.Int128Bytes(v.Big)
		s.w.Byte(format.TagInteger | format.WidthCode(16))
		s.w.WriteBytes(b[:])
		return nil
	}
	n := format.IntValue(v)
	width := format.IntWidth(n)
	s.w.Byte(format.TagInteger | format.WidthCode(width))
	s.w.WriteUint(uint64(n), width)
	return nil
}

// count writes a marker with an inline count, or the extended marker
// followed by the count as an integer object.
func (s *serializer) count(tag byte, n int) {
	if n <= format.MaxInlineCount {
		s.w.Byte(tag | byte(n))
		return
	}
	s.w.Byte(tag | format.TagExtended)
	width := format.IntWidth(int64(n))
	s.w.Byte(format.TagInteger | format.WidthCode(width))
	s.w.WriteUint(uint64(n), width)
}

func (s *serializer) refs(refs []int) {
	for _, r := range refs {
		s.w.WriteUint(uint64(r), s.refWidth)
	}
}

func objectPath(i int) string {
	return "object[" + strconv.Itoa(i) + "]"
}
