package layout

import (
	"math"

	"github.com/wippyai/bplist/errors"
	"github.com/wippyai/bplist/graph"
	"github.com/wippyai/bplist/internal/format"
)

// Plan is the computed layout of one object table.
type Plan struct {
	// Sizes and Offsets are indexed like the table's objects.
	Sizes   []int
	Offsets []int
	// RefWidth is the byte width of every object reference.
	RefWidth int
	// OffsetWidth is the byte width of every offset table entry.
	OffsetWidth int
	// TableOffset is where the offset table starts.
	TableOffset int
	// Size is the total file length.
	Size int
}

// RefWidth returns the reference width for a table of count objects:
// 1 byte below 2^8 objects, 2 below 2^16, 4 below 2^32, else 8.
func RefWidth(count int) int {
	return format.UintWidth(uint64(count))
}

// OffsetWidth returns the width of offset table entries when the offset
// table starts at tableOffset.
func OffsetWidth(tableOffset int) int {
	return format.UintWidth(uint64(tableOffset))
}

// Calculate plans the layout of t.
func Calculate(t *graph.Table) (Plan, error) {
	count := t.Len()
	if count == 0 {
		return Plan{}, errors.New(errors.PhasePlan, errors.KindInvalidInput).
			Detail("empty object table").
			Build()
	}
	if t.Root < 0 || t.Root >= count {
		return Plan{}, errors.New(errors.PhasePlan, errors.KindInvalidInput).
			Detail("root index %d out of range (count %d)", t.Root, count).
			Build()
	}

	p := Plan{
		Sizes:    make([]int, count),
		Offsets:  make([]int, count),
		RefWidth: RefWidth(count),
	}

	offset := format.HeaderSize
	for i, obj := range t.Objects {
		size, err := format.ObjectSize(obj.Value, p.RefWidth)
		if err != nil {
			return Plan{}, err
		}
		if offset > math.MaxInt-size {
			return Plan{}, errors.Overflow(errors.PhasePlan, nil, i, "object offset")
		}
		p.Sizes[i] = size
		p.Offsets[i] = offset
		offset += size
	}

	p.TableOffset = offset
	p.OffsetWidth = OffsetWidth(offset)

	tableSize := count * p.OffsetWidth
	if tableSize/p.OffsetWidth != count || offset > math.MaxInt-tableSize-format.TrailerSize {
		return Plan{}, errors.Overflow(errors.PhasePlan, nil, count, "offset table")
	}
	p.Size = offset + tableSize + format.TrailerSize
	return p, nil
}
