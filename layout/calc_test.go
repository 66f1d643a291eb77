package layout

import (
	stderrors "errors"
	"math/big"
	"testing"

	"github.com/wippyai/bplist/errors"
	"github.com/wippyai/bplist/graph"
	"github.com/wippyai/bplist/internal/format"
	"github.com/wippyai/bplist/value"
)

func TestRefWidth(t *testing.T) {
	tests := []struct{ count, want int }{
		{1, 1},
		{255, 1},
		{256, 2},
		{65535, 2},
		{65536, 4},
	}
	for _, tt := range tests {
		if got := RefWidth(tt.count); got != tt.want {
			t.Errorf("RefWidth(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestOffsetWidth(t *testing.T) {
	tests := []struct{ offset, want int }{
		{8, 1},
		{255, 1},
		{256, 2},
		{65536, 4},
		{1 << 32, 8},
	}
	for _, tt := range tests {
		if got := OffsetWidth(tt.offset); got != tt.want {
			t.Errorf("OffsetWidth(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func plan(t *testing.T, root *value.Value) (*graph.Table, Plan) {
	t.Helper()
	table, err := graph.Flatten(root, graph.Options{})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	p, err := Calculate(table)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	return table, p
}

func TestCalculate_Small(t *testing.T) {
	root := value.Dictionary(2).
		Set(value.String("a"), value.Boolean(true)).
		Set(value.String("b"), value.Boolean(false))
	_, p := plan(t, root)

	wantOffsets := []int{8, 10, 11, 13, 14}
	for i, w := range wantOffsets {
		if p.Offsets[i] != w {
			t.Errorf("offset %d = %d, want %d", i, p.Offsets[i], w)
		}
	}
	if p.RefWidth != 1 || p.OffsetWidth != 1 {
		t.Errorf("widths = %d/%d, want 1/1", p.RefWidth, p.OffsetWidth)
	}
	if p.TableOffset != 19 {
		t.Errorf("TableOffset = %d, want 19", p.TableOffset)
	}
	if p.Size != 19+5+format.TrailerSize {
		t.Errorf("Size = %d", p.Size)
	}
}

func intArray(n int) *value.Value {
	elems := make([]*value.Value, n)
	for i := range elems {
		elems[i] = value.Integer(int64(i))
	}
	return value.Array(elems...)
}

func TestCalculate_RefWidthBoundary(t *testing.T) {
	// n elements plus the array itself
	_, p := plan(t, intArray(254))
	if p.RefWidth != 1 {
		t.Errorf("255 objects: RefWidth = %d, want 1", p.RefWidth)
	}

	_, p = plan(t, intArray(255))
	if p.RefWidth != 2 {
		t.Errorf("256 objects: RefWidth = %d, want 2", p.RefWidth)
	}
}

func TestCalculate_OffsetWidth(t *testing.T) {
	_, p := plan(t, value.Bytes(make([]byte, 200)))
	if p.OffsetWidth != 1 {
		t.Errorf("OffsetWidth = %d, want 1", p.OffsetWidth)
	}

	// 8 + 4 + 300 puts the table past 255
	_, p = plan(t, value.Bytes(make([]byte, 300)))
	if p.OffsetWidth != 2 {
		t.Errorf("OffsetWidth = %d, want 2", p.OffsetWidth)
	}
	if p.TableOffset != 8+4+300 {
		t.Errorf("TableOffset = %d", p.TableOffset)
	}
}

func TestCalculate_SizesAreContiguous(t *testing.T) {
	root := value.Array(value.String("héllo"), value.Integer(-1), value.Real32(2), intArray(20))
	table, p := plan(t, root)
	for i := 1; i < table.Len(); i++ {
		if p.Offsets[i] != p.Offsets[i-1]+p.Sizes[i-1] {
			t.Fatalf("object %d at %d, previous ends at %d", i, p.Offsets[i], p.Offsets[i-1]+p.Sizes[i-1])
		}
	}
	last := table.Len() - 1
	if p.TableOffset != p.Offsets[last]+p.Sizes[last] {
		t.Errorf("TableOffset = %d", p.TableOffset)
	}
}

func TestCalculate_Errors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := Calculate(&graph.Table{})
		if !stderrors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("expected invalid input, got %v", err)
		}
	})

	t.Run("bad root", func(t *testing.T) {
		table, _ := plan(t, value.Null())
		table.Root = 3
		_, err := Calculate(table)
		if !stderrors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("expected invalid input, got %v", err)
		}
	})

	t.Run("integer overflow", func(t *testing.T) {
		tooBig := new(big.Int).Lsh(big.NewInt(1), 130)
		table, err := graph.Flatten(value.Array(value.BigInteger(tooBig)), graph.Options{})
		if err != nil {
			t.Fatalf("Flatten: %v", err)
		}
		_, err = Calculate(table)
		if !stderrors.Is(err, errors.ErrEncodingOverflow) {
			t.Errorf("expected overflow, got %v", err)
		}
	})
}
