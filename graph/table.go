package graph

import "github.com/wippyai/bplist/value"

// Object is one entry of the object table.
type Object struct {
	Value *value.Value
	// Refs holds child indices: elements for arrays, all keys then all
	// values for dictionaries. Nil for leaves.
	Refs []int
}

// Table is the flat object table produced by Flatten.
type Table struct {
	Objects []Object
	Root    int
}

// Len returns the number of objects.
func (t *Table) Len() int {
	return len(t.Objects)
}

// Index returns the index of the first object holding v, or -1.
func (t *Table) Index(v *value.Value) int {
	for i := range t.Objects {
		if t.Objects[i].Value == v {
			return i
		}
	}
	return -1
}

func (t *Table) add(v *value.Value, refs []int) int {
	t.Objects = append(t.Objects, Object{Value: v, Refs: refs})
	return len(t.Objects) - 1
}
