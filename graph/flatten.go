package graph

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/bplist/errors"
	"github.com/wippyai/bplist/value"
)

// Options configures flattening.
type Options struct {
	// Logger receives per-object debug records. Nil disables tracing.
	Logger *zap.Logger
	// Unique collapses equal leaves into one table slot.
	Unique bool
}

// frame is a container whose children are not all indexed yet.
type frame struct {
	v    *value.Value
	refs []int
	n    int
	next int
}

func (f *frame) child(j int) *value.Value {
	if f.v.Kind == value.KindDictionary {
		if j%2 == 0 {
			return f.v.Keys[j/2]
		}
		return f.v.Elems[j/2]
	}
	return f.v.Elems[j]
}

func (f *frame) setRef(j, index int) {
	if f.v.Kind == value.KindDictionary {
		if j%2 == 0 {
			f.refs[j/2] = index
		} else {
			f.refs[len(f.v.Keys)+j/2] = index
		}
		return
	}
	f.refs[j] = index
}

func (f *frame) segment(j int) string {
	if f.v.Kind == value.KindDictionary {
		k := f.v.Keys[j/2]
		if k != nil && k.Kind.IsString() {
			return k.Text()
		}
		return k.String()
	}
	return "[" + strconv.Itoa(j) + "]"
}

type flattener struct {
	table   *Table
	log     *zap.Logger
	uniques map[string]int
	active  map[*value.Value]struct{}
	stack   []*frame
	keyBuf  []byte
	null    *value.Value
}

// Flatten assigns every node of root a slot in a new object table.
func Flatten(root *value.Value, opts Options) (*Table, error) {
	f := &flattener{
		table:  &Table{},
		log:    opts.Logger,
		active: make(map[*value.Value]struct{}),
	}
	if opts.Unique {
		f.uniques = make(map[string]int)
	}

	index, err := f.run(root)
	if err != nil {
		return nil, err
	}
	f.table.Root = index
	return f.table, nil
}

func (f *flattener) run(root *value.Value) (int, error) {
	index, fr, err := f.visit(root)
	if err != nil || fr == nil {
		return index, err
	}
	f.push(fr)

	for {
		top := f.stack[len(f.stack)-1]
		if top.next < top.n {
			j := top.next
			top.next++
			index, fr, err := f.visit(top.child(j))
			if err != nil {
				return 0, err
			}
			if fr != nil {
				f.push(fr)
				continue
			}
			top.setRef(j, index)
			continue
		}

		index := f.table.add(top.v, top.refs)
		f.trace(index, top.v)
		f.pop()
		if len(f.stack) == 0 {
			return index, nil
		}
		parent := f.stack[len(f.stack)-1]
		parent.setRef(parent.next-1, index)
	}
}

// visit indexes a leaf, or returns a frame for a container.
func (f *flattener) visit(v *value.Value) (int, *frame, error) {
	if v == nil {
		if f.null == nil {
			f.null = value.Null()
		}
		v = f.null
	}

	if v.Kind.IsContainer() {
		if _, busy := f.active[v]; busy {
			return 0, nil, errors.CyclicReference(errors.PhaseFlatten, f.path(), v.Kind.String())
		}
		n := len(v.Elems)
		if v.Kind == value.KindDictionary {
			if len(v.Keys) != n {
				return 0, nil, errors.New(errors.PhaseFlatten, errors.KindInvalidInput).
					Path(f.path()...).
					Detail("dictionary has %d keys and %d values", len(v.Keys), n).
					Build()
			}
			n *= 2
		}
		return 0, &frame{v: v, refs: make([]int, n), n: n}, nil
	}

	if f.uniques != nil {
		f.keyBuf = appendKey(f.keyBuf[:0], v)
		if index, ok := f.uniques[string(f.keyBuf)]; ok {
			if f.log != nil {
				f.log.Debug("unique hit", zap.Int("ref", index), zap.Stringer("value", v))
			}
			return index, nil, nil
		}
		index := f.table.add(v, nil)
		f.uniques[string(f.keyBuf)] = index
		f.trace(index, v)
		return index, nil, nil
	}

	index := f.table.add(v, nil)
	f.trace(index, v)
	return index, nil, nil
}

func (f *flattener) push(fr *frame) {
	f.active[fr.v] = struct{}{}
	f.stack = append(f.stack, fr)
}

func (f *flattener) pop() {
	top := f.stack[len(f.stack)-1]
	delete(f.active, top.v)
	f.stack[len(f.stack)-1] = nil
	f.stack = f.stack[:len(f.stack)-1]
}

func (f *flattener) path() []string {
	if len(f.stack) == 0 {
		return nil
	}
	path := make([]string, 0, len(f.stack))
	for _, fr := range f.stack {
		path = append(path, fr.segment(fr.next-1))
	}
	return path
}

func (f *flattener) trace(index int, v *value.Value) {
	if f.log == nil {
		return
	}
	f.log.Debug("object",
		zap.Int("ref", index),
		zap.Int("depth", len(f.stack)),
		zap.Stringer("kind", v.Kind),
		zap.Stringer("value", v),
	)
}
