package value

import (
	"cmp"
	"fmt"
	"math/big"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/wippyai/bplist/errors"
)

// DefaultMaxDepth bounds container nesting and substitution chains.
const DefaultMaxDepth = 16384

// builtinStructs are struct types with their own coercion rule.
var builtinStructs = map[reflect.Type]bool{
	reflect.TypeFor[time.Time](): true,
	reflect.TypeFor[big.Int]():   true,
	reflect.TypeFor[Value]():     true,
}

// Options configures coercion.
type Options struct {
	// NullSubstitute replaces nil when ConvertNulls is set.
	// A nil substitute means false.
	NullSubstitute any
	// ObjectHook resolves values no built-in rule accepts. Pointers to
	// structs are offered as passed, then again dereferenced.
	ObjectHook Hook
	// MaxDepth limits container nesting; zero means DefaultMaxDepth.
	MaxDepth int
	// ConvertNulls rewrites nil to NullSubstitute instead of null.
	ConvertNulls bool
}

// Coerce maps a Go value to its canonical form.
//
// Rules are tried in order, first match wins:
//
//  1. nil, nil pointers -> Null (or the null substitute)
//  2. bool kinds -> Bool
//  3. UID -> UID
//  4. Data, []byte, [N]byte -> Data
//  5. integer kinds, *big.Int -> Integer
//  6. float32, float64 -> Real
//  7. time.Time -> Date
//  8. string kinds -> ASCIIString or UTF16String
//  9. slices, arrays -> Array
//  10. Dict, maps -> Dictionary
//  11. Marshaler, then Options.ObjectHook; substitutes re-enter the list
//
// Canonical *Value inputs pass through unchanged. Pointers and interfaces
// are followed. Anything else fails with errors.KindUnsupportedType.
func Coerce(v any, opts Options) (*Value, error) {
	c := &coercer{
		opts:     opts,
		maxDepth: opts.MaxDepth,
		active:   make(map[identity]struct{}),
	}
	if c.maxDepth <= 0 {
		c.maxDepth = DefaultMaxDepth
	}
	return c.run(v)
}

type frameKind uint8

const (
	frameList frameKind = iota
	frameMap
	frameDict
)

// identity names a host container for cycle detection.
type identity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// frame is a container whose children are still being coerced.
// Dictionary frames visit children pair-wise: key, value, key, value.
type frame struct {
	out     *Value
	rv      reflect.Value
	keys    []reflect.Value
	dict    Dict
	id      identity
	n       int
	next    int
	kind    frameKind
	tracked bool
}

func (f *frame) child(j int) any {
	switch f.kind {
	case frameMap:
		k := f.keys[j/2]
		if j%2 == 0 {
			return k.Interface()
		}
		return f.rv.MapIndex(k).Interface()
	case frameDict:
		p := f.dict[j/2]
		if j%2 == 0 {
			return p.Key
		}
		return p.Value
	default:
		return f.rv.Index(j).Interface()
	}
}

func (f *frame) attach(j int, v *Value) {
	if f.kind == frameList {
		f.out.Elems[j] = v
		return
	}
	if j%2 == 0 {
		f.out.Keys[j/2] = v
	} else {
		f.out.Elems[j/2] = v
	}
}

func (f *frame) segment(j int) string {
	switch f.kind {
	case frameMap:
		return fmt.Sprint(f.keys[j/2].Interface())
	case frameDict:
		return fmt.Sprint(f.dict[j/2].Key)
	default:
		return "[" + strconv.Itoa(j) + "]"
	}
}

type coercer struct {
	opts     Options
	active   map[identity]struct{}
	stack    []*frame
	chain    []uintptr
	// via is the last pointer dereferenced while visiting one value.
	via      identity
	maxDepth int
	nulled   bool
}

func (c *coercer) run(v any) (*Value, error) {
	root, fr, err := c.visit(v)
	if err != nil {
		return nil, err
	}
	if fr != nil {
		if err := c.push(fr); err != nil {
			return nil, err
		}
	}

	for len(c.stack) > 0 {
		top := c.stack[len(c.stack)-1]
		if top.next >= top.n {
			c.pop()
			continue
		}
		j := top.next
		top.next++

		out, fr, err := c.visit(top.child(j))
		if err != nil {
			return nil, err
		}
		top.attach(j, out)
		if fr != nil {
			if err := c.push(fr); err != nil {
				return nil, err
			}
		}
	}
	return root, nil
}

func (c *coercer) push(fr *frame) error {
	if len(c.stack) >= c.maxDepth {
		return errors.DepthExceeded(errors.PhaseCoerce, c.path(), c.maxDepth)
	}
	if fr.tracked {
		c.active[fr.id] = struct{}{}
	}
	c.stack = append(c.stack, fr)
	return nil
}

func (c *coercer) pop() {
	top := c.stack[len(c.stack)-1]
	if top.tracked {
		delete(c.active, top.id)
	}
	c.stack[len(c.stack)-1] = nil
	c.stack = c.stack[:len(c.stack)-1]
}

// path renders the location of the value being visited.
func (c *coercer) path() []string {
	if len(c.stack) == 0 {
		return nil
	}
	path := make([]string, 0, len(c.stack))
	for _, f := range c.stack {
		path = append(path, f.segment(f.next-1))
	}
	return path
}

// visit resolves v to a canonical value. Containers come back with a frame
// whose children the caller still has to visit.
func (c *coercer) visit(v any) (*Value, *frame, error) {
	c.chain = c.chain[:0]
	c.via = identity{}
	c.nulled = false
	for hops := 0; ; hops++ {
		if hops > c.maxDepth {
			return nil, nil, errors.DepthExceeded(errors.PhaseCoerce, c.path(), c.maxDepth)
		}
		out, fr, next, err := c.classify(v)
		if err != nil {
			return nil, nil, err
		}
		if out != nil {
			return out, fr, nil
		}
		v = next
	}
}

// classify applies the rules to one host value. It returns either a result,
// or a substitute to classify next.
func (c *coercer) classify(v any) (*Value, *frame, any, error) {
	if v == nil {
		return c.null()
	}

	switch t := v.(type) {
	case *Value:
		if t == nil {
			return c.null()
		}
		return t, nil, nil, nil
	case Value:
		return &t, nil, nil, nil
	case bool:
		return Boolean(t), nil, nil, nil
	case UID:
		return Identifier(uint64(t)), nil, nil, nil
	case Data:
		return Bytes(t), nil, nil, nil
	case []byte:
		return Bytes(t), nil, nil, nil
	case int:
		return Integer(int64(t)), nil, nil, nil
	case int64:
		return Integer(t), nil, nil, nil
	case uint64:
		return Unsigned(t), nil, nil, nil
	case *big.Int:
		if t == nil {
			return c.null()
		}
		return BigInteger(t), nil, nil, nil
	case big.Int:
		return BigInteger(&t), nil, nil, nil
	case float64:
		return Real(t), nil, nil, nil
	case time.Time:
		return Date(t), nil, nil, nil
	case string:
		return String(t), nil, nil, nil
	case Dict:
		return c.dictFrame(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return c.null()
		}
		p := rv.Pointer()
		if slices.Contains(c.chain, p) {
			return nil, nil, nil, errors.CyclicReference(errors.PhaseCoerce, c.path(), typeName(v))
		}
		c.chain = append(c.chain, p)
		c.via = identity{typ: rv.Type(), ptr: p}
		// Struct pointers go to Marshaler and the hook as passed, then
		// dereferenced if neither takes them.
		if elem := rv.Elem(); elem.Kind() == reflect.Struct && !builtinStructs[elem.Type()] {
			sub, ok, err := c.resolve(v)
			if err != nil || ok {
				return nil, nil, sub, err
			}
		}
		return nil, nil, rv.Elem().Interface(), nil
	case reflect.Bool:
		return Boolean(rv.Bool()), nil, nil, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer(rv.Int()), nil, nil, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Unsigned(rv.Uint()), nil, nil, nil
	case reflect.Float32:
		return Real32(float32(rv.Float())), nil, nil, nil
	case reflect.Float64:
		return Real(rv.Float()), nil, nil, nil
	case reflect.String:
		return String(rv.String()), nil, nil, nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes(rv.Bytes()), nil, nil, nil
		}
		return c.listFrame(rv, v)
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return &Value{Kind: KindData, Bytes: b}, nil, nil, nil
		}
		return c.listFrame(rv, v)
	case reflect.Map:
		return c.mapFrame(rv, v)
	}

	return c.fallback(v)
}

func (c *coercer) null() (*Value, *frame, any, error) {
	if !c.opts.ConvertNulls || c.nulled {
		return Null(), nil, nil, nil
	}
	c.nulled = true
	if c.opts.NullSubstitute == nil {
		return Boolean(false), nil, nil, nil
	}
	return nil, nil, c.opts.NullSubstitute, nil
}

func (c *coercer) fallback(v any) (*Value, *frame, any, error) {
	sub, ok, err := c.resolve(v)
	if err != nil {
		return nil, nil, nil, err
	}
	if ok {
		return nil, nil, sub, nil
	}
	return nil, nil, nil, errors.UnsupportedType(c.path(), typeName(v))
}

// resolve asks Marshaler, then the object hook, for a substitute of v.
func (c *coercer) resolve(v any) (any, bool, error) {
	if m, ok := v.(Marshaler); ok {
		sub, err := m.MarshalPlist()
		if err != nil {
			return nil, false, errors.HookFailure(c.path(), typeName(v), err)
		}
		return sub, true, nil
	}
	if c.opts.ObjectHook != nil {
		sub, ok, err := c.opts.ObjectHook(v)
		if err != nil {
			return nil, false, errors.HookFailure(c.path(), typeName(v), err)
		}
		return sub, ok, nil
	}
	return nil, false, nil
}

func (c *coercer) listFrame(rv reflect.Value, v any) (*Value, *frame, any, error) {
	n := rv.Len()
	out := &Value{Kind: KindArray, Elems: make([]*Value, n)}
	if n == 0 {
		return out, nil, nil, nil
	}
	fr := &frame{out: out, rv: rv, n: n, kind: frameList}
	id := c.via
	if rv.Kind() == reflect.Slice {
		id = identity{typ: rv.Type(), ptr: rv.Pointer(), len: n}
	}
	// Arrays are copied by value; only a pointer gives them an identity.
	if id.typ != nil {
		if err := c.track(fr, id, v); err != nil {
			return nil, nil, nil, err
		}
	}
	return out, fr, nil, nil
}

func (c *coercer) mapFrame(rv reflect.Value, v any) (*Value, *frame, any, error) {
	n := rv.Len()
	out := &Value{Kind: KindDictionary, Keys: make([]*Value, n), Elems: make([]*Value, n)}
	if n == 0 {
		return out, nil, nil, nil
	}
	keys := rv.MapKeys()
	slices.SortFunc(keys, compareKeys)
	fr := &frame{out: out, rv: rv, keys: keys, n: 2 * n, kind: frameMap}
	if err := c.track(fr, identity{typ: rv.Type(), ptr: rv.Pointer()}, v); err != nil {
		return nil, nil, nil, err
	}
	return out, fr, nil, nil
}

func (c *coercer) dictFrame(d Dict) (*Value, *frame, any, error) {
	n := len(d)
	out := &Value{Kind: KindDictionary, Keys: make([]*Value, n), Elems: make([]*Value, n)}
	if n == 0 {
		return out, nil, nil, nil
	}
	rv := reflect.ValueOf(d)
	fr := &frame{out: out, dict: d, n: 2 * n, kind: frameDict}
	if err := c.track(fr, identity{typ: rv.Type(), ptr: rv.Pointer(), len: n}, d); err != nil {
		return nil, nil, nil, err
	}
	return out, fr, nil, nil
}

func (c *coercer) track(fr *frame, id identity, v any) error {
	if _, busy := c.active[id]; busy {
		return errors.CyclicReference(errors.PhaseCoerce, c.path(), typeName(v))
	}
	fr.id = id
	fr.tracked = true
	return nil
}

// compareKeys orders map keys: same-kind scalars by value, otherwise by
// kind and then by their printed form.
func compareKeys(a, b reflect.Value) int {
	a, b = concrete(a), concrete(b)
	switch {
	case !a.IsValid() && !b.IsValid():
		return 0
	case !a.IsValid():
		return -1
	case !b.IsValid():
		return 1
	}
	if a.Kind() != b.Kind() {
		return cmp.Compare(a.Kind(), b.Kind())
	}
	switch a.Kind() {
	case reflect.String:
		return strings.Compare(a.String(), b.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.Bool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case !a.Bool():
			return -1
		default:
			return 1
		}
	}
	return strings.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
}

func concrete(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	return v
}

// typeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
