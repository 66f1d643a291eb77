package value

// UID marks an unsigned integer that serializes as the bplist UID
// primitive instead of a plain integer.
type UID uint64

// Data marks a byte buffer that serializes as bplist data. Plain []byte
// values are treated the same way.
type Data []byte

// Pair is one entry of an ordered dictionary.
type Pair struct {
	Key   any
	Value any
}

// Dict is an ordered mapping. Entries serialize in slice order; Go maps,
// which have no order, serialize sorted by key instead.
type Dict []Pair

// Set appends a key/value pair and returns the extended Dict.
func (d Dict) Set(key, val any) Dict {
	return append(d, Pair{Key: key, Value: val})
}

// Lookup returns the value of the first entry whose key is the string key.
func (d Dict) Lookup(key string) (any, bool) {
	for _, p := range d {
		if k, ok := p.Key.(string); ok && k == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Marshaler is implemented by types that substitute themselves with an
// encodable value. It is consulted after every built-in rule, right before
// the configured object hook.
type Marshaler interface {
	MarshalPlist() (any, error)
}

// Hook substitutes a value no built-in rule accepts. It returns the
// substitute and true, or false when it does not handle v.
type Hook func(v any) (any, bool, error)
