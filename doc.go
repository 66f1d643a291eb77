// Package bplist encodes Go values as Apple binary property lists
// ("bplist00").
//
// # Architecture Overview
//
// Encoding runs four stages, each depending only on the previous one:
//
//	bplist/              Encode, Encoder, Options, wrapper types
//	├── value/           Go value -> canonical Value (coercion rules, object hook)
//	├── graph/           canonical tree -> flat object table (uniquing, cycles)
//	├── layout/          object table -> ref width, offset width, offsets
//	├── writer/          object table + plan -> bytes
//	├── source/          YAML, JSON, CBOR and MessagePack documents -> Go values
//	├── errors/          structured error types for debugging
//	└── cmd/bplist/      command line converter
//
// # Quick Start
//
//	data, err := bplist.Encode(map[string]any{
//	    "name":  "Ada",
//	    "admin": true,
//	    "id":    bplist.UID(7),
//	    "blob":  bplist.Data{0xde, 0xad},
//	}, bplist.DefaultOptions())
//
// # Type Mapping
//
//	Go value                         plist object
//	──────────────────────────────────────────────────
//	nil, nil pointer                 null (or Options.NullSubstitute)
//	bool                             true / false
//	bplist.UID                       UID
//	bplist.Data, []byte, [N]byte     data
//	int*, uint*, *big.Int            integer (up to 128-bit)
//	float32 / float64                real (4 / 8 bytes)
//	time.Time                        date
//	string                           ASCII or UTF-16 string
//	slice, array                     array
//	bplist.Dict                      dictionary, in entry order
//	map                              dictionary, sorted by key
//
// Other values go through bplist.Marshaler and then Options.ObjectHook.
// Values nothing resolves fail with errors.KindUnsupportedType.
//
// # Uniquing
//
// With Options.Unique, equal leaves (same kind and content) share one
// object slot. true and 1 are never merged. Arrays and dictionaries are
// never merged.
//
// # Thread Safety
//
// Encoder holds immutable options and is safe for concurrent use. Each
// call owns its object table.
//
// # Error Handling
//
// Errors use the structured types from the errors package:
//
//	bplist coerce: unsupported_type at jobs[2].done (chan int): ...
//	bplist flatten: cyclic_reference at [0] (array): container references itself
//
// No partial output is ever returned.
package bplist
