package value

import (
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode/utf16"
)

// Epoch is the reference date of bplist dates (2001-01-01T00:00:00Z).
var Epoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// epochUnix is Epoch as Unix seconds.
const epochUnix = 978307200

// Value is a canonical plist value. Kind selects which fields are meaningful:
//
//	KindBool         Bool
//	KindInteger      Int, or Big when the value does not fit int64
//	KindReal         Float (Single marks a 4-byte real)
//	KindDate         Float, seconds since Epoch
//	KindData         Bytes
//	KindUID          UID
//	KindASCIIString  Bytes (7-bit)
//	KindUTF16String  UTF16
//	KindArray        Elems
//	KindDictionary   Keys and Elems, parallel and in insertion order
//
// Container children are pointers so that canonical graphs can share
// subtrees; the flattener rejects graphs where a container reaches itself.
type Value struct {
	Big    *big.Int
	Bytes  []byte
	UTF16  []uint16
	Keys   []*Value
	Elems  []*Value
	Int    int64
	Float  float64
	UID    uint64
	Kind   Kind
	Bool   bool
	Single bool
}

// Null returns the null value.
func Null() *Value {
	return &Value{Kind: KindNull}
}

// Boolean returns a Bool value.
func Boolean(b bool) *Value {
	return &Value{Kind: KindBool, Bool: b}
}

// Integer returns an Integer value.
func Integer(i int64) *Value {
	return &Value{Kind: KindInteger, Int: i}
}

// Unsigned returns an Integer value for u. Values above MaxInt64 are kept
// as big integers so that they serialize in the 16-byte form.
func Unsigned(u uint64) *Value {
	if u <= 1<<63-1 {
		return Integer(int64(u))
	}
	return &Value{Kind: KindInteger, Big: new(big.Int).SetUint64(u)}
}

// BigInteger returns an Integer value for b. b is copied. Values that fit
// int64 are normalized so that equal integers always share one form.
func BigInteger(b *big.Int) *Value {
	if b.IsInt64() {
		return Integer(b.Int64())
	}
	return &Value{Kind: KindInteger, Big: new(big.Int).Set(b)}
}

// Real returns an 8-byte Real value.
func Real(f float64) *Value {
	return &Value{Kind: KindReal, Float: f}
}

// Real32 returns a 4-byte Real value.
func Real32(f float32) *Value {
	return &Value{Kind: KindReal, Float: float64(f), Single: true}
}

// Date returns a Date value for t.
func Date(t time.Time) *Value {
	secs := float64(t.Unix()-epochUnix) + float64(t.Nanosecond())/1e9
	return &Value{Kind: KindDate, Float: secs}
}

// DateSeconds returns a Date value from seconds since Epoch.
func DateSeconds(secs float64) *Value {
	return &Value{Kind: KindDate, Float: secs}
}

// Bytes returns a Data value owning a copy of b.
func Bytes(b []byte) *Value {
	return &Value{Kind: KindData, Bytes: append(make([]byte, 0, len(b)), b...)}
}

// Identifier returns a UID value.
func Identifier(u uint64) *Value {
	return &Value{Kind: KindUID, UID: u}
}

// String returns an ASCIIString when every byte of s is 7-bit, and a
// UTF16String otherwise. The empty string is ASCII.
func String(s string) *Value {
	if isASCII(s) {
		return &Value{Kind: KindASCIIString, Bytes: []byte(s)}
	}
	return &Value{Kind: KindUTF16String, UTF16: utf16.Encode([]rune(s))}
}

// Array returns an Array of elems.
func Array(elems ...*Value) *Value {
	return &Value{Kind: KindArray, Elems: elems}
}

// Dictionary returns an empty Dictionary with room for n entries.
func Dictionary(n int) *Value {
	return &Value{Kind: KindDictionary, Keys: make([]*Value, 0, n), Elems: make([]*Value, 0, n)}
}

// Set appends a key/value pair to a Dictionary. Keys are not checked for
// duplicates; insertion order is preserved.
func (v *Value) Set(key, val *Value) *Value {
	v.Keys = append(v.Keys, key)
	v.Elems = append(v.Elems, val)
	return v
}

// Len returns the number of elements of a container or the encoded length
// of a data or string value (bytes or UTF-16 code units).
func (v *Value) Len() int {
	switch v.Kind {
	case KindArray, KindDictionary:
		return len(v.Elems)
	case KindData, KindASCIIString:
		return len(v.Bytes)
	case KindUTF16String:
		return len(v.UTF16)
	}
	return 0
}

// Time converts a Date value back to a UTC time.
func (v *Value) Time() time.Time {
	sec := int64(v.Float)
	nsec := int64((v.Float - float64(sec)) * 1e9)
	return time.Unix(sec+epochUnix, nsec).UTC()
}

// Text returns the string content of an ASCIIString or UTF16String.
func (v *Value) Text() string {
	switch v.Kind {
	case KindASCIIString:
		return string(v.Bytes)
	case KindUTF16String:
		return string(utf16.Decode(v.UTF16))
	}
	return ""
}

// String renders v for logs and test failures. Containers are summarized.
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprint(v.Bool)
	case KindInteger:
		if v.Big != nil {
			return v.Big.String()
		}
		return fmt.Sprint(v.Int)
	case KindReal:
		if v.Single {
			return fmt.Sprintf("%gf", v.Float)
		}
		return fmt.Sprint(v.Float)
	case KindDate:
		return v.Time().Format(time.RFC3339Nano)
	case KindData:
		return fmt.Sprintf("<%d bytes>", len(v.Bytes))
	case KindUID:
		return fmt.Sprintf("uid(%d)", v.UID)
	case KindASCIIString, KindUTF16String:
		return fmt.Sprintf("%q", v.Text())
	case KindArray:
		return fmt.Sprintf("array(%d)", len(v.Elems))
	case KindDictionary:
		keys := make([]string, 0, len(v.Keys))
		for _, k := range v.Keys {
			keys = append(keys, k.String())
		}
		return "dict{" + strings.Join(keys, ",") + "}"
	}
	return v.Kind.String()
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
