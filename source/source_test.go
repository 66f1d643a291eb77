package source

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/wippyai/bplist/errors"
	"github.com/wippyai/bplist/value"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"config.yaml", FormatYAML, true},
		{"config.yml", FormatYAML, true},
		{"DATA.JSON", FormatJSON, true},
		{"settings.jsonc", FormatJSON, true},
		{"blob.cbor", FormatCBOR, true},
		{"blob.msgpack", FormatMsgpack, true},
		{"dir/blob.mp", FormatMsgpack, true},
		{"notes.txt", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		got, ok := Detect(tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Detect(%q) = %q, %v", tt.path, got, ok)
		}
	}
}

func TestParseFormat_Unknown(t *testing.T) {
	if _, err := ParseFormat("xml"); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
	if _, err := Decode([]byte("1"), Format("xml")); !stderrors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("expected invalid input, got %v", err)
	}
}

func TestDecodeJSON(t *testing.T) {
	in := []byte(`// settings
{
	"z": 1,
	"a": [1.5, "x", null, true], /* inline */
	"big": 123456789012345678901234567890,
}`)
	got, err := DecodeJSON(in)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	d, ok := got.(value.Dict)
	if !ok || len(d) != 3 {
		t.Fatalf("got %#v", got)
	}
	if d[0].Key != "z" || d[0].Value != int64(1) {
		t.Errorf("entry 0 = %#v", d[0])
	}
	if !reflect.DeepEqual(d[1].Value, []any{1.5, "x", nil, true}) {
		t.Errorf("entry 1 = %#v", d[1])
	}
	b, ok := d[2].Value.(*big.Int)
	if !ok || b.String() != "123456789012345678901234567890" {
		t.Errorf("entry 2 = %#v", d[2])
	}
}

func TestDecodeJSON_Errors(t *testing.T) {
	for _, in := range []string{"", "// nothing", `{} {}`, `[1,`, `{"a" 1}`} {
		if _, err := DecodeJSON([]byte(in)); !stderrors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("%q: expected invalid input, got %v", in, err)
		}
	}
}

func TestDecodeYAML(t *testing.T) {
	in := []byte(`
z: 1
a: [true, ~, 2.5, "quoted"]
bin: !!binary AQID
when: 2001-01-01T00:00:00Z
big: !!int 1267650600228229401496703205376
base: &anchor {k: v}
ref: *anchor
`)
	got, err := DecodeYAML(in)
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	d, ok := got.(value.Dict)
	if !ok || len(d) != 7 {
		t.Fatalf("got %#v", got)
	}

	keys := make([]any, len(d))
	for i, p := range d {
		keys[i] = p.Key
	}
	if !reflect.DeepEqual(keys, []any{"z", "a", "bin", "when", "big", "base", "ref"}) {
		t.Errorf("keys = %v", keys)
	}
	if d[0].Value != int64(1) {
		t.Errorf("z = %#v", d[0].Value)
	}
	if !reflect.DeepEqual(d[1].Value, []any{true, nil, 2.5, "quoted"}) {
		t.Errorf("a = %#v", d[1].Value)
	}
	if !bytes.Equal(d[2].Value.([]byte), []byte{1, 2, 3}) {
		t.Errorf("bin = %#v", d[2].Value)
	}
	if when, ok := d[3].Value.(time.Time); !ok || !when.Equal(value.Epoch) {
		t.Errorf("when = %#v", d[3].Value)
	}
	if b, ok := d[4].Value.(*big.Int); !ok || b.Cmp(new(big.Int).Lsh(big.NewInt(1), 100)) != 0 {
		t.Errorf("big = %#v", d[4].Value)
	}
	if !reflect.DeepEqual(d[5].Value, d[6].Value) {
		t.Errorf("alias = %#v, anchor = %#v", d[6].Value, d[5].Value)
	}
}

func TestDecodeYAML_Errors(t *testing.T) {
	inputs := []string{
		"",
		"a: [1",
		"x: !!binary '***'",
		"a: &x [1, *x]\n",
		"a: &m {k: *m}\n",
		laughs(10),
	}
	for _, in := range inputs {
		if _, err := DecodeYAML([]byte(in)); !stderrors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("%.40q: expected invalid input, got %v", in, err)
		}
	}
}

func TestDecodeYAML_SharedAnchor(t *testing.T) {
	got, err := DecodeYAML([]byte("base: &b [1, 2]\npair: [*b, *b]\n"))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	want := value.Dict{
		{Key: "base", Value: []any{int64(1), int64(2)}},
		{Key: "pair", Value: []any{[]any{int64(1), int64(2)}, []any{int64(1), int64(2)}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v", got)
	}
}

// laughs builds levels of anchors, each a list of ten aliases to the one
// before, expanding to 10^levels scalars.
func laughs(levels int) string {
	var b strings.Builder
	b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i < levels; i++ {
		ref := "*l" + strconv.Itoa(i-1)
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, strings.Repeat(ref+", ", 9)+ref)
	}
	return b.String()
}

func TestDecodeCBOR(t *testing.T) {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339, TimeTag: cbor.EncTagRequired}.EncMode()
	if err != nil {
		t.Fatal(err)
	}
	huge := new(big.Int).Lsh(big.NewInt(1), 100)
	data, err := em.Marshal(map[string]any{
		"bytes": []byte{9},
		"max":   uint64(1<<64 - 1),
		"big":   huge,
		"when":  value.Epoch,
		"tag":   cbor.Tag{Number: 1000, Content: "inner"},
		"list":  []any{-1, "s"},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := DecodeCBOR(data)
	if err != nil {
		t.Fatalf("DecodeCBOR: %v", err)
	}
	m, ok := got.(map[any]any)
	if !ok {
		t.Fatalf("got %T", got)
	}
	if !bytes.Equal(m["bytes"].([]byte), []byte{9}) {
		t.Errorf("bytes = %#v", m["bytes"])
	}
	if b, ok := m["max"].(*big.Int); !ok || b.String() != "18446744073709551615" {
		t.Errorf("max = %#v", m["max"])
	}
	if b, ok := m["big"].(*big.Int); !ok || b.Cmp(huge) != 0 {
		t.Errorf("big = %#v", m["big"])
	}
	if when, ok := m["when"].(time.Time); !ok || !when.Equal(value.Epoch) {
		t.Errorf("when = %#v", m["when"])
	}
	if !reflect.DeepEqual(m["list"], []any{int64(-1), "s"}) {
		t.Errorf("list = %#v", m["list"])
	}

	sub, ok, err := Hook(m["tag"])
	if err != nil || !ok || sub != "inner" {
		t.Errorf("Hook(tag) = %#v, %v, %v", sub, ok, err)
	}
	if _, ok, _ := Hook(struct{}{}); ok {
		t.Error("Hook should decline other values")
	}
}

func TestDecodeCBOR_Errors(t *testing.T) {
	for _, in := range [][]byte{nil, {0x82, 0x01}, {0x01, 0x02}} {
		if _, err := DecodeCBOR(in); !stderrors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("%x: expected invalid input, got %v", in, err)
		}
	}
}

func TestDecodeMsgpack(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(enc.EncodeMapLen(4))
	must(enc.EncodeString("z"))
	must(enc.EncodeInt(300))
	must(enc.EncodeString("a"))
	must(enc.EncodeBytes([]byte{1, 2}))
	must(enc.EncodeString("when"))
	must(enc.EncodeTime(value.Epoch))
	must(enc.EncodeString("nested"))
	must(enc.EncodeArrayLen(2))
	must(enc.EncodeMapLen(1))
	must(enc.EncodeString("k"))
	must(enc.EncodeBool(true))
	must(enc.EncodeNil())

	got, err := DecodeMsgpack(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeMsgpack: %v", err)
	}
	d, ok := got.(value.Dict)
	if !ok || len(d) != 4 {
		t.Fatalf("got %#v", got)
	}
	if d[0].Key != "z" || d[0].Value != uint16(300) {
		t.Errorf("entry 0 = %#v", d[0])
	}
	if d[1].Key != "a" || !bytes.Equal(d[1].Value.([]byte), []byte{1, 2}) {
		t.Errorf("entry 1 = %#v", d[1])
	}
	if when, ok := d[2].Value.(time.Time); !ok || !when.Equal(value.Epoch) {
		t.Errorf("entry 2 = %#v", d[2])
	}
	want := []any{value.Dict{{Key: "k", Value: true}}, nil}
	if !reflect.DeepEqual(d[3].Value, want) {
		t.Errorf("entry 3 = %#v", d[3])
	}
}

func TestDecodeMsgpack_Errors(t *testing.T) {
	for _, in := range [][]byte{nil, {0x92, 0x01}, {0x01, 0x02}} {
		if _, err := DecodeMsgpack(in); !stderrors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("%x: expected invalid input, got %v", in, err)
		}
	}
}
