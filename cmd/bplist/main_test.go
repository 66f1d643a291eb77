package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/bplist/internal/bplisttest"
	"github.com/wippyai/bplist/value"
)

func decodePlist(t *testing.T, data []byte) any {
	t.Helper()
	f, err := bplisttest.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v, err := f.DecodeRoot()
	if err != nil {
		t.Fatalf("DecodeRoot: %v", err)
	}
	return v
}

func TestRun_FileToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "doc.yaml")
	out := filepath.Join(dir, "doc.plist")
	if err := os.WriteFile(in, []byte("name: demo\ncount: 3\nnone: ~\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run([]string{"-o", out, "--convert-nulls", in}, nil, nil, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := value.Dict{
		{Key: "name", Value: "demo"},
		{Key: "count", Value: int64(3)},
		{Key: "none", Value: false},
	}
	if got := decodePlist(t, data); !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v", got)
	}
}

func TestRun_Stdin(t *testing.T) {
	var stdout bytes.Buffer
	stdin := strings.NewReader(`["x", "x", {"k": 1}]`)
	if err := run([]string{"--from", "json", "--unique=false"}, stdin, &stdout, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	f, err := bplisttest.Parse(stdout.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	// "x", "x", "k", 1, dict, array
	if f.Trailer.NumObjects != 6 {
		t.Errorf("objects = %d, want 6", f.Trailer.NumObjects)
	}
}

func TestRun_CBORTags(t *testing.T) {
	data, err := cbor.Marshal([]any{cbor.Tag{Number: 4000, Content: "wrapped"}})
	if err != nil {
		t.Fatal(err)
	}
	var stdout bytes.Buffer
	if err := run([]string{"--from", "cbor", "-"}, bytes.NewReader(data), &stdout, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := decodePlist(t, stdout.Bytes()); !reflect.DeepEqual(got, []any{"wrapped"}) {
		t.Errorf("got %#v", got)
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(txt, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	deep := filepath.Join(dir, "deep.json")
	if err := os.WriteFile(deep, []byte(`[[[[1]]]]`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"stdin without format", nil, "--from"},
		{"unknown extension", []string{txt}, "cannot tell"},
		{"unknown format", []string{"--from", "xml", txt}, "unknown format"},
		{"missing file", []string{filepath.Join(dir, "nope.json")}, "read input"},
		{"extra argument", []string{"a.json", "b.json"}, "unexpected argument"},
		{"depth", []string{"--max-depth", "2", deep}, "depth_exceeded"},
		{"bad flag", []string{"--nope"}, "unknown flag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			err := run(tt.args, strings.NewReader(""), &bytes.Buffer{}, &stderr)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	var stderr bytes.Buffer
	if err := run([]string{"-h"}, nil, nil, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stderr.String(), "--convert-nulls") {
		t.Errorf("help output missing flags:\n%s", stderr.String())
	}
}
