// Package source decodes YAML, JSON, CBOR and MessagePack documents into
// Go values the encoder accepts. Ordered formats (YAML, JSON, MessagePack)
// keep their mapping order through value.Dict; CBOR maps come back as Go
// maps and are sorted by the encoder.
package source

import (
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/bplist/errors"
)

// Format names an input document format.
type Format string

const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatCBOR    Format = "cbor"
	FormatMsgpack Format = "msgpack"
)

var formatNames = map[string]Format{
	"yaml":    FormatYAML,
	"yml":     FormatYAML,
	"json":    FormatJSON,
	"jsonc":   FormatJSON,
	"cbor":    FormatCBOR,
	"msgpack": FormatMsgpack,
	"mp":      FormatMsgpack,
}

// ParseFormat resolves a format name or file extension without the dot.
func ParseFormat(name string) (Format, error) {
	if f, ok := formatNames[strings.ToLower(name)]; ok {
		return f, nil
	}
	return "", errors.InvalidInput(errors.PhaseInput, "unknown format "+name, nil)
}

// Detect guesses the format of path from its extension.
func Detect(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	return f, err == nil
}

// Decode decodes data as format f.
func Decode(data []byte, f Format) (any, error) {
	switch f {
	case FormatYAML:
		return DecodeYAML(data)
	case FormatJSON:
		return DecodeJSON(data)
	case FormatCBOR:
		return DecodeCBOR(data)
	case FormatMsgpack:
		return DecodeMsgpack(data)
	}
	return nil, errors.InvalidInput(errors.PhaseInput, "unknown format "+string(f), nil)
}

// Hook resolves decoder values the encoder has no rule for. Unregistered
// CBOR tags encode as their content.
func Hook(v any) (any, bool, error) {
	switch t := v.(type) {
	case cbor.Tag:
		return t.Content, true, nil
	case *cbor.Tag:
		if t == nil {
			return nil, true, nil
		}
		return t.Content, true, nil
	}
	return nil, false, nil
}
