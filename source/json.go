package source

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/wippyai/bplist/errors"
	"github.com/wippyai/bplist/value"
)

// DecodeJSON decodes one JSON value. Comments and trailing commas are
// accepted. Objects become value.Dict in document order; integers become
// int64, or *big.Int when they do not fit.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	v, err := decodeJSONValue(dec)
	if err == io.EOF {
		return nil, errors.InvalidInput(errors.PhaseInput, "json: empty document", nil)
	}
	if err != nil {
		return nil, errors.InvalidInput(errors.PhaseInput, "json", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.InvalidInput(errors.PhaseInput, "json: trailing data after document", err)
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			entries := value.Dict{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, truncated(err)
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, truncated(err)
				}
				entries = append(entries, value.Pair{Key: kt, Value: v})
			}
			if _, err := dec.Token(); err != nil {
				return nil, truncated(err)
			}
			return entries, nil
		case '[':
			list := []any{}
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, truncated(err)
				}
				list = append(list, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, truncated(err)
			}
			return list, nil
		}
		return nil, errors.InvalidInput(errors.PhaseInput, "json: unexpected "+t.String(), nil)
	case json.Number:
		return jsonNumber(t)
	default:
		// string, bool or nil
		return t, nil
	}
}

// truncated reports EOF inside a container as unexpected.
func truncated(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func jsonNumber(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if b, ok := new(big.Int).SetString(s, 10); ok {
			return b, nil
		}
	}
	return n.Float64()
}
