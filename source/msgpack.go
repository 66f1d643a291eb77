package source

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/wippyai/bplist/errors"
	"github.com/wippyai/bplist/value"
)

// DecodeMsgpack decodes one MessagePack value. Maps become value.Dict in
// wire order, bin becomes []byte and the timestamp extension time.Time.
func DecodeMsgpack(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, errors.InvalidInput(errors.PhaseInput, "msgpack: empty document", nil)
	}
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	dec.SetMapDecoder(decodeMsgpackMap)

	v, err := dec.DecodeInterface()
	if err != nil {
		return nil, errors.InvalidInput(errors.PhaseInput, "msgpack", err)
	}
	if r.Len() != 0 {
		return nil, errors.InvalidInput(errors.PhaseInput, "msgpack: trailing data after document", nil)
	}
	return v, nil
}

func decodeMsgpackMap(dec *msgpack.Decoder) (any, error) {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return nil, nil
	}
	entries := make(value.Dict, 0, min(n, 1024))
	for i := 0; i < n; i++ {
		k, err := dec.DecodeInterface()
		if err != nil {
			return nil, err
		}
		v, err := dec.DecodeInterface()
		if err != nil {
			return nil, err
		}
		entries = append(entries, value.Pair{Key: k, Value: v})
	}
	return entries, nil
}
