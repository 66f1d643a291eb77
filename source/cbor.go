package source

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/bplist/errors"
)

var cborMode = mustCBORMode()

func mustCBORMode() cbor.DecMode {
	dm, err := cbor.DecOptions{
		IntDec:    cbor.IntDecConvertSignedOrBigInt,
		BigIntDec: cbor.BigIntDecodePointer,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}

// DecodeCBOR decodes one CBOR data item. Byte strings become []byte,
// bignums and out-of-range integers *big.Int, and tags 0 and 1
// time.Time. Unregistered tags decode to cbor.Tag; pass Hook to the
// encoder to keep their content.
func DecodeCBOR(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, errors.InvalidInput(errors.PhaseInput, "cbor: empty document", nil)
	}
	var v any
	if err := cborMode.Unmarshal(data, &v); err != nil {
		return nil, errors.InvalidInput(errors.PhaseInput, "cbor", err)
	}
	return v, nil
}
