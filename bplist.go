package bplist

import (
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/bplist/graph"
	"github.com/wippyai/bplist/layout"
	"github.com/wippyai/bplist/value"
	"github.com/wippyai/bplist/writer"
)

// Host wrapper types, see package value.
type (
	UID       = value.UID
	Data      = value.Data
	Dict      = value.Dict
	Pair      = value.Pair
	Hook      = value.Hook
	Marshaler = value.Marshaler
	Value     = value.Value
)

// Encoder encodes values with fixed options. It is safe for concurrent use.
type Encoder struct {
	opts Options
}

// NewEncoder creates an Encoder.
func NewEncoder(opts Options) *Encoder {
	return &Encoder{opts: opts}
}

// Encode encodes v with opts.
func Encode(v any, opts Options) ([]byte, error) {
	return NewEncoder(opts).Encode(v)
}

// Encode returns the bplist00 encoding of v.
func (e *Encoder) Encode(v any) ([]byte, error) {
	trace := e.opts.tracer()

	root, err := value.Coerce(v, e.opts.coerceOptions())
	if err != nil {
		return nil, err
	}

	table, err := graph.Flatten(root, graph.Options{
		Logger: trace,
		Unique: e.opts.Unique,
	})
	if err != nil {
		return nil, err
	}

	plan, err := layout.Calculate(table)
	if err != nil {
		return nil, err
	}
	if trace != nil {
		trace.Debug("layout",
			zap.Int("objects", table.Len()),
			zap.Int("root", table.Root),
			zap.Int("ref_width", plan.RefWidth),
			zap.Int("offset_width", plan.OffsetWidth),
			zap.Int("size", plan.Size),
		)
	}

	return writer.Serialize(table, plan, trace)
}

// EncodeTo encodes v and writes it to w. Nothing is written on failure.
func (e *Encoder) EncodeTo(w io.Writer, v any) error {
	data, err := e.Encode(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
