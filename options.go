package bplist

import (
	"go.uber.org/zap"

	"github.com/wippyai/bplist/value"
)

// Options configures encoding. The zero value encodes without uniquing
// and with the default depth limit; DefaultOptions enables uniquing.
type Options struct {
	// NullSubstitute replaces nil values when ConvertNulls is set.
	// Nil means false. Some plist consumers cannot round-trip the null
	// primitive; the substitute is a policy choice, not a format rule.
	NullSubstitute any
	// ObjectHook resolves values no built-in rule accepts. Pointers to
	// structs are offered as passed, then again dereferenced.
	ObjectHook Hook
	// Logger receives debug records when Debug is set. Nil uses Logger().
	Logger *zap.Logger
	// MaxDepth limits container nesting; zero means 16384.
	MaxDepth int
	// Unique collapses equal leaves into one object.
	Unique bool
	// ConvertNulls rewrites nil to NullSubstitute.
	ConvertNulls bool
	// Debug traces every object as it is indexed and written.
	// It never changes the output bytes.
	Debug bool
}

// DefaultOptions returns options with uniquing enabled.
func DefaultOptions() Options {
	return Options{
		Unique:   true,
		MaxDepth: value.DefaultMaxDepth,
	}
}

// WithUnique sets leaf uniquing.
func (o Options) WithUnique(unique bool) Options {
	o.Unique = unique
	return o
}

// WithConvertNulls rewrites nil values to substitute (nil means false).
func (o Options) WithConvertNulls(substitute any) Options {
	o.ConvertNulls = true
	o.NullSubstitute = substitute
	return o
}

// WithObjectHook sets the fallback for otherwise unsupported values.
func (o Options) WithObjectHook(hook Hook) Options {
	o.ObjectHook = hook
	return o
}

// WithMaxDepth sets the container nesting limit.
func (o Options) WithMaxDepth(depth int) Options {
	o.MaxDepth = depth
	return o
}

// WithDebug enables tracing to log. A nil log uses Logger().
func (o Options) WithDebug(log *zap.Logger) Options {
	o.Debug = true
	o.Logger = log
	return o
}

func (o Options) coerceOptions() value.Options {
	return value.Options{
		NullSubstitute: o.NullSubstitute,
		ObjectHook:     o.ObjectHook,
		MaxDepth:       o.MaxDepth,
		ConvertNulls:   o.ConvertNulls,
	}
}

func (o Options) tracer() *zap.Logger {
	if !o.Debug {
		return nil
	}
	if o.Logger != nil {
		return o.Logger
	}
	return Logger()
}
