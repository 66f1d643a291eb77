package errors

import (
	"fmt"
	"strings"
)

// Phase is the encoder stage that failed.
type Phase string

const (
	PhaseCoerce    Phase = "coerce"    // Go value to canonical value
	PhaseFlatten   Phase = "flatten"   // canonical tree to object table
	PhasePlan      Phase = "plan"      // reference and offset widths
	PhaseSerialize Phase = "serialize" // object table to bytes
	PhaseInput     Phase = "input"     // document decoding (CLI sources)
)

// Kind is the failure category. Callers match on it through errors.Is.
type Kind string

const (
	KindUnsupportedType  Kind = "unsupported_type"
	KindCyclicReference  Kind = "cyclic_reference"
	KindEncodingOverflow Kind = "encoding_overflow"
	KindHookFailure      Kind = "hook_failure"
	KindDepthExceeded    Kind = "depth_exceeded"
	KindInvalidInput     Kind = "invalid_input"
)

// Sentinels for errors.Is. A sentinel without a phase matches every phase.
var (
	ErrUnsupportedType  = &Error{Kind: KindUnsupportedType}
	ErrCyclicReference  = &Error{Kind: KindCyclicReference}
	ErrEncodingOverflow = &Error{Kind: KindEncodingOverflow}
	ErrHookFailure      = &Error{Kind: KindHookFailure}
	ErrDepthExceeded    = &Error{Kind: KindDepthExceeded}
	ErrInvalidInput     = &Error{Kind: KindInvalidInput}
)

// Error describes an encoding failure and where in the input it happened.
type Error struct {
	// Value is the offending value, when one is known.
	Value any
	Cause error
	Phase Phase
	Kind  Kind
	// GoType is the dynamic type of the offending host value.
	GoType string
	Detail string
	// Path locates the value: dictionary keys and "[i]" array indices.
	Path []string
}

// Error renders "bplist <phase>: <kind> at <path> (<type>): <detail>: <cause>",
// leaving out the parts that are empty.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("bplist ")
	if e.Phase != "" {
		b.WriteString(string(e.Phase))
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(shortPath(e.Path))
	}
	if e.GoType != "" {
		fmt.Fprintf(&b, " (%s)", e.GoType)
	}
	for _, part := range []string{e.Detail, causeText(e.Cause)} {
		if part != "" {
			b.WriteString(": ")
			b.WriteString(part)
		}
	}
	return b.String()
}

func causeText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by kind, and by phase when the target has one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Kind != e.Kind {
		return false
	}
	return t.Phase == "" || t.Phase == e.Phase
}

// FormatPath joins path segments with dots. Index segments ("[3]")
// attach to the previous segment without a separator.
func FormatPath(path []string) string {
	var b strings.Builder
	for i, seg := range path {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// pathEdge is how many leading and trailing segments an error message
// keeps of a long path.
const pathEdge = 4

// shortPath formats path, eliding the middle of paths longer than
// 2*pathEdge+1 segments. Error.Path keeps every segment.
func shortPath(path []string) string {
	if len(path) <= 2*pathEdge+1 {
		return FormatPath(path)
	}
	head := FormatPath(path[:pathEdge])
	tail := FormatPath(path[len(path)-pathEdge:])
	return fmt.Sprintf("%s...(%d more)...%s", head, len(path)-2*pathEdge, tail)
}

// Builder assembles an Error field by field.
type Builder struct {
	err Error
}

// New starts an error of the given phase and kind.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind}}
}

func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the message; args are applied with fmt.Sprintf when present.
func (b *Builder) Detail(format string, args ...any) *Builder {
	b.err.Detail = format
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(format, args...)
	}
	return b
}

func (b *Builder) Build() *Error {
	return &b.err
}

// UnsupportedType reports a host value that no coercion rule, Marshaler or
// object hook resolved.
func UnsupportedType(path []string, goType string) *Error {
	return New(PhaseCoerce, KindUnsupportedType).
		Path(path...).
		GoType(goType).
		Detail("no coercion rule or object hook resolved the value").
		Build()
}

// CyclicReference reports a container reachable from itself.
func CyclicReference(phase Phase, path []string, goType string) *Error {
	return New(phase, KindCyclicReference).
		Path(path...).
		GoType(goType).
		Detail("container references itself").
		Build()
}

// Overflow reports a value too large for the wire field named by target.
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return New(phase, KindEncodingOverflow).
		Path(path...).
		Value(value).
		Detail("%v does not fit %s", value, target).
		Build()
}

// HookFailure wraps the error of a Marshaler or object hook.
func HookFailure(path []string, goType string, cause error) *Error {
	return New(PhaseCoerce, KindHookFailure).
		Path(path...).
		GoType(goType).
		Cause(cause).
		Detail("object hook failed").
		Build()
}

// DepthExceeded reports nesting or substitution past limit.
func DepthExceeded(phase Phase, path []string, limit int) *Error {
	return New(phase, KindDepthExceeded).
		Path(path...).
		Value(limit).
		Detail("deeper than max depth %d", limit).
		Build()
}

// InvalidInput reports malformed input: an unreadable document, or a
// canonical value or plan that breaks the encoder's invariants.
func InvalidInput(phase Phase, detail string, cause error) *Error {
	return New(phase, KindInvalidInput).Cause(cause).Detail(detail).Build()
}
