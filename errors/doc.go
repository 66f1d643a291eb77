// Package errors defines the structured error returned by every stage of
// the bplist encoder.
//
// An Error records the Phase that failed (coerce, flatten, plan,
// serialize, or input for CLI document decoding), the Kind of failure, and
// where the offending value sits in the input:
//
//	bplist coerce: unsupported_type at config.servers[2] (chan int): ...
//
// Match kinds with the standard library, whatever the phase:
//
//	if errors.Is(err, bperrors.ErrCyclicReference) { ... }
//
// Hook and decoder failures keep the original error as Cause, so
// errors.Is and errors.As reach it as well.
package errors
