// Package zerr defines the Zinc VM's error taxonomy (spec.md §7): every
// instruction returns either ok-with-updated-state or one of these four
// error kinds, and the dispatcher attaches the current instruction pointer
// before surfacing it, exactly like the teacher's
// pkg/vybium-starks-vm.VMError{Code, Message, Cause} pattern generalized to
// Zinc's four kinds instead of the teacher's "this subsystem failed" codes.
package zerr

import "fmt"

// Kind identifies one of spec.md §7's four error categories.
type Kind int

const (
	// KindMalformedBytecode covers unknown opcodes, bad stdlib argument
	// counts, and type-incompatible operands that should have been caught
	// at compile time. Fatal; aborts the run.
	KindMalformedBytecode Kind = iota
	// KindRuntimeError covers range-check failures, division by zero,
	// assertion failures, storage index out of bounds, and witness-shape
	// mismatches.
	KindRuntimeError
	// KindSynthesisError covers underlying constraint-system allocator
	// failures (assignment missing, namespace collision), surfaced
	// unchanged from the constraint-system layer.
	KindSynthesisError
	// KindStdlibError covers gadget precondition violations (e.g. sha256
	// preimage length not a multiple of 8).
	KindStdlibError
)

func (k Kind) String() string {
	switch k {
	case KindMalformedBytecode:
		return "MalformedBytecode"
	case KindRuntimeError:
		return "RuntimeError"
	case KindSynthesisError:
		return "SynthesisError"
	case KindStdlibError:
		return "StdlibError"
	default:
		return "UnknownError"
	}
}

// Error is a Zinc VM error: its Kind, a human-readable message, the
// instruction pointer active when it occurred (spec.md §7: "all other
// errors carry an instruction-pointer location"), and an optional wrapped
// cause.
type Error struct {
	Kind    Kind
	Message string
	At      int
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s at ip=%d: %s (caused by: %v)", e.Kind, e.At, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s at ip=%d: %s", e.Kind, e.At, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// MalformedBytecode builds a KindMalformedBytecode error. The instruction
// pointer is attached later by the dispatcher (via WithAt) for gadgets that
// don't know their own IP.
func MalformedBytecode(format string, args ...interface{}) *Error {
	return &Error{Kind: KindMalformedBytecode, Message: fmt.Sprintf(format, args...), At: -1}
}

// Runtime builds a KindRuntimeError error.
func Runtime(format string, args ...interface{}) *Error {
	return &Error{Kind: KindRuntimeError, Message: fmt.Sprintf(format, args...), At: -1}
}

// Synthesis builds a KindSynthesisError error, wrapping the underlying
// constraint-system failure.
func Synthesis(cause error) *Error {
	return &Error{Kind: KindSynthesisError, Message: "constraint system allocation failed", At: -1, Cause: cause}
}

// Stdlib builds a KindStdlibError error.
func Stdlib(format string, args ...interface{}) *Error {
	return &Error{Kind: KindStdlibError, Message: fmt.Sprintf(format, args...), At: -1}
}

// WithAt returns a copy of err with its instruction pointer set, if err is
// a *Error; otherwise it wraps err as a RuntimeError at that pointer.
func WithAt(err error, at int) *Error {
	if err == nil {
		return nil
	}
	if ze, ok := err.(*Error); ok {
		cp := *ze
		cp.At = at
		return &cp
	}
	return &Error{Kind: KindRuntimeError, Message: err.Error(), At: at}
}
