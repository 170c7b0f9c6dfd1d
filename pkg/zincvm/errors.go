package zincvm

import (
	"fmt"

	"github.com/zinc-project/zinc-vm/internal/zincvm/zerr"
)

// ErrorCode identifies the category of failure a public API call returned,
// generalizing the teacher's pkg/vybium-starks-vm.ErrorCode from its STARK-
// prover-specific codes to Zinc's four-kind taxonomy (spec.md §7).
type ErrorCode int

const (
	// ErrUnknown covers failures not otherwise classified.
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig is returned by NewVM when a VMConfig's field
	// modulus or storage tree cannot be constructed.
	ErrInvalidConfig

	// ErrMalformedBytecode mirrors zerr.KindMalformedBytecode: an unknown
	// opcode, a bad stdlib argument count, or a type-incompatible operand.
	ErrMalformedBytecode

	// ErrRuntimeError mirrors zerr.KindRuntimeError: a range-check
	// failure, division by zero, failed assertion, or out-of-bounds
	// storage access.
	ErrRuntimeError

	// ErrSynthesisError mirrors zerr.KindSynthesisError: the underlying
	// constraint system's allocator rejected a variable or constraint.
	ErrSynthesisError

	// ErrStdlibError mirrors zerr.KindStdlibError: a standard-library
	// gadget's precondition was violated.
	ErrStdlibError
)

func (c ErrorCode) String() string {
	switch c {
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrMalformedBytecode:
		return "MalformedBytecode"
	case ErrRuntimeError:
		return "RuntimeError"
	case ErrSynthesisError:
		return "SynthesisError"
	case ErrStdlibError:
		return "StdlibError"
	default:
		return "Unknown"
	}
}

// VMError is the error type every public API function returns, wrapping
// the internal zerr.Error (or a plain configuration failure) behind a
// stable code the way the teacher's VMError wraps internal subsystem
// failures behind ErrVMExecution/ErrProofGeneration/etc.
type VMError struct {
	Code    ErrorCode
	Message string
	At      int // instruction pointer, or -1 if not applicable
	Cause   error
}

func (e *VMError) Error() string {
	if e.At >= 0 {
		return fmt.Sprintf("zincvm error [%s] at ip=%d: %s", e.Code, e.At, e.Message)
	}
	return fmt.Sprintf("zincvm error [%s]: %s", e.Code, e.Message)
}

func (e *VMError) Unwrap() error { return e.Cause }

func (e *VMError) Is(target error) bool {
	t, ok := target.(*VMError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// wrapError translates an internal zerr.Error (or any other error) into a
// public VMError, preserving its kind and instruction pointer.
func wrapError(err error) *VMError {
	if err == nil {
		return nil
	}
	ze, ok := err.(*zerr.Error)
	if !ok {
		return &VMError{Code: ErrUnknown, Message: err.Error(), At: -1, Cause: err}
	}
	code := ErrUnknown
	switch ze.Kind {
	case zerr.KindMalformedBytecode:
		code = ErrMalformedBytecode
	case zerr.KindRuntimeError:
		code = ErrRuntimeError
	case zerr.KindSynthesisError:
		code = ErrSynthesisError
	case zerr.KindStdlibError:
		code = ErrStdlibError
	}
	return &VMError{Code: code, Message: ze.Message, At: ze.At, Cause: ze.Cause}
}
