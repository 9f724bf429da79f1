// Package errs defines the runtime's recoverable error taxonomy.
//
// Every error a host sees at the create/link/invoke/update boundary carries
// one of these codes. Invariant violations inside the GC and memory mapper
// are not part of this taxonomy: those are bugs and panic instead of
// returning an Error (see package gc and package mapper).
package errs

import "fmt"

// Code classifies a recoverable runtime error.
type Code int

const (
	// VersionMismatch means an assembly declares an ABI version the
	// runtime does not understand.
	VersionMismatch Code = iota
	// UnresolvedType means a type LUT slot could not be resolved during
	// link.
	UnresolvedType
	// UnresolvedFunction means a dispatch LUT slot could not be resolved
	// during link.
	UnresolvedFunction
	// SignatureMismatch means two functions share a name but not a
	// prototype.
	SignatureMismatch
	// CyclicDependency means the assembly dependency graph has a cycle.
	CyclicDependency
	// InvalidArgument means the host misused an API (nil, out of range).
	InvalidArgument
	// IoError means a shared library file could not be read or opened.
	IoError
)

func (c Code) String() string {
	switch c {
	case VersionMismatch:
		return "VersionMismatch"
	case UnresolvedType:
		return "UnresolvedType"
	case UnresolvedFunction:
		return "UnresolvedFunction"
	case SignatureMismatch:
		return "SignatureMismatch"
	case CyclicDependency:
		return "CyclicDependency"
	case InvalidArgument:
		return "InvalidArgument"
	case IoError:
		return "IoError"
	default:
		return "Unknown"
	}
}

// Error is a recoverable runtime error tagged with a Code.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, errs.New(code, "")) match purely on Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New constructs an Error with a formatted message.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error carrying an underlying cause.
func Wrap(code Code, cause error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Sentinel lets callers do errors.Is(err, errs.Sentinel(errs.UnresolvedFunction)).
func Sentinel(code Code) *Error { return &Error{Code: code} }
