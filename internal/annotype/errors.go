package annotype

import (
	"errors"
	"fmt"
)

// Error represents a failure of a construction, query, or combination.
//
// Errors are local and synchronous: they are returned to the immediate
// caller, never retried, and a failed construction never mutates the cache.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Descriptor is the rendered descriptor the operation ran against.
	Descriptor string

	// Index is the offending argument position, or -1.
	Index int

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes errors.
type ErrorCode string

const (
	// CodeInvalidArgument indicates one argument failed the per-element policy.
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// CodeInvalidArgumentSet indicates the argument collection failed the
	// aggregate policy or could not be reduced.
	CodeInvalidArgumentSet ErrorCode = "INVALID_ARGUMENT_SET"

	// CodeUnsupportedOperation indicates no kind rule or fallback can answer.
	CodeUnsupportedOperation ErrorCode = "UNSUPPORTED_OPERATION"

	// CodeTypeMismatch indicates operands of differing bare kinds, or a value
	// that does not fit the descriptor it is wrapped under.
	CodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
)

// Sentinels for errors.Is. Matching compares codes only.
var (
	ErrInvalidArgument      = &Error{Code: CodeInvalidArgument, Index: -1}
	ErrInvalidArgumentSet   = &Error{Code: CodeInvalidArgumentSet, Index: -1}
	ErrUnsupportedOperation = &Error{Code: CodeUnsupportedOperation, Index: -1}
	ErrTypeMismatch         = &Error{Code: CodeTypeMismatch, Index: -1}
)

// ErrNotImplemented is returned by a Kind hook that declines to answer.
// Public queries never return it; they run the generic fallback instead.
var ErrNotImplemented = errors.New("annotype: not implemented")

// Error implements the error interface.
func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Descriptor != "" {
		msg += fmt.Sprintf(" (descriptor=%s)", e.Descriptor)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsInvalidArgument returns true if err is a per-element validation failure.
func IsInvalidArgument(err error) bool {
	return CodeOf(err) == CodeInvalidArgument
}

// IsInvalidArgumentSet returns true if err is an aggregate validation failure.
func IsInvalidArgumentSet(err error) bool {
	return CodeOf(err) == CodeInvalidArgumentSet
}

// IsUnsupportedOperation returns true if err reports an unanswerable operation.
func IsUnsupportedOperation(err error) bool {
	return CodeOf(err) == CodeUnsupportedOperation
}

// IsTypeMismatch returns true if err reports incompatible operands.
func IsTypeMismatch(err error) bool {
	return CodeOf(err) == CodeTypeMismatch
}

func newInvalidArgument(d *Descriptor, index int, arg any) *Error {
	return &Error{
		Code:       CodeInvalidArgument,
		Message:    fmt.Sprintf("argument %d (%s) is not of the desired types", index, NameOf(arg)),
		Descriptor: d.String(),
		Index:      index,
		Details: map[string]string{
			"argument": NameOf(arg),
			"type":     fmt.Sprintf("%T", arg),
		},
	}
}

func newInvalidArgumentSet(d *Descriptor, message string, cause error) *Error {
	return &Error{
		Code:       CodeInvalidArgumentSet,
		Message:    message,
		Descriptor: d.String(),
		Index:      -1,
		Err:        cause,
	}
}

func newUnsupported(d *Descriptor, message string) *Error {
	e := &Error{
		Code:    CodeUnsupportedOperation,
		Message: message,
		Index:   -1,
	}
	if d != nil {
		e.Descriptor = d.String()
	}
	return e
}

func newTypeMismatch(message string, a, b any) *Error {
	return &Error{
		Code:    CodeTypeMismatch,
		Message: message,
		Index:   -1,
		Details: map[string]string{
			"left":  NameOf(a),
			"right": NameOf(b),
		},
	}
}
