package swift

import (
	"errors"
	"fmt"
)

// PanicCode identifies the kind of precondition failure raised by the core.
type PanicCode int

// Stable panic codes - do not change values.
const (
	PanicOutOfBounds     PanicCode = 2001 // SW2001: index or range outside the collection
	PanicEmptyCollection PanicCode = 2002 // SW2002: removal from an empty collection
	PanicUnsupported     PanicCode = 2003 // SW2003: operation not supported by this handle
	PanicPrecondition    PanicCode = 2004 // SW2004: argument precondition failed
	PanicDuplicateKey    PanicCode = 2005 // SW2005: duplicate key in unique-keys construction
)

// String returns the code as "SW2001" format.
func (c PanicCode) String() string {
	return fmt.Sprintf("SW%d", c)
}

// Error is the value every fatal core failure panics with.
type Error struct {
	Code    PanicCode
	Op      string
	Message string
}

// Sentinels for errors.Is matching by code.
var (
	ErrOutOfBounds     = &Error{Code: PanicOutOfBounds}
	ErrEmptyCollection = &Error{Code: PanicEmptyCollection}
	ErrUnsupported     = &Error{Code: PanicUnsupported}
	ErrPrecondition    = &Error{Code: PanicPrecondition}
	ErrDuplicateKey    = &Error{Code: PanicDuplicateKey}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("fatal %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("fatal %s: %s: %s", e.Code, e.Op, e.Message)
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func fail(code PanicCode, op, msg string) {
	panic(&Error{Code: code, Op: op, Message: msg})
}

func outOfBounds(op string, index, length int) {
	fail(PanicOutOfBounds, op, fmt.Sprintf("index %d out of bounds for length %d", index, length))
}

func rangeOutOfBounds(op string, lo, hi, length int) {
	fail(PanicOutOfBounds, op, fmt.Sprintf("range %d..<%d out of bounds for length %d", lo, hi, length))
}

func emptyCollection(op string) {
	fail(PanicEmptyCollection, op, "collection is empty")
}

func unsupported(op, what string) {
	fail(PanicUnsupported, op, what)
}

func precondition(op, msg string) {
	fail(PanicPrecondition, op, msg)
}

// Try runs fn and converts a core panic into an error. Panics that are not
// *Error values are re-raised.
func Try(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(*Error); ok {
			err = e
			return
		}
		panic(r)
	}()
	fn()
	return nil
}
