package sortedmap

import "fmt"

// --------------------------------------------------------------------------
// Error Codes
// --------------------------------------------------------------------------

// ErrCode classifies the failures of map operations
type ErrCode uint64

const (
	ErrCodeUnknown                ErrCode = iota // 0: unclassified failure
	ErrCodeDuplicateKey                          // 1: Add of a key that is already present
	ErrCodeKeyNotFound                           // 2: Get of an absent key
	ErrCodeInvalidArgument                       // 3: nil destination or other invalid input
	ErrCodeOutOfRange                            // 4: offset outside the destination
	ErrCodeCapacity                              // 5: destination too small for the elements
	ErrCodeNotSupported                          // 6: mutation through a read-only or keyless view
	ErrCodeConcurrentModification                // 7: structural change during iteration
)

func (c ErrCode) String() string {
	switch c {
	case ErrCodeDuplicateKey:
		return "DuplicateKey"
	case ErrCodeKeyNotFound:
		return "KeyNotFound"
	case ErrCodeInvalidArgument:
		return "InvalidArgument"
	case ErrCodeOutOfRange:
		return "OutOfRange"
	case ErrCodeCapacity:
		return "Capacity"
	case ErrCodeNotSupported:
		return "NotSupported"
	case ErrCodeConcurrentModification:
		return "ConcurrentModification"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error wraps an ErrCode and a message.
// Two errors match under errors.Is when their codes are equal, so callers
// compare against the sentinels below and still get a detailed message.
type Error struct {
	Code ErrCode
	Msg  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("sortedmap (code %s): %s", e.Code, e.Msg)
}

// Is reports whether target is an *Error with the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

func newErrorf(code ErrCode, format string, args ...any) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// Sentinels for errors.Is
var (
	ErrDuplicateKey           = NewError(ErrCodeDuplicateKey, "an entry with the same key already exists")
	ErrKeyNotFound            = NewError(ErrCodeKeyNotFound, "the given key was not present")
	ErrInvalidArgument        = NewError(ErrCodeInvalidArgument, "invalid argument")
	ErrOutOfRange             = NewError(ErrCodeOutOfRange, "index is out of range")
	ErrCapacity               = NewError(ErrCodeCapacity, "destination is too small")
	ErrNotSupported           = NewError(ErrCodeNotSupported, "operation not supported")
	ErrConcurrentModification = NewError(ErrCodeConcurrentModification, "map was modified during iteration")
)
