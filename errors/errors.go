package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by all extensions. Codes are part of the client
// protocol and must never be renumbered.
var (
	ErrUnauthorized       = Register(2, "unauthorized")
	ErrNotFound           = Register(3, "not found")
	ErrMsg                = Register(4, "invalid message")
	ErrModel              = Register(5, "invalid model")
	ErrDuplicate          = Register(6, "duplicate")
	ErrHuman              = Register(7, "coding error")
	ErrImmutable          = Register(8, "cannot be modified")
	ErrEmpty              = Register(9, "value is empty")
	ErrState              = Register(10, "invalid state")
	ErrType               = Register(11, "invalid type")
	ErrInsufficientAmount = Register(12, "insufficient amount")
	ErrAmount             = Register(13, "invalid amount")
	ErrInput              = Register(14, "invalid input")
	ErrExpired            = Register(15, "expired")
	ErrOverflow           = Register(16, "an operation cannot be completed due to value overflow")
	ErrDatabase           = Register(17, "database error")
	ErrIteratorDone       = Register(18, "iterator done")
	ErrCurrency           = Register(19, "invalid currency")
	ErrMetadata           = Register(20, "invalid metadata")

	// ErrPanic marks a recovered panic. Its message is never sent to
	// clients outside of debug mode.
	ErrPanic = Register(111222, "panic")
)

// registry maps every code in use to its root error. Code 1 is reserved for
// errors that carry no code at all.
var registry = map[uint32]*Error{
	internalABCICode: nil,
}

// Register declares a root error. Extensions call it from package level
// vars, and a code registered twice panics at start up.
func Register(code uint32, description string) *Error {
	if prev, ok := registry[code]; ok {
		if prev == nil {
			panic(fmt.Sprintf("error code %d is reserved", code))
		}
		panic(fmt.Sprintf("error code %d already registered as %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a root error. Errors returned at runtime wrap one of them, which
// gives the client a stable code to act on.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// ABCICode is the code reported in the transaction or query result.
func (e Error) ABCICode() uint32 {
	return e.code
}

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is a shortcut for Wrapf(e, format, args...).
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrapf(e, format, args...)
}

// Is reports whether err is e or wraps it. Multi errors match when any of
// their members does.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNilErr(err)
	}
	for err != nil {
		if err == e {
			return true
		}
		if u, ok := err.(unpacker); ok {
			for _, member := range u.Unpack() {
				if e.Is(member) {
					return true
				}
			}
			return false
		}
		err = cause(err)
	}
	return false
}

// Wrap adds context to err. A nil err stays nil, so the result of a call
// can be wrapped without checking it first. The innermost wrap records the
// stack trace.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithType wraps err with the dynamic type of obj.
func WithType(err error, obj interface{}) error {
	return Wrapf(err, "%T", obj)
}

// Recover turns a panic into an ErrPanic assigned to *err. It must be
// called with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format prints the stack trace after the message for %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s\n%+v", e.Error(), stackTrace(e))
		return
	}
	fmt.Fprint(s, e.Error())
}

type causer interface {
	Cause() error
}

// cause returns the error wrapped by err, or nil.
func cause(err error) error {
	if c, ok := err.(causer); ok {
		return c.Cause()
	}
	return nil
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func stackTrace(err error) errors.StackTrace {
	for ; err != nil; err = cause(err) {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
	}
	return nil
}

// isNilErr also catches a typed nil pointer stored in the interface.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	val := reflect.ValueOf(err)
	return val.Kind() == reflect.Ptr && val.IsNil()
}
