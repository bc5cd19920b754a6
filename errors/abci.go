package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessABCICode is the code of a successful result.
	SuccessABCICode = 0

	// Errors without a registered code are reported as code 1 with a
	// generic log, so that internals do not leak to clients.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log to put into an ABCI response. Errors
// without a code get code 1 and, unless debug is set, a generic log. Debug
// mode adds the stack trace to every log.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// ABCIError rebuilds an error from the code and log of a result. Known
// codes wrap their root error, so Is works on the client side as well.
func ABCIError(code uint32, log string) error {
	if root := registry[code]; root != nil {
		return Wrap(root, log)
	}
	return fmt.Errorf("code %d: %s", code, log)
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error in the chain that has one.
func abciCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessABCICode
	}
	for ; err != nil; err = cause(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
	}
	return internalABCICode
}

// Redact replaces errors without a code, and recovered panics, with a
// generic internal error. Debug mode returns err unchanged.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}
