package errors

import (
	"errors"
	"fmt"
	"reflect"
)

// SuccessABCICode is the code of a response that carries no error.
const SuccessABCICode = 0

// Errors without a registered code are reported with this code. Outside of
// debug mode their message is hidden behind internalABCILog.
const (
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo translates err into the code and log of an ABCI response.
//
// A panic recovered by the application is reported as an internal error
// unless debug is set. In debug mode the log holds the full error with its
// stack trace.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}
	code := codeOf(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode, code == ErrPanic.code:
		return internalABCICode, internalABCILog
	default:
		return code, err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// codeOf walks the cause chain of err until an error with an ABCI code is
// found.
func codeOf(err error) uint32 {
	for !isNilErr(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return internalABCICode
}

// isNilErr reports whether err is nil or a typed nil pointer.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// Redact hides errors that must not leave the node: panics and anything
// without a registered code. In debug mode err is returned unchanged.
func Redact(err error, debug bool) error {
	if debug || isNilErr(err) {
		return err
	}
	if code := codeOf(err); code == internalABCICode || code == ErrPanic.code {
		return errors.New(internalABCILog)
	}
	return err
}

// ABCIError rebuilds an error from the code and log of an ABCI response, as
// received by a client. Registered codes keep their root error, so Is
// works on both sides of the connection.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	return &abciError{code: code, log: log, kind: usedCodes[code]}
}

type abciError struct {
	code uint32
	log  string
	kind *Error
}

func (e *abciError) Error() string {
	return e.log
}

func (e *abciError) ABCICode() uint32 {
	return e.code
}

// Cause returns the registered root error of the code, if any.
func (e *abciError) Cause() error {
	if e.kind == nil {
		return nil
	}
	return e.kind
}
