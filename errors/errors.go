package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidConfiguration is returned when the wallet is constructed
	// with arguments that cannot describe a valid owner set.
	ErrInvalidConfiguration = Register(2, "invalid configuration")

	// ErrUnauthorized is used whenever a caller without sufficient rights
	// attempts an owner only operation.
	ErrUnauthorized = Register(3, "unauthorized")

	// ErrInsufficientFunds is returned when a value exceeds the funds that
	// are currently available.
	ErrInsufficientFunds = Register(4, "insufficient funds")

	// ErrAlreadySigned is returned when an owner signs the same
	// transaction twice.
	ErrAlreadySigned = Register(5, "already signed")

	// ErrAlreadyExecuted is returned when a transaction that was already
	// executed is approved again.
	ErrAlreadyExecuted = Register(6, "already executed")

	// ErrNotFound is used when a requested entity does not exist.
	ErrNotFound = Register(7, "not found")

	// ErrTransferFailed is returned when the external transfer of an
	// executed transaction did not complete. The whole call is reverted.
	ErrTransferFailed = Register(8, "transfer failed")

	// ErrInvalidInput stands for general input problems indication.
	ErrInvalidInput = Register(9, "invalid input")

	// ErrInvalidModel is returned whenever a stored value is invalid and
	// cannot be used.
	ErrInvalidModel = Register(10, "invalid model")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(11, "an operation cannot be completed due to value overflow")

	// ErrImmutable is returned when something that is considered immutable
	// gets modified.
	ErrImmutable = Register(12, "cannot be modified")

	// ErrInvalidSequence is returned when a transaction nonce does not
	// match the expected value of its signer.
	ErrInvalidSequence = Register(13, "invalid sequence")

	// ErrUnknownMsg is returned when a transaction carries a message that
	// no handler is registered for.
	ErrUnknownMsg = Register(14, "unknown message")

	// ErrDatabase is returned when the underlying storage fails.
	ErrDatabase = Register(15, "database")

	// ErrNetwork is returned when a node cannot be reached or answers
	// with a transport failure.
	ErrNetwork = Register(16, "network")

	// ErrTimeout is returned when a result did not arrive in time.
	ErrTimeout = Register(17, "timeout")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info.
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// This function ensures that no error code is used twice. Attempt to reuse an
// error code results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure their uniqueness.
var usedCodes = map[uint32]*Error{
	1: nil, // Error code 1 is restricted for internal errors and must not be used.
}

// Error represents a root error.
//
// Each error instance created during the runtime should wrap one of the
// declared root errors. This allows error tests and returning all errors to the
// client in a safe manner.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// New returns a new error. Returned instance is having the root cause set to
// this error. Below two lines are equal
//   e.New("my description")
//   Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is check if given error instance is of a given kind/type. This involves
// unwrapping given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends given error with an additional information.
//
// If the wrapped error does not provide ABCICode method (ie. stdlib errors),
// it will be labeled as internal error.
//
// If err is nil, this returns nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// Attach the stacktrace once, at the most inner wrap.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format prints the stacktrace of the inner most error with %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s: %+v", e.msg, e.parent)
		return
	}
	fmt.Fprint(s, e.Error())
}

// Recover captures a panic and stop its propagation. If panic happens it is
// transformed into a ErrPanic instance and assigned to given error. Call this
// function using defer in order to work as expected.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// causer is an interface implemented by an error that supports wrapping. Use
// it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first found stack trace frame carried by given error
// or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}
