package pkg

import (
	"errors"
	"log/slog"
	"strings"
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Every Error derived from a sentinel created with [NewError] (via [Error.Wrap],
// [Error.With] or [Error.WithArg]) keeps the sentinel as its kind, so
// errors.Is(derived, sentinel) reports true.
type Error struct {
	kind  *Error
	msg   string
	arg   string      // Offending command-line or specification text
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message from whichever fields are set, in order:
	//
	//   "<msg>: <arg>: <err>"
	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.arg != "" {
		part = append(part, e.arg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error of the same kind as e.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return e.base() == t.base()
}

func (e *Error) base() *Error {
	if e.kind == nil {
		return e
	}

	return e.kind
}

// Arg returns the offending text carried by the error, if any.
func (e *Error) Arg() string { return e.arg }

// Attr returns the value of the first attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.arg != "" {
		attrs = append(attrs, slog.String("arg", e.arg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		kind:  e.base(),
		msg:   e.msg,
		arg:   e.arg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// WithArg returns a copy of the error carrying the offending text arg.
func (e *Error) WithArg(arg string) *Error {
	return &Error{
		kind:  e.base(),
		msg:   e.msg,
		arg:   arg,
		err:   e.err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		kind:  e.base(),
		msg:   e.msg,
		arg:   e.arg,
		err:   e.err,
		attrs: newAttrs,
	}
}
