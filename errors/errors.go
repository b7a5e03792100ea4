// Package errors wraps errors with context messages, detail strings,
// key/value data and a stack trace while keeping the original (root)
// error recoverable for comparison against package-level sentinels.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Is reports whether any error in err's chain matches target.
// It understands both wrapped errors from this package and
// errors implementing Unwrap.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

type wrapperError struct {
	msg    string
	detail []string
	data   map[string]interface{}
	stack  []StackFrame
	root   error
}

func (e wrapperError) Error() string {
	return e.msg
}

// Unwrap returns the root error.
func (e wrapperError) Unwrap() error {
	return e.root
}

// Root returns the original error that was wrapped by one or more
// calls to Wrap. If e does not wrap other errors, it is returned as-is.
func Root(e error) error {
	if w, ok := e.(wrapperError); ok {
		return w.root
	}
	return e
}

// wrap prefixes err's message with msg. The first wrap of a
// foreign error records the root and a stack trace; stackSkip
// counts frames above the caller of wrap.
func wrap(err error, msg string, stackSkip int) wrapperError {
	w, ok := err.(wrapperError)
	if !ok {
		w = wrapperError{
			root:  err,
			msg:   err.Error(),
			stack: getStack(stackSkip+2, stackTraceSize),
		}
	}
	if msg != "" {
		w.msg = msg + ": " + w.msg
	}
	return w
}

// Wrap adds a context message and stack trace to err.
// Arguments are handled as in fmt.Print.
// Wrap returns nil if err is nil.
func Wrap(err error, a ...interface{}) error {
	if err == nil {
		return nil
	}
	return wrap(err, fmt.Sprint(a...), 1)
}

// Wrapf is like Wrap, but arguments are handled as in fmt.Printf.
func Wrapf(err error, format string, a ...interface{}) error {
	if err == nil {
		return nil
	}
	return wrap(err, fmt.Sprintf(format, a...), 1)
}

// WithDetail wraps err with text as both context message and
// detail. Detail returns the accumulated detail strings.
func WithDetail(err error, text string) error {
	if err == nil {
		return nil
	}
	if text == "" {
		return err
	}
	w := wrap(err, text, 1)
	w.detail = append(w.detail[:len(w.detail):len(w.detail)], text)
	return w
}

// WithDetailf is like WithDetail, except it formats
// the detail message as in fmt.Printf.
func WithDetailf(err error, format string, v ...interface{}) error {
	if err == nil {
		return nil
	}
	text := fmt.Sprintf(format, v...)
	w := wrap(err, text, 1)
	w.detail = append(w.detail[:len(w.detail):len(w.detail)], text)
	return w
}

// Detail returns the detail messages contained in err, if any,
// joined by "; ".
func Detail(err error) string {
	w, _ := err.(wrapperError)
	return strings.Join(w.detail, "; ")
}

// WithData returns a new error that wraps err with a data map
// holding the items in err's map, if any, plus the items in keyval.
// Keyval takes the form
//   k1, v1, k2, v2, ...
// Keys must be strings.
func WithData(err error, keyval ...interface{}) error {
	if err == nil {
		return nil
	}
	if len(keyval)%2 != 0 {
		panic(fmt.Sprintf("odd-length keyval: %v", keyval))
	}
	data := make(map[string]interface{})
	for k, v := range Data(err) {
		data[k] = v
	}
	for i := 0; i < len(keyval); i += 2 {
		data[keyval[i].(string)] = keyval[i+1]
	}
	w := wrap(err, "", 1)
	w.data = data
	return w
}

// Data returns the data map in err, if any.
func Data(err error) map[string]interface{} {
	w, _ := err.(wrapperError)
	return w.data
}

// Sub returns an error with root sentinel and the message, detail,
// data and stack of err. It is used to translate a lower-level failure into
// a sentinel of the calling package without losing its context.
// Sub returns nil if err is nil.
func Sub(sentinel, err error) error {
	if err == nil {
		return nil
	}
	w, ok := err.(wrapperError)
	if !ok {
		w = wrap(err, "", 1)
	}
	w.root = sentinel
	w.msg = sentinel.Error() + ": " + w.msg
	return w
}
