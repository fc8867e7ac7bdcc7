// Package zerror defines coded application errors. A ZError carries a stable
// code, a transport independent status and a human message; callers compare
// errors by code with errors.Is.
package zerror

import (
	"errors"
	"strings"
)

type ZError struct {
	parent error
	status Status
	code   string
	msg    string
}

func newZError(status Status, code, msg string) ZError {
	return ZError{status: status, code: code, msg: msg}
}

func NewNotFound(code, msg string) ZError {
	return newZError(StatusNotFound, code, msg)
}

func NewUnprocessableEntity(code, msg string) ZError {
	return newZError(StatusUnprocessableEntity, code, msg)
}

func NewConflict(code, msg string) ZError {
	return newZError(StatusConflict, code, msg)
}

func NewBadRequest(code, msg string) ZError {
	return newZError(StatusBadRequest, code, msg)
}

func NewValidationFailed(code, msg string) ZError {
	return newZError(StatusValidationFailed, code, msg)
}

// Error renders "CODE: message" followed by the parent, if any.
func (e ZError) Error() string {
	var b strings.Builder
	b.WriteString(e.code)
	if e.msg != "" {
		b.WriteString(": ")
		b.WriteString(e.msg)
	}
	if e.parent != nil {
		b.WriteString(": ")
		b.WriteString(e.parent.Error())
	}
	return b.String()
}

// WrapParent returns a copy with parent attached. A nil parent is a no-op.
func (e ZError) WrapParent(parent error) ZError {
	if parent != nil {
		e.parent = parent
	}
	return e
}

// WithMsg returns a copy carrying a more specific message.
func (e ZError) WithMsg(msg string) ZError {
	e.msg = msg
	return e
}

func (e ZError) Unwrap() error { return e.parent }

// Is matches any ZError with the same code, whatever its message or parent.
func (e ZError) Is(target error) bool {
	var t ZError
	return errors.As(target, &t) && t.code == e.code
}

func (e ZError) Status() Status { return e.status }
func (e ZError) Code() string   { return e.code }
func (e ZError) Msg() string    { return e.msg }
func (e ZError) Parent() error  { return e.parent }
