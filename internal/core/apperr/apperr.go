// Package apperr carries the error taxonomy the API surfaces to callers:
// Conflict (duplicate clock-in), NotFound (no open session, unknown or
// unfinished report job) and Internal (everything else).
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindConflict
	KindNotFound
)

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

// Conflict reports that the request contradicts existing state.
func Conflict(msg string) error {
	return &Error{kind: KindConflict, msg: msg}
}

// NotFound reports that the requested entity does not exist or is not ready.
func NotFound(msg string) error {
	return &Error{kind: KindNotFound, msg: msg}
}

// Internal wraps an unexpected failure, keeping the cause for logs.
func Internal(msg string, err error) error {
	return &Error{kind: KindInternal, msg: msg, err: err}
}

func IsConflict(err error) bool { return kindOf(err) == KindConflict }

func IsNotFound(err error) bool { return kindOf(err) == KindNotFound }

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}
