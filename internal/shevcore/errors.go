package shevcore

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for transport-layer mapping (see
// internal/httpapi's error-to-status table).
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindValidation Kind = "validation"
	KindQueueFull  Kind = "queue_full"
	KindStore      Kind = "store"
)

// Error is the error type returned across the core boundary. Execution
// errors never surface this way, they are recorded on the Job row
// instead.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(what string) error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func Conflict(what string) error {
	return &Error{Kind: KindConflict, Message: what}
}

func Validation(what string) error {
	return &Error{Kind: KindValidation, Message: what}
}

var ErrQueueFull = &Error{Kind: KindQueueFull, Message: "queue is full"}

func StoreErr(op string, err error) error {
	return &Error{Kind: KindStore, Message: "store: " + op, Err: err}
}

// KindOf extracts the Kind from err, if it is (or wraps) a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
