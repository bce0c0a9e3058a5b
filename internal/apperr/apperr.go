// Package apperr implements a small error-kind taxonomy: config, decode,
// storage, and capture errors. Each is constructed with
// github.com/mdobak/go-xerrors so the origin call site is captured in the
// error's stack trace.
package apperr

import (
	"errors"
	"fmt"

	"github.com/mdobak/go-xerrors"
)

// Kind distinguishes the error taxonomy below. An empty match result is
// deliberately absent from it — that's the matcher returning no result,
// not an error.
type Kind string

const (
	KindConfig  Kind = "config"
	KindDecode  Kind = "decode"
	KindStorage Kind = "storage"
	KindCapture Kind = "capture"
)

// Error wraps an underlying error with the kind it belongs to and the
// operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: xerrors.New(err)}
}

// Config wraps a missing/ill-typed config option or unresolved device name.
func Config(op string, err error) error { return wrap(KindConfig, op, err) }

// Decode wraps a source file that can't be opened or decoded.
func Decode(op string, err error) error { return wrap(KindDecode, op, err) }

// Storage wraps an underlying store refusing a read/write.
func Storage(op string, err error) error { return wrap(KindStorage, op, err) }

// Capture wraps a microphone stream that can't be opened or that dies.
func Capture(op string, err error) error { return wrap(KindCapture, op, err) }

// Is reports whether err (or something it wraps) is an *Error of kind k.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
