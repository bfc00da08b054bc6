package store

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrNotFound marks a lookup of an identifier that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable marks a backend that failed to execute a query.
	ErrUnavailable = errors.New("graph store unavailable")
)

// unavailableError carries a backend failure. It matches ErrUnavailable
// under both the standard and the cockroachdb errors.Is.
type unavailableError struct {
	cause error
}

func (e *unavailableError) Error() string { return e.cause.Error() }

func (e *unavailableError) Unwrap() error { return e.cause }

func (e *unavailableError) Is(target error) bool { return target == ErrUnavailable }

// Unavailable wraps a backend error with context and marks it ErrUnavailable.
func Unavailable(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return errors.Wrap(err, msg)
	}
	return &unavailableError{cause: errors.Wrap(err, msg)}
}

// NotFound builds an ErrNotFound error naming what was looked up.
func NotFound(what, id string) error {
	return errors.Wrapf(ErrNotFound, "%s %q", what, id)
}
