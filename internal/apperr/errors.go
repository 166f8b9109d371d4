// Package apperr holds the error kinds shared by the domain packages.
//
// Domain code wraps a kind with a user-facing message:
//
//	return fmt.Errorf("%w: email is required", apperr.ErrValidation)
//
// Controllers branch on the kind with errors.Is and show Message(err)
// to the visitor.
package apperr

import (
	"errors"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMismatch           = errors.New("values do not match")
	ErrTransactionFailure = errors.New("transaction failed")
)

var kinds = []error{
	ErrValidation,
	ErrDuplicateEmail,
	ErrNotFound,
	ErrInvalidCredentials,
	ErrMismatch,
	ErrTransactionFailure,
}

// Message returns the user-facing part of err: the text after the kind
// prefix, or the kind itself when nothing was added.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, kind := range kinds {
		prefix := kind.Error() + ": "
		if idx := strings.Index(msg, prefix); idx >= 0 {
			return msg[idx+len(prefix):]
		}
	}
	return msg
}

// IsKnown reports whether err wraps one of the shared kinds.
func IsKnown(err error) bool {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
