package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized means the session is absent or expired. Not recoverable
// locally; callers route the user back to login.
var ErrUnauthorized = errors.New("not authenticated")

// NotFoundError covers stale references: the entity no longer exists or is
// no longer accessible. Callers recover by resetting the relevant selection.
type NotFoundError struct {
	Kind    string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s not found: %s", e.Kind, e.Message)
	}
	return e.Kind + " not found"
}

// ValidationError is a rejected request (bad input, bad image type/size).
// Recoverable locally; the server message is shown inline.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// TransientError is any other failed call, transport failures included.
// Surfaced as a dismissible message; never retried automatically.
type TransientError struct {
	Status  int
	Message string
}

func (e *TransientError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	}
	return e.Message
}

func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
