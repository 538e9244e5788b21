package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	ErrInvalidArgument  = fmt.Errorf("invalid argument")
	ErrInvalidOperation = fmt.Errorf("invalid operation")
	ErrNotFound         = fmt.Errorf("not found")
	ErrForbidden        = fmt.Errorf("forbidden")
	ErrQuotaExceeded    = fmt.Errorf("quota exceeded")
	// ErrConflict is returned by a store that detected a concurrent write on the
	// same key. Callers retry the read instead of surfacing it.
	ErrConflict        = fmt.Errorf("conflict")
	ErrUnauthenticated = fmt.Errorf("unauthenticated")
	ErrBackpressure    = fmt.Errorf("connection buffer full")
	ErrConnectionGone  = fmt.Errorf("connection closed")

	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrInvalidPayload     = fmt.Errorf("invalid payload")
)

// Is and As let callers importing this package as "errors" keep the standard helpers.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }
