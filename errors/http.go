package errors

import "net/http"

// HTTPStatus maps a domain error to the status code returned by the REST layer.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case Is(err, ErrInvalidArgument), Is(err, ErrInvalidOperation),
		Is(err, ErrInvalidPassword), Is(err, ErrInvalidPayload):
		return http.StatusBadRequest
	case Is(err, ErrUnauthenticated), Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case Is(err, ErrForbidden):
		return http.StatusForbidden
	case Is(err, ErrNotFound):
		return http.StatusNotFound
	case Is(err, ErrConflict), Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case Is(err, ErrQuotaExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Code is the stable machine-readable name sent to clients alongside the message.
func Code(err error) string {
	switch {
	case Is(err, ErrInvalidArgument), Is(err, ErrInvalidPayload), Is(err, ErrInvalidPassword):
		return "InvalidArgument"
	case Is(err, ErrInvalidOperation):
		return "InvalidOperation"
	case Is(err, ErrUnauthenticated), Is(err, ErrInvalidCredentials):
		return "Unauthenticated"
	case Is(err, ErrForbidden):
		return "Forbidden"
	case Is(err, ErrNotFound):
		return "NotFound"
	case Is(err, ErrConflict), Is(err, ErrUserAlreadyExists):
		return "Conflict"
	case Is(err, ErrQuotaExceeded):
		return "QuotaExceeded"
	default:
		return "Internal"
	}
}
