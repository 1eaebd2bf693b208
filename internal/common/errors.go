package common

import (
	"errors"
	"net/http"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrConflict       = errors.New("resource conflict")
	ErrAuthentication = errors.New("invalid credentials")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("requested resource not found")
	ErrUpstream       = errors.New("movie data provider unavailable")
	ErrUnavailable    = errors.New("service unavailable")
	ErrInternal       = errors.New("internal server error")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// ClientMessage returns the error text that may be shown to a caller.
// Validation, conflict and auth errors keep their specific message;
// everything else collapses to the sentinel text so internal detail
// never reaches a response body.
func ClientMessage(err error) string {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrAuthentication),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrNotFound):
		return err.Error()
	case errors.Is(err, ErrUpstream):
		return ErrUpstream.Error()
	case errors.Is(err, ErrUnavailable):
		return ErrUnavailable.Error()
	}
	return ErrInternal.Error()
}
