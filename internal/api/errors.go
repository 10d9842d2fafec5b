package api

import (
	"errors"
	"net/http"
)

// Domain error taxonomy. Repository and service layers wrap these with %w;
// HTTPStatus maps them to response codes in one place.
var (
	ErrValidation      = errors.New("invalid input")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrQueryFailed     = errors.New("query failed")
)

// HTTPStatus resolves a domain error to its response status. Unknown errors
// are treated as internal failures.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
