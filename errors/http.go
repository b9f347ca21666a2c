package errors

import (
	"errors"
	"net/http"
)

// MapToHTTPStatus translates a domain error into the status code the HTTP
// boundary should answer with. Unknown errors map to 500 so nothing leaks
// a misleading 4xx to the client.
func MapToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidPassword):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUserBanned),
		errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrNotAMember):
		return http.StatusForbidden
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrGroupNotFound),
		errors.Is(err, ErrNotPending):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyMember),
		errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidOperation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
