package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already exists")
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrUserNotFound is returned when no user matches the given email or id.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidPassword is returned when the password does not match.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrMealNotFound is returned when a meal does not exist or belongs to
	// another user. The two cases are deliberately indistinguishable.
	ErrMealNotFound = errors.New("meal not found")
	// ErrProductNotFound is returned when a barcode is unknown both locally
	// and upstream.
	ErrProductNotFound = errors.New("product not found")
	// ErrUpstream is returned when Open Food Facts is unreachable or returns
	// a malformed payload.
	ErrUpstream = errors.New("product database unavailable")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrInvalidPassword):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_PASSWORD")
	case errors.Is(err, ErrMealNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "MEAL_NOT_FOUND")
	case errors.Is(err, ErrProductNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PRODUCT_NOT_FOUND")
	case errors.Is(err, ErrUpstream):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "UPSTREAM_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
