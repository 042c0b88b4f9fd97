package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTokenInvalid is returned when a bearer token fails to decode or verify.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned when a bearer token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenStale is returned when a token was issued before the subject's last password change.
	ErrTokenStale = errors.New("token expired, password changed")
	// ErrAPIKeyInvalid is returned when the x-api-key header matches no stored key.
	ErrAPIKeyInvalid = errors.New("invalid api key")
	// ErrUserNotFound is returned when a credential resolves to no user record.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotAuthenticated is returned when a protected request carries no credential.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrLoginThrottled is returned when login attempts arrive inside the cooldown window.
	ErrLoginThrottled = errors.New("wait 5 seconds before retrying")
	// ErrSignatureMissing is returned when a webhook carries no signature header.
	ErrSignatureMissing = errors.New("webhook signature missing")
	// ErrSignatureInvalid is returned when a webhook signature does not match the body.
	ErrSignatureInvalid = errors.New("webhook signature invalid")
	// ErrStoreUnavailable is returned when the backing store cannot be reached.
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

// PermissionError reports a denied permission by name.
type PermissionError struct {
	Permission string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission %q denied", e.Permission)
}

// NewPermissionError creates a PermissionError for the given permission name.
func NewPermissionError(permission string) *PermissionError {
	return &PermissionError{Permission: permission}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
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
		Detail: e.Message,
		Code:   e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Authentication failures map
// to 401, permission denials to 403, throttling to 429, malformed webhooks to
// 400 and store outages to 503. Anything unrecognized is an internal error, not
// an authentication failure.
func MapErrorToHTTP(err error) *HTTPError {
	var permErr *PermissionError
	if errors.As(err, &permErr) {
		return NewHTTPError(http.StatusForbidden, permErr.Error(), "PERMISSION_DENIED")
	}

	switch {
	case errors.Is(err, ErrTokenExpired):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "TOKEN_EXPIRED")
	case errors.Is(err, ErrTokenStale):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "TOKEN_STALE")
	case errors.Is(err, ErrTokenInvalid):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "TOKEN_INVALID")
	case errors.Is(err, ErrAPIKeyInvalid):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "API_KEY_INVALID")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrNotAuthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "NOT_AUTHENTICATED")
	case errors.Is(err, ErrLoginThrottled):
		return NewHTTPError(http.StatusTooManyRequests, err.Error(), "LOGIN_THROTTLED")
	case errors.Is(err, ErrSignatureMissing):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "SIGNATURE_MISSING")
	case errors.Is(err, ErrSignatureInvalid):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "SIGNATURE_INVALID")
	case errors.Is(err, ErrStoreUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, err.Error(), "STORE_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
