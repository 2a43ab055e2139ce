// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrUpstream         = errors.New("upstream failure")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("token invalid")
	ErrTokenRevoked     = errors.New("token revoked")
)

// AppError pairs an error with the message and status the API exposes for
// it. Unwrap exposes the underlying error so errors.Is keeps working.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.StatusCode)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Unauthorized"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "Forbidden"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func InvalidInputError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, "INVALID_INPUT")
}

// ConflictError is reported as 400 on purchase routes, whose callers only
// distinguish client errors from auth and lookup failures.
func ConflictError(message string, statusCode int) *AppError {
	return NewAppError(ErrConflict, message, statusCode, "CONFLICT")
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		field+" already exists",
		http.StatusConflict,
		"DUPLICATE",
	)
}

func InvalidSignatureError() *AppError {
	return NewAppError(
		ErrInvalidSignature,
		"Invalid signature",
		http.StatusBadRequest,
		"INVALID_SIGNATURE",
	)
}

func UpstreamError(err error) *AppError {
	return NewAppError(
		errors.Join(ErrUpstream, err),
		"Service temporarily unavailable",
		http.StatusBadGateway,
		"UPSTREAM_FAILURE",
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(ErrTokenExpired, "Token has expired", http.StatusUnauthorized, "TOKEN_EXPIRED")
}

func TokenRevokedError() *AppError {
	return NewAppError(ErrTokenRevoked, "Token has been revoked", http.StatusUnauthorized, "TOKEN_REVOKED")
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, "Invalid token", http.StatusUnauthorized, "TOKEN_INVALID")
}

// StatusFor maps a domain error to its HTTP status. AppErrors carry their own
// status; bare sentinels map by kind; anything else is a 500.
func StatusFor(err error) (int, string) {
	if appErr, ok := IsAppError(err); ok && appErr.StatusCode != 0 {
		return appErr.StatusCode, appErr.Code
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrTokenRevoked):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidSignature):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDuplicateKey):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway, "UPSTREAM_FAILURE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
