package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrInternal          = errors.New("internal server error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Kind groups errors into the three families surfaced to callers.
type Kind int

const (
	KindInternal Kind = iota
	KindPermission
	KindValidation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindPermission:
		return "permission"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Kind    Kind
	Reason  string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Reason
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match an AppError against the package sentinels by kind.
func (e *AppError) Is(target error) bool {
	switch target {
	case ErrForbidden:
		return e.Kind == KindPermission
	case ErrInvalidInput, ErrBadRequest:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func Permission(reason, message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Kind: KindPermission, Reason: reason, Message: message}
}

func Validation(reason, message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindValidation, Reason: reason, Message: message}
}

func NotFound(reason, message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Reason: reason, Message: message}
}

// ReasonOf returns the stable reason code carried by err, or "" when none.
func ReasonOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	return ""
}

// HasReason reports whether err carries the given reason code.
func HasReason(err error, reason string) bool {
	return ReasonOf(err) == reason
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrRateLimitExceeded) {
		return http.StatusTooManyRequests
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
