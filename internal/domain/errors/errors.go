package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrRateLimited       = errors.New("rate limited")
	ErrInvalidOTP        = errors.New("invalid or expired otp")
	ErrInvalidSession    = errors.New("invalid or expired session")
	ErrAccountDisabled   = errors.New("account is banned or deleted")
	ErrModeratorExists   = errors.New("moderator already exists")
	ErrUserExists        = errors.New("user already exists")
	ErrNotModerator      = errors.New("moderator access denied")
	ErrTransactionFailed = errors.New("transaction failed")
	ErrMailDelivery      = errors.New("mail delivery failed")
)

// Error codes returned to clients.
const (
	CodeInvalidInput    = "ERR_INVALID_INPUT"
	CodeUnauthorized    = "ERR_UNAUTHORIZED"
	CodeForbidden       = "ERR_FORBIDDEN"
	CodeNotFound        = "ERR_NOT_FOUND"
	CodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
	CodeInternalError   = "ERR_INTERNAL"
)

// User-facing messages shared by handlers and middleware.
const (
	MsgInvalidEmail       = "Invalid email address"
	MsgInvalidCode        = "OTP code must be 6 digits"
	MsgInvalidOTP         = "Invalid or expired OTP code"
	MsgAuthRequired       = "Authentication required"
	MsgInvalidSession     = "Invalid or expired session"
	MsgAccountDisabled    = "Account is banned or deleted"
	MsgModeratorExists    = "Moderator already exists"
	MsgUserExists         = "User already exists"
	MsgModeratorDenied    = "Moderator access denied"
	MsgInvalidSecret      = "Invalid or missing auth id"
	MsgTooManyOTPRequests = "Too many OTP requests"
	MsgTooManyRequests    = "Too many requests"
	MsgMailFailed         = "Failed to send OTP email"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func TooManyRequests(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, CodeTooManyRequests, message, ErrRateLimited)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, nil)
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeInvalidInput,
		Message: message,
		Err:     err,
	}
}

// FromDomain maps auth-core sentinels onto the HTTP taxonomy. Unknown errors
// become a 500 that keeps the cause for logging only.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, ErrInvalidOTP):
		return NewAppError(http.StatusBadRequest, CodeInvalidInput, MsgInvalidOTP, err)
	case errors.Is(err, ErrInvalidSession):
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, MsgInvalidSession, err)
	case errors.Is(err, ErrAccountDisabled):
		return NewAppError(http.StatusForbidden, CodeForbidden, MsgAccountDisabled, err)
	case errors.Is(err, ErrModeratorExists):
		return NewAppError(http.StatusForbidden, CodeForbidden, MsgModeratorExists, err)
	case errors.Is(err, ErrUserExists):
		return NewAppError(http.StatusForbidden, CodeForbidden, MsgUserExists, err)
	case errors.Is(err, ErrNotModerator):
		return NewAppError(http.StatusForbidden, CodeForbidden, MsgModeratorDenied, err)
	case errors.Is(err, ErrRateLimited):
		return NewAppError(http.StatusTooManyRequests, CodeTooManyRequests, MsgTooManyOTPRequests, err)
	case errors.Is(err, ErrMailDelivery):
		return NewAppError(http.StatusInternalServerError, CodeInternalError, MsgMailFailed, err)
	case errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, CodeNotFound, "resource not found", err)
	case errors.Is(err, ErrInvalidInput):
		return NewAppError(http.StatusBadRequest, CodeInvalidInput, "invalid input", err)
	default:
		return InternalError(err)
	}
}
