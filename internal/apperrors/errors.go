package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientBalance indicates that a debit would take a balance below zero.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrSelfTransfer indicates that a user tried to send money to their own account.
var ErrSelfTransfer = errors.New("cannot transfer to own account")

// ErrForbidden indicates that the caller is acting on another user's resource.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing, invalid or revoked credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrPersistence indicates a storage or transaction failure.
var ErrPersistence = errors.New("persistence failure")

// AppError carries an HTTP status code and a message that is safe to show to
// clients, plus the underlying cause for logging.
type AppError struct {
	Code    int
	Message string
	Kind    error
	Err     error
}

// NewAppError builds an AppError. The kind is derived from the status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Kind: kindForCode(code), Err: err}
}

// Persistence wraps a storage failure behind a generic public message.
func Persistence(message string, cause error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Kind: ErrPersistence, Err: cause}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match an AppError against its kind sentinel.
func (e *AppError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

func kindForCode(code int) error {
	switch code {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusConflict:
		return ErrDuplicate
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return ErrPersistence
	}
}

// IsBusinessRule reports whether err is a business-rule violation
// (self-transfer or insufficient balance).
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) || errors.Is(err, ErrSelfTransfer)
}
