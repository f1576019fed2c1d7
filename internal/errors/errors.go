package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies application errors for logging and HTTP mapping.
type ErrorType string

const (
	ErrTypeDataUnavailable ErrorType = "DATA_UNAVAILABLE"
	ErrTypeNoDataLoaded    ErrorType = "NO_DATA_LOADED"
	ErrTypeEmptySelection  ErrorType = "EMPTY_SELECTION"
	ErrTypeInvalidRange    ErrorType = "INVALID_RANGE"
	ErrTypeCoercion        ErrorType = "COERCION"
	ErrTypeValidation      ErrorType = "VALIDATION"
	ErrTypeNotFound        ErrorType = "NOT_FOUND"
	ErrTypeConfig          ErrorType = "CONFIG"
	ErrTypeStorage         ErrorType = "STORAGE"
)

// Sentinel errors for the load pipeline. DataUnavailable is per-country and
// recoverable (skip and continue); NoDataLoaded means every country failed
// and the application must halt before serving.
var (
	ErrNoDataLoaded   = errors.New("no country data could be loaded")
	ErrEmptySelection = errors.New("empty country selection")
)

// AppError is the application error carrying a type, a message, an optional
// cause and key/value context for structured logging.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewDataUnavailableError reports a single country's source being unreadable.
func NewDataUnavailableError(countryCode string, cause error) *AppError {
	return NewAppError(ErrTypeDataUnavailable,
		fmt.Sprintf("data unavailable for %s", countryCode), cause).
		WithContext("country_code", countryCode)
}

// NewNoDataLoadedError reports a load where every country failed.
func NewNoDataLoadedError(cause error) *AppError {
	return NewAppError(ErrTypeNoDataLoaded, "no country data could be loaded", cause)
}

// NewEmptySelectionError reports a filter or metric invoked over zero rows.
func NewEmptySelectionError(message string) *AppError {
	return NewAppError(ErrTypeEmptySelection, message, ErrEmptySelection)
}

// NewInvalidRangeError reports a year range with lo > hi.
func NewInvalidRangeError(lo, hi int) *AppError {
	return NewAppError(ErrTypeInvalidRange,
		fmt.Sprintf("invalid year range [%d, %d]", lo, hi), nil).
		WithContext("from", lo).
		WithContext("to", hi)
}

// NewValidationError creates a request-validation error
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewConfigError creates a configuration-related error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsType reports whether err is (or wraps) an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}
