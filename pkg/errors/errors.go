package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Per-target reconciliation errors. These never abort a run, they end
	// up in the target's outcome.
	ErrSourceAbsent        ErrorCode = "SOURCE_ABSENT"
	ErrBackupWriteFailed   ErrorCode = "BACKUP_WRITE_FAILED"
	ErrSymlinkCreateFailed ErrorCode = "SYMLINK_CREATE_FAILED"

	// Restore errors
	ErrRestoreMoveFailed ErrorCode = "RESTORE_MOVE_FAILED"

	// Resource-level errors, fatal to a whole operation
	ErrBackupRootExists  ErrorCode = "BACKUP_ROOT_EXISTS"
	ErrBackupRootCreate  ErrorCode = "BACKUP_ROOT_CREATE"
	ErrBackupRootMissing ErrorCode = "BACKUP_ROOT_MISSING"
	ErrBackupRootEmpty   ErrorCode = "BACKUP_ROOT_EMPTY"
	ErrDestRootRead      ErrorCode = "DEST_ROOT_READ"

	// Supporting subsystems
	ErrJournal    ErrorCode = "JOURNAL"
	ErrSourceSync ErrorCode = "SOURCE_SYNC"
	ErrKeepAlive  ErrorCode = "KEEPALIVE"
)

// DotrigError represents a structured error with code and details
type DotrigError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DotrigError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotrigError) Unwrap() error {
	return e.Wrapped
}

// Is matches any DotrigError carrying the same code
func (e *DotrigError) Is(target error) bool {
	var targetErr *DotrigError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DotrigError with the given code and message
func New(code ErrorCode, message string) *DotrigError {
	return &DotrigError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DotrigError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DotrigError {
	return &DotrigError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DotrigError. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *DotrigError {
	if err == nil {
		return nil
	}
	return &DotrigError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotrigError {
	if err == nil {
		return nil
	}
	return &DotrigError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DotrigError) WithDetail(key string, value interface{}) *DotrigError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *DotrigError) WithDetails(details map[string]interface{}) *DotrigError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var dotrigErr *DotrigError
	if errors.As(err, &dotrigErr) {
		return dotrigErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DotrigError
func GetErrorCode(err error) ErrorCode {
	var dotrigErr *DotrigError
	if errors.As(err, &dotrigErr) {
		return dotrigErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DotrigError
func GetErrorDetails(err error) map[string]interface{} {
	var dotrigErr *DotrigError
	if errors.As(err, &dotrigErr) {
		return dotrigErr.Details
	}
	return nil
}
