package tabular

import (
	"errors"
	"fmt"
)

// Row-scoped error codes
const (
	ErrCodeValidation  = "ERR_SYNC_VALIDATION"
	ErrCodeReference   = "ERR_SYNC_REFERENCE_NOT_FOUND"
	ErrCodeInvalidType = "ERR_SYNC_INVALID_TYPE"
	ErrCodePersistence = "ERR_SYNC_PERSISTENCE"
)

// Common transport errors
var (
	// ErrEmptyFile is returned when the input has no content
	ErrEmptyFile = errors.New("file is empty")

	// ErrMissingHeader is returned when the input has no header row
	ErrMissingHeader = errors.New("missing header row")

	// ErrInvalidEncoding is returned when the input is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding")
)

// RowError represents an error scoped to a specific row
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d, field '%s': %s", e.Row, e.Field, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a new RowError
func NewRowError(row int, field, code, message string) RowError {
	return RowError{Row: row, Field: field, Code: code, Message: message}
}

// NewRowErrorWithValue creates a new RowError carrying the offending value
func NewRowErrorWithValue(row int, field, code, message, value string) RowError {
	return RowError{Row: row, Field: field, Code: code, Message: message, Value: value}
}

// ErrorCollection accumulates row errors up to a cap. The total count
// keeps increasing past the cap so callers can report truncation.
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a collection with a maximum retained size
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{
		errors:    make([]RowError, 0, maxErrors),
		maxErrors: maxErrors,
	}
}

// Add adds an error to the collection
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// Errors returns the retained errors
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// TotalCount returns the total number of errors including dropped ones
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors returns true if any error was added
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// IsTruncated returns true if some errors were dropped due to the cap
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}
