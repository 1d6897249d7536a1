package csvio

import (
	"errors"
	"fmt"
	"strings"
)

// Row error codes surfaced in import results
const (
	ErrCodeCSVParsing      = "ERR_CSV_PARSING"
	ErrCodeMissingHeader   = "ERR_CSV_MISSING_HEADER"
	ErrCodeRequiredField   = "ERR_CSV_REQUIRED_FIELD"
	ErrCodeInvalidFormat   = "ERR_CSV_INVALID_FORMAT"
	ErrCodeInvalidValue    = "ERR_CSV_INVALID_VALUE"
	ErrCodeDuplicateInFile = "ERR_CSV_DUPLICATE_IN_FILE"
	ErrCodeDuplicateInDB   = "ERR_CSV_DUPLICATE_IN_DB"
)

var (
	// ErrEmptyFile is returned when the CSV file has no content at all
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the file is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding")

	// ErrMissingHeader is returned when the CSV file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")

	// ErrNoDataRows is returned when the CSV file has a header but no data
	ErrNoDataRows = errors.New("CSV file contains no data rows")
)

// RowError describes a problem with one CSV data row. Line numbers are
// 1-indexed and include the header, matching what an editor shows.
type RowError struct {
	Line    int    `json:"line"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("line %d, column %q: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// NewRowError creates a RowError without an offending value
func NewRowError(line int, column, code, message string) RowError {
	return RowError{Line: line, Column: column, Code: code, Message: message}
}

// NewRowErrorWithValue creates a RowError carrying the rejected value
func NewRowErrorWithValue(line int, column, code, message, value string) RowError {
	return RowError{Line: line, Column: column, Code: code, Message: message, Value: value}
}

// ErrorCollection accumulates row errors up to a cap while still counting
// everything past it, so a pathological file cannot balloon the response.
type ErrorCollection struct {
	errors    []RowError
	maxErrors int
	total     int
}

// NewErrorCollection creates an ErrorCollection keeping at most maxErrors
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{
		errors:    make([]RowError, 0, maxErrors),
		maxErrors: maxErrors,
	}
}

// Add records a row error, dropping the detail once the cap is reached
func (ec *ErrorCollection) Add(err RowError) {
	ec.total++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddRequired records a missing required field
func (ec *ErrorCollection) AddRequired(line int, column string) {
	ec.Add(NewRowError(line, column, ErrCodeRequiredField,
		fmt.Sprintf("field %q is required", column)))
}

// AddFormat records a value that failed format validation
func (ec *ErrorCollection) AddFormat(line int, column, message, value string) {
	ec.Add(NewRowErrorWithValue(line, column, ErrCodeInvalidFormat, message, value))
}

// AddInvalid records a value rejected by a domain rule
func (ec *ErrorCollection) AddInvalid(line int, column, message, value string) {
	ec.Add(NewRowErrorWithValue(line, column, ErrCodeInvalidValue, message, value))
}

// AddDuplicate records a duplicate business key, either within the file
// or against rows already stored.
func (ec *ErrorCollection) AddDuplicate(line int, column, value string, inStore bool) {
	code := ErrCodeDuplicateInFile
	msg := fmt.Sprintf("duplicate value %q found in file", value)
	if inStore {
		code = ErrCodeDuplicateInDB
		msg = fmt.Sprintf("value %q already exists", value)
	}
	ec.Add(NewRowErrorWithValue(line, column, code, msg, value))
}

// Errors returns the retained errors, at most maxErrors of them
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// TotalCount returns every error seen, including dropped ones
func (ec *ErrorCollection) TotalCount() int {
	return ec.total
}

// HasErrors reports whether any error was recorded
func (ec *ErrorCollection) HasErrors() bool {
	return ec.total > 0
}

// IsTruncated reports whether errors were dropped past the cap
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.total > ec.maxErrors
}

func (ec *ErrorCollection) String() string {
	if !ec.HasErrors() {
		return "no errors"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s) found", ec.total)
	if ec.IsTruncated() {
		fmt.Fprintf(&sb, " (showing first %d)", ec.maxErrors)
	}
	sb.WriteString(":\n")
	for _, err := range ec.errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}
