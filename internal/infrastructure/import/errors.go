package csvimport

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Row error codes
const (
	ErrCodeRequired        = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeInvalidType     = "ERR_IMPORT_INVALID_TYPE"
	ErrCodeInvalidValue    = "ERR_IMPORT_INVALID_VALUE"
	ErrCodeInvalidLength   = "ERR_IMPORT_INVALID_LENGTH"
	ErrCodeDuplicateInFile = "ERR_IMPORT_DUPLICATE_IN_FILE"
	ErrCodeCreateFailed    = "ERR_IMPORT_CREATE_FAILED"
)

var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrInvalidEncoding = errors.New("CSV file is not valid UTF-8")
	ErrMissingHeader   = errors.New("CSV file missing header row")
	ErrInvalidHeader   = errors.New("invalid CSV header")
	ErrNoDataRows      = errors.New("CSV file contains no data rows")
	ErrTooManyRows     = errors.New("CSV file has too many rows")
)

// RowError is a problem with one cell or row
type RowError struct {
	Line    int    `json:"line"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("line %d, column '%s': %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ErrorCollection keeps the first max errors and counts the rest
type ErrorCollection struct {
	errors []RowError
	max    int
	total  int
}

// NewErrorCollection creates a collection; max <= 0 means 100
func NewErrorCollection(max int) *ErrorCollection {
	if max <= 0 {
		max = 100
	}
	return &ErrorCollection{max: max}
}

// Add records err
func (ec *ErrorCollection) Add(err RowError) {
	ec.total++
	if len(ec.errors) < ec.max {
		ec.errors = append(ec.errors, err)
	}
}

// Errors returns the kept errors ordered by line
func (ec *ErrorCollection) Errors() []RowError {
	sort.SliceStable(ec.errors, func(i, j int) bool { return ec.errors[i].Line < ec.errors[j].Line })
	return ec.errors
}

// Total counts every added error, kept or not
func (ec *ErrorCollection) Total() int { return ec.total }

// HasErrors reports whether anything was added
func (ec *ErrorCollection) HasErrors() bool { return ec.total > 0 }

// Truncated reports whether errors were dropped
func (ec *ErrorCollection) Truncated() bool { return ec.total > len(ec.errors) }

func (ec *ErrorCollection) String() string {
	if ec.total == 0 {
		return "no errors"
	}
	var sb strings.Builder
	for _, e := range ec.Errors() {
		sb.WriteString(e.Error())
		sb.WriteByte('\n')
	}
	if ec.Truncated() {
		fmt.Fprintf(&sb, "... and %d more\n", ec.total-len(ec.errors))
	}
	return sb.String()
}
