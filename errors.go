package syslogparser

import (
	"errors"
	"fmt"
)

// Error kinds. Errors returned by the Parse and ParseHeader functions of the
// rfc3164 and rfc5424 packages match at least one of them with errors.Is.
var (
	ErrMalformedPriority       = errors.New("malformed priority")
	ErrOutOfRange              = errors.New("priority out of range")
	ErrInvalidMonth            = errors.New("invalid month")
	ErrInvalidTimestamp        = errors.New("invalid timestamp")
	ErrMalformedStructuredData = errors.New("malformed structured data")
	ErrHeaderParseFailed       = errors.New("header parse failed")
)

var (
	ErrEOL     = &ParserError{ErrorString: "End of log line"}
	ErrNoSpace = &ParserError{ErrorString: "No space found"}

	ErrPriorityNoStart    = NewParserError("No start char found for priority", ErrMalformedPriority)
	ErrPriorityEmpty      = NewParserError("Priority field empty", ErrMalformedPriority)
	ErrPriorityNoEnd      = NewParserError("No end char found for priority", ErrMalformedPriority)
	ErrPriorityTooShort   = NewParserError("Priority field too short", ErrMalformedPriority)
	ErrPriorityTooLong    = NewParserError("Priority field too long", ErrMalformedPriority)
	ErrPriorityNonDigit   = NewParserError("Non digit found in priority", ErrMalformedPriority)
	ErrPriorityOutOfRange = NewParserError("Priority out of range", ErrMalformedPriority, ErrOutOfRange)

	ErrVersionNotFound = &ParserError{ErrorString: "Can not find version"}

	ErrTimestampUnknownFormat = NewParserError("Timestamp format unknown", ErrInvalidTimestamp)

	ErrHostnameTooShort = &ParserError{ErrorString: "Hostname field too short"}

	ErrSDNoStart            = NewParserError("No start char found for structured data element", ErrMalformedStructuredData)
	ErrSDUnterminated       = NewParserError("Unterminated structured data element", ErrMalformedStructuredData)
	ErrSDUnterminatedValue  = NewParserError("Unterminated structured data param value", ErrMalformedStructuredData)
	ErrSDInvalidID          = NewParserError("Invalid structured data element ID", ErrMalformedStructuredData)
	ErrSDInvalidParamName   = NewParserError("Invalid structured data param name", ErrMalformedStructuredData)
	ErrSDMissingValueQuote  = NewParserError("Missing quote before structured data param value", ErrMalformedStructuredData)
	ErrSDTrailingCharacters = NewParserError("Unexpected characters after structured data", ErrMalformedStructuredData)
)

// ParserError is a static parse failure. Its kinds are reachable through
// errors.Is.
type ParserError struct {
	ErrorString string
	kinds       []error
}

// NewParserError builds a static error matching kinds with errors.Is.
func NewParserError(s string, kinds ...error) *ParserError {
	return &ParserError{ErrorString: s, kinds: kinds}
}

func (err *ParserError) Error() string {
	return err.ErrorString
}

func (err *ParserError) Unwrap() []error {
	return err.kinds
}

// HeaderError reports the first header field that failed to parse and the
// offset in the input buffer at which it started.
type HeaderError struct {
	Field string
	Pos   int
	Err   error
}

// NewHeaderError is used by the per RFC header assemblers.
func NewHeaderError(field string, pos int, err error) *HeaderError {
	return &HeaderError{Field: field, Pos: pos, Err: err}
}

func (err *HeaderError) Error() string {
	return fmt.Sprintf("%s: %s at offset %d: %v", ErrHeaderParseFailed, err.Field, err.Pos, err.Err)
}

func (err *HeaderError) Unwrap() []error {
	return []error{ErrHeaderParseFailed, err.Err}
}
