// Package errors provides common domain error types for the studtrack application.
//
// This package defines sentinel errors for the failure classes the ingestion
// and reporting pipeline can hit: malformed timestamps, missing required
// fields, and report artifact write failures. Using typed errors enables
// consistent error handling patterns with errors.Is() checks.
//
// Usage:
//
//	import sterrors "github.com/studtrack/studtrack-cli/pkg/errors"
//
//	// Return a domain error with field context
//	return nil, sterrors.NewParseError(meetingID, "chats[3].timestamp", raw, err)
//
//	// Check for domain errors
//	if sterrors.IsParse(err) {
//	    // handle malformed record
//	}
package errors

import (
	"errors"
	"fmt"
)

// Domain errors - common sentinel errors for pipeline failure classes.
var (
	// ErrParse indicates a value failed to parse under the required format
	// (most commonly a timestamp outside the YYYY-MM-DD HH:MM:SS pattern).
	ErrParse = errors.New("parse error")

	// ErrSchema indicates a required field is missing from an input record.
	ErrSchema = errors.New("schema error")

	// ErrIO indicates the report artifact could not be written.
	ErrIO = errors.New("io error")
)

// IsParse reports whether any error in err's chain is ErrParse.
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsSchema reports whether any error in err's chain is ErrSchema.
func IsSchema(err error) bool {
	return errors.Is(err, ErrSchema)
}

// IsIO reports whether any error in err's chain is ErrIO.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// ParseError describes a value that failed to parse, with the meeting and the
// field path of the offending value. A ParseError fails the whole meeting
// record; there is no partial parsing.
type ParseError struct {
	// MeetingID identifies the meeting record being normalized. Empty when
	// the failure happens before the meeting_id field has been read.
	MeetingID string

	// Field is the path to the offending value, e.g.
	// "participants[2].sessions[0].join".
	Field string

	// Value is the raw text that failed to parse.
	Value string

	// Err is the underlying parse failure, if any.
	Err error
}

// NewParseError creates a ParseError for the given meeting, field path, and
// raw value.
func NewParseError(meetingID, field, value string, err error) *ParseError {
	return &ParseError{MeetingID: meetingID, Field: field, Value: value, Err: err}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.MeetingID == "" {
		return fmt.Sprintf("parse error: field %q: invalid value %q", e.Field, e.Value)
	}
	return fmt.Sprintf("parse error: meeting %q: field %q: invalid value %q", e.MeetingID, e.Field, e.Value)
}

// Unwrap makes ParseError match ErrParse with errors.Is, and exposes the
// underlying cause to errors.As.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// SchemaError describes a required field missing from an input record.
type SchemaError struct {
	// MeetingID identifies the meeting record, when known.
	MeetingID string

	// Field is the path to the missing field, e.g. "participants[0].name".
	Field string
}

// NewSchemaError creates a SchemaError for the given meeting and field path.
func NewSchemaError(meetingID, field string) *SchemaError {
	return &SchemaError{MeetingID: meetingID, Field: field}
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.MeetingID == "" {
		return fmt.Sprintf("schema error: missing required field %q", e.Field)
	}
	return fmt.Sprintf("schema error: meeting %q: missing required field %q", e.MeetingID, e.Field)
}

// Unwrap makes SchemaError match ErrSchema with errors.Is.
func (e *SchemaError) Unwrap() error {
	return ErrSchema
}
