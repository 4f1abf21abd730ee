package migration

import (
	"fmt"

	"github.com/synqtech/synq-site/internal/models"
)

// Error codes
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeParse             = "PARSE_ERROR"
	CodeRemoteUnavailable = "REMOTE_UNAVAILABLE"
	CodeInsertFailed      = "INSERT_FAILED"
)

// MigrationError is the common base of every error the migration raises.
type MigrationError struct {
	Message string
	Code    string
	Kind    models.Kind
	Cause   error
}

func (e *MigrationError) Error() string {
	msg := e.Message
	if e.Kind != "" {
		msg = fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *MigrationError) Unwrap() error {
	return e.Cause
}

// ValidationError marks a single local record that lacks a required field.
// The record is dropped; the rest of the batch continues.
type ValidationError struct {
	*MigrationError
	Field string
	Index int
}

func NewValidationError(kind models.Kind, field string) *ValidationError {
	return &ValidationError{
		MigrationError: &MigrationError{
			Message: fmt.Sprintf("missing required field %q", field),
			Code:    CodeValidation,
			Kind:    kind,
		},
		Field: field,
		Index: -1,
	}
}

// ParseError marks a persisted snapshot that could not be decoded.
type ParseError struct {
	*MigrationError
	Key string
}

func NewParseError(kind models.Kind, key string, cause error) *ParseError {
	return &ParseError{
		MigrationError: &MigrationError{
			Message: fmt.Sprintf("snapshot %q is not a list of records", key),
			Code:    CodeParse,
			Kind:    kind,
			Cause:   cause,
		},
		Key: key,
	}
}

// RemoteUnavailableError means the existence check could not complete.
type RemoteUnavailableError struct {
	*MigrationError
}

func NewRemoteUnavailableError(kind models.Kind, cause error) *RemoteUnavailableError {
	return &RemoteUnavailableError{
		MigrationError: &MigrationError{
			Message: "remote store unavailable",
			Code:    CodeRemoteUnavailable,
			Kind:    kind,
			Cause:   cause,
		},
	}
}

// InsertFailedError means the bulk insert was rejected. Whether any rows
// landed is unknown.
type InsertFailedError struct {
	*MigrationError
	Count int
}

func NewInsertFailedError(kind models.Kind, count int, cause error) *InsertFailedError {
	return &InsertFailedError{
		MigrationError: &MigrationError{
			Message: fmt.Sprintf("bulk insert of %d records failed", count),
			Code:    CodeInsertFailed,
			Kind:    kind,
			Cause:   cause,
		},
		Count: count,
	}
}
