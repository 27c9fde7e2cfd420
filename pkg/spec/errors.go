package spec

import "fmt"

// ErrorKind classifies the fatal failures of a generation run.
type ErrorKind string

const (
	ErrMalformedDocument       ErrorKind = "malformed_document"
	ErrUnsupportedVersion      ErrorKind = "unsupported_version"
	ErrMissingServer           ErrorKind = "missing_server"
	ErrDanglingReference       ErrorKind = "dangling_reference"
	ErrIncompatibleComposition ErrorKind = "incompatible_composition"
	ErrNameCollision           ErrorKind = "name_collision"
)

// Error is a structured generation error carrying the failure kind and the
// implicated subject (a schema pointer, an operation name, a field name).
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Subject string    `json:"subject,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Subject)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError creates a new Error.
func NewError(kind ErrorKind, message, subject string) *Error {
	return &Error{Kind: kind, Message: message, Subject: subject}
}

// Wrap wraps a standard error, keeping its text as the message detail.
func Wrap(err error, kind ErrorKind, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message + ": " + err.Error()}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	if specErr, ok := err.(*Error); ok {
		return specErr.Kind == kind
	}
	return false
}

// KindOf returns the kind of err if it is an *Error, otherwise an empty kind.
func KindOf(err error) ErrorKind {
	if specErr, ok := err.(*Error); ok {
		return specErr.Kind
	}
	return ""
}
