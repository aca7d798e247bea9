package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	CodeInternal   ErrorCode = "INTERNAL_ERROR"
	CodeValidation ErrorCode = "VALIDATION_ERROR"
	CodeNotFound   ErrorCode = "NOT_FOUND"

	// Document errors
	CodeUnreadableDocument ErrorCode = "UNREADABLE_DOCUMENT"
	CodeEmptyDocument      ErrorCode = "EMPTY_DOCUMENT"

	// Upstream model errors
	CodeGenerationFailure ErrorCode = "GENERATION_FAILURE"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// WithContext attaches a key/value pair that is reported alongside the error.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewValidationError(message string) *DomainError {
	return NewError(CodeValidation, message, nil)
}

// NewMissingFieldError reports a required request field that was empty or absent.
func NewMissingFieldError(field string) *DomainError {
	return NewError(CodeValidation, fmt.Sprintf("%s is required", field), nil).WithContext("field", field)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeNotFound, "Quiz not found", nil).WithContext("quiz_id", quizID)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewUnreadableDocumentError(cause error) *DomainError {
	return NewError(CodeUnreadableDocument, "Document could not be read", cause)
}

func NewEmptyDocumentError() *DomainError {
	return NewError(CodeEmptyDocument, "No text found in the document", nil)
}

func NewGenerationFailureError(cause error) *DomainError {
	return NewError(CodeGenerationFailure, "Failed to generate quiz", cause)
}

// HasCode reports whether err is, or wraps, a DomainError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// ValidationErrors collects every failed request field so a client sees all
// problems in one response.
type ValidationErrors []*DomainError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}
