// Package errors provides error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeParsing indicates a parsing error
	TypeParsing Type = "PARSING_ERROR"

	// TypePricing indicates a pricing resolution error
	TypePricing Type = "PRICING_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeNetwork indicates a network error
	TypeNetwork Type = "NETWORK_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"

	// TypeNotFound indicates a resource not found error
	TypeNotFound Type = "NOT_FOUND"

	// TypeUnknownInstanceType indicates an EC2 instance type missing from the rate table
	TypeUnknownInstanceType Type = "UNKNOWN_INSTANCE_TYPE"

	// TypeUnknownStorageClass indicates an S3 storage class missing from the rate table
	TypeUnknownStorageClass Type = "UNKNOWN_STORAGE_CLASS"

	// TypeUnknownRDSInstanceType indicates an RDS instance type missing from the rate table
	TypeUnknownRDSInstanceType Type = "UNKNOWN_RDS_INSTANCE_TYPE"

	// TypeAdvisorUnavailable indicates the language model advisor is not configured
	TypeAdvisorUnavailable Type = "ADVISOR_UNAVAILABLE"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Type.
// This lets callers match with errors.Is(err, errors.New(TypeX, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// TypeOf returns the Type of the first *Error in err's chain, or "" if none.
func TypeOf(err error) Type {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ""
}

// As is errors.As from the standard library
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Is is errors.Is from the standard library
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// IsType checks if an error (or anything it wraps) is of a specific type
func IsType(err error, t Type) bool {
	return err != nil && TypeOf(err) == t
}

// IsClientError reports whether err was caused by bad caller input
// rather than by the system itself.
func IsClientError(err error) bool {
	switch TypeOf(err) {
	case TypeInput, TypeParsing, TypeNotFound,
		TypeUnknownInstanceType, TypeUnknownStorageClass, TypeUnknownRDSInstanceType:
		return true
	}
	return false
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Inputf creates a formatted input error
func Inputf(format string, args ...interface{}) *Error {
	return Newf(TypeInput, format, args...)
}

// Parsing creates a parsing error
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// Pricing creates a pricing error
func Pricing(message string, cause error) *Error {
	return Wrap(TypePricing, message, cause)
}

// Config creates a configuration error
func Config(message string) *Error {
	return New(TypeConfig, message)
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}

// UnknownInstanceType reports an EC2 instance type with no rate
func UnknownInstanceType(instanceType string) *Error {
	return Newf(TypeUnknownInstanceType, "Unknown instance type: %s", instanceType).
		WithContext("instanceType", instanceType)
}

// UnknownStorageClass reports an S3 storage class with no rate
func UnknownStorageClass(storageClass string) *Error {
	return Newf(TypeUnknownStorageClass, "Unknown storage class: %s", storageClass).
		WithContext("storageClass", storageClass)
}

// UnknownRDSInstanceType reports an RDS instance type with no rate
func UnknownRDSInstanceType(instanceType string) *Error {
	return Newf(TypeUnknownRDSInstanceType, "Unknown RDS instance type: %s", instanceType).
		WithContext("instanceType", instanceType)
}

// AdvisorUnavailable reports that no language model is configured
func AdvisorUnavailable() *Error {
	return New(TypeAdvisorUnavailable, "AI advisor is not configured (set GEMINI_API_KEY)")
}
