// Package errors provides the structured error values returned by baasclient validators
// and the error object carried by every result envelope.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a short machine-readable classification of a failure.
type ErrorCode string

const (
	// Validation errors. Callers branch on these, so the set is closed.
	ErrCodeMissingRequiredValue ErrorCode = "missing_required_value"
	ErrCodeInvalidValue         ErrorCode = "invalid_value"
	ErrCodeEmptyArray           ErrorCode = "empty_array"

	// Transport errors raised on the client side of a request.
	ErrCodeClientError     ErrorCode = "client_error"
	ErrCodeInvalidResponse ErrorCode = "invalid_response"
)

// OriginClient marks error items produced inside the library rather than by the server.
const OriginClient = "client_error"

// ErrorCategory groups error codes by where the failure happened.
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryTransport  ErrorCategory = "transport"
	CategoryServer     ErrorCategory = "server"
)

// Error is the structured error signal raised by validators and the fetcher.
type Error struct {
	Code     ErrorCode      `json:"code"`
	Category ErrorCategory  `json:"category"`
	Message  string         `json:"message"`
	Field    string         `json:"field,omitempty"`
	Details  map[string]any `json:"details,omitempty"`

	Operation string `json:"operation,omitempty"`
	Cause     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Operation, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// String returns a detailed representation for logging.
func (e *Error) String() string {
	parts := []string{
		fmt.Sprintf("Code=%s", e.Code),
		fmt.Sprintf("Category=%s", e.Category),
		fmt.Sprintf("Message=%q", e.Message),
	}
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("Field=%s", e.Field))
	}
	if e.Operation != "" {
		parts = append(parts, fmt.Sprintf("Operation=%s", e.Operation))
	}
	if len(e.Details) > 0 {
		details, _ := json.Marshal(e.Details)
		parts = append(parts, fmt.Sprintf("Details=%s", details))
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("Cause=%q", e.Cause.Error()))
	}
	return fmt.Sprintf("Error{%s}", strings.Join(parts, ", "))
}

// JSON returns the error as a JSON string.
func (e *Error) JSON() string {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal error: %s"}`, err.Error())
	}
	return string(data)
}

// NewError creates an error with its category derived from the code.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Category: GetCategory(code),
		Message:  message,
	}
}

// NewFieldError creates a validation error bound to the named field.
func NewFieldError(code ErrorCode, field, message string) *Error {
	e := NewError(code, message)
	e.Field = field
	return e
}

// WithDetail adds detailed information to an error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithOperation sets the operation that produced the error.
func (e *Error) WithOperation(operation string) *Error {
	e.Operation = operation
	return e
}

// WithCause sets the underlying cause.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// GetCategory determines the category of a code. Codes outside the library's
// own set come from the server.
func GetCategory(code ErrorCode) ErrorCategory {
	switch code {
	case ErrCodeMissingRequiredValue, ErrCodeInvalidValue, ErrCodeEmptyArray:
		return CategoryValidation
	case ErrCodeClientError, ErrCodeInvalidResponse:
		return CategoryTransport
	default:
		return CategoryServer
	}
}

// IsValidation reports whether code belongs to the closed validation set.
func IsValidation(code ErrorCode) bool {
	return GetCategory(code) == CategoryValidation
}

// CodeOf returns the code of the first *Error in err's chain, or "" when there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ErrorItem is a single entry of an ErrorObject.
type ErrorItem struct {
	Origin  string         `json:"origin"`
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorObject is the errors half of a result envelope.
type ErrorObject struct {
	Status     int         `json:"status"`
	StatusText string      `json:"statusText"`
	Items      []ErrorItem `json:"items"`
}

// Error implements the error interface.
func (o *ErrorObject) Error() string {
	if len(o.Items) == 0 {
		return fmt.Sprintf("%d %s", o.Status, o.StatusText)
	}
	msgs := make([]string, len(o.Items))
	for i, it := range o.Items {
		msgs[i] = fmt.Sprintf("%s: %s", it.Code, it.Message)
	}
	return strings.Join(msgs, "; ")
}

// Code returns the code of the first item.
func (o *ErrorObject) Code() ErrorCode {
	if o == nil || len(o.Items) == 0 {
		return ""
	}
	return o.Items[0].Code
}

// Message returns the message of the first item.
func (o *ErrorObject) Message() string {
	if o == nil || len(o.Items) == 0 {
		return ""
	}
	return o.Items[0].Message
}

// Has reports whether any item carries code.
func (o *ErrorObject) Has(code ErrorCode) bool {
	if o == nil {
		return false
	}
	for _, it := range o.Items {
		if it.Code == code {
			return true
		}
	}
	return false
}

// ToObject converts err into the envelope error object. nil maps to nil.
func ToObject(err error) *ErrorObject {
	if err == nil {
		return nil
	}

	var obj *ErrorObject
	if stderrors.As(err, &obj) {
		return obj
	}

	var e *Error
	if !stderrors.As(err, &e) {
		e = NewError(ErrCodeClientError, err.Error()).WithCause(err)
	}

	status := http.StatusBadRequest
	if e.Category == CategoryTransport {
		status = 0
	}
	item := ErrorItem{
		Origin:  OriginClient,
		Code:    e.Code,
		Message: e.Message,
	}
	if len(e.Details) > 0 || e.Field != "" {
		item.Details = make(map[string]any, len(e.Details)+1)
		for k, v := range e.Details {
			item.Details[k] = v
		}
		if e.Field != "" {
			item.Details["field"] = e.Field
		}
	}
	return &ErrorObject{
		Status:     status,
		StatusText: http.StatusText(status),
		Items:      []ErrorItem{item},
	}
}
