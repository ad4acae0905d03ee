package http

import (
	"fmt"
	"net/http"
)

// AppError is an error carrying the HTTP status and the JSON body fields sent for it.
type AppError struct {
	Message string
	Details map[string]interface{}
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(status int, message string) *AppError {
	return &AppError{Message: message, Status: status}
}

// WithDetail adds a field to the JSON body next to "error".
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// Body renders the JSON error document.
func (e *AppError) Body() map[string]interface{} {
	body := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		body[k] = v
	}
	body["error"] = e.Message
	return body
}

// NotFoundError creates a 404 error.
func NotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message)
}

// InternalError creates a 500 error.
func InternalError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message)
}
