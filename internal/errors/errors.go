package errors

import (
	"errors"
	"net/http"
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Error is the application error carried from the service layer to the
// transport boundary, where it is mapped to an HTTP status or a GraphQL
// error extension.
type Error struct {
	StatusCode int
	Message    string
	Data       []FieldError
}

func (e *Error) Error() string {
	return e.Message
}

// Extensions exposes the status code and field errors to GraphQL error
// formatting (gqlerrors.ExtendedError).
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"status": e.StatusCode}
	if len(e.Data) > 0 {
		ext["data"] = e.Data
	}
	return ext
}

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Message string       `json:"message"`
	Data    []FieldError `json:"data,omitempty"`
}

// ValidationFailed reports malformed or missing input fields.
func ValidationFailed(message string, data ...FieldError) *Error {
	return &Error{StatusCode: http.StatusUnprocessableEntity, Message: message, Data: data}
}

// Unauthenticated reports a missing, invalid, or expired credential.
func Unauthenticated(message string) *Error {
	return &Error{StatusCode: http.StatusUnauthorized, Message: message}
}

// Forbidden reports an authenticated caller that does not own the resource.
func Forbidden(message string) *Error {
	return &Error{StatusCode: http.StatusForbidden, Message: message}
}

// NotFound reports a missing entity.
func NotFound(message string) *Error {
	return &Error{StatusCode: http.StatusNotFound, Message: message}
}

// Conflict reports a uniqueness violation, such as a duplicate email.
func Conflict(message string) *Error {
	return &Error{StatusCode: http.StatusConflict, Message: message}
}

// Internal is the fallback for unexpected failures.
func Internal(message string) *Error {
	return &Error{StatusCode: http.StatusInternalServerError, Message: message}
}

// From returns the application error wrapped in err, or an Internal error
// when err carries no application error.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("internal server error")
}
