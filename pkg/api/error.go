package api

import "net/http"

// Error represents an error that occurred while handling a request.
type Error struct {
	StatusCode int
	Message    string
	// Details are merged into the JSON error body.
	Details map[string]interface{}
}

func (e *Error) Error() string {
	return e.Message
}

// Body returns the JSON response for the error.
func (e *Error) Body() map[string]interface{} {
	body := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		body[k] = v
	}
	body["error"] = e.Message
	return body
}

// WithDetail returns a copy of e carrying one more detail.
func (e *Error) WithDetail(key string, value interface{}) *Error {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{StatusCode: e.StatusCode, Message: e.Message, Details: details}
}

func NewBadRequestError(message string) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{StatusCode: http.StatusNotFound, Message: message}
}

func NewRequestEntityTooLargeError(message string) *Error {
	return &Error{StatusCode: http.StatusRequestEntityTooLarge, Message: message}
}

func NewUnprocessableEntityError(message string) *Error {
	return &Error{StatusCode: http.StatusUnprocessableEntity, Message: message}
}

func NewInternalServerError(message string) *Error {
	return &Error{StatusCode: http.StatusInternalServerError, Message: message}
}

func NewServiceUnavailable(message string) *Error {
	return &Error{StatusCode: http.StatusServiceUnavailable, Message: message}
}
