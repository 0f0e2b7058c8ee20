package errors

import (
	"errors"
	"fmt"
)

var (
	ErrTransport        = errors.New("failed to reach server")
	ErrInvalidInput     = errors.New("invalid input data")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrFormBusy         = errors.New("form submission already in progress")
)

// APIError is a non-2xx response from the backend. Message is what the user
// sees: the server's detail when present, otherwise the endpoint fallback.
type APIError struct {
	Status  int
	Detail  any
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(status int, detail any, message string) *APIError {
	return &APIError{
		Status:  status,
		Detail:  detail,
		Message: message,
	}
}

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// UserMessage returns the text shown in a notification for err, or fallback
// when err carries nothing presentable.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	if errors.Is(err, ErrTransport) {
		return "Failed to reach server. Please try again."
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
