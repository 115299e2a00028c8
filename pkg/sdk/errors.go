package sdk

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sdk: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsNotFound reports whether the error is a 404 API error.
func IsNotFound(err error) bool { return hasStatus(err, 404) }

// IsValidation reports whether the error is a 400 API error.
func IsValidation(err error) bool { return hasStatus(err, 400) }

// IsConflict reports whether the error is a 409 API error.
func IsConflict(err error) bool { return hasStatus(err, 409) }

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
