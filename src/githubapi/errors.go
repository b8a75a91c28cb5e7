package githubapi

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected response status")
	ErrNoRedirect       = errors.New("no redirect location")
	ErrInvalidRunURL    = errors.New("invalid workflow run URL")
)

// APIError is a non-2xx response from the GitHub API.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error %d: %s", e.StatusCode, e.Body)
}

// HTTPStatus exposes the status code to errs.WrapError.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// SchemaError reports a response body that does not have the expected shape.
type SchemaError struct {
	Shape Shape
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("unexpected %s response from GitHub: %v", e.Shape, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
