// Package errs defines the error taxonomy shared by the GitHub tools and the
// log analysis pipeline, plus the conversion to user-facing messages.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrMissingParameter = errors.New("missing required parameter")
	ErrAuthFailed       = errors.New("authentication failed")
	ErrNotFound         = errors.New("resource not found")
	ErrRateLimited      = errors.New("rate limited")
)

// StatusCoder is implemented by upstream HTTP errors that carry a status code.
type StatusCoder interface {
	HTTPStatus() int
}

// UserError wraps errors with user-friendly messages
type UserError struct {
	Message string
	Hint    string
	Err     error
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n\nDetails: %v", e.Err)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// Missing reports a required identifying parameter that was neither passed
// nor configured.
func Missing(param, envVar string) error {
	return fmt.Errorf("%w: %s (pass %q or set the %s environment variable)", ErrMissingParameter, param, param, envVar)
}

// WrapError converts API and configuration errors to user-friendly messages.
// Errors it does not recognise are returned unchanged.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var userErr *UserError
	if errors.As(err, &userErr) {
		return err
	}

	status := 0
	var sc StatusCoder
	if errors.As(err, &sc) {
		status = sc.HTTPStatus()
	}

	switch {
	case errors.Is(err, ErrMissingParameter):
		return &UserError{
			Message: "Missing repository parameter",
			Hint:    "Pass the parameter explicitly or configure a default:\n  - GITHUB_OWNER\n  - GITHUB_REPO\n  - GITHUB_WORKFLOW_ID",
			Err:     err,
		}
	case status == 401 || errors.Is(err, ErrAuthFailed):
		return &UserError{
			Message: "Authentication failed",
			Hint:    "Check that GITHUB_TOKEN is set, valid, and has the required scopes.",
			Err:     err,
		}
	case status == 429 || errors.Is(err, ErrRateLimited):
		return &UserError{
			Message: "Rate limited by GitHub",
			Hint:    "Wait for the rate limit window to reset before retrying.",
			Err:     err,
		}
	case status == 404 || errors.Is(err, ErrNotFound):
		return &UserError{
			Message: "Resource not found",
			Hint:    "Check that the owner, repository and identifiers are correct and that the token has access.",
			Err:     err,
		}
	}

	return err
}
