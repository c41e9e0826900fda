package apperr

import "fmt"

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// AuthError means the action needs a signed-in identity that is absent.
// Callers surface it as an inline login prompt, not a failure toast.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func NewAuth(msg string) *AuthError {
	return &AuthError{Message: msg}
}

// AuthorizationError means the backend rejected an action the current
// identity is not permitted to perform, e.g. editing someone else's comment.
type AuthorizationError struct {
	Message string
	Err     error
}

func (e *AuthorizationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AuthorizationError) Unwrap() error {
	return e.Err
}

func NewAuthorization(msg string) *AuthorizationError {
	return &AuthorizationError{Message: msg}
}

// StatusError carries a non-2xx backend response. Transport failures are
// wrapped with a zero Code.
type StatusError struct {
	Code int
	Body string
	Err  error
}

func (e *StatusError) Error() string {
	if e.Code == 0 {
		return "request failed: " + e.Err.Error()
	}
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

func NewStatus(code int, body string) *StatusError {
	return &StatusError{Code: code, Body: body}
}

func NewTransport(err error) *StatusError {
	return &StatusError{Err: err}
}

// Retryable reports whether the failed call is safe to reissue as-is.
// Only transport failures and 5xx responses qualify.
func (e *StatusError) Retryable() bool {
	return e.Code == 0 || e.Code >= 500
}

// SessionExpiredError is produced by the session transport when the backend
// answers 401/403 on an authenticated call. It is handled globally, never by
// the calling component.
type SessionExpiredError struct {
	Admin bool
	Code  int
}

func (e *SessionExpiredError) Error() string {
	if e.Admin {
		return fmt.Sprintf("admin session rejected with status %d", e.Code)
	}
	return fmt.Sprintf("user session rejected with status %d", e.Code)
}
