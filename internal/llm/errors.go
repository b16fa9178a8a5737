package llm

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by the model API client.
var (
	// ErrTimeout indicates a request exceeded its wall-clock budget.
	ErrTimeout = errors.New("model API request timed out")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("model API rate limit exceeded")

	// ErrAuthError indicates a missing or invalid API key.
	ErrAuthError = errors.New("model API authentication error")
)

// APIError represents a non-2xx response from the model API after all
// retries were exhausted.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("model API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("model API error (status %d)", e.StatusCode)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}

// IsTimeout returns true if the error indicates a wall-clock timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}
