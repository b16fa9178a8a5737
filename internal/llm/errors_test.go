package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	withMessage := &APIError{StatusCode: 500, Message: "boom"}
	if got := withMessage.Error(); got != "model API error (status 500): boom" {
		t.Errorf("Error() = %q", got)
	}

	withoutMessage := &APIError{StatusCode: 503}
	if got := withoutMessage.Error(); got != "model API error (status 503)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestErrorClassifiers(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		rateLimited bool
		timeout     bool
		auth        bool
	}{
		{
			name: "nil error",
			err:  nil,
		},
		{
			name:        "rate limit sentinel",
			err:         ErrRateLimited,
			rateLimited: true,
		},
		{
			name:        "wrapped rate limit",
			err:         fmt.Errorf("embedding batch: %w", ErrRateLimited),
			rateLimited: true,
		},
		{
			name:        "API error with 429 status",
			err:         &APIError{StatusCode: 429},
			rateLimited: true,
		},
		{
			name:    "timeout sentinel",
			err:     ErrTimeout,
			timeout: true,
		},
		{
			name:    "deadline exceeded",
			err:     context.DeadlineExceeded,
			timeout: true,
		},
		{
			name: "auth sentinel",
			err:  ErrAuthError,
			auth: true,
		},
		{
			name: "API error with 401 status",
			err:  &APIError{StatusCode: 401},
			auth: true,
		},
		{
			name: "API error with 403 status",
			err:  &APIError{StatusCode: 403},
			auth: true,
		},
		{
			name: "plain API error",
			err:  &APIError{StatusCode: 500},
		},
		{
			name: "unrelated error",
			err:  errors.New("disk full"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimited(tt.err); got != tt.rateLimited {
				t.Errorf("IsRateLimited = %v, want %v", got, tt.rateLimited)
			}
			if got := IsTimeout(tt.err); got != tt.timeout {
				t.Errorf("IsTimeout = %v, want %v", got, tt.timeout)
			}
			if got := IsAuthError(tt.err); got != tt.auth {
				t.Errorf("IsAuthError = %v, want %v", got, tt.auth)
			}
		})
	}
}
