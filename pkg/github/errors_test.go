package github

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ghError(status int, message string) *github.ErrorResponse {
	return &github.ErrorResponse{
		Response: &http.Response{StatusCode: status},
		Message:  message,
	}
}

func TestWrapAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
	}{
		{"unauthorized", ghError(http.StatusUnauthorized, "bad credentials"), ErrorTypeAuth, false},
		{"forbidden", ghError(http.StatusForbidden, "must have admin rights"), ErrorTypeAuth, false},
		{"forbidden rate limit", ghError(http.StatusForbidden, "API rate limit exceeded"), ErrorTypeRateLimit, true},
		{"not found", ghError(http.StatusNotFound, "Not Found"), ErrorTypeNotFound, false},
		{"validation", ghError(http.StatusUnprocessableEntity, "Validation Failed"), ErrorTypeValidation, false},
		{"server error", ghError(http.StatusInternalServerError, "oops"), ErrorTypeUnavailable, true},
		{"bad gateway", ghError(http.StatusBadGateway, "oops"), ErrorTypeUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := WrapAPIError(tt.err, "some resource")
			assert.Equal(t, tt.wantType, wrapped.Type)
			assert.Equal(t, tt.retryable, wrapped.IsRetryable())
			assert.Equal(t, "some resource", wrapped.Resource)
		})
	}
}

func TestWrapAPIErrorValidationDetails(t *testing.T) {
	err := ghError(http.StatusUnprocessableEntity, "Validation Failed")
	err.Errors = []github.Error{{Field: "name", Message: "is too long"}}

	wrapped := WrapAPIError(err, "repository")
	assert.Contains(t, wrapped.Message, "name: is too long")
}

func TestWrapAPIErrorNetwork(t *testing.T) {
	wrapped := WrapAPIError(fmt.Errorf("dial tcp 1.2.3.4:443: connection refused"), "api")
	assert.Equal(t, ErrorTypeUnavailable, wrapped.Type)
	assert.True(t, wrapped.IsRetryable())
}

func TestWrapAPIErrorPassThrough(t *testing.T) {
	original := NewUnsupportedError("", "no schema")
	wrapped := WrapAPIError(original, "properties")
	assert.Same(t, original, wrapped)
	assert.Equal(t, "properties", wrapped.Resource)
}

func TestErrorPredicates(t *testing.T) {
	notFound := &APIError{Type: ErrorTypeNotFound}
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(errors.New("plain")))

	assert.True(t, IsAuth(&APIError{Type: ErrorTypeAuth}))
	assert.True(t, IsUnsupported(NewUnsupportedError("r", "m")))
	assert.True(t, IsConfigConflict(NewConfigConflictError("r", "m")))

	// Wrapped errors are still recognized.
	wrapped := fmt.Errorf("context: %w", notFound)
	assert.True(t, IsNotFound(wrapped))
}

func TestWithRetryStopsOnNonRetryable(t *testing.T) {
	attempts := 0
	err := WithRetry(func() error {
		attempts++
		return &APIError{Type: ErrorTypeAuth, Message: "nope"}
	}, &RetryConfig{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithRetryRetriesTransientFailures(t *testing.T) {
	attempts := 0
	err := WithRetry(func() error {
		attempts++
		if attempts < 3 {
			return &APIError{Type: ErrorTypeUnavailable, Retryable: true}
		}
		return nil
	}, &RetryConfig{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := WithRetry(func() error {
		attempts++
		return &APIError{Type: ErrorTypeUnavailable, Retryable: true}
	}, &RetryConfig{MaxRetries: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "after 2 retries")
}

func TestValidationErrorsAccumulate(t *testing.T) {
	var errs ValidationErrors
	assert.False(t, errs.HasErrors())

	errs.Add("name", "x!", "invalid characters")
	errs.Add("owner", "", "required")

	assert.True(t, errs.HasErrors())
	assert.Contains(t, errs.Error(), "2 errors")
	assert.Contains(t, errs.Error(), "name")
}
