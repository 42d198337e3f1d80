package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
)

// ErrorType represents different categories of reconciliation errors
type ErrorType string

const (
	// ErrorTypeAuth covers invalid credentials and insufficient token scope.
	// Fatal: the whole run is aborted.
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypeUnavailable covers transient transport and API failures.
	ErrorTypeUnavailable ErrorType = "unavailable"
	// ErrorTypeNotFound marks a missing remote resource.
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeConfigConflict marks an internally inconsistent desired
	// configuration, rejected before any write.
	ErrorTypeConfigConflict ErrorType = "config_conflict"
	// ErrorTypeUnsupported marks a capability the remote organization lacks,
	// handled by a documented fallback rather than a failure.
	ErrorTypeUnsupported ErrorType = "unsupported"
	// ErrorTypeRateLimit marks an exhausted API quota.
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeValidation marks a request the API rejected as malformed.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeUnknown is the catch-all.
	ErrorTypeUnknown ErrorType = "unknown"
)

// APIError represents a structured error from GitHub operations
type APIError struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Cause     error     `json:"-"`
	Resource  string    `json:"resource,omitempty"`
	Retryable bool      `json:"retryable"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Resource, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *APIError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether the error is retryable
func (e *APIError) IsRetryable() bool {
	return e.Retryable
}

// NewConfigConflictError builds the error returned when the desired
// configuration is internally inconsistent for an item.
func NewConfigConflictError(resource, message string) *APIError {
	return &APIError{
		Type:     ErrorTypeConfigConflict,
		Message:  message,
		Resource: resource,
	}
}

// NewUnsupportedError builds the error returned when the remote organization
// lacks a capability (e.g. no custom properties schema).
func NewUnsupportedError(resource, message string) *APIError {
	return &APIError{
		Type:     ErrorTypeUnsupported,
		Message:  message,
		Resource: resource,
	}
}

// IsNotFound reports whether err represents a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == ErrorTypeNotFound
}

// IsAuth reports whether err is a fatal credential or permission error.
func IsAuth(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == ErrorTypeAuth
}

// IsUnsupported reports whether err marks a missing remote capability.
func IsUnsupported(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == ErrorTypeUnsupported
}

// IsConfigConflict reports whether err marks an inconsistent configuration.
func IsConfigConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == ErrorTypeConfigConflict
}

// WrapAPIError wraps a GitHub API error into our structured error type
func WrapAPIError(err error, resource string) *APIError {
	if err == nil {
		return nil
	}

	// If it's already an APIError, return as-is
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Resource == "" {
			apiErr.Resource = resource
		}
		return apiErr
	}

	// Handle GitHub API error responses
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		return parseErrorResponse(ghErr, resource)
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &APIError{
			Type:      ErrorTypeRateLimit,
			Message:   fmt.Sprintf("rate limit exceeded, resets at %v", rateErr.Rate.Reset.Time),
			Cause:     err,
			Resource:  resource,
			Retryable: true,
		}
	}

	if isNetworkError(err) {
		return &APIError{
			Type:      ErrorTypeUnavailable,
			Message:   "network error, check your connection and try again",
			Cause:     err,
			Resource:  resource,
			Retryable: true,
		}
	}

	return &APIError{
		Type:     ErrorTypeUnknown,
		Message:  err.Error(),
		Cause:    err,
		Resource: resource,
	}
}

// parseErrorResponse maps GitHub HTTP status codes onto the error taxonomy
func parseErrorResponse(ghErr *github.ErrorResponse, resource string) *APIError {
	baseErr := &APIError{
		Resource: resource,
		Cause:    ghErr,
	}

	switch ghErr.Response.StatusCode {
	case http.StatusUnauthorized:
		baseErr.Type = ErrorTypeAuth
		baseErr.Message = "authentication failed, check your GitHub token"

	case http.StatusForbidden:
		if strings.Contains(ghErr.Message, "rate limit") {
			baseErr.Type = ErrorTypeRateLimit
			baseErr.Message = "GitHub API rate limit exceeded"
			baseErr.Retryable = true
		} else {
			baseErr.Type = ErrorTypeAuth
			baseErr.Message = "insufficient permissions, the token may be missing required scopes"
		}

	case http.StatusNotFound:
		baseErr.Type = ErrorTypeNotFound
		baseErr.Message = "resource not found"

	case http.StatusUnprocessableEntity:
		baseErr.Type = ErrorTypeValidation
		baseErr.Message = "validation failed"
		if len(ghErr.Errors) > 0 {
			var details []string
			for _, e := range ghErr.Errors {
				if e.Field != "" {
					details = append(details, fmt.Sprintf("%s: %s", e.Field, e.Message))
				} else {
					details = append(details, e.Message)
				}
			}
			baseErr.Message = fmt.Sprintf("validation failed: %s", strings.Join(details, "; "))
		}

	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		baseErr.Type = ErrorTypeUnavailable
		baseErr.Message = "GitHub API is temporarily unavailable"
		baseErr.Retryable = true

	default:
		baseErr.Type = ErrorTypeUnknown
		baseErr.Message = ghErr.Message
		baseErr.Retryable = ghErr.Response.StatusCode >= 500
	}

	return baseErr
}

// isNetworkError checks if an error is a network-related error
func isNetworkError(err error) bool {
	errStr := strings.ToLower(err.Error())
	networkKeywords := []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no such host",
		"timeout",
		"dial tcp",
	}

	for _, keyword := range networkKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// RetryConfig defines configuration for retry logic
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns a default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:    3,
		InitialDelay:  time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
	}
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func() error

// WithRetry executes an operation, retrying transient failures with
// exponential backoff. Non-retryable errors are returned immediately.
func WithRetry(operation RetryableOperation, config *RetryConfig) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)

			delay = time.Duration(float64(delay) * config.BackoffFactor)
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
		}

		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.IsRetryable() {
			return err
		}
	}

	return fmt.Errorf("operation failed after %d retries: %w", config.MaxRetries, lastErr)
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("validation error for field '%s' (value: %s): %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	if len(e) == 1 {
		return e[0].Error()
	}

	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed with %d errors: %s", len(e), strings.Join(messages, "; "))
}

// Add adds a validation error to the collection
func (e *ValidationErrors) Add(field, value, message string) {
	*e = append(*e, ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}
