// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package cf

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for the seven-kind taxonomy consumed by the tunnel reconciler.
var (
	// ErrConfigError indicates the CloudflaredTunnel spec is unusable
	// (missing credentials, invalid reference). Not retried until spec changes.
	ErrConfigError = errors.New("configuration error")

	// ErrRemoteTransient indicates a Cloudflare 5xx/timeout. Retried with backoff.
	ErrRemoteTransient = errors.New("transient Cloudflare API failure")

	// ErrRemoteAuth indicates a Cloudflare 401/403. Retried with long backoff.
	ErrRemoteAuth = errors.New("Cloudflare authentication failed")

	// ErrRemoteConflict indicates Cloudflare rejected a tunnel name as a duplicate.
	ErrRemoteConflict = errors.New("tunnel name already in use")

	// ErrRemoteNotFound indicates the tunnel does not exist in Cloudflare.
	ErrRemoteNotFound = errors.New("tunnel not found")

	// ErrKubeConflict indicates an optimistic-concurrency failure against the Kubernetes API.
	ErrKubeConflict = errors.New("kubernetes resource version conflict")

	// ErrOwnershipConflict indicates a required child object exists but lacks
	// the expected owner-reference.
	ErrOwnershipConflict = errors.New("object exists without expected owner reference")
)

// APIError wraps an error with the operation and resource it occurred against.
type APIError struct {
	Operation string
	Resource  string
	Err       error
}

func (e *APIError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s %s: %v", e.Operation, e.Resource, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError.
func NewAPIError(operation, resource string, err error) *APIError {
	return &APIError{Operation: operation, Resource: resource, Err: err}
}

// IsNotFoundError reports whether err indicates a tunnel was not found.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRemoteNotFound) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "not found") ||
		strings.Contains(errStr, "does not exist") ||
		strings.Contains(errStr, "no such") ||
		strings.Contains(errStr, "404") ||
		strings.Contains(errStr, "tunnel not found") ||
		strings.Contains(errStr, "could not find")
}

// IsConflictError reports whether err indicates a duplicate tunnel name.
func IsConflictError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRemoteConflict) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "already exists") ||
		strings.Contains(errStr, "conflict") ||
		strings.Contains(errStr, "duplicate")
}

// IsRateLimitError reports whether err indicates Cloudflare rate limiting.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429")
}

// IsTemporaryError reports whether err is a RemoteTransient-class failure.
func IsTemporaryError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRemoteTransient) {
		return true
	}
	if IsRateLimitError(err) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "temporary") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "504")
}

// IsAuthError reports whether err is a RemoteAuth-class failure.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRemoteAuth) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "authentication") ||
		strings.Contains(errStr, "permission denied") ||
		strings.Contains(errStr, "forbidden") ||
		strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403")
}

// IsPermanentError reports whether err should not be retried with backoff
// (it requires a spec or credential change to resolve).
func IsPermanentError(err error) bool {
	return errors.Is(err, ErrConfigError) || errors.Is(err, ErrOwnershipConflict)
}

// ClassifyRemoteError maps a raw cloudflare-go error into one of the four
// remote error sentinels (NotFound, Auth, Conflict, Transient), preserving the original error as the cause and
// wrapping both in an APIError that carries the operation and resource the
// failure occurred against.
func ClassifyRemoteError(operation, resource string, err error) error {
	if err == nil {
		return nil
	}
	var sentinel error
	switch {
	case IsNotFoundError(err):
		sentinel = ErrRemoteNotFound
	case IsAuthError(err):
		sentinel = ErrRemoteAuth
	case IsConflictError(err):
		sentinel = ErrRemoteConflict
	default:
		sentinel = ErrRemoteTransient
	}
	return NewAPIError(operation, resource, fmt.Errorf("%w: %v", sentinel, err))
}

// RetryConfig holds exponential-backoff parameters for requeue delay calculation.
type RetryConfig struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	MaxRetries int
	RetryCount int
}

// DefaultRetryConfig returns the backoff configuration mandated for this
// operator: base 1 s, cap 10 min.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		BaseDelay:  1 * time.Second,
		MaxDelay:   10 * time.Minute,
		MaxRetries: 0,
	}
}

func calculateExponentialDelay(baseDelay, maxDelay time.Duration, retryCount, maxShift int) time.Duration {
	delay := baseDelay * time.Duration(1<<min(retryCount, maxShift))
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

// GetRequeueDelay computes the requeue delay for err given cfg.
func GetRequeueDelay(err error, cfg RetryConfig) time.Duration {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrConfigError), errors.Is(err, ErrOwnershipConflict):
		return 0
	case errors.Is(err, ErrRemoteAuth):
		return cfg.MaxDelay
	case errors.Is(err, ErrKubeConflict):
		return 0
	case IsRateLimitError(err):
		return calculateExponentialDelay(cfg.BaseDelay, cfg.MaxDelay, cfg.RetryCount, 10)
	case errors.Is(err, ErrRemoteTransient), IsTemporaryError(err):
		return calculateExponentialDelay(cfg.BaseDelay, cfg.MaxDelay, cfg.RetryCount, 10)
	case errors.Is(err, ErrRemoteNotFound):
		return 0
	default:
		return cfg.BaseDelay
	}
}

// ShouldRetry reports whether an operation should be retried given retryCount.
func ShouldRetry(err error, retryCount int, maxRetries int) bool {
	if err == nil {
		return false
	}
	if maxRetries > 0 && retryCount >= maxRetries {
		return false
	}
	return !IsPermanentError(err)
}

func containsSensitivePattern(msg string) bool {
	sensitivePatterns := []string{
		"token", "secret", "password", "credential", "api_key", "apikey",
		"bearer", "authorization",
	}
	lowerMsg := strings.ToLower(msg)
	for _, pattern := range sensitivePatterns {
		if strings.Contains(lowerMsg, pattern) {
			return true
		}
	}
	return false
}

func getGenericErrorMessage(err error) string {
	switch {
	case IsAuthError(err):
		return "authentication failed - check credentials"
	case IsRateLimitError(err):
		return "API rate limit exceeded"
	case IsNotFoundError(err):
		return "resource not found"
	default:
		return "operation failed - check operator logs for details"
	}
}

// SanitizeErrorMessage truncates long error messages and redacts sensitive
// substrings before they are written into a status condition.
func SanitizeErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()

	const maxLen = 512
	if len(msg) > maxLen {
		msg = msg[:maxLen-3] + "..."
	}

	if containsSensitivePattern(msg) {
		return getGenericErrorMessage(err)
	}

	return msg
}
