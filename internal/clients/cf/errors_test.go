// SPDX-License-Identifier: Apache-2.0
// Copyright 2025-2026 The Cloudflare Operator Authors

package cf

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(errors.New("tunnel not found")))
	assert.True(t, IsNotFoundError(errors.New("404 no such tunnel")))
	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsNotFoundError(errors.New("rate limited")))
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(errors.New("401 unauthorized")))
	assert.True(t, IsAuthError(ErrRemoteAuth))
	assert.False(t, IsAuthError(errors.New("not found")))
}

func TestClassifyRemoteError(t *testing.T) {
	err := ClassifyRemoteError("CreateTunnel", "my-tunnel", errors.New("tunnel already exists"))
	assert.ErrorIs(t, err, ErrRemoteConflict)

	err = ClassifyRemoteError("GetTunnel", "tunnel-1", errors.New("404 tunnel not found"))
	assert.ErrorIs(t, err, ErrRemoteNotFound)

	err = ClassifyRemoteError("GetTunnel", "tunnel-1", errors.New("403 forbidden"))
	assert.ErrorIs(t, err, ErrRemoteAuth)

	err = ClassifyRemoteError("GetTunnel", "tunnel-1", errors.New("connection reset"))
	assert.ErrorIs(t, err, ErrRemoteTransient)

	assert.NoError(t, ClassifyRemoteError("GetTunnel", "tunnel-1", nil))
}

func TestClassifyRemoteErrorWrapsAPIError(t *testing.T) {
	err := ClassifyRemoteError("GetTunnel", "tunnel-1", errors.New("403 forbidden"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "GetTunnel", apiErr.Operation)
	assert.Equal(t, "tunnel-1", apiErr.Resource)
	assert.Contains(t, err.Error(), "GetTunnel tunnel-1:")
}

func TestGetRequeueDelay(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Equal(t, time.Duration(0), GetRequeueDelay(nil, cfg))
	assert.Equal(t, time.Duration(0), GetRequeueDelay(ErrConfigError, cfg))
	assert.Equal(t, cfg.MaxDelay, GetRequeueDelay(ErrRemoteAuth, cfg))
	assert.Equal(t, time.Duration(0), GetRequeueDelay(ErrRemoteNotFound, cfg))

	cfg.RetryCount = 0
	assert.Equal(t, cfg.BaseDelay, GetRequeueDelay(ErrRemoteTransient, cfg))
}

func TestShouldRetry(t *testing.T) {
	assert.False(t, ShouldRetry(nil, 0, 0))
	assert.False(t, ShouldRetry(ErrConfigError, 0, 0))
	assert.True(t, ShouldRetry(ErrRemoteTransient, 0, 0))
	assert.False(t, ShouldRetry(ErrRemoteTransient, 5, 5))
}

func TestSanitizeErrorMessage(t *testing.T) {
	assert.Equal(t, "", SanitizeErrorMessage(nil))
	assert.Equal(t, "authentication failed - check credentials",
		SanitizeErrorMessage(errors.New("invalid api_token supplied")))
	assert.Equal(t, "boom", SanitizeErrorMessage(errors.New("boom")))
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Equal(t, 1*time.Second, cfg.BaseDelay)
	assert.Equal(t, 10*time.Minute, cfg.MaxDelay)
}
