package github

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter(t *testing.T) {
	r := NewRateLimiter()
	require.NotNil(t, r)
	assert.Equal(t, GitHubRateLimit, r.Remaining())
	assert.Equal(t, GitHubRateLimit, r.Limit())
}

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	t.Run("parses all headers", func(t *testing.T) {
		r := NewRateLimiter()
		reset := time.Now().Add(time.Hour).Unix()

		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set(HeaderRateRemaining, "42")
		resp.Header.Set(HeaderRateLimit, "5000")
		resp.Header.Set(HeaderRateReset, fmt.Sprintf("%d", reset))

		r.UpdateFromResponse(resp)

		assert.Equal(t, 42, r.Remaining())
		assert.Equal(t, 5000, r.Limit())
		assert.Equal(t, time.Unix(reset, 0), r.ResetTime())
	})

	t.Run("ignores nil response", func(t *testing.T) {
		r := NewRateLimiter()
		r.UpdateFromResponse(nil)
		assert.Equal(t, GitHubRateLimit, r.Remaining())
	})

	t.Run("ignores malformed headers", func(t *testing.T) {
		r := NewRateLimiter()
		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set(HeaderRateRemaining, "not-a-number")

		r.UpdateFromResponse(resp)

		assert.Equal(t, GitHubRateLimit, r.Remaining())
	})
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Run("returns immediately with quota available", func(t *testing.T) {
		r := NewRateLimiter()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		err := r.Wait(ctx)
		require.NoError(t, err)
	})

	t.Run("respects context cancellation while exhausted", func(t *testing.T) {
		r := NewRateLimiter()
		resp := &http.Response{Header: http.Header{}}
		resp.Header.Set(HeaderRateRemaining, "0")
		resp.Header.Set(HeaderRateReset, fmt.Sprintf("%d", time.Now().Add(time.Hour).Unix()))
		r.UpdateFromResponse(resp)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := r.Wait(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
