package ratelimiting_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Amund211/rlstats/internal/ratelimiting"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestPerHostLimiter(t *testing.T) {
	t.Parallel()

	t.Run("burst is allowed immediately", func(t *testing.T) {
		t.Parallel()

		limiter, stop := ratelimiting.NewPerHostLimiter(0.001, 3)
		defer stop()

		ctx, cancel := context.WithTimeout(t.Context(), time.Second)
		defer cancel()

		for range 3 {
			require.NoError(t, limiter.Wait(ctx, "api.rocketleague.com"))
		}
	})

	t.Run("exhausted limiter respects context", func(t *testing.T) {
		t.Parallel()

		limiter, stop := ratelimiting.NewPerHostLimiter(0.001, 1)
		defer stop()

		require.NoError(t, limiter.Wait(t.Context(), "api.rocketleague.com"))

		ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
		defer cancel()
		require.Error(t, limiter.Wait(ctx, "api.rocketleague.com"))
	})

	t.Run("hosts are limited independently", func(t *testing.T) {
		t.Parallel()

		limiter, stop := ratelimiting.NewPerHostLimiter(0.001, 1)
		defer stop()

		ctx, cancel := context.WithTimeout(t.Context(), time.Second)
		defer cancel()

		require.NoError(t, limiter.Wait(ctx, "api.rocketleague.com"))
		require.NoError(t, limiter.Wait(ctx, "localhost:8080"))
	})

	t.Run("non-positive rate is unlimited", func(t *testing.T) {
		t.Parallel()

		limiter, stop := ratelimiting.NewPerHostLimiter(0, 0)
		defer stop()

		ctx, cancel := context.WithTimeout(t.Context(), time.Second)
		defer cancel()

		for range 100 {
			require.NoError(t, limiter.Wait(ctx, "api.rocketleague.com"))
		}
	})
}

func TestPerHostLimiterStop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	limiter, stop := ratelimiting.NewPerHostLimiter(10, 1)
	require.NoError(t, limiter.Wait(t.Context(), "api.rocketleague.com"))
	stop()
}

type countingHTTPClient struct {
	mu    sync.Mutex
	calls int
}

func (c *countingHTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`[]`)),
	}, nil
}

type blockingLimiter struct{}

func (blockingLimiter) Wait(ctx context.Context, host string) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestLimitedHTTPClient(t *testing.T) {
	t.Parallel()

	t.Run("passes through when allowed", func(t *testing.T) {
		t.Parallel()

		limiter, stop := ratelimiting.NewPerHostLimiter(100, 10)
		defer stop()

		inner := &countingHTTPClient{}
		client := ratelimiting.NewLimitedHTTPClient(inner, limiter)

		req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, "https://api.rocketleague.com/api/v1/regions", nil)
		require.NoError(t, err)

		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 1, inner.calls)
	})

	t.Run("giving up before the deadline is a deadline error", func(t *testing.T) {
		t.Parallel()

		limiter, stop := ratelimiting.NewPerHostLimiter(0.001, 1)
		defer stop()

		inner := &countingHTTPClient{}
		client := ratelimiting.NewLimitedHTTPClient(inner, limiter)

		first, err := http.NewRequestWithContext(t.Context(), http.MethodGet, "https://api.rocketleague.com/api/v1/regions", nil)
		require.NoError(t, err)
		resp, err := client.Do(first)
		require.NoError(t, err)
		resp.Body.Close()

		ctx, cancel := context.WithTimeout(t.Context(), time.Minute)
		defer cancel()

		second, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.rocketleague.com/api/v1/regions", nil)
		require.NoError(t, err)

		_, err = client.Do(second)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.NoError(t, ctx.Err())
		require.Equal(t, 1, inner.calls)
	})

	t.Run("does not send when the limiter gives up", func(t *testing.T) {
		t.Parallel()

		inner := &countingHTTPClient{}
		client := ratelimiting.NewLimitedHTTPClient(inner, blockingLimiter{})

		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.rocketleague.com/api/v1/regions", nil)
		require.NoError(t, err)

		_, err = client.Do(req)
		require.Error(t, err)
		require.True(t, errors.Is(err, context.DeadlineExceeded))
		require.Equal(t, 0, inner.calls)
	})
}
