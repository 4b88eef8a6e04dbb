package ratelimiting

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"
)

type RequestLimiter interface {
	// Wait blocks until a request to the given host is allowed, or the context is done
	Wait(ctx context.Context, host string) error
}

type tokenBucketPerHostLimiter struct {
	limiterByHost     *ttlcache.Cache[string, *rate.Limiter]
	requestsPerSecond rate.Limit
	burstSize         int
}

func (l *tokenBucketPerHostLimiter) Wait(ctx context.Context, host string) error {
	limiter, _ := l.limiterByHost.GetOrSet(host, rate.NewLimiter(l.requestsPerSecond, l.burstSize))
	return limiter.Value().Wait(ctx)
}

type RequestsPerSecond float64
type BurstSize int

// NewPerHostLimiter creates a token bucket limiter for each host requests are
// sent to. A non-positive rate disables limiting.
//
// The returned func stops the background cleanup of unused limiters.
func NewPerHostLimiter(requestsPerSecond RequestsPerSecond, burstSize BurstSize) (RequestLimiter, func()) {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burstSize < 1 {
		burstSize = 1
	}

	limiterTTLCache := ttlcache.New[string, *rate.Limiter](
		ttlcache.WithTTL[string, *rate.Limiter](30 * time.Minute),
	)
	go limiterTTLCache.Start()

	return &tokenBucketPerHostLimiter{
		limiterByHost:     limiterTTLCache,
		requestsPerSecond: limit,
		burstSize:         int(burstSize),
	}, limiterTTLCache.Stop
}

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type limitedHTTPClient struct {
	httpClient HttpClient
	limiter    RequestLimiter
}

func (c *limitedHTTPClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if err := c.limiter.Wait(ctx, req.URL.Host); err != nil {
		if _, hasDeadline := ctx.Deadline(); hasDeadline && ctx.Err() == nil {
			// rate.Limiter gives up early when the wait would outlast the deadline
			return nil, fmt.Errorf("waiting for rate limiter: %w: %w", context.DeadlineExceeded, err)
		}
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return c.httpClient.Do(req)
}

// NewLimitedHTTPClient wraps the client so that every request waits for the limiter first.
func NewLimitedHTTPClient(httpClient HttpClient, limiter RequestLimiter) *limitedHTTPClient {
	return &limitedHTTPClient{
		httpClient: httpClient,
		limiter:    limiter,
	}
}
