// Package rocketleague is a client for the Rocket League statistics API.
//
// Responses are returned with as little handling as possible. The API's
// inconsistencies are preserved and no higher level models are built on top.
package rocketleague

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/http/httpguts"
)

const DEFAULT_BASE_URL = "https://api.rocketleague.com"

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is safe for concurrent use. It holds no mutable state after creation.
type Client struct {
	token      string
	baseURL    string
	httpClient HttpClient
	logger     *slog.Logger

	metrics clientMetricsCollection
	tracer  trace.Tracer
}

type options struct {
	baseURL    string
	httpClient HttpClient
	logger     *slog.Logger
}

type Option func(*options)

// WithBaseURL replaces the origin requests are sent to, e.g. to point at a
// local test server.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

func WithHTTPClient(httpClient HttpClient) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// NewDefaultHTTPClient returns the HTTP client used when none is provided.
// It is traced with otelhttp and times out after 10 seconds.
func NewDefaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// New creates a client authenticating with the given access token.
//
// Returned errors wrap ErrInternal.
func New(token string, opts ...Option) (*Client, error) {
	const name = "rlstats/rocketleague"

	o := options{
		baseURL: DEFAULT_BASE_URL,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !httpguts.ValidHeaderFieldValue(authorizationHeader(token)) {
		return nil, fmt.Errorf("%w: token contains characters not allowed in a header", ErrInternal)
	}

	baseURL, err := normalizeBaseURL(o.baseURL)
	if err != nil {
		return nil, err
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = NewDefaultHTTPClient()
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	metrics, err := setupClientMetrics(otel.Meter(name))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to set up metrics: %s", ErrInternal, err.Error())
	}

	return &Client{
		token:      token,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "rocketleague")),

		metrics: metrics,
		tracer:  otel.Tracer(name),
	}, nil
}

func (c *Client) String() string {
	return fmt.Sprintf("rocketleague.Client{baseURL: %s}", c.baseURL)
}

func authorizationHeader(token string) string {
	return "Token " + token
}

func normalizeBaseURL(baseURL string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base url: %s", ErrInternal, err.Error())
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: invalid base url %q: scheme must be http or https", ErrInternal, baseURL)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: invalid base url %q: missing host", ErrInternal, baseURL)
	}
	if parsed.RawQuery != "" || parsed.Fragment != "" {
		return "", fmt.Errorf("%w: invalid base url %q: must not have a query or fragment", ErrInternal, baseURL)
	}

	return strings.TrimRight(baseURL, "/"), nil
}
