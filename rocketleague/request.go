package rocketleague

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Amund211/rlstats/internal/constants"
	"github.com/Amund211/rlstats/internal/logging"
	"github.com/Amund211/rlstats/internal/reporting"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

type clientMetricsCollection struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
}

func setupClientMetrics(meter metric.Meter) (clientMetricsCollection, error) {
	requestCount, err := meter.Int64Counter(
		"rocketleague/request_count",
		metric.WithDescription("Total number of requests sent to the Rocket League API"),
	)
	if err != nil {
		return clientMetricsCollection{}, fmt.Errorf("failed to create request count metric: %w", err)
	}

	requestDuration, err := meter.Float64Histogram(
		"rocketleague/request_duration_seconds",
		metric.WithDescription("Time spent waiting for the Rocket League API"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return clientMetricsCollection{}, fmt.Errorf("failed to create request duration metric: %w", err)
	}

	return clientMetricsCollection{
		requestCount:    requestCount,
		requestDuration: requestDuration,
	}, nil
}

// execute performs a single request against the API and decodes the response.
//
// Every error returned wraps exactly one of ErrInternal, ErrTransport, ErrParse
// or ErrHTTPStatus.
func execute[T any](
	ctx context.Context,
	c *Client,
	endpoint string,
	method string,
	path string,
	body []byte,
	decode func(data []byte) (T, error),
) (T, error) {
	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("RocketLeague.%s", endpoint))
	defer span.End()

	ctx = reporting.AddTagsToContext(ctx, map[string]string{"rocketleague.endpoint": endpoint})

	url := c.baseURL + path

	ctx = logging.AddToContext(ctx, c.logger.With(
		slog.String("endpoint", endpoint),
		slog.String("method", method),
		slog.String("url", url),
	))
	logger := logging.FromContext(ctx)

	start := time.Now()
	statusCode := -1

	result, err := func() (T, error) {
		var empty T

		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return empty, fmt.Errorf("%w: failed to create request: %s", ErrInternal, err.Error())
		}

		req.Header.Set("Authorization", authorizationHeader(c.token))
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", constants.USER_AGENT)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return empty, fmt.Errorf("%w: request aborted: %w", ErrTransport, ctxErr)
			}
			if _, hasDeadline := ctx.Deadline(); hasDeadline && errors.Is(err, context.DeadlineExceeded) {
				// Waiting for the rate limiter can give up before the deadline has passed
				return empty, fmt.Errorf("%w: request aborted: %w (%s)", ErrTransport, context.DeadlineExceeded, err.Error())
			}
			err := fmt.Errorf("%w: failed to send request: %s", ErrTransport, err.Error())
			reporting.Report(ctx, err)
			return empty, err
		}
		defer resp.Body.Close()
		statusCode = resp.StatusCode

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return empty, fmt.Errorf("%w: reading response body aborted: %w", ErrTransport, ctxErr)
			}
			err := fmt.Errorf("%w: failed to read response body: %s", ErrTransport, err.Error())
			reporting.Report(ctx, err)
			return empty, err
		}

		logger.InfoContext(ctx, "rocket league request completed", "status", resp.StatusCode, "duration", time.Since(start).String())

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			statusErr := newStatusError(resp.StatusCode, data)
			if resp.StatusCode >= 500 {
				reporting.Report(ctx, statusErr, map[string]string{
					"data":   statusErr.Body,
					"status": strconv.Itoa(resp.StatusCode),
				})
			}
			return empty, statusErr
		}

		decoded, err := decode(data)
		if err != nil {
			reporting.Report(ctx, err, map[string]string{
				"data":   truncate(string(data), 1024),
				"status": strconv.Itoa(resp.StatusCode),
			})
			return empty, err
		}

		return decoded, nil
	}()

	kind := KindOf(err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, kind.String())
		logger.WarnContext(ctx, "rocket league request failed", "error", err.Error(), "kind", kind.String())
	}

	attributes := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("status_code", strconv.Itoa(statusCode)),
		attribute.String("error_kind", errorKindAttribute(err, kind)),
	)
	c.metrics.requestCount.Add(ctx, 1, attributes)
	c.metrics.requestDuration.Record(ctx, time.Since(start).Seconds(), attributes)

	return result, err
}

func errorKindAttribute(err error, kind Kind) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return kind.String()
}
