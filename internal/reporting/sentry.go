package reporting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/Amund211/rlstats/internal/config"
	"github.com/Amund211/rlstats/internal/logging"
	"github.com/getsentry/sentry-go"
)

var steamIDRx = regexp.MustCompile(`\b7656119\d{10}\b`)
var playerPathRx = regexp.MustCompile(`/(playerskills|playertitles|leaderboard/stats/[a-z_]+)/[^/"\s]+`)
var hostRx = regexp.MustCompile(`\[:{0,2}([0-9a-f]{0,4}:?){1,8}\]:\d+`)

func sanitizeError(err string) string {
	err = steamIDRx.ReplaceAllString(err, "<steamid>")
	err = playerPathRx.ReplaceAllString(err, "/$1/<player>")
	err = hostRx.ReplaceAllString(err, "<host>")
	return err
}

// Report sends the error to the Sentry hub in the context, if any.
func Report(ctx context.Context, err error, extras ...map[string]string) {
	hub := sentry.GetHubFromContext(ctx)
	logger := logging.FromContext(ctx)
	if hub == nil {
		logger.DebugContext(ctx, "No Sentry hub in context, not reporting error", "error", err, "extras", extras)
		return
	}

	logger.ErrorContext(
		ctx,
		"Reporting error to Sentry",
		slog.String("error", err.Error()),
		slog.Any("extras", extras),
	)

	hub.WithScope(func(scope *sentry.Scope) {
		meta := metaFromContext(ctx)
		scope.SetTags(meta.tags)
		for key, value := range meta.extras {
			scope.SetExtra(key, value)
		}
		if meta.player != "" {
			scope.SetUser(sentry.User{
				ID: meta.player,
			})
		}
		if !meta.startedAt.IsZero() {
			scope.SetExtra("secondsSinceStart", time.Since(meta.startedAt).Seconds())
		}

		for _, extra := range extras {
			if extra == nil {
				continue
			}
			for key, value := range extra {
				scope.SetExtra(key, value)
			}
		}

		if err == nil {
			err = errors.New("No error provided")
		}

		scope.SetFingerprint([]string{"{{ default }}", sanitizeError(err.Error())})
		hub.CaptureException(err)
	})
}

// NewHubContext attaches a fresh Sentry hub to the context so that errors
// reported through it are sent.
func NewHubContext(ctx context.Context, tags map[string]string) context.Context {
	ctx = sentry.SetHubOnContext(ctx, sentry.CurrentHub().Clone())
	ctx = AddTagsToContext(ctx, tags)
	return setStartedAtInContext(ctx, time.Now())
}

func InitSentry(sentryDSN string, environment string) (func(), error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         sentryDSN,
		Environment: environment,
	})
	if err != nil {
		return nil, err
	}

	flush := func() {
		sentry.Flush(5 * time.Second)
	}

	return flush, nil
}

func InitSentryOrMock(conf config.Config) (func(), error) {
	if conf.SentryDSN() != "" {
		return InitSentry(conf.SentryDSN(), conf.Environment())
	}

	if conf.IsDevelopment() {
		return func() {}, nil
	}

	return nil, fmt.Errorf("Missing Sentry DSN in non-development environment")
}
