package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/Amund211/rlstats/internal/adapters/skillrepository"
	"github.com/Amund211/rlstats/internal/cli"
	"github.com/Amund211/rlstats/internal/config"
	"github.com/Amund211/rlstats/internal/constants"
	"github.com/Amund211/rlstats/internal/fixtures"
	"github.com/Amund211/rlstats/internal/logging"
	"github.com/Amund211/rlstats/internal/ratelimiting"
	"github.com/Amund211/rlstats/internal/reporting"
	"github.com/Amund211/rlstats/internal/telemetry"
	"github.com/Amund211/rlstats/rocketleague"
	"github.com/google/uuid"
	_ "golang.org/x/crypto/x509roots/fallback"
)

func main() {
	os.Exit(run())
}

func run() int {
	instanceID := uuid.New().String()
	logger := logging.NewLogger(os.Stderr, slog.LevelInfo).With("instanceID", instanceID)

	var c cli.CLI
	parser, err := cli.NewParser(&c)
	if err != nil {
		logger.Error("Failed to build command line parser", "error", err.Error())
		return 1
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	conf, err := config.ConfigFromEnv()
	if err != nil {
		logger.Error("Failed to load config", "error", err.Error())
		return 1
	}
	logger.Info("Loaded config", "config", conf.NonSensitiveString())

	platform, err := rocketleague.ParsePlatform(c.Platform)
	if err != nil {
		logger.Error("Invalid platform", "error", err.Error())
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	flush, err := reporting.InitSentryOrMock(conf)
	if err != nil {
		logger.Error("Failed to initialize Sentry", "error", err.Error())
		return 1
	}
	defer flush()

	if conf.TelemetryEnabled() {
		shutdown, err := telemetry.SetupOTelSDK(ctx, telemetry.Settings{
			ServiceName:    "rlstats",
			ServiceVersion: constants.VERSION,
			InstanceID:     instanceID,
		})
		if err != nil {
			logger.Error("Failed to set up telemetry", "error", err.Error())
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Warn("Failed to shut down telemetry", "error", err.Error())
			}
		}()
		logger.Info("Initialized telemetry")
	}

	ctx = logging.AddToContext(ctx, logger.With("command", kctx.Command()))
	ctx = reporting.NewHubContext(ctx, map[string]string{
		"command":  kctx.Command(),
		"platform": platform.Code(),
	})

	client, stop, err := newClient(conf, logger, c.RPS)
	if err != nil {
		logger.Error("Failed to initialize client", "error", err.Error())
		return 1
	}
	defer stop()

	runtime := &cli.Runtime{
		Ctx:      ctx,
		Client:   client,
		Platform: platform,
		Out:      os.Stdout,
		Indent:   c.Indent,
		Now:      time.Now,
		SkillRepository: func(ctx context.Context) (skillrepository.SkillRepository, error) {
			return skillrepository.NewPostgresOrStub(ctx, conf, logger.With("component", "skillrepository"))
		},
	}

	if err := kctx.Run(runtime); err != nil {
		logging.FromContext(ctx).Error("Command failed", "error", err.Error(), "kind", rocketleague.KindOf(err).String())
		return 1
	}

	return 0
}

// newClient creates a throttled client for the configured API. In development
// without a token, requests are answered by canned fixtures.
func newClient(conf config.Config, logger *slog.Logger, requestsPerSecond float64) (*rocketleague.Client, func(), error) {
	options := []rocketleague.Option{
		rocketleague.WithLogger(logger),
	}
	if conf.APIBaseURL() != "" {
		options = append(options, rocketleague.WithBaseURL(conf.APIBaseURL()))
	}

	if conf.IsDevelopment() && conf.APIToken() == "" {
		logger.Warn("No API token provided. Serving fixtures.")
		options = append(options, rocketleague.WithHTTPClient(fixtures.NewHTTPClient()))
		client, err := rocketleague.New("fixtures", options...)
		return client, func() {}, err
	}

	limiter, stop := ratelimiting.NewPerHostLimiter(ratelimiting.RequestsPerSecond(requestsPerSecond), 1)
	httpClient := ratelimiting.NewLimitedHTTPClient(rocketleague.NewDefaultHTTPClient(), limiter)
	options = append(options, rocketleague.WithHTTPClient(httpClient))

	client, err := rocketleague.New(conf.APIToken(), options...)
	if err != nil {
		stop()
		return nil, nil, err
	}
	return client, stop, nil
}
