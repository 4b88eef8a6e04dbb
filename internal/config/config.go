package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

type Config struct {
	apiToken             string
	apiBaseURL           string
	sentryDSN            string
	dbConnectionString   string
	otlpExporterEndpoint string
	env                  environment
}

func (c *Config) APIToken() string {
	return c.apiToken
}

// Empty if the default origin should be used
func (c *Config) APIBaseURL() string {
	return c.apiBaseURL
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

func (c *Config) DBConnectionString() string {
	return c.dbConnectionString
}

func (c *Config) TelemetryEnabled() bool {
	return c.otlpExporterEndpoint != ""
}

func (c *Config) Environment() string {
	return string(c.env)
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf(
		"Config{env: %s, apiBaseURL: %q, hasAPIToken: %t, hasDB: %t, telemetry: %t, ...}",
		string(c.env),
		c.apiBaseURL,
		c.apiToken != "",
		c.dbConnectionString != "",
		c.TelemetryEnabled(),
	)
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}

	var env environment
	rawEnv, ok := os.LookupEnv("RLSTATS_ENVIRONMENT")
	if !ok {
		return missingKey("RLSTATS_ENVIRONMENT")
	}
	switch rawEnv {
	case "production":
		env = production
	case "staging":
		env = staging
	case "development":
		env = development
	default:
		return Config{}, fmt.Errorf("%w: RLSTATS_ENVIRONMENT (%s)", ErrInvalidValue, rawEnv)
	}
	if string(env) == "" {
		panic("logic error: env is empty")
	}

	apiToken := os.Getenv("RL_API_TOKEN")
	apiBaseURL := os.Getenv("RL_API_BASE_URL")
	sentryDSN := os.Getenv("SENTRY_DSN")
	dbConnectionString := os.Getenv("DB_CONNECTION_STRING")
	otlpExporterEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	if apiBaseURL != "" {
		parsed, err := url.Parse(apiBaseURL)
		if err != nil || parsed.Host == "" {
			return Config{}, fmt.Errorf("%w: RL_API_BASE_URL (%s)", ErrInvalidValue, apiBaseURL)
		}
	}

	if env == production || env == staging {
		if apiToken == "" {
			return missingKey("RL_API_TOKEN")
		}
		if sentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
	}

	return Config{
		apiToken:             apiToken,
		apiBaseURL:           apiBaseURL,
		sentryDSN:            sentryDSN,
		dbConnectionString:   dbConnectionString,
		otlpExporterEndpoint: otlpExporterEndpoint,
		env:                  env,
	}, nil
}
