// Package config loads mailtriage configuration from YAML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete mailtriage configuration.
type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Oracle       OracleConfig       `koanf:"oracle"`
	Alert        AlertConfig        `koanf:"alert"`
	Testimonials TestimonialsConfig `koanf:"testimonials"`
	Triage       TriageConfig       `koanf:"triage"`
	Logging      LoggingConfig      `koanf:"logging"`
	Telemetry    TelemetryConfig    `koanf:"telemetry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"http_host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	// StrictDates rejects requests whose date is not YYYY-MM-DD with a 422.
	StrictDates bool   `koanf:"strict_dates"`
	ServiceName string `koanf:"service_name"`
}

// OracleConfig selects and tunes the classification model.
type OracleConfig struct {
	Provider     string   `koanf:"provider"` // gemini | openai
	Model        string   `koanf:"model"`
	APIKey       Secret   `koanf:"api_key"`
	BaseURL      string   `koanf:"base_url"`
	Timeout      Duration `koanf:"timeout"`
	RateLimit    float64  `koanf:"rate_limit"` // oracle calls per second
	Burst        int      `koanf:"burst"`
	ScrubSecrets bool     `koanf:"scrub_secrets"`
}

// AlertConfig configures the complaint alert transport.
type AlertConfig struct {
	Transport      string   `koanf:"transport"` // smtp | sendgrid | none
	SMTPHost       string   `koanf:"smtp_host"`
	SMTPPort       int      `koanf:"smtp_port"`
	Username       string   `koanf:"username"`
	Password       Secret   `koanf:"password"`
	From           string   `koanf:"from"`
	To             string   `koanf:"to"`
	CC             []string `koanf:"cc"`
	SendGridAPIKey Secret   `koanf:"sendgrid_api_key"`
	// Timeout bounds one alert delivery when the request has no earlier deadline.
	Timeout Duration `koanf:"timeout"`
}

// TestimonialsConfig locates the testimonial log.
type TestimonialsConfig struct {
	Path string `koanf:"path"`
}

// TriageConfig tunes the classification pipeline.
type TriageConfig struct {
	// Timezone is the IANA zone whose calendar decides "today" for age
	// escalation and testimonial headers.
	Timezone string `koanf:"timezone"`
}

// LoggingConfig is the subset of logging settings exposed to operators.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TelemetryConfig is the subset of OpenTelemetry settings exposed to operators.
type TelemetryConfig struct {
	Enabled    bool    `koanf:"enabled"`
	Endpoint   string  `koanf:"endpoint"`
	Protocol   string  `koanf:"protocol"` // grpc | http/protobuf
	Insecure   bool    `koanf:"insecure"`
	SampleRate float64 `koanf:"sample_rate"`
}

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port))
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}

	switch c.Oracle.Provider {
	case "gemini":
		if !c.Oracle.APIKey.IsSet() {
			errs = append(errs, errors.New("oracle.api_key is required for the gemini provider"))
		}
	case "openai":
	default:
		errs = append(errs, fmt.Errorf("oracle.provider must be 'gemini' or 'openai', got %q", c.Oracle.Provider))
	}
	if c.Oracle.Timeout.Duration() <= 0 {
		errs = append(errs, errors.New("oracle.timeout must be positive"))
	}
	if c.Oracle.RateLimit < 0 {
		errs = append(errs, errors.New("oracle.rate_limit cannot be negative"))
	}

	switch c.Alert.Transport {
	case "smtp":
		if c.Alert.SMTPHost == "" || c.Alert.SMTPPort <= 0 {
			errs = append(errs, errors.New("alert.smtp_host and alert.smtp_port are required for smtp transport"))
		}
	case "sendgrid":
		if !c.Alert.SendGridAPIKey.IsSet() {
			errs = append(errs, errors.New("alert.sendgrid_api_key is required for sendgrid transport"))
		}
	case "none":
	default:
		errs = append(errs, fmt.Errorf("alert.transport must be 'smtp', 'sendgrid' or 'none', got %q", c.Alert.Transport))
	}

	if c.Alert.Timeout.Duration() <= 0 {
		errs = append(errs, errors.New("alert.timeout must be positive"))
	}

	if c.Testimonials.Path == "" {
		errs = append(errs, errors.New("testimonials.path is required"))
	}
	if _, err := time.LoadLocation(c.Triage.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("triage.timezone: %w", err))
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("telemetry.sample_rate must be between 0 and 1, got %f", c.Telemetry.SampleRate))
	}

	return errors.Join(errs...)
}

// Location returns the configured triage time zone, UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Triage.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AlertsConfigured reports whether the alert transport has credentials to send with.
func (c *Config) AlertsConfigured() bool {
	switch c.Alert.Transport {
	case "smtp":
		return c.Alert.Username != "" && c.Alert.Password.IsSet() && c.Alert.To != ""
	case "sendgrid":
		return c.Alert.SendGridAPIKey.IsSet() && c.Alert.To != ""
	default:
		return false
	}
}
