package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/mailtriage/internal/config"
	"github.com/fyrsmithlabs/mailtriage/internal/logging"
	"github.com/fyrsmithlabs/mailtriage/internal/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ShutdownTimeout: config.Duration(time.Second),
			ServiceName:     "mailtriage",
		},
		Oracle: config.OracleConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			APIKey:    config.Secret("sk-test"),
			BaseURL:   "http://127.0.0.1:1/v1",
			Timeout:   config.Duration(time.Second),
			RateLimit: 2,
			Burst:     4,
		},
		Alert:        config.AlertConfig{Transport: "none"},
		Testimonials: config.TestimonialsConfig{Path: filepath.Join(t.TempDir(), "testimonios.txt")},
		Triage:       config.TriageConfig{Timezone: "UTC"},
		Logging:      config.LoggingConfig{Level: "info", Format: "json"},
	}
}

func TestNewServer_Wiring(t *testing.T) {
	cfg := testConfig(t)
	tel, err := telemetry.New(context.Background(), telemetry.FromAppConfig(cfg.Telemetry, "mailtriage", "test"))
	require.NoError(t, err)

	srv, err := newServer(context.Background(), cfg, tel, logging.NewNop())
	require.NoError(t, err)

	tests := []struct {
		path string
		want int
	}{
		{path: "/health", want: http.StatusOK},
		{path: "/download-testimonios", want: http.StatusNotFound},
		{path: "/metrics", want: http.StatusOK},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.want, rec.Code, tt.path)
	}
}

func TestNewServer_UnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Oracle.Provider = "claude"

	_, err := newServer(context.Background(), cfg, nil, logging.NewNop())

	assert.ErrorContains(t, err, "oracle")
}

func TestInitLogger(t *testing.T) {
	cfg := testConfig(t)
	logger, err := initLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	cfg.Logging.Format = "xml"
	_, err = initLogger(cfg)
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Version:    dev")
}
