package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupHome points HOME at a temp dir and returns the config directory inside it.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "mailtriage")
	require.NoError(t, os.MkdirAll(dir, 0700))
	return dir
}

func writeConfig(t *testing.T, dir, content string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
	return path
}

func TestLoadWithFile_Defaults(t *testing.T) {
	setupHome(t)
	t.Setenv("ORACLE_API_KEY", "test-key")

	cfg, err := LoadWithFile("")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, "gemini", cfg.Oracle.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Oracle.Model)
	assert.Equal(t, 30*time.Second, cfg.Oracle.Timeout.Duration())
	assert.Equal(t, "smtp", cfg.Alert.Transport)
	assert.Equal(t, "smtp.gmail.com", cfg.Alert.SMTPHost)
	assert.Equal(t, 587, cfg.Alert.SMTPPort)
	assert.Equal(t, 15*time.Second, cfg.Alert.Timeout.Duration())
	assert.Equal(t, "testimonios.txt", cfg.Testimonials.Path)
	assert.Equal(t, "UTC", cfg.Triage.Timezone)
	assert.False(t, cfg.AlertsConfigured())
}

func TestLoadWithFile_YAMLThenEnv(t *testing.T) {
	dir := setupHome(t)
	path := writeConfig(t, dir, `
server:
  http_port: 9100
  strict_dates: true
oracle:
  provider: openai
  base_url: http://localhost:11434/v1
  timeout: 5s
alert:
  transport: sendgrid
  sendgrid_api_key: from-file
  to: gerencia@example.com
  cc: [recepcion@example.com]
triage:
  timezone: America/Santiago
`, 0600)

	t.Setenv("SERVER_HTTP_PORT", "9200")
	t.Setenv("ALERT_FROM", "spa@example.com")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port, "env overrides file")
	assert.True(t, cfg.Server.StrictDates)
	assert.Equal(t, "openai", cfg.Oracle.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Oracle.Model)
	assert.Equal(t, 5*time.Second, cfg.Oracle.Timeout.Duration())
	assert.Equal(t, "from-file", cfg.Alert.SendGridAPIKey.Value())
	assert.Equal(t, []string{"recepcion@example.com"}, cfg.Alert.CC)
	assert.Equal(t, "spa@example.com", cfg.Alert.From)
	assert.Equal(t, "America/Santiago", cfg.Location().String())
	assert.True(t, cfg.AlertsConfigured())
}

func TestLoadWithFile_LegacyEnv(t *testing.T) {
	setupHome(t)
	t.Setenv("GOOGLE_API_KEY", "legacy-key")
	t.Setenv("GMAIL_USER", "spa@gmail.com")
	t.Setenv("GMAIL_PASS", "app-password")
	t.Setenv("ALERT_TO", "gerencia@example.com")

	cfg, err := LoadWithFile("")
	require.NoError(t, err)

	assert.Equal(t, "legacy-key", cfg.Oracle.APIKey.Value())
	assert.Equal(t, "spa@gmail.com", cfg.Alert.Username)
	assert.Equal(t, "spa@gmail.com", cfg.Alert.From)
	assert.Equal(t, "app-password", cfg.Alert.Password.Value())
	assert.True(t, cfg.AlertsConfigured())

	t.Run("canonical variables win", func(t *testing.T) {
		t.Setenv("ORACLE_API_KEY", "canonical-key")
		cfg, err := LoadWithFile("")
		require.NoError(t, err)
		assert.Equal(t, "canonical-key", cfg.Oracle.APIKey.Value())
	})
}

func TestLoadWithFile_RejectsUnsafeFiles(t *testing.T) {
	t.Run("world readable", func(t *testing.T) {
		dir := setupHome(t)
		path := writeConfig(t, dir, "server:\n  http_port: 9000\n", 0644)
		_, err := LoadWithFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "permissions")
	})

	t.Run("outside allowed directories", func(t *testing.T) {
		setupHome(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		_, err := LoadWithFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be in")
	})
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MAILTRIAGE_DOTENV_PROBE=loaded\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("MAILTRIAGE_DOTENV_PROBE") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("MAILTRIAGE_DOTENV_PROBE"))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"SERVER_HTTP_PORT":       "server.http_port",
		"ALERT_SENDGRID_API_KEY": "alert.sendgrid_api_key",
		"TRIAGE_TIMEZONE":        "triage.timezone",
		"PATH":                   "",
		"HOME_DIR":               "",
		"SERVER_":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}
