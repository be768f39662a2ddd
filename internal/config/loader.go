package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	appDir            = "mailtriage"
	maxConfigFileSize = 1024 * 1024
)

// sections are the top-level keys environment variables may target.
var sections = map[string]bool{
	"server":       true,
	"oracle":       true,
	"alert":        true,
	"testimonials": true,
	"triage":       true,
	"logging":      true,
	"telemetry":    true,
}

// legacyEnv maps the variable names the first deployment used.
var legacyEnv = map[string]string{
	"GOOGLE_API_KEY": "oracle.api_key",
	"GMAIL_USER":     "alert.username",
	"GMAIL_PASS":     "alert.password",
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// DefaultPath returns ~/.config/mailtriage/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDir, "config.yaml"), nil
}

// LoadWithFile loads configuration with this precedence, highest first:
//
//  1. Environment variables (SERVER_HTTP_PORT -> server.http_port)
//  2. Legacy variables (GOOGLE_API_KEY, GMAIL_USER, GMAIL_PASS)
//  3. The YAML file at configPath (default ~/.config/mailtriage/config.yaml)
//  4. Defaults
//
// The file must live under ~/.config/mailtriage/ or /etc/mailtriage/, be
// 0600 or 0400, and be at most 1MB. A missing file is not an error.
func LoadWithFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	if err := validateConfigPath(configPath); err != nil {
		return nil, fmt.Errorf("config path validation failed: %w", err)
	}

	content, err := readConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	if content != nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", legacyKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load legacy environment variables: %w", err)
	}
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// GMAIL_USER doubled as the sender address.
	if cfg.Alert.From == "" {
		cfg.Alert.From = cfg.Alert.Username
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// envKey maps SECTION_FIELD_NAME to section.field_name, splitting on the
// first underscore. Variables outside the known sections are skipped.
func envKey(s string) string {
	lower := strings.ToLower(s)
	section, field, ok := strings.Cut(lower, "_")
	if !ok || !sections[section] || field == "" {
		return ""
	}
	return section + "." + field
}

func legacyKey(s string) string {
	return legacyEnv[s]
}

// readConfigFile returns nil content when the file does not exist.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	// Stat the open descriptor so the checked file is the one we read.
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if err := validateConfigFileProperties(info); err != nil {
		return nil, fmt.Errorf("config file validation failed: %w", err)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func validateConfigPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		resolved = absPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	for _, dir := range []string{
		filepath.Join(home, ".config", appDir),
		filepath.Join("/etc", appDir),
	} {
		if strings.HasPrefix(resolved, dir+string(filepath.Separator)) {
			return nil
		}
	}
	return fmt.Errorf("config file must be in ~/.config/%s/ or /etc/%s/", appDir, appDir)
}

func validateConfigFileProperties(info os.FileInfo) error {
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm != 0600 && perm != 0400 {
			return fmt.Errorf("insecure config file permissions: %v (expected 0600 or 0400)", perm)
		}
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if cfg.Server.ServiceName == "" {
		cfg.Server.ServiceName = "mailtriage"
	}

	if cfg.Oracle.Provider == "" {
		cfg.Oracle.Provider = "gemini"
	}
	if cfg.Oracle.Model == "" {
		switch cfg.Oracle.Provider {
		case "openai":
			cfg.Oracle.Model = "gpt-4o-mini"
		default:
			cfg.Oracle.Model = "gemini-2.0-flash"
		}
	}
	if cfg.Oracle.Timeout == 0 {
		cfg.Oracle.Timeout = Duration(30 * time.Second)
	}
	if cfg.Oracle.RateLimit == 0 {
		cfg.Oracle.RateLimit = 2
	}
	if cfg.Oracle.Burst == 0 {
		cfg.Oracle.Burst = 4
	}

	if cfg.Alert.Transport == "" {
		cfg.Alert.Transport = "smtp"
	}
	if cfg.Alert.SMTPHost == "" {
		cfg.Alert.SMTPHost = "smtp.gmail.com"
	}
	if cfg.Alert.SMTPPort == 0 {
		cfg.Alert.SMTPPort = 587
	}
	if cfg.Alert.Timeout == 0 {
		cfg.Alert.Timeout = Duration(15 * time.Second)
	}

	if cfg.Testimonials.Path == "" {
		cfg.Testimonials.Path = "testimonios.txt"
	}
	if cfg.Triage.Timezone == "" {
		cfg.Triage.Timezone = "UTC"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Telemetry.Endpoint == "" {
		cfg.Telemetry.Endpoint = "localhost:4317"
	}
	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = "grpc"
	}
	if cfg.Telemetry.SampleRate == 0 {
		cfg.Telemetry.SampleRate = 1.0
	}
}
