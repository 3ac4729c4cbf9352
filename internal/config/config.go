// Package config loads fixity configuration from an optional YAML file
// and the environment.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultModelURI is the content model every plain Fedora 3.x object
// carries; discovery targets it unless the operator narrows it down.
const DefaultModelURI = "info:fedora/fedora-system:FedoraObject-3.0"

// Config holds all configuration values. Precedence is defaults, then the
// config file, then environment variables; CLI flags override all three.
type Config struct {
	// Fedora connection
	FedoraRoot     string `yaml:"fedora_root"`
	FedoraUser     string `yaml:"fedora_user"`
	FedoraPassword string `yaml:"fedora_password"`

	// ModelURI selects the content model used to discover objects when
	// no pids are given on the command line.
	ModelURI string `yaml:"model_uri"`

	// HTTPTimeout bounds each repository call. Zero disables it.
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Logging
	LogFile      string     `yaml:"log_file"`
	LogLevelName string     `yaml:"log_level"`
	LogLevel     slog.Level `yaml:"-"`
}

// Load reads the configuration. A missing config file is not an error;
// env vars FEDORA_ROOT, FEDORA_USER, FEDORA_PASSWORD, FIXITY_MODEL_URI,
// FIXITY_HTTP_TIMEOUT, FIXITY_LOG_FILE, and FIXITY_LOG_LEVEL override it.
func Load() Config {
	cfg := Config{
		ModelURI:     DefaultModelURI,
		HTTPTimeout:  5 * time.Minute,
		LogFile:      "/tmp/fixity.log",
		LogLevelName: "WARN",
	}

	if path := configFilePath(); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				slog.Warn("ignoring malformed config file", "path", path, "error", err)
			}
		}
	}

	cfg.FedoraRoot = getEnv("FEDORA_ROOT", cfg.FedoraRoot)
	cfg.FedoraUser = getEnv("FEDORA_USER", cfg.FedoraUser)
	cfg.FedoraPassword = getEnv("FEDORA_PASSWORD", cfg.FedoraPassword)
	cfg.ModelURI = getEnv("FIXITY_MODEL_URI", cfg.ModelURI)
	cfg.LogFile = getEnv("FIXITY_LOG_FILE", cfg.LogFile)
	cfg.LogLevelName = getEnv("FIXITY_LOG_LEVEL", cfg.LogLevelName)
	if v := os.Getenv("FIXITY_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTPTimeout = d
		}
	}

	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	return cfg
}

// configFilePath returns the config file to read: $FIXITY_CONFIG if set,
// otherwise <user config dir>/fixity/config.yaml when it exists.
func configFilePath() string {
	if p := os.Getenv("FIXITY_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, "fixity", "config.yaml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
