package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ServerConfig controls the HTTP API started by the serve command
type ServerConfig struct {
	Port            int           `yaml:"port" env:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"readTimeout" env:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" env:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idleTimeout" env:"IDLE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
}

// Config represents the application configuration.
// Every field is optional; commands check for the fields they need.
type Config struct {
	// DatabaseURL is a Postgres connection string. Runs are not stored when empty.
	DatabaseURL string `yaml:"databaseURL,omitempty" env:"DATABASE_URL"`

	// RosterSheetID is the Google Sheet rosters are published to
	RosterSheetID string `yaml:"rosterSheetID,omitempty" env:"SHEET_ID"`

	GmailUserID string `yaml:"gmailUserID,omitempty" env:"GMAIL_USER_ID"`
	GmailSender string `yaml:"gmailSender,omitempty" env:"GMAIL_SENDER" validate:"omitempty,email"`

	// EmailDelay is the pause between notification emails
	EmailDelay time.Duration `yaml:"emailDelay,omitempty" env:"EMAIL_DELAY" validate:"gte=0"`

	Server ServerConfig `yaml:"server" envPrefix:"SERVER_"`
}

// EnvPrefix is prepended to every environment override
const EnvPrefix = "ROSTER_"

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		GmailUserID: "me",
		EmailDelay:  time.Second,
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// LoadWithEnv loads roster_config.<env>.yaml (or roster_config.yaml when env
// is empty), applies ROSTER_* environment overrides, and validates the result.
// A missing file is not an error: defaults plus environment are used instead.
func LoadWithEnv(appEnv string) (*Config, error) {
	cfg := Default()

	configPath, err := findConfigFile(appEnv)
	if err == nil {
		if err := loadFile(configPath, cfg); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, errConfigNotFound) {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return finish(cfg)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}
	return finish(cfg)
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func finish(cfg *Config) (*Config, error) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

var errConfigNotFound = errors.New("not found in current directory or home directory")

// envFileName inserts the environment name before the extension, e.g. roster_config.test.yaml
func envFileName(base, ext, appEnv string) string {
	if appEnv == "" {
		return base + ext
	}
	return base + "." + appEnv + ext
}

// findConfigFile searches for roster_config[.<env>].yaml
func findConfigFile(appEnv string) (string, error) {
	return locate(envFileName("roster_config", ".yaml", appEnv))
}

// locate looks for fileName in the current directory and then the home directory
func locate(fileName string) (string, error) {
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s: %w", fileName, errConfigNotFound)
}
