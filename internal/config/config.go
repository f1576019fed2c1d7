package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Limits  LimitsConfig  `yaml:"limits" envconfig:"LIMITS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	AllowedOrigins  []string      `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"Bilateral Debt Data"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// LimitsConfig contains request-throttling configuration
type LimitsConfig struct {
	RateLimitEnabled bool    `yaml:"rate_limit_enabled" envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RPS              float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst            int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// Load loads configuration from environment variables and an optional
// config file. Environment variables take precedence over file values.
func Load() (*Config, error) {
	return LoadFromFile(getConfigFilePath())
}

// LoadFromFile loads configuration with an explicit config file path.
func LoadFromFile(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("DEBT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileCfg, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileCfg, cfg)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence,
// envconfig defaults already applied). File values only fill fields the
// environment left at their tag default.
func mergeConfigs(fileCfg, envCfg Config) Config {
	if fileCfg.Server.Port != 0 && os.Getenv("DEBT_SERVER_PORT") == "" {
		envCfg.Server.Port = fileCfg.Server.Port
	}
	if fileCfg.Logging.Level != "" && os.Getenv("DEBT_LOGGING_LEVEL") == "" {
		envCfg.Logging.Level = fileCfg.Logging.Level
	}
	if fileCfg.Logging.Format != "" && os.Getenv("DEBT_LOGGING_FORMAT") == "" {
		envCfg.Logging.Format = fileCfg.Logging.Format
	}
	if fileCfg.Paths.DataDir != "" && os.Getenv("DEBT_PATHS_DATA_DIR") == "" {
		envCfg.Paths.DataDir = fileCfg.Paths.DataDir
	}
	if fileCfg.Paths.ReportsDir != "" && os.Getenv("DEBT_PATHS_REPORTS_DIR") == "" {
		envCfg.Paths.ReportsDir = fileCfg.Paths.ReportsDir
	}
	return envCfg
}

// getConfigFilePath returns the config file location, overridable via env
func getConfigFilePath() string {
	if path := os.Getenv("DEBT_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Paths.DataDir == "" {
		return fmt.Errorf("data directory must be set")
	}

	if c.Limits.RateLimitEnabled && c.Limits.RPS <= 0 {
		return fmt.Errorf("rate limit rps must be positive, got %v", c.Limits.RPS)
	}

	return nil
}
