package internal

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// Server holds server-specific configuration.
	Server struct {
		Port           int    `yaml:"port"`
		ReadTimeoutMS  int64  `yaml:"read_timeout_ms"`
		WriteTimeoutMS int64  `yaml:"write_timeout_ms"`
		IdleTimeoutMS  int64  `yaml:"idle_timeout_ms"`
		ReadHeaderMS   int64  `yaml:"read_header_timeout_ms"`
		MaxBodyBytes   int64  `yaml:"max_body_bytes"`
		RateLimitRPS   int64  `yaml:"rate_limit_rps"`
		RateLimitBurst int64  `yaml:"rate_limit_burst"`
		MetricsEnabled bool   `yaml:"metrics_enabled"`
		MetricsPath    string `yaml:"metrics_path"`
	} `yaml:"server"`
	// Storage selects the backing database for recorded events.
	Storage StorageConfig `yaml:"storage"`
	// Display controls how stored events are rendered on the read path.
	Display DisplayConfig `yaml:"display"`
}

// StorageConfig selects and tunes the event store backend.
type StorageConfig struct {
	Driver    string `yaml:"driver"`
	DSN       string `yaml:"dsn"`
	Table     string `yaml:"table"`
	TimeoutMS int64  `yaml:"timeout_ms"`
}

// DisplayConfig controls read-side rendering of stored events.
type DisplayConfig struct {
	Timezone    string `yaml:"timezone"`
	RecentLimit int    `yaml:"recent_limit"`
}

// LoadConfig loads the application configuration from a YAML file.
// It expands environment variables and applies default values.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return cfg, err
	}

	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeoutMS == 0 {
		cfg.Server.ReadTimeoutMS = 5000
	}
	if cfg.Server.WriteTimeoutMS == 0 {
		cfg.Server.WriteTimeoutMS = 10000
	}
	if cfg.Server.IdleTimeoutMS == 0 {
		cfg.Server.IdleTimeoutMS = 60000
	}
	if cfg.Server.ReadHeaderMS == 0 {
		cfg.Server.ReadHeaderMS = 5000
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = 1 << 20
	}
	if cfg.Server.MetricsPath == "" {
		cfg.Server.MetricsPath = "/metrics"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "file:webhook_events.db"
	}
	if cfg.Storage.Table == "" {
		cfg.Storage.Table = "events"
	}
	if cfg.Storage.TimeoutMS == 0 {
		cfg.Storage.TimeoutMS = 5000
	}
	if cfg.Display.Timezone == "" {
		cfg.Display.Timezone = "Asia/Kolkata"
	}
	if cfg.Display.RecentLimit == 0 {
		cfg.Display.RecentLimit = 10
	}
}
