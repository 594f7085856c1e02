package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradelog/importer"
)

// Config represents the complete tradelog configuration.
type Config struct {
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Import  ImportConfig  `json:"import" yaml:"import"`
	Backup  BackupConfig  `json:"backup" yaml:"backup"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// StorageConfig selects and locates the trade store backend.
type StorageConfig struct {
	Type string `json:"type" yaml:"type"` // "snapshot" or "sqlite"
	Path string `json:"path" yaml:"path"`
}

// ServerConfig contains HTTP API parameters.
type ServerConfig struct {
	Port           int      `json:"port" yaml:"port"`
	JWTSecret      string   `json:"jwt_secret" yaml:"jwt_secret"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// ImportConfig contains broker-import defaults.
type ImportConfig struct {
	DefaultPlatform string `json:"default_platform,omitempty" yaml:"default_platform,omitempty"`
}

// BackupConfig controls scheduled snapshot backups while serving.
type BackupConfig struct {
	Dir      string `json:"dir,omitempty" yaml:"dir,omitempty"`
	CronSpec string `json:"cron_spec,omitempty" yaml:"cron_spec,omitempty"` // empty disables
}

// LogConfig contains logging parameters.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON based on content).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Storage.Type != "snapshot" && c.Storage.Type != "sqlite" {
		return fmt.Errorf("storage.type must be 'snapshot' or 'sqlite'")
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Import.DefaultPlatform != "" {
		if !importer.Platform(c.Import.DefaultPlatform).Valid() {
			return fmt.Errorf("unknown import.default_platform: %s", c.Import.DefaultPlatform)
		}
	}
	if c.Backup.CronSpec != "" && c.Backup.Dir == "" {
		return fmt.Errorf("backup.dir required when backup.cron_spec is set")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Type: "snapshot",
			Path: "./tradelog.db",
		},
		Server: ServerConfig{
			Port:           8084,
			JWTSecret:      "",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Import: ImportConfig{
			DefaultPlatform: "tradovate",
		},
		Backup: BackupConfig{
			Dir: "./backups",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}
