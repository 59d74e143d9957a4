package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"spacegame/internal/logging"
)

// Backend names accepted in [data].backend.
const (
	BackendLocal = "local"
	BackendBolt  = "bolt"
)

type Config struct {
	Data        DataConfig        `toml:"data"`
	Leaderboard LeaderboardConfig `toml:"leaderboard"`
	S3          S3Config          `toml:"s3"`
	MinIO       MinIOConfig       `toml:"minio"`
	Logging     LoggingConfig     `toml:"logging"`
}

// DataConfig selects where records come from. Scores and Profiles are
// document URIs understood by the source package.
type DataConfig struct {
	Backend  string `toml:"backend"`
	Scores   string `toml:"scores"`
	Profiles string `toml:"profiles"`
	BoltPath string `toml:"bolt_path"`
}

type LeaderboardConfig struct {
	PageSize int `toml:"page_size"`
}

type S3Config struct {
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"`
}

type MinIOConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Secure    bool   `toml:"secure"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Defaults returns a Config that serves the bundled sample documents from
// the working directory.
func Defaults() *Config {
	return &Config{
		Data: DataConfig{
			Backend:  BackendLocal,
			Scores:   "data/scores.json",
			Profiles: "data/profiles.json",
			BoltPath: "~/.spacegame/spacegame.db",
		},
		Leaderboard: LeaderboardConfig{
			PageSize: 10,
		},
		MinIO: MinIOConfig{
			Secure: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a TOML config file on top of Defaults.
// An empty path probes ~/.spacegame/config.toml and falls back to defaults
// when it does not exist.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		path = expandHome("~/.spacegame/config.toml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Data.Backend {
	case BackendLocal:
		if c.Data.Scores == "" {
			errs = append(errs, errors.New("data.scores: required for local backend"))
		}
		if c.Data.Profiles == "" {
			errs = append(errs, errors.New("data.profiles: required for local backend"))
		}
	case BackendBolt:
		if c.Data.BoltPath == "" {
			errs = append(errs, errors.New("data.bolt_path: required for bolt backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("data.backend: unknown backend %q (want %s or %s)",
			c.Data.Backend, BackendLocal, BackendBolt))
	}

	if c.Leaderboard.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("leaderboard.page_size: must be positive, got %d", c.Leaderboard.PageSize))
	}

	if (c.MinIO.AccessKey == "") != (c.MinIO.SecretKey == "") {
		errs = append(errs, errors.New("minio: access_key and secret_key must be set together"))
	}

	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unknown format %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// ExpandHome resolves a leading ~/ to the user's home directory.
func ExpandHome(path string) string {
	return expandHome(path)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
