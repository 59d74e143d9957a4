package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Data.Backend != BackendLocal {
		t.Errorf("Backend: got %q, want %q", cfg.Data.Backend, BackendLocal)
	}
	if cfg.Data.BoltPath != "~/.spacegame/spacegame.db" {
		t.Errorf("BoltPath: got %q", cfg.Data.BoltPath)
	}
	if cfg.Leaderboard.PageSize != 10 {
		t.Errorf("PageSize: got %d, want 10", cfg.Leaderboard.PageSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadNoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.Scores != "data/scores.json" {
		t.Errorf("Scores: got %q", cfg.Data.Scores)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	doc := `
[data]
backend = "bolt"
scores = "s3://game-data/scores.json.gz"
profiles = "minio://game-data/profiles.json"
bolt_path = "/tmp/spacegame-test.db"

[leaderboard]
page_size = 25

[s3]
region = "eu-west-1"

[minio]
endpoint = "localhost:9000"
access_key = "minioadmin"
secret_key = "minioadmin"
secure = false

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Data.Backend != BackendBolt {
		t.Errorf("Backend: got %q", cfg.Data.Backend)
	}
	if cfg.Data.Scores != "s3://game-data/scores.json.gz" {
		t.Errorf("Scores: got %q", cfg.Data.Scores)
	}
	if cfg.Leaderboard.PageSize != 25 {
		t.Errorf("PageSize: got %d", cfg.Leaderboard.PageSize)
	}
	if cfg.S3.Region != "eu-west-1" {
		t.Errorf("S3.Region: got %q", cfg.S3.Region)
	}
	if cfg.MinIO.Endpoint != "localhost:9000" || cfg.MinIO.Secure {
		t.Errorf("MinIO: got %+v", cfg.MinIO)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging: got %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"warn\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Level: got %q", cfg.Logging.Level)
	}
	if cfg.Leaderboard.PageSize != 10 {
		t.Errorf("PageSize should keep default, got %d", cfg.Leaderboard.PageSize)
	}
}

func TestLoadBadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("{{invalid"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown backend", func(c *Config) { c.Data.Backend = "cosmos" }, "data.backend"},
		{"local without scores", func(c *Config) { c.Data.Scores = "" }, "data.scores"},
		{"local without profiles", func(c *Config) { c.Data.Profiles = "" }, "data.profiles"},
		{"bolt without path", func(c *Config) {
			c.Data.Backend = BackendBolt
			c.Data.BoltPath = ""
		}, "data.bolt_path"},
		{"zero page size", func(c *Config) { c.Leaderboard.PageSize = 0 }, "leaderboard.page_size"},
		{"half minio creds", func(c *Config) { c.MinIO.AccessKey = "key" }, "minio"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %q: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Leaderboard.PageSize = -1
	cfg.Logging.Format = "yaml"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"leaderboard.page_size", "logging.format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %q: %v", want, err)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}

	got := ExpandHome("~/foo/bar")
	want := filepath.Join(home, "foo/bar")
	if got != want {
		t.Errorf("ExpandHome: got %q, want %q", got, want)
	}

	if got := ExpandHome("/absolute/path"); got != "/absolute/path" {
		t.Errorf("ExpandHome: got %q, want /absolute/path", got)
	}
}
