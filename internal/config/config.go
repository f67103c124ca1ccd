// Package config loads settings from a TOML file, an optional .env file and
// APP_-prefixed environment variables, in that order of precedence (lowest
// first).
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
	Storage  StorageConfig  `toml:"storage"`
	Remote   RemoteConfig   `toml:"remote"`
	TextGen  TextGenConfig  `toml:"textgen"`
	Analysis AnalysisConfig `toml:"analysis"`
}

type ServerConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Prefix      string `toml:"prefix"`
	BodyLimit   int    `toml:"body_limit"`
	Compress    bool   `toml:"compress"`
	ReadTimeout int    `toml:"read_timeout_sec"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type StorageConfig struct {
	Path string `toml:"path"`
}

type RemoteConfig struct {
	Region           string `toml:"region"`
	ProfileURL       string `toml:"profile_url"`
	GetUUIDURL       string `toml:"get_uuid_url"`
	CreateProfileURL string `toml:"create_profile_url"`
	MatchesURL       string `toml:"matches_url"`
}

type TextGenConfig struct {
	Enabled             bool   `toml:"enabled"`
	LambdaURL           string `toml:"lambda_url"`
	PrimaryModel        string `toml:"primary_model"`
	PrimaryTimeoutSec   int    `toml:"primary_timeout_sec"`
	SecondaryModel      string `toml:"secondary_model"`
	SecondaryTimeoutSec int    `toml:"secondary_timeout_sec"`
	AnthropicAPIKey     string `toml:"anthropic_api_key"`
	AnthropicModel      string `toml:"anthropic_model"`
	AnthropicTimeoutSec int    `toml:"anthropic_timeout_sec"`
	MaxParallel         int    `toml:"max_parallel"`
	CacheSize           int    `toml:"cache_size"`
}

type AnalysisConfig struct {
	// Snapshots persists every READY analysis in the background.
	Snapshots bool `toml:"snapshots"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			Prefix:      "/api",
			BodyLimit:   1 << 20,
			Compress:    true,
			ReadTimeout: 30,
		},
		Log: LogConfig{Level: slog.LevelInfo, Format: "text"},
		Storage: StorageConfig{
			Path: filepath.Join(userHome(), ".legendscope", "legendscope.db"),
		},
		Remote: RemoteConfig{Region: "na1"},
		TextGen: TextGenConfig{
			Enabled:             true,
			PrimaryModel:        "DeepSeek-R1",
			PrimaryTimeoutSec:   30,
			SecondaryModel:      "Amazon Nova Micro",
			SecondaryTimeoutSec: 10,
			AnthropicModel:      "claude-haiku-4-5-20251001",
			AnthropicTimeoutSec: 20,
			MaxParallel:         4,
			CacheSize:           256,
		},
		Analysis: AnalysisConfig{Snapshots: true},
	}
}

// Load builds the configuration. path may be empty; envFile is loaded when
// it exists and silently skipped otherwise.
func Load(path, envFile string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("open config: %w", err)
		}
		err = Decode(f, &cfg)
		f.Close()
		if err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load env file: %w", err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode reads TOML from r over the values already in cfg.
func Decode(r io.Reader, cfg *Config) error {
	return toml.NewDecoder(r).DisallowUnknownFields().Decode(cfg)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("APP_HOST", &c.Server.Host)
	str("APP_DB_PATH", &c.Storage.Path)
	str("APP_LOG_FORMAT", &c.Log.Format)
	str("APP_REGION", &c.Remote.Region)
	str("APP_LAMBDA_PROFILE_URL", &c.Remote.ProfileURL)
	str("APP_LAMBDA_GET_UUID_URL", &c.Remote.GetUUIDURL)
	str("APP_LAMBDA_CREATE_PROFILE_URL", &c.Remote.CreateProfileURL)
	str("APP_LAMBDA_MATCHES_URL", &c.Remote.MatchesURL)
	str("APP_TEXTGEN_LAMBDA_URL", &c.TextGen.LambdaURL)
	str("ANTHROPIC_API_KEY", &c.TextGen.AnthropicAPIKey)
	str("APP_ANTHROPIC_API_KEY", &c.TextGen.AnthropicAPIKey)

	if v, ok := lookup("APP_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("APP_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("APP_LOG_LEVEL"); ok && v != "" {
		if err := c.Log.Level.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("APP_LOG_LEVEL: %w", err)
		}
	}
	if v, ok := lookup("APP_TEXTGEN_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("APP_TEXTGEN_ENABLED: %w", err)
		}
		c.TextGen.Enabled = b
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Configured reports whether every Lambda URL needed for analysis is set.
func (r RemoteConfig) Configured() bool {
	return r.ProfileURL != "" && r.MatchesURL != ""
}

// NewLogger builds a slog logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.Level, AddSource: l.AddSource}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
