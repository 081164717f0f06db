// Package config loads service settings from the environment. A .env file in
// the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	engine "github.com/jason-s-yu/rook/engine"
	"github.com/joho/godotenv"
)

// Config is the resolved service configuration.
type Config struct {
	Port string

	DatabaseURL string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	HistorianStream string

	JWTSecret string

	TargetScore  int
	DeckMode     engine.DeckMode
	RookRankMode engine.RookRankMode

	LogLevel  string
	LogFormat string
}

// Defaults applied when a variable is unset.
const (
	DefaultPort            = "8080"
	DefaultRedisAddr       = "localhost:6379"
	DefaultHistorianStream = "rook:actions"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// Load reads .env (if any) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: reading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	defaults := engine.DefaultSettings()
	cfg := Config{
		Port:            getenv("PORT", DefaultPort),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisAddr:       getenv("REDIS_ADDR", DefaultRedisAddr),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		HistorianStream: getenv("HISTORIAN_STREAM", DefaultHistorianStream),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		DeckMode:        engine.DeckMode(getenv("DECK_MODE", string(defaults.DeckMode))),
		RookRankMode:    engine.RookRankMode(getenv("ROOK_RANK_MODE", string(defaults.RookRankMode))),
		LogLevel:        strings.ToLower(getenv("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:       strings.ToLower(getenv("LOG_FORMAT", DefaultLogFormat)),
	}

	var err error
	if cfg.RedisDB, err = atoi("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.TargetScore, err = atoi("TARGET_SCORE", defaults.TargetScore); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("config: JWT_SECRET is required")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("config: LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	if err := cfg.Settings().Validate(); err != nil {
		return Config{}, fmt.Errorf("config: table settings: %w", err)
	}
	return cfg, nil
}

// Settings returns the table preset new rooms start with.
func (c Config) Settings() engine.Settings {
	s := engine.DefaultSettings()
	s.TargetScore = c.TargetScore
	s.DeckMode = c.DeckMode
	s.RookRankMode = c.RookRankMode
	return s
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
