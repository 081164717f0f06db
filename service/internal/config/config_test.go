package config

import (
	"testing"

	engine "github.com/jason-s-yu/rook/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "JWT_SECRET",
		"TARGET_SCORE", "DECK_MODE", "ROOK_RANK_MODE", "LOG_LEVEL", "LOG_FORMAT", "HISTORIAN_STREAM",
	} {
		t.Setenv(k, kv[k])
	}
}

func TestFromEnvDefaults(t *testing.T) {
	setEnv(t, map[string]string{"JWT_SECRET": "s3cret"})

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultRedisAddr, cfg.RedisAddr)
	assert.Equal(t, DefaultHistorianStream, cfg.HistorianStream)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, engine.DefaultSettings(), cfg.Settings())
}

func TestFromEnvOverrides(t *testing.T) {
	setEnv(t, map[string]string{
		"JWT_SECRET":     "s3cret",
		"PORT":           "9000",
		"REDIS_DB":       "3",
		"TARGET_SCORE":   "300",
		"DECK_MODE":      "fast",
		"ROOK_RANK_MODE": "low",
		"LOG_LEVEL":      "DEBUG",
		"LOG_FORMAT":     "json",
	})

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)

	s := cfg.Settings()
	assert.Equal(t, 300, s.TargetScore)
	assert.Equal(t, engine.DeckFast, s.DeckMode)
	assert.Equal(t, engine.RookLow, s.RookRankMode)
	assert.True(t, s.AutoPickupKitty)
}

func TestFromEnvErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"bad redis db":   {"JWT_SECRET": "x", "REDIS_DB": "zero"},
		"bad target":     {"JWT_SECRET": "x", "TARGET_SCORE": "-5"},
		"bad deck mode":  {"JWT_SECRET": "x", "DECK_MODE": "tiny"},
		"bad log format": {"JWT_SECRET": "x", "LOG_FORMAT": "xml"},
		"bad rook mode":  {"JWT_SECRET": "x", "ROOK_RANK_MODE": "middle"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setEnv(t, env)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
