package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CAREERAI_AUTH_JWTSECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "data/careerai.db", cfg.Database.Path)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 720, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, "none", cfg.Voice.Provider)
	assert.Equal(t, 60, cfg.Voice.RetentionMinutes)
	assert.Equal(t, 100, cfg.Classifier.Trees)
	assert.Equal(t, "career-reports", cfg.Storage.KeyPrefix)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CAREERAI_AUTH_JWTSECRET", "s3cret")
	t.Setenv("CAREERAI_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("CAREERAI_SESSION_BACKEND", "redis")
	t.Setenv("CAREERAI_CLASSIFIER_SEED", "42")
	t.Setenv("CAREERAI_VOICE_PROVIDER", "google")
	t.Setenv("CAREERAI_TRACING_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, uint64(42), cfg.Classifier.Seed)
	assert.Equal(t, "google", cfg.Voice.Provider)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("CAREERAI_AUTH_JWTSECRET", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("CAREERAI_AUTH_JWTSECRET", "s3cret")
	t.Setenv("CAREERAI_SESSION_BACKEND", "memcached")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("CAREERAI_SESSION_BACKEND", "memory")
	t.Setenv("CAREERAI_VOICE_PROVIDER", "espeak")
	_, err = Load()
	assert.Error(t, err)
}
