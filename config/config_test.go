package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_S3_BUCKET", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "test", cfg.GoEnv)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.True(t, cfg.IsTest())
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "explicit-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/ctrlmarket_test")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "explicit-secret", cfg.JWTSecret)
	assert.Equal(t, "postgres://localhost/ctrlmarket_test", cfg.DatabaseURL)
}

func TestValidateRejectsDefaultSecretInProduction(t *testing.T) {
	cfg := &Config{GoEnv: "production", JWTSecret: "ctrlmarket-dev-secret"}
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "a-real-secret"
	assert.NoError(t, cfg.Validate())
}

func TestConfigAccessors(t *testing.T) {
	original := GetConfig()
	defer SetConfig(original)

	cfg := &Config{Port: "1234"}
	SetConfig(cfg)

	assert.Equal(t, cfg, GetConfig())
}
