package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "config-secret")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/meals")
	t.Setenv("APP_CONFIG_FILE", "")
}

func TestLoadConfigRequiresSecretAndDSN(t *testing.T) {
	t.Setenv("APP_CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierr.ErrConfiguration))
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "POSTGRES_DSN")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2880*time.Minute, cfg.TokenRotateWindow)
	assert.Equal(t, time.Hour, cfg.ActivityThrottle)
	assert.Equal(t, 100, cfg.MealHistoryKeep)
	assert.Equal(t, "postgres", cfg.DBDriver)
}

func TestLoadConfigFileOverlayAndEnvPrecedence(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
port: "9090"
tokens:
  rotate_window: 24h
activity:
  throttle: 30m
  workers: 4
openai:
  model: gpt-4.1-mini
  max_retries: 0
cors:
  allowed_origins: ["https://meals.example.com"]
metrics:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("APP_CONFIG_FILE", path)
	t.Setenv("ACTIVITY_WORKERS", "8")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.TokenRotateWindow)
	assert.Equal(t, 30*time.Minute, cfg.ActivityThrottle)
	assert.Equal(t, 8, cfg.ActivityWorkers, "env wins over the file")
	assert.Equal(t, "gpt-4.1-mini", cfg.OpenAIModel)
	assert.Equal(t, 0, cfg.OpenAIMaxRetries)
	assert.Equal(t, []string{"https://meals.example.com"}, cfg.CORSOrigins)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadConfigRejectsBadFile(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tokens:\n  ttl: forever\n"), 0o600))
	t.Setenv("APP_CONFIG_FILE", path)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierr.ErrConfiguration))
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "mysql")
	_, err := LoadConfig()
	assert.True(t, errors.Is(err, apierr.ErrConfiguration))
}

func TestLoadConfigTracing(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "tracing.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tracing:\n  enabled: true\n  sample_ratio: 0.5\n"), 0o600))
	t.Setenv("APP_CONFIG_FILE", path)
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("OTEL_SAMPLER_RATIO", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "authorization=abc")
	t.Setenv("OTEL_SERVICE_NAME", "meals-test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, 0.5, cfg.Tracing.SampleRatio)
	assert.Equal(t, "collector:4318", cfg.Tracing.Endpoint)
	assert.Equal(t, map[string]string{"authorization": "abc"}, cfg.Tracing.Headers)
	assert.Equal(t, "meals-test", cfg.Tracing.ServiceName)
}
