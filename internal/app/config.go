package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/mealplanner-backend/internal/data/db"
	domainmeal "github.com/yungbote/mealplanner-backend/internal/domain/meal"
	"github.com/yungbote/mealplanner-backend/internal/observability"
	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
	"github.com/yungbote/mealplanner-backend/internal/platform/authtoken"
	"github.com/yungbote/mealplanner-backend/internal/platform/envutil"
	"github.com/yungbote/mealplanner-backend/internal/platform/openai"
	"github.com/yungbote/mealplanner-backend/internal/services"
)

type Config struct {
	Port        string
	LogMode     string
	LogLevel    string
	LogRedact   bool
	LogHashSalt string
	ServiceName string

	DBDriver string
	DBDSN    string

	JWTSecret         string
	TokenTTL          time.Duration
	TokenExtendedTTL  time.Duration
	TokenRotateWindow time.Duration

	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	OpenAITimeout    time.Duration
	OpenAIMaxRetries int

	RedisAddr   string
	RedisPrefix string

	ActivityThrottle  time.Duration
	ActivityWorkers   int
	ActivityQueueSize int

	MealHistoryKeep int
	CORSOrigins     []string
	MetricsEnabled  bool
	Tracing         observability.TracingConfig
	ShutdownTimeout time.Duration
}

// fileConfig is the YAML overlay read from APP_CONFIG_FILE. Secrets are not
// accepted here.
type fileConfig struct {
	Port     string `yaml:"port"`
	LogMode  string `yaml:"log_mode"`
	LogLevel string `yaml:"log_level"`
	DB       struct {
		Driver string `yaml:"driver"`
	} `yaml:"db"`
	Tokens struct {
		TTL          string `yaml:"ttl"`
		ExtendedTTL  string `yaml:"extended_ttl"`
		RotateWindow string `yaml:"rotate_window"`
	} `yaml:"tokens"`
	OpenAI struct {
		BaseURL        string `yaml:"base_url"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		MaxRetries     *int   `yaml:"max_retries"`
	} `yaml:"openai"`
	Redis struct {
		Addr   string `yaml:"addr"`
		Prefix string `yaml:"prefix"`
	} `yaml:"redis"`
	Activity struct {
		Throttle  string `yaml:"throttle"`
		Workers   int    `yaml:"workers"`
		QueueSize int    `yaml:"queue_size"`
	} `yaml:"activity"`
	Meals struct {
		HistoryKeep int `yaml:"history_keep"`
	} `yaml:"meals"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	Metrics struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"metrics"`
	Tracing struct {
		Enabled     *bool    `yaml:"enabled"`
		Endpoint    string   `yaml:"endpoint"`
		Insecure    *bool    `yaml:"insecure"`
		SampleRatio *float64 `yaml:"sample_ratio"`
	} `yaml:"tracing"`
}

func defaultConfig() Config {
	return Config{
		Port:              "8080",
		LogMode:           "development",
		LogRedact:         true,
		ServiceName:       observability.DefaultServiceName,
		DBDriver:          db.DriverPostgres,
		TokenTTL:          authtoken.DefaultTTL,
		TokenExtendedTTL:  authtoken.DefaultExtendedTTL,
		TokenRotateWindow: authtoken.DefaultRotateWindow,
		OpenAIBaseURL:     openai.DefaultBaseURL,
		OpenAIModel:       openai.DefaultModel,
		OpenAITimeout:     60 * time.Second,
		OpenAIMaxRetries:  2,
		ActivityThrottle:  services.DefaultActivityThrottle,
		ActivityWorkers:   services.DefaultActivityWorkers,
		ActivityQueueSize: services.DefaultActivityQueueSize,
		MealHistoryKeep:   domainmeal.DefaultHistoryKeep,
		ShutdownTimeout:   10 * time.Second,
		Tracing:           observability.TracingConfig{SampleRatio: observability.DefaultSampleRatio},
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// named by APP_CONFIG_FILE, then the environment. JWT_SECRET and a database
// DSN are required.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String("APP_CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: read %s: %v", apierr.ErrConfiguration, path, err)
		}
		if err := applyFile(&cfg, raw); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %v", apierr.ErrConfiguration, path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, raw []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return err
	}
	setString(&cfg.Port, fc.Port)
	setString(&cfg.LogMode, fc.LogMode)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.DBDriver, fc.DB.Driver)
	for _, d := range []struct {
		dst *time.Duration
		raw string
	}{
		{&cfg.TokenTTL, fc.Tokens.TTL},
		{&cfg.TokenExtendedTTL, fc.Tokens.ExtendedTTL},
		{&cfg.TokenRotateWindow, fc.Tokens.RotateWindow},
		{&cfg.ActivityThrottle, fc.Activity.Throttle},
	} {
		if err := setDuration(d.dst, d.raw); err != nil {
			return err
		}
	}
	setString(&cfg.OpenAIBaseURL, fc.OpenAI.BaseURL)
	setString(&cfg.OpenAIModel, fc.OpenAI.Model)
	if fc.OpenAI.TimeoutSeconds > 0 {
		cfg.OpenAITimeout = time.Duration(fc.OpenAI.TimeoutSeconds) * time.Second
	}
	if fc.OpenAI.MaxRetries != nil {
		cfg.OpenAIMaxRetries = *fc.OpenAI.MaxRetries
	}
	setString(&cfg.RedisAddr, fc.Redis.Addr)
	setString(&cfg.RedisPrefix, fc.Redis.Prefix)
	setInt(&cfg.ActivityWorkers, fc.Activity.Workers)
	setInt(&cfg.ActivityQueueSize, fc.Activity.QueueSize)
	setInt(&cfg.MealHistoryKeep, fc.Meals.HistoryKeep)
	if len(fc.CORS.AllowedOrigins) > 0 {
		cfg.CORSOrigins = fc.CORS.AllowedOrigins
	}
	if fc.Metrics.Enabled != nil {
		cfg.MetricsEnabled = *fc.Metrics.Enabled
	}
	if fc.Tracing.Enabled != nil {
		cfg.Tracing.Enabled = *fc.Tracing.Enabled
	}
	setString(&cfg.Tracing.Endpoint, fc.Tracing.Endpoint)
	if fc.Tracing.Insecure != nil {
		cfg.Tracing.Insecure = *fc.Tracing.Insecure
	}
	if fc.Tracing.SampleRatio != nil {
		cfg.Tracing.SampleRatio = *fc.Tracing.SampleRatio
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.LogLevel = envutil.String("LOG_LEVEL", cfg.LogLevel)
	cfg.LogRedact = envutil.Bool("LOG_REDACTION_ENABLED", cfg.LogRedact)
	cfg.LogHashSalt = envutil.String("LOG_HASH_SALT", cfg.LogHashSalt)
	cfg.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.ServiceName)

	cfg.DBDriver = strings.ToLower(envutil.String("DB_DRIVER", cfg.DBDriver))
	cfg.DBDSN = envutil.String("POSTGRES_DSN", envutil.String("DATABASE_URL", cfg.DBDSN))

	cfg.JWTSecret = envutil.String("JWT_SECRET", cfg.JWTSecret)
	cfg.TokenTTL = envutil.Duration("TOKEN_TTL", cfg.TokenTTL, time.Second)
	cfg.TokenExtendedTTL = envutil.Duration("TOKEN_EXTENDED_TTL", cfg.TokenExtendedTTL, time.Second)
	cfg.TokenRotateWindow = envutil.Duration("TOKEN_ROTATE_WINDOW", cfg.TokenRotateWindow, time.Minute)

	cfg.OpenAIAPIKey = envutil.String("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIBaseURL = envutil.String("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.OpenAIModel = envutil.String("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.OpenAITimeout = envutil.Duration("OPENAI_TIMEOUT_SECONDS", cfg.OpenAITimeout, time.Second)
	cfg.OpenAIMaxRetries = envutil.Int("OPENAI_MAX_RETRIES", cfg.OpenAIMaxRetries)

	cfg.RedisAddr = envutil.String("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPrefix = envutil.String("REDIS_ACTIVITY_PREFIX", cfg.RedisPrefix)

	cfg.ActivityThrottle = envutil.Duration("ACTIVITY_THROTTLE", cfg.ActivityThrottle, time.Second)
	cfg.ActivityWorkers = envutil.Int("ACTIVITY_WORKERS", cfg.ActivityWorkers)
	cfg.ActivityQueueSize = envutil.Int("ACTIVITY_QUEUE_SIZE", cfg.ActivityQueueSize)

	cfg.MealHistoryKeep = envutil.Int("MEAL_HISTORY_KEEP", cfg.MealHistoryKeep)
	if origins := envutil.List("CORS_ALLOWED_ORIGINS"); len(origins) > 0 {
		cfg.CORSOrigins = origins
	}
	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled)

	cfg.Tracing.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Tracing.Endpoint)
	cfg.Tracing.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Tracing.Insecure)
	cfg.Tracing.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", cfg.Tracing.SampleRatio)
	if h := observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")); h != nil {
		cfg.Tracing.Headers = h
	}
	cfg.Tracing.ServiceName = cfg.ServiceName
	cfg.Tracing.Environment = cfg.LogMode
	cfg.ShutdownTimeout = envutil.Duration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout, time.Second)
}

func (c Config) validate() error {
	var missing []string
	if strings.TrimSpace(c.JWTSecret) == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		missing = append(missing, "POSTGRES_DSN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", apierr.ErrConfiguration, strings.Join(missing, ", "))
	}
	switch c.DBDriver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("%w: unsupported DB_DRIVER %q", apierr.ErrConfiguration, c.DBDriver)
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*dst = d
	return nil
}
