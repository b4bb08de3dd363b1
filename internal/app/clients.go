package app

import (
	"github.com/yungbote/mealplanner-backend/internal/clients/redis"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
	"github.com/yungbote/mealplanner-backend/internal/platform/openai"
)

type Clients struct {
	ActivityGate redis.ActivityGate
	OpenAI       openai.Client
}

// wireClients never fails: Redis is optional and the OpenAI client defers
// its configuration check to the first call.
func wireClients(log *logger.Logger, cfg Config) Clients {
	log.Info("Wiring clients...")

	var gate redis.ActivityGate
	if cfg.RedisAddr != "" {
		g, err := redis.NewActivityGate(log, cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			log.Warn("Redis activity gate unavailable, throttling on the store only", "error", err)
		} else {
			gate = g
		}
	}

	return Clients{
		ActivityGate: gate,
		OpenAI: openai.NewLazy(log, openai.Config{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAIModel,
			Timeout:    cfg.OpenAITimeout,
			MaxRetries: cfg.OpenAIMaxRetries,
		}),
	}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.ActivityGate != nil {
		_ = c.ActivityGate.Close()
	}
}
