package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

// ActivityGate throttles last-active writes across processes. Acquire returns
// true for the first caller per user inside window and false for the rest.
type ActivityGate interface {
	Acquire(ctx context.Context, userID uuid.UUID, window time.Duration) (bool, error)
	Close() error
}

type activityGate struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

func NewActivityGate(log *logger.Logger, addr, prefix string) (ActivityGate, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "mealplanner:active:"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &activityGate{
		log:    log.With("service", "RedisActivityGate"),
		rdb:    rdb,
		prefix: prefix,
	}, nil
}

func (g *activityGate) Acquire(ctx context.Context, userID uuid.UUID, window time.Duration) (bool, error) {
	if g == nil || g.rdb == nil {
		return false, fmt.Errorf("redis activity gate not initialized")
	}
	if window <= 0 {
		return true, nil
	}
	return g.rdb.SetNX(ctx, g.prefix+userID.String(), time.Now().UTC().Unix(), window).Result()
}

func (g *activityGate) Close() error {
	if g == nil || g.rdb == nil {
		return nil
	}
	return g.rdb.Close()
}
