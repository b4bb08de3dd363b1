package openai

import (
	"context"
	"sync"

	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

// Lazy defers client construction to the first call, so a server without an
// API key still starts and only suggestion requests fail. A failed build is
// attempted again on the next call.
type Lazy struct {
	mu     sync.Mutex
	client Client
	build  func() (Client, error)
}

func NewLazy(log *logger.Logger, cfg Config) *Lazy {
	return &Lazy{build: func() (Client, error) { return NewClient(log, cfg) }}
}

func (l *Lazy) get() (Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.client != nil {
		return l.client, nil
	}
	c, err := l.build()
	if err != nil {
		return nil, err
	}
	l.client = c
	return c, nil
}

func (l *Lazy) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	c, err := l.get()
	if err != nil {
		return nil, err
	}
	return c.GenerateJSON(ctx, system, user, schemaName, schema)
}

func (l *Lazy) GenerateText(ctx context.Context, system string, user string) (string, error) {
	c, err := l.get()
	if err != nil {
		return "", err
	}
	return c.GenerateText(ctx, system, user)
}
