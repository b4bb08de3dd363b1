package db

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

// OpenFunc opens a new connection pool.
type OpenFunc func(ctx context.Context) (*gorm.DB, error)

// Handle owns the process-wide *gorm.DB. The first caller of DB opens and
// migrates it; concurrent first callers wait on the same mutex and observe
// the one handle. A failed open leaves the handle empty so a later call can
// retry.
type Handle struct {
	mu     sync.Mutex
	db     *gorm.DB
	open   OpenFunc
	log    *logger.Logger
	closed bool
}

func NewHandle(log *logger.Logger, open OpenFunc) *Handle {
	return &Handle{open: open, log: log.With("service", "DBHandle")}
}

// NewHandleFromConfig opens with Open(cfg) and runs AutoMigrateAll.
func NewHandleFromConfig(log *logger.Logger, cfg Config) *Handle {
	return NewHandle(log, func(ctx context.Context) (*gorm.DB, error) {
		conn, err := Open(cfg)
		if err != nil {
			return nil, err
		}
		if err := AutoMigrateAll(conn.WithContext(ctx)); err != nil {
			return nil, err
		}
		return conn, nil
	})
}

var errHandleClosed = errors.New("db handle closed")

func (h *Handle) DB(ctx context.Context) (*gorm.DB, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, errHandleClosed
	}
	if h.db != nil {
		return h.db, nil
	}
	conn, err := h.open(ctx)
	if err != nil {
		h.log.Error("Database initialization failed", "error", err)
		return nil, err
	}
	h.db = conn
	h.log.Info("Database initialized")
	return h.db, nil
}

func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	if h.db == nil {
		return nil
	}
	sqlDB, err := h.db.DB()
	h.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
