package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mealplanner-backend/internal/clients/redis"
	"github.com/yungbote/mealplanner-backend/internal/data/repos"
	"github.com/yungbote/mealplanner-backend/internal/observability"
	"github.com/yungbote/mealplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

const (
	DefaultActivityThrottle  = time.Hour
	DefaultActivityWorkers   = 2
	DefaultActivityQueueSize = 1024
)

// ActivityTracker records "last active" timestamps off the request path.
type ActivityTracker interface {
	// Touch queues a liveness update and never blocks. It reports false when
	// the task was dropped.
	Touch(userID uuid.UUID) bool
	Start(ctx context.Context)
	Wait()
}

type ActivityConfig struct {
	Throttle  time.Duration
	Workers   int
	QueueSize int
	Metrics   *observability.Metrics
}

// Outcomes of one liveness task.
const (
	activityWritten   = "written"
	activityThrottled = "throttled"
	activityGated     = "gated"
	activityFailed    = "failed"
	activityDropped   = "dropped"
)

type activityTracker struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	gate     redis.ActivityGate
	throttle time.Duration
	workers  int
	queue    chan uuid.UUID
	metrics  *observability.Metrics
	now      func() time.Time

	startOnce sync.Once
	wg        sync.WaitGroup
}

// NewActivityTracker builds the tracker. gate may be nil.
func NewActivityTracker(log *logger.Logger, userRepo repos.UserRepo, gate redis.ActivityGate, cfg ActivityConfig) ActivityTracker {
	return newActivityTracker(log, userRepo, gate, cfg)
}

func newActivityTracker(log *logger.Logger, userRepo repos.UserRepo, gate redis.ActivityGate, cfg ActivityConfig) *activityTracker {
	if cfg.Throttle <= 0 {
		cfg.Throttle = DefaultActivityThrottle
	}
	if cfg.Workers < 1 {
		cfg.Workers = DefaultActivityWorkers
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = DefaultActivityQueueSize
	}
	return &activityTracker{
		log:      log.With("component", "ActivityTracker"),
		userRepo: userRepo,
		gate:     gate,
		throttle: cfg.Throttle,
		workers:  cfg.Workers,
		queue:    make(chan uuid.UUID, cfg.QueueSize),
		metrics:  cfg.Metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (a *activityTracker) Touch(userID uuid.UUID) bool {
	if userID == uuid.Nil {
		return false
	}
	select {
	case a.queue <- userID:
		return true
	default:
		a.log.Warn("activity queue full, dropping update", "user_id", userID)
		a.metrics.IncActivity(activityDropped)
		return false
	}
}

func (a *activityTracker) Start(ctx context.Context) {
	a.startOnce.Do(func() {
		a.log.Info("Starting activity workers", "concurrency", a.workers)
		for i := 0; i < a.workers; i++ {
			a.wg.Add(1)
			go a.runLoop(ctx, i+1)
		}
	})
}

// Wait blocks until every worker has exited after ctx cancellation.
func (a *activityTracker) Wait() { a.wg.Wait() }

func (a *activityTracker) runLoop(ctx context.Context, workerID int) {
	defer a.wg.Done()
	for {
		select {
		case <-ctx.Done():
			a.log.Debug("Activity worker stopped", "worker_id", workerID)
			return
		case userID := <-a.queue:
			a.handle(ctx, workerID, userID)
		}
	}
}

func (a *activityTracker) handle(ctx context.Context, workerID int, userID uuid.UUID) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("Activity update panic", "worker_id", workerID, "user_id", userID, "panic", r)
			a.metrics.IncActivity(activityFailed)
		}
	}()
	taskCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	outcome, err := a.record(taskCtx, userID)
	if err != nil {
		a.log.Warn("Activity update failed", "worker_id", workerID, "user_id", userID, "error", err)
	}
	a.metrics.IncActivity(outcome)
}

// record writes now as last_active_at unless the user was seen within the
// throttle window.
func (a *activityTracker) record(ctx context.Context, userID uuid.UUID) (string, error) {
	if a.gate != nil {
		ok, err := a.gate.Acquire(ctx, userID, a.throttle)
		if err != nil {
			a.log.Debug("activity gate unavailable, using store", "error", err)
		} else if !ok {
			return activityGated, nil
		}
	}

	dbc := dbctx.Context{Ctx: ctx}
	now := a.now()
	last, err := a.userRepo.GetLastActive(dbc, userID)
	if err != nil {
		return activityFailed, fmt.Errorf("read last active: %w", err)
	}
	if last != nil && now.Sub(*last) <= a.throttle {
		return activityThrottled, nil
	}
	if err := a.userRepo.UpdateLastActive(dbc, userID, now); err != nil {
		return activityFailed, fmt.Errorf("write last active: %w", err)
	}
	return activityWritten, nil
}
