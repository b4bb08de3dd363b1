package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mealplanner-backend/internal/data/repos/testutil"
	"github.com/yungbote/mealplanner-backend/internal/observability"
)

func TestActivityRecordThrottles(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name      string
		last      *time.Time
		wantWrite bool
		outcome   string
	}{
		{"never active", nil, true, activityWritten},
		{"ten minutes ago", testutil.PtrTime(now.Add(-10 * time.Minute)), false, activityThrottled},
		{"exactly one hour ago", testutil.PtrTime(now.Add(-time.Hour)), false, activityThrottled},
		{"two hours ago", testutil.PtrTime(now.Add(-2 * time.Hour)), true, activityWritten},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			userID := uuid.New()
			repo.lastActive[userID] = tc.last

			tr := newActivityTracker(testutil.Logger(t), repo, nil, ActivityConfig{Throttle: time.Hour})
			tr.now = func() time.Time { return now }
			outcome, err := tr.record(context.Background(), userID)
			if err != nil {
				t.Fatalf("record: %v", err)
			}
			if outcome != tc.outcome {
				t.Fatalf("outcome=%q want %q", outcome, tc.outcome)
			}
			_, writes := repo.counts()
			if (writes == 1) != tc.wantWrite {
				t.Fatalf("writes=%d wantWrite=%v", writes, tc.wantWrite)
			}
		})
	}
}

func TestActivityGateShortCircuitsStore(t *testing.T) {
	repo := newFakeUserRepo()
	gate := &fakeGate{allow: false}
	tr := newActivityTracker(testutil.Logger(t), repo, gate, ActivityConfig{})
	outcome, err := tr.record(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if outcome != activityGated {
		t.Fatalf("outcome=%q", outcome)
	}
	reads, writes := repo.counts()
	if gate.calls != 1 || reads != 0 || writes != 0 {
		t.Fatalf("gate=%d reads=%d writes=%d", gate.calls, reads, writes)
	}
}

func TestActivityGateErrorFallsBackToStore(t *testing.T) {
	repo := newFakeUserRepo()
	gate := &fakeGate{err: errors.New("redis down")}
	tr := newActivityTracker(testutil.Logger(t), repo, gate, ActivityConfig{})
	if _, err := tr.record(context.Background(), uuid.New()); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, writes := repo.counts(); writes != 1 {
		t.Fatalf("expected store write, got %d", writes)
	}
}

func TestActivityRecordSurfacesStoreError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.readErr = errors.New("db down")
	tr := newActivityTracker(testutil.Logger(t), repo, nil, ActivityConfig{})
	if _, err := tr.record(context.Background(), uuid.New()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTouchNeverBlocks(t *testing.T) {
	metrics := observability.NewMetrics()
	tr := newActivityTracker(testutil.Logger(t), newFakeUserRepo(), nil, ActivityConfig{QueueSize: 1, Metrics: metrics})
	if !tr.Touch(uuid.New()) {
		t.Fatalf("first Touch should be queued")
	}
	done := make(chan bool, 1)
	go func() { done <- tr.Touch(uuid.New()) }()
	select {
	case queued := <-done:
		if queued {
			t.Fatalf("Touch on a full queue should drop")
		}
	case <-time.After(time.Second):
		t.Fatalf("Touch blocked on a full queue")
	}
	if metrics.ActivityCount(activityDropped) != 1 {
		t.Fatalf("dropped=%v", metrics.ActivityCount(activityDropped))
	}
}

func TestWorkersDrainQueueAndStop(t *testing.T) {
	repo := newFakeUserRepo()
	repo.writeSignal = make(chan uuid.UUID, 4)
	tr := newActivityTracker(testutil.Logger(t), repo, nil, ActivityConfig{Workers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	tr.Start(ctx)

	userID := uuid.New()
	tr.Touch(userID)
	select {
	case got := <-repo.writeSignal:
		if got != userID {
			t.Fatalf("unexpected user %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not process the update")
	}

	cancel()
	stopped := make(chan struct{})
	go func() { tr.Wait(); close(stopped) }()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("workers did not stop")
	}
}
