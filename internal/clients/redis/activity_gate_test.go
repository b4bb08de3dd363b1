package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

func TestActivityGateAcquireOncePerWindow(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	gate, err := NewActivityGate(logger.Nop(), addr, "test:active:"+uuid.NewString()+":")
	if err != nil {
		t.Fatalf("NewActivityGate: %v", err)
	}
	defer gate.Close()

	ctx := context.Background()
	userID := uuid.New()
	first, err := gate.Acquire(ctx, userID, time.Minute)
	if err != nil || !first {
		t.Fatalf("first Acquire: ok=%v err=%v", first, err)
	}
	second, err := gate.Acquire(ctx, userID, time.Minute)
	if err != nil || second {
		t.Fatalf("second Acquire: ok=%v err=%v", second, err)
	}
	other, err := gate.Acquire(ctx, uuid.New(), time.Minute)
	if err != nil || !other {
		t.Fatalf("other user Acquire: ok=%v err=%v", other, err)
	}
}

func TestNewActivityGateRequiresAddr(t *testing.T) {
	if _, err := NewActivityGate(logger.Nop(), " ", ""); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
