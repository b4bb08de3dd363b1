package services

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/mealplanner-backend/internal/data/repos"
	"github.com/yungbote/mealplanner-backend/internal/data/repos/testutil"
	"github.com/yungbote/mealplanner-backend/internal/platform/authtoken"
)

type stack struct {
	auth        AuthService
	meals       MealService
	preferences PreferenceService
	inventory   InventoryService
	users       repos.UserRepo
	codec       *authtoken.Codec
}

// newStack wires the real services over a test database.
func newStack(t *testing.T) *stack {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	codec, err := authtoken.NewCodec(authtoken.Config{Secret: "test-secret"})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	users := repos.NewUserRepo(db, log)
	auth := NewAuthService(log, users, codec)
	auth.(*authService).hashCost = bcrypt.MinCost

	return &stack{
		auth:        auth,
		meals:       NewMealService(log, repos.NewMealRepo(db, log), 0),
		preferences: NewPreferenceService(log, repos.NewPreferenceRepo(db, log)),
		inventory:   NewInventoryService(log, repos.NewInventoryRepo(db, log)),
		users:       users,
		codec:       codec,
	}
}

func mustCodec(t *testing.T, cfg authtoken.Config) *authtoken.Codec {
	t.Helper()
	if cfg.Secret == "" {
		cfg.Secret = "test-secret"
	}
	c, err := authtoken.NewCodec(cfg)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}
