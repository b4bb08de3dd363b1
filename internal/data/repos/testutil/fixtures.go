package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mealplanner-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hash",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedMeal(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string, date time.Time) *types.Meal {
	tb.Helper()
	m := &types.Meal{
		ID:          uuid.New(),
		UserID:      userID,
		MealName:    name,
		Ingredients: []string{"salt"},
		Date:        date.UTC(),
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed meal: %v", err)
	}
	return m
}

// UniqueEmail avoids collisions when tests share a Postgres database.
func UniqueEmail(prefix string) string {
	return prefix + "+" + uuid.NewString()[:8] + "@example.com"
}

func PtrInt(v int) *int { return &v }

func PtrBool(v bool) *bool { return &v }

func PtrString(v string) *string { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
