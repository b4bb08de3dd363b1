package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/mealplanner-backend/internal/data/repos"
	types "github.com/yungbote/mealplanner-backend/internal/domain"
	domainpref "github.com/yungbote/mealplanner-backend/internal/domain/preference"
	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
	"github.com/yungbote/mealplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

type PreferenceService interface {
	// Get returns nil when the user has no record yet.
	Get(ctx context.Context, userID uuid.UUID) (*types.Preferences, error)
	Update(ctx context.Context, userID uuid.UUID, patch domainpref.Patch) (*types.Preferences, error)
	MergeLikes(ctx context.Context, userID uuid.UUID, items []string) (*types.Preferences, error)
	MergeDislikes(ctx context.Context, userID uuid.UUID, items []string) (*types.Preferences, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, kind types.PreferenceKind, item string) (bool, error)
}

type preferenceService struct {
	log  *logger.Logger
	repo repos.PreferenceRepo
}

func NewPreferenceService(log *logger.Logger, repo repos.PreferenceRepo) PreferenceService {
	return &preferenceService{log: log.With("service", "PreferenceService"), repo: repo}
}

// ParseCalorieClass accepts low, medium or high in any case.
func ParseCalorieClass(raw string) (types.CalorieClass, error) {
	c := types.CalorieClass(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", apierr.Validation("calorie preference must be one of low, medium, high")
	}
	return c, nil
}

func ParsePreferenceKind(raw string) (types.PreferenceKind, error) {
	k := types.PreferenceKind(strings.ToLower(strings.TrimSpace(raw)))
	switch k {
	case "likes":
		k = types.PreferenceLike
	case "dislikes":
		k = types.PreferenceDislike
	}
	if !k.Valid() {
		return "", apierr.Validation("preference kind must be like or dislike")
	}
	return k, nil
}

func (s *preferenceService) Get(ctx context.Context, userID uuid.UUID) (*types.Preferences, error) {
	row, err := s.repo.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return row, nil
}

func (s *preferenceService) Update(ctx context.Context, userID uuid.UUID, patch domainpref.Patch) (*types.Preferences, error) {
	if patch.Calorie != nil && !patch.Calorie.Valid() {
		return nil, apierr.Validation("calorie preference must be one of low, medium, high")
	}
	return s.repo.Upsert(dbctx.Context{Ctx: ctx}, userID, patch)
}

func (s *preferenceService) MergeLikes(ctx context.Context, userID uuid.UUID, items []string) (*types.Preferences, error) {
	return s.merge(ctx, userID, types.PreferenceLike, items)
}

func (s *preferenceService) MergeDislikes(ctx context.Context, userID uuid.UUID, items []string) (*types.Preferences, error) {
	return s.merge(ctx, userID, types.PreferenceDislike, items)
}

func (s *preferenceService) merge(ctx context.Context, userID uuid.UUID, kind types.PreferenceKind, items []string) (*types.Preferences, error) {
	row, added, err := s.repo.MergeItems(dbctx.Context{Ctx: ctx}, userID, kind, items)
	if err != nil {
		return nil, err
	}
	if added > 0 {
		s.log.Debug("preferences merged", "user_id", userID, "kind", kind, "added", added)
	}
	return row, nil
}

func (s *preferenceService) RemoveItem(ctx context.Context, userID uuid.UUID, kind types.PreferenceKind, item string) (bool, error) {
	if !kind.Valid() {
		return false, apierr.Validation("preference kind must be like or dislike")
	}
	item = strings.TrimSpace(item)
	if item == "" {
		return false, apierr.Validation("item is required")
	}
	return s.repo.RemoveItem(dbctx.Context{Ctx: ctx}, userID, kind, item)
}
