package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mealplanner-backend/internal/data/repos"
	types "github.com/yungbote/mealplanner-backend/internal/domain"
	domainmeal "github.com/yungbote/mealplanner-backend/internal/domain/meal"
	domainpref "github.com/yungbote/mealplanner-backend/internal/domain/preference"
	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
	"github.com/yungbote/mealplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

const RecentMealsForPrompt = 10

type CreateMealInput struct {
	MealName          string
	Ingredients       []string
	Date              time.Time
	Rating            *int
	Liked             *bool
	Notes             *string
	EstimatedCalories *int
	AISuggestion      bool
}

type MealService interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateMealInput) (*types.Meal, error)
	List(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Meal, error)
	Recent(ctx context.Context, userID uuid.UUID, n int) ([]*types.Meal, error)
	UpdateRating(ctx context.Context, userID, mealID uuid.UUID, fb types.MealFeedback) (*types.Meal, error)
	Delete(ctx context.Context, userID, mealID uuid.UUID) error
	Cleanup(ctx context.Context, userID uuid.UUID, keep int) (int64, error)
}

type mealService struct {
	log  *logger.Logger
	repo repos.MealRepo
	keep int
}

// NewMealService keeps at most keep meals per user; keep <= 0 uses the
// default history size.
func NewMealService(log *logger.Logger, repo repos.MealRepo, keep int) MealService {
	if keep <= 0 {
		keep = domainmeal.DefaultHistoryKeep
	}
	return &mealService{log: log.With("service", "MealService"), repo: repo, keep: keep}
}

func validateRating(r *int) error {
	if r != nil && (*r < 1 || *r > 5) {
		return apierr.Validation("rating must be between 1 and 5")
	}
	return nil
}

func (s *mealService) Create(ctx context.Context, userID uuid.UUID, in CreateMealInput) (*types.Meal, error) {
	name := strings.TrimSpace(in.MealName)
	if name == "" {
		return nil, apierr.Validation("mealName is required")
	}
	if in.Date.IsZero() {
		return nil, apierr.Validation("date is required")
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	if in.EstimatedCalories != nil && *in.EstimatedCalories < 0 {
		return nil, apierr.Validation("estimatedCalories must not be negative")
	}

	m := &types.Meal{
		ID:                uuid.New(),
		UserID:            userID,
		MealName:          name,
		Ingredients:       domainpref.Normalize(in.Ingredients, -1),
		Date:              in.Date.UTC(),
		Rating:            in.Rating,
		Liked:             in.Liked,
		Notes:             in.Notes,
		EstimatedCalories: in.EstimatedCalories,
		AISuggestion:      in.AISuggestion,
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := s.repo.Create(dbc, m); err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}

	if _, err := s.repo.Cleanup(dbc, userID, s.keep); err != nil {
		s.log.Warn("meal history cleanup failed", "user_id", userID, "error", err)
	}
	return m, nil
}

func (s *mealService) List(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Meal, error) {
	return s.repo.List(dbctx.Context{Ctx: ctx}, userID, limit)
}

func (s *mealService) Recent(ctx context.Context, userID uuid.UUID, n int) ([]*types.Meal, error) {
	if n <= 0 {
		n = RecentMealsForPrompt
	}
	return s.repo.Recent(dbctx.Context{Ctx: ctx}, userID, n)
}

func (s *mealService) UpdateRating(ctx context.Context, userID, mealID uuid.UUID, fb types.MealFeedback) (*types.Meal, error) {
	if fb.Empty() {
		return nil, apierr.Validation("one of rating, liked or notes is required")
	}
	if err := validateRating(fb.Rating); err != nil {
		return nil, err
	}
	m, err := s.repo.UpdateFeedback(dbctx.Context{Ctx: ctx}, userID, mealID, fb)
	if err != nil {
		return nil, fmt.Errorf("update meal: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: meal", apierr.ErrNotFound)
	}
	return m, nil
}

func (s *mealService) Delete(ctx context.Context, userID, mealID uuid.UUID) error {
	ok, err := s.repo.Delete(dbctx.Context{Ctx: ctx}, userID, mealID)
	if err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: meal", apierr.ErrNotFound)
	}
	return nil
}

func (s *mealService) Cleanup(ctx context.Context, userID uuid.UUID, keep int) (int64, error) {
	if keep <= 0 {
		keep = s.keep
	}
	return s.repo.Cleanup(dbctx.Context{Ctx: ctx}, userID, keep)
}
