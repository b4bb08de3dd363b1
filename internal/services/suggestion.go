package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	types "github.com/yungbote/mealplanner-backend/internal/domain"
	domainpref "github.com/yungbote/mealplanner-backend/internal/domain/preference"
	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

const CalorieUnspecified = "unspecified"

type Ingredients struct {
	Pantry []string `json:"pantry"`
	Fridge []string `json:"fridge"`
}

type SuggestionRequest struct {
	Ingredients       *Ingredients `json:"ingredients"`
	ExpiringSoon      []string     `json:"expiringSoon,omitempty"`
	CaloriePreference *string      `json:"caloriePreference,omitempty"`
}

type MealSummary struct {
	Name   string
	Date   time.Time
	Rating *int
	Liked  *bool
	Notes  string
}

// SuggestionPrompt is everything the suggester is told about the user.
type SuggestionPrompt struct {
	Pantry        []string
	Fridge        []string
	Expiring      []string
	Likes         []string
	Dislikes      []string
	CalorieTarget string
	RecentMeals   []MealSummary
}

// AllIngredients is the pantry followed by the fridge, deduplicated.
func (p SuggestionPrompt) AllIngredients() []string {
	return domainpref.Normalize(append(append([]string{}, p.Pantry...), p.Fridge...), -1)
}

type MealSuggestion struct {
	Name                    string   `json:"name"`
	Description             string   `json:"description"`
	Ingredients             []string `json:"ingredients"`
	TimeEstimate            string   `json:"timeEstimate"`
	Difficulty              string   `json:"difficulty"`
	EstimatedCalories       int      `json:"estimatedCalories"`
	ExpiringIngredientsUsed []string `json:"expiringIngredientsUsed"`
}

type SuggestionResult struct {
	Suggestions []MealSuggestion `json:"suggestions"`
	NewLikes    []string         `json:"newLikes"`
	NewDislikes []string         `json:"newDislikes"`
}

// MealSuggester turns a prompt into meal ideas.
type MealSuggester interface {
	Suggest(ctx context.Context, prompt SuggestionPrompt) (*SuggestionResult, error)
	SuggestText(ctx context.Context, prompt SuggestionPrompt) (string, error)
}

type LearnedPreferences struct {
	Likes    []string `json:"likes"`
	Dislikes []string `json:"dislikes"`
}

type SuggestionResponse struct {
	Suggestions        []MealSuggestion   `json:"suggestions"`
	LearnedPreferences LearnedPreferences `json:"learnedPreferences"`
}

type SuggestionService interface {
	Suggest(ctx context.Context, userID uuid.UUID, req SuggestionRequest) (*SuggestionResponse, error)
	SuggestText(ctx context.Context, userID uuid.UUID, req SuggestionRequest) (string, error)
}

type suggestionService struct {
	log         *logger.Logger
	meals       MealService
	preferences PreferenceService
	inventory   InventoryService
	suggester   MealSuggester
}

// NewSuggestionService wires the orchestrator. inventory may be nil.
func NewSuggestionService(log *logger.Logger, meals MealService, preferences PreferenceService, inventory InventoryService, suggester MealSuggester) SuggestionService {
	return &suggestionService{
		log:         log.With("service", "SuggestionService"),
		meals:       meals,
		preferences: preferences,
		inventory:   inventory,
		suggester:   suggester,
	}
}

func validateSuggestionRequest(req SuggestionRequest) (*types.CalorieClass, error) {
	if req.Ingredients == nil || req.Ingredients.Pantry == nil || req.Ingredients.Fridge == nil {
		return nil, apierr.Validation("missing required fields: ingredients.pantry and ingredients.fridge")
	}
	if req.CaloriePreference == nil || strings.TrimSpace(*req.CaloriePreference) == "" {
		return nil, nil
	}
	c, err := ParseCalorieClass(*req.CaloriePreference)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// buildPrompt validates the request, stores a changed calorie override and
// gathers history, preferences and expiring stock concurrently.
func (s *suggestionService) buildPrompt(ctx context.Context, userID uuid.UUID, req SuggestionRequest) (SuggestionPrompt, error) {
	override, err := validateSuggestionRequest(req)
	if err != nil {
		return SuggestionPrompt{}, err
	}

	if override != nil {
		current, err := s.preferences.Get(ctx, userID)
		if err != nil {
			return SuggestionPrompt{}, err
		}
		if current.Calorie() != *override {
			if _, err := s.preferences.Update(ctx, userID, domainpref.Patch{Calorie: override}); err != nil {
				return SuggestionPrompt{}, fmt.Errorf("store calorie preference: %w", err)
			}
		}
	}

	var (
		recent   []*types.Meal
		prefs    *types.Preferences
		expiring []*types.InventoryItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recent, err = s.meals.Recent(gctx, userID, RecentMealsForPrompt)
		return err
	})
	g.Go(func() error {
		var err error
		prefs, err = s.preferences.Get(gctx, userID)
		return err
	})
	if s.inventory != nil {
		g.Go(func() error {
			items, err := s.inventory.ExpiringSoon(gctx, userID, 0)
			if err != nil {
				// Stock data only sharpens the prompt.
				s.log.Warn("expiring inventory lookup failed", "user_id", userID, "error", err)
				return nil
			}
			expiring = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SuggestionPrompt{}, err
	}

	p := SuggestionPrompt{
		Pantry:        domainpref.Normalize(req.Ingredients.Pantry, -1),
		Fridge:        domainpref.Normalize(req.Ingredients.Fridge, -1),
		CalorieTarget: CalorieUnspecified,
	}
	exp := domainpref.NewOrderedSet(req.ExpiringSoon)
	for _, it := range expiring {
		exp.Add(it.IngredientName)
	}
	p.Expiring = exp.Items()
	if prefs != nil {
		p.Likes = append([]string{}, prefs.Likes...)
		p.Dislikes = append([]string{}, prefs.Dislikes...)
		if c := prefs.Calorie(); c != "" {
			p.CalorieTarget = string(c)
		}
	}
	if override != nil {
		p.CalorieTarget = string(*override)
	}
	for _, m := range recent {
		sum := MealSummary{Name: m.MealName, Date: m.Date, Rating: m.Rating, Liked: m.Liked}
		if m.Notes != nil {
			sum.Notes = *m.Notes
		}
		p.RecentMeals = append(p.RecentMeals, sum)
	}
	return p, nil
}

func unavailable(err error) error {
	if errors.Is(err, apierr.ErrConfiguration) || errors.Is(err, apierr.ErrSuggestionUnavailable) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", apierr.ErrSuggestionUnavailable, err)
}

func (s *suggestionService) Suggest(ctx context.Context, userID uuid.UUID, req SuggestionRequest) (*SuggestionResponse, error) {
	prompt, err := s.buildPrompt(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	result, err := s.suggester.Suggest(ctx, prompt)
	if err != nil {
		s.log.Warn("meal suggestion failed", "user_id", userID, "error", err)
		return nil, unavailable(err)
	}
	suggestions := sanitizeSuggestions(result.Suggestions)
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("%w: no usable suggestions", apierr.ErrSuggestionUnavailable)
	}

	learned := LearnedPreferences{
		Likes:    domainpref.Normalize(result.NewLikes, domainpref.MaxItems),
		Dislikes: domainpref.Normalize(result.NewDislikes, domainpref.MaxItems),
	}
	if len(learned.Likes) > 0 {
		if _, err := s.preferences.MergeLikes(ctx, userID, learned.Likes); err != nil {
			s.log.Warn("merge learned likes failed", "user_id", userID, "error", err)
		}
	}
	if len(learned.Dislikes) > 0 {
		if _, err := s.preferences.MergeDislikes(ctx, userID, learned.Dislikes); err != nil {
			s.log.Warn("merge learned dislikes failed", "user_id", userID, "error", err)
		}
	}

	return &SuggestionResponse{Suggestions: suggestions, LearnedPreferences: learned}, nil
}

func (s *suggestionService) SuggestText(ctx context.Context, userID uuid.UUID, req SuggestionRequest) (string, error) {
	prompt, err := s.buildPrompt(ctx, userID, req)
	if err != nil {
		return "", err
	}
	text, err := s.suggester.SuggestText(ctx, prompt)
	if err != nil {
		s.log.Warn("meal suggestion failed", "user_id", userID, "error", err)
		return "", unavailable(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty answer", apierr.ErrSuggestionUnavailable)
	}
	return text, nil
}

var difficulties = map[string]bool{"easy": true, "medium": true, "hard": true}

// sanitizeSuggestions drops unnamed entries and clamps fields to the values
// the API promises.
func sanitizeSuggestions(in []MealSuggestion) []MealSuggestion {
	out := make([]MealSuggestion, 0, len(in))
	for _, sg := range in {
		sg.Name = strings.TrimSpace(sg.Name)
		if sg.Name == "" {
			continue
		}
		sg.Difficulty = strings.ToLower(strings.TrimSpace(sg.Difficulty))
		if !difficulties[sg.Difficulty] {
			sg.Difficulty = "medium"
		}
		if sg.EstimatedCalories < 0 {
			sg.EstimatedCalories = 0
		}
		sg.Ingredients = domainpref.Normalize(sg.Ingredients, -1)
		sg.ExpiringIngredientsUsed = domainpref.Normalize(sg.ExpiringIngredientsUsed, -1)
		out = append(out, sg)
	}
	return out
}
