package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
	"github.com/yungbote/mealplanner-backend/internal/platform/openai"
)

const suggestionSchemaName = "meal_suggestions"

const suggestionSystemPrompt = `You are a helpful meal planning assistant. Suggest 3 diverse meals.
Use primarily the available ingredients and prefer ingredients that expire soon.
Avoid meals similar to the recent history and never use disliked items.
Respect the calorie target: low is under 400 kcal, medium 400-700 kcal, high over 700 kcal.
From the history ratings and feedback, infer ingredients or dishes the user newly likes or dislikes
and report only ones that are not already in their lists.`

const textSystemPrompt = `You are a helpful meal planning assistant. Suggest 3 diverse meal ideas.
Keep suggestions practical and easy to make. Format each suggestion with the meal name,
a brief description and the main ingredients needed.`

type openAIMealSuggester struct {
	log    *logger.Logger
	client openai.Client
}

func NewMealSuggester(log *logger.Logger, client openai.Client) MealSuggester {
	return &openAIMealSuggester{log: log.With("service", "MealSuggester"), client: client}
}

func stringArray() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

func suggestionSchema() map[string]any {
	suggestion := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":                    map[string]any{"type": "string"},
			"description":             map[string]any{"type": "string"},
			"ingredients":             stringArray(),
			"timeEstimate":            map[string]any{"type": "string"},
			"difficulty":              map[string]any{"type": "string", "enum": []string{"easy", "medium", "hard"}},
			"estimatedCalories":       map[string]any{"type": "integer"},
			"expiringIngredientsUsed": stringArray(),
		},
		"required": []string{"name", "description", "ingredients", "timeEstimate", "difficulty", "estimatedCalories", "expiringIngredientsUsed"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"suggestions": map[string]any{"type": "array", "items": suggestion},
			"newLikes":    stringArray(),
			"newDislikes": stringArray(),
		},
		"required": []string{"suggestions", "newLikes", "newDislikes"},
	}
}

func (s *openAIMealSuggester) Suggest(ctx context.Context, prompt SuggestionPrompt) (*SuggestionResult, error) {
	obj, err := s.client.GenerateJSON(ctx, suggestionSystemPrompt, RenderPrompt(prompt), suggestionSchemaName, suggestionSchema())
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("re-encode suggestion: %w", err)
	}
	var out SuggestionResult
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode suggestion: %w", err)
	}
	return &out, nil
}

func (s *openAIMealSuggester) SuggestText(ctx context.Context, prompt SuggestionPrompt) (string, error) {
	return s.client.GenerateText(ctx, textSystemPrompt, RenderPrompt(prompt))
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// RenderPrompt formats the prompt as the user message.
func RenderPrompt(p SuggestionPrompt) string {
	var b strings.Builder
	b.WriteString("Available ingredients:\n")
	fmt.Fprintf(&b, "- Pantry: %s\n", joinOrNone(p.Pantry))
	fmt.Fprintf(&b, "- Fridge: %s\n", joinOrNone(p.Fridge))
	fmt.Fprintf(&b, "Expiring soon (use first): %s\n", joinOrNone(p.Expiring))
	fmt.Fprintf(&b, "Liked: %s\n", joinOrNone(p.Likes))
	fmt.Fprintf(&b, "Disliked: %s\n", joinOrNone(p.Dislikes))
	fmt.Fprintf(&b, "Calorie target: %s\n", p.CalorieTarget)

	b.WriteString("\nRecent meal history (to avoid repetition):\n")
	if len(p.RecentMeals) == 0 {
		b.WriteString("- none\n")
	}
	for _, m := range p.RecentMeals {
		fmt.Fprintf(&b, "- %s (%s)", m.Name, m.Date.Format("2006-01-02"))
		if m.Rating != nil {
			fmt.Fprintf(&b, " rated %d/5", *m.Rating)
		}
		if m.Liked != nil {
			if *m.Liked {
				b.WriteString(" - liked")
			} else {
				b.WriteString(" - disliked")
			}
		}
		if m.Notes != "" {
			fmt.Fprintf(&b, " notes: %q", m.Notes)
		}
		b.WriteString("\n")
	}
	return b.String()
}
