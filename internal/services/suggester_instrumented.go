package services

import (
	"context"
	"errors"
	"time"

	"github.com/yungbote/mealplanner-backend/internal/observability"
	"github.com/yungbote/mealplanner-backend/internal/platform/apierr"
)

type instrumentedSuggester struct {
	inner   MealSuggester
	metrics *observability.Metrics
	now     func() time.Time
}

// InstrumentSuggester records call counts, latency and proposed preference
// items. A nil metrics returns inner unchanged.
func InstrumentSuggester(inner MealSuggester, metrics *observability.Metrics) MealSuggester {
	if metrics == nil || inner == nil {
		return inner
	}
	return &instrumentedSuggester{inner: inner, metrics: metrics, now: time.Now}
}

func (s *instrumentedSuggester) Suggest(ctx context.Context, prompt SuggestionPrompt) (*SuggestionResult, error) {
	start := s.now()
	res, err := s.inner.Suggest(ctx, prompt)
	s.metrics.ObserveSuggestion("structured", suggestionStatus(err), s.now().Sub(start))
	if err == nil && res != nil {
		s.metrics.AddLearned("like", len(res.NewLikes))
		s.metrics.AddLearned("dislike", len(res.NewDislikes))
	}
	return res, err
}

func (s *instrumentedSuggester) SuggestText(ctx context.Context, prompt SuggestionPrompt) (string, error) {
	start := s.now()
	text, err := s.inner.SuggestText(ctx, prompt)
	s.metrics.ObserveSuggestion("text", suggestionStatus(err), s.now().Sub(start))
	return text, err
}

func suggestionStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, apierr.ErrConfiguration):
		return "unconfigured"
	default:
		return "error"
	}
}
