package app

import (
	"fmt"

	"github.com/yungbote/mealplanner-backend/internal/observability"
	"github.com/yungbote/mealplanner-backend/internal/platform/authtoken"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
	"github.com/yungbote/mealplanner-backend/internal/services"
)

type Services struct {
	Codec      *authtoken.Codec
	Auth       services.AuthService
	Session    services.SessionService
	Activity   services.ActivityTracker
	Meal       services.MealService
	Preference services.PreferenceService
	Inventory  services.InventoryService
	Suggestion services.SuggestionService
}

func wireServices(log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	codec, err := authtoken.NewCodec(authtoken.Config{
		Secret:       cfg.JWTSecret,
		TTL:          cfg.TokenTTL,
		ExtendedTTL:  cfg.TokenExtendedTTL,
		RotateWindow: cfg.TokenRotateWindow,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init token codec: %w", err)
	}

	activity := services.NewActivityTracker(log, repos.User, clients.ActivityGate, services.ActivityConfig{
		Throttle:  cfg.ActivityThrottle,
		Workers:   cfg.ActivityWorkers,
		QueueSize: cfg.ActivityQueueSize,
		Metrics:   metrics,
	})

	meals := services.NewMealService(log, repos.Meal, cfg.MealHistoryKeep)
	preferences := services.NewPreferenceService(log, repos.Preference)
	inventory := services.NewInventoryService(log, repos.Inventory)
	suggester := services.InstrumentSuggester(services.NewMealSuggester(log, clients.OpenAI), metrics)

	return Services{
		Codec:      codec,
		Auth:       services.NewAuthService(log, repos.User, codec),
		Session:    services.NewSessionService(log, codec, activity, codec.RotateWindow()),
		Activity:   activity,
		Meal:       meals,
		Preference: preferences,
		Inventory:  inventory,
		Suggestion: services.NewSuggestionService(log, meals, preferences, inventory, suggester),
	}, nil
}
