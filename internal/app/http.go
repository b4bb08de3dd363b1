package app

import (
	httpx "github.com/yungbote/mealplanner-backend/internal/http"
	httpH "github.com/yungbote/mealplanner-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mealplanner-backend/internal/http/middleware"
	"github.com/yungbote/mealplanner-backend/internal/observability"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Meal       *httpH.MealHandler
	Preference *httpH.PreferenceHandler
	Inventory  *httpH.InventoryHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Auth:       httpH.NewAuthHandler(log, services.Auth),
		User:       httpH.NewUserHandler(log, services.Auth),
		Meal:       httpH.NewMealHandler(log, services.Meal, services.Suggestion),
		Preference: httpH.NewPreferenceHandler(log, services.Preference),
		Inventory:  httpH.NewInventoryHandler(log, services.Inventory),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Session),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *httpx.Server {
	return httpx.NewServer(httpx.RouterConfig{
		Log:               log,
		ServiceName:       cfg.ServiceName,
		CORSOrigins:       cfg.CORSOrigins,
		Metrics:           metrics,
		AuthMiddleware:    middleware.Auth,
		HealthHandler:     handlers.Health,
		AuthHandler:       handlers.Auth,
		UserHandler:       handlers.User,
		MealHandler:       handlers.Meal,
		PreferenceHandler: handlers.Preference,
		InventoryHandler:  handlers.Inventory,
	})
}
