package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/mealplanner-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mealplanner-backend/internal/http/middleware"
	"github.com/yungbote/mealplanner-backend/internal/observability"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	AuthHandler       *httpH.AuthHandler
	UserHandler       *httpH.UserHandler
	MealHandler       *httpH.MealHandler
	PreferenceHandler *httpH.PreferenceHandler
	InventoryHandler  *httpH.InventoryHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")

	// Auth (public)
	if cfg.AuthHandler != nil {
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
	}

	protected := api.Group("")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}
	{
		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		// Meals
		if cfg.MealHandler != nil {
			protected.POST("/meals/suggest", cfg.MealHandler.Suggest)
			protected.GET("/meals", cfg.MealHandler.List)
			protected.POST("/meals", cfg.MealHandler.Create)
			protected.PATCH("/meals/:id/rating", cfg.MealHandler.UpdateRating)
			protected.DELETE("/meals/:id", cfg.MealHandler.Delete)
			protected.POST("/meals/cleanup", cfg.MealHandler.Cleanup)
		}

		// Preferences
		if cfg.PreferenceHandler != nil {
			protected.GET("/preferences", cfg.PreferenceHandler.Get)
			protected.PUT("/preferences", cfg.PreferenceHandler.Update)
			protected.DELETE("/preferences/:kind/:item", cfg.PreferenceHandler.RemoveItem)
		}

		// Inventory
		if cfg.InventoryHandler != nil {
			protected.GET("/inventory", cfg.InventoryHandler.List)
			protected.POST("/inventory", cfg.InventoryHandler.Add)
			protected.GET("/inventory/expiring", cfg.InventoryHandler.Expiring)
			protected.PATCH("/inventory/:id", cfg.InventoryHandler.UpdateQuantity)
			protected.DELETE("/inventory/:id", cfg.InventoryHandler.Remove)
		}
	}

	return r
}
