package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealplanner-backend/internal/data/db"
	httpx "github.com/yungbote/mealplanner-backend/internal/http"
	"github.com/yungbote/mealplanner-backend/internal/observability"
	"github.com/yungbote/mealplanner-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *db.Handle
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *httpx.Server
	Metrics  *observability.Metrics

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// New loads configuration, opens the database and wires every layer. A
// missing JWT_SECRET or DSN is fatal here.
func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Options{
		Mode:             cfg.LogMode,
		Level:            cfg.LogLevel,
		DisableRedaction: !cfg.LogRedact,
		HashSalt:         cfg.LogHashSalt,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.LogMode == "production" || cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg.Tracing)
	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
		log.Info("Observability metrics enabled")
	}

	handle := db.NewHandleFromConfig(log, db.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	conn, err := handle.DB(ctx)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}

	clients := wireClients(log, cfg)
	reposet := wireRepos(conn, log)
	serviceset, err := wireServices(log, cfg, reposet, clients, metrics)
	if err != nil {
		clients.Close()
		_ = handle.Close()
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(log, serviceset)
	middleware := wireMiddleware(log, serviceset)

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           handle,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Server:       wireServer(log, cfg, handlerset, middleware, metrics),
		Metrics:      metrics,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background workers.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Services.Activity != nil {
		a.Services.Activity.Start(ctx)
	}
	if a.Metrics != nil {
		if conn, err := a.DB.DB(ctx); err == nil {
			a.Metrics.StartDBCollector(ctx, a.Log, conn, 0)
		}
	}
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Server listening", "addr", addr)
	return a.Server.Run(ctx, addr, a.Cfg.ShutdownTimeout)
}

// Close stops workers, then releases clients and the database.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
		if a.Services.Activity != nil {
			a.Services.Activity.Wait()
		}
	}
	a.Clients.Close()
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	a.Log.Sync()
}
