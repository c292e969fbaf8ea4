package bootstrap

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/campusarc/campusarc/config"
	"github.com/campusarc/campusarc/internal/adapters/redisstore"
	httpx "github.com/campusarc/campusarc/internal/http"
	"github.com/campusarc/campusarc/internal/service"
	"github.com/redis/go-redis/v9"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config      *config.AppConfig
	Sessions    *service.SessionManager
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
		appCfg.Sanitize()
	}

	services := httpx.RouterServices{
		Sessions: cfg.Sessions,
		Guards: httpx.GuardTargets{
			Login:             appCfg.Guards.Login,
			Unauthorized:      appCfg.Guards.Unauthorized,
			ProfileCompletion: appCfg.Guards.ProfileCompletion,
			DefaultLanding:    appCfg.Guards.DefaultLanding,
			AdminLanding:      appCfg.Guards.AdminLanding,
		},
		CookieDomain: appCfg.HTTP.CookieDomain,
		SessionTTL:   appCfg.Redis.SessionTTL,
		IsDev:        appCfg.IsDev,
		Logger:       logger,
	}
	if cfg.RedisClient != nil {
		services.Web = redisstore.NewSessionStore(cfg.RedisClient)
	}

	handler := httpx.NewRouter(services)
	handler = httpx.Logging(logger)(handler)
	handler = httpx.Recover(logger)(handler)

	server := &http.Server{
		Addr:         appCfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  appCfg.HTTP.ReadTimeout,
		WriteTimeout: appCfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) {
	if server == nil {
		return
	}
	if err := server.Shutdown(ctx); err != nil {
		if logger != nil {
			logger.Error("HTTP server shutdown failed", "error", err)
		}
		return
	}
	if logger != nil {
		logger.Info("HTTP server stopped")
	}
}
