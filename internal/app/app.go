// Package app configures and runs application.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	ginpprof "github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/school-management-toolkit/registrar/config"
	"github.com/school-management-toolkit/registrar/internal/controller/httpapi"
	"github.com/school-management-toolkit/registrar/internal/usecase"
	"github.com/school-management-toolkit/registrar/internal/usecase/auth"
	"github.com/school-management-toolkit/registrar/internal/usecase/security"
	"github.com/school-management-toolkit/registrar/pkg/db"
	"github.com/school-management-toolkit/registrar/pkg/httpserver"
	"github.com/school-management-toolkit/registrar/pkg/logger"
)

var Version = "DEVELOPMENT"

// SecretStore holds the secret-store client for credential sync (set during
// startup when a store is configured).
var SecretStore auth.SecretStore

// Run creates objects via constructors.
func Run(cfg *config.Config) {
	log := logger.New(cfg.Level)
	cfg.Version = Version
	log.Info("app - Run - version: %s", cfg.Version)
	// route standard and Gin logs through our JSON logger
	logger.SetupStdLog(log)
	logger.SetupGin(log)

	// Repository
	database, err := db.New(cfg.DB.URL, sql.Open, db.MaxPoolSize(cfg.PoolMax), db.EnableForeignKeys(true))
	if err != nil {
		log.Fatal(fmt.Errorf("app - Run - db.New: %w", err))
	}

	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatal(fmt.Errorf("app - Run - database.Migrate: %w", err))
	}

	// Security core and its maintenance task
	securityManager := security.New(cfg, log)

	cleaner := securityManager.NewCleaner()
	cleaner.Start()

	// Use case
	usecases := usecase.NewUseCases(database, securityManager, SecretStore, log)

	if cfg.Auth.AdminUsername != "" && cfg.Auth.AdminPassword != "" {
		if err := usecases.Auth.EnsureAdmin(context.Background(), cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			log.Fatal(fmt.Errorf("app - Run - EnsureAdmin: %w", err))
		}
	}

	handler := setupHTTPHandler(cfg, log, usecases)

	httpServer := httpserver.New(
		handler,
		httpserver.Port(cfg.Host, cfg.Port),
		httpserver.TLS(cfg.TLS.Enabled, cfg.TLS.CertFile, cfg.TLS.KeyFile),
		httpserver.Logger(log),
	)

	waitForShutdown(log, httpServer)
	shutdownServers(log, httpServer, cleaner)
}

func setupHTTPHandler(cfg *config.Config, log logger.Interface, usecases *usecase.Usecases) *gin.Engine {
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := gin.New()

	defaultConfig := cors.DefaultConfig()
	defaultConfig.AllowOrigins = cfg.AllowedOrigins
	defaultConfig.AllowHeaders = cfg.AllowedHeaders

	handler.Use(cors.New(defaultConfig))
	httpapi.NewRouter(handler, log, usecases, cfg)

	// Optionally enable pprof endpoints (e.g., for staging) via env ENABLE_PPROF=true
	if os.Getenv("ENABLE_PPROF") == "true" {
		ginpprof.Register(handler, "debug/pprof")
		log.Info("pprof enabled at /debug/pprof/")
	}

	return handler
}

func waitForShutdown(log logger.Interface, httpServer *httpserver.Server) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app - Run - signal: " + s.String())
	case err := <-httpServer.Notify():
		log.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}
}

func shutdownServers(log logger.Interface, httpServer *httpserver.Server, cleaner *security.Cleaner) {
	cleaner.Stop()

	if err := httpServer.Shutdown(); err != nil {
		log.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}
}
