package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"web_portal/internal/api"
	"web_portal/internal/config"
	"web_portal/internal/handlers"
	"web_portal/internal/logger"
	"web_portal/internal/repository"
	"web_portal/internal/repository/db"
	"web_portal/internal/server"
	"web_portal/internal/service"
	"web_portal/internal/session"

	_ "web_portal/docs"
)

const shutdownTimeout = 10 * time.Second

// @title        Web Portal API
// @version      1.0
// @description  Session backend-for-frontend in front of the auth service.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.Options{Level: logger.InfoLevel}).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: cfg.ServiceName})
	defer func() { _ = log.Sync() }()

	sqlDB, err := db.InitDB(cfg.DB.Path, db.PortalSchema...)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB, cfg.BrowserContext())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := session.New(ctx, repos.Tokens, log)
	if err != nil {
		log.Fatalw("failed to load session", "err", err)
	}
	defer store.Close()

	client := api.New(cfg.APIBaseURL(), repos.Tokens,
		api.WithLogger(log),
		api.WithTimeout(cfg.API.Timeout),
	)
	services := service.NewService(repos, store, client, log)
	apiHandler := handlers.NewHandler(services, cfg.ServiceName, log)

	log.Infow("portal_starting",
		"port", cfg.Port,
		"runtime", cfg.Runtime,
		"api_base_url", client.BaseURL(),
		"token_persisted", store.State().Authenticated(),
	)

	// rehydrate the user behind a persisted token; failures leave the session as is
	if store.State().Authenticated() {
		go func() {
			if resp := services.Authorization.Restore(ctx); !resp.Ok() {
				log.Warnw("session_restore_failed", "status", resp.Status, "error", resp.Error)
			}
		}()
	}

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
