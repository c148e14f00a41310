// Command stubbackend runs a local stand-in for the auth backend.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"web_portal/internal/config"
	"web_portal/internal/logger"
	"web_portal/internal/repository/db"
	"web_portal/internal/server"
	"web_portal/internal/stubbackend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.Options{Level: logger.InfoLevel}).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "auth-stub"})
	defer func() { _ = log.Sync() }()

	sqlDB, err := db.InitDB(cfg.Stub.DBPath, db.StubSchema...)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.Stub.DBPath, "err", err)
	}
	defer func() { _ = sqlDB.Close() }()

	auth := stubbackend.NewAuthService(stubbackend.NewUserRepository(sqlDB), cfg.Stub.JWTSecret, cfg.Stub.TokenTTL)
	h := stubbackend.NewHandler(auth, log)

	srv := &server.Server{}
	go func() {
		if err := srv.Run(cfg.Stub.Port, h.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
	log.Infow("stub_backend_listening", "port", cfg.Stub.Port, "token_ttl", cfg.Stub.TokenTTL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
