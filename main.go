package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodgram-backend/config"
	"foodgram-backend/database"
	"foodgram-backend/handlers"
	"foodgram-backend/logging"
	"foodgram-backend/storage"
	"foodgram-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logging.Info().Msg("no .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	gin.SetMode(cfg.Server.Mode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.SeedTags(db); err != nil {
		logging.Fatal().Err(err).Msg("failed to seed default tags")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	images, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialise image storage")
	}

	router, err := handlers.NewRouter(handlers.Dependencies{
		DB:     db,
		Config: cfg,
		Images: images,
		Tokens: utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
