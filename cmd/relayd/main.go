package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/suar-net/relay/internal/config"
	"github.com/suar-net/relay/internal/database"
	"github.com/suar-net/relay/internal/handler"
	"github.com/suar-net/relay/internal/logger"
	"github.com/suar-net/relay/internal/ratelimit"
	"github.com/suar-net/relay/internal/repository"
	"github.com/suar-net/relay/internal/service"
	"github.com/suar-net/relay/internal/transport"
	"github.com/suar-net/relay/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables from OS")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(cfg.Log)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	appLogger.Info().Msg("connected to database")

	repo := repository.NewRepository(db)
	pacer := ratelimit.NewPacer(cfg.Relay.MinInterval, cfg.Relay.Burst)
	dispatcher := transport.NewDispatcher(transport.Config{
		Scheme:    cfg.Relay.Scheme,
		UserAgent: cfg.Relay.UserAgent,
	})

	hub := ws.NewHub(appLogger)
	go hub.Run()

	relayService := service.NewRelayService(dispatcher, pacer, repo.Relay(), hub, appLogger)
	authService := service.NewAuthService(repo.User(), cfg.JWT)

	router := handler.SetupRouter(relayService, authService, db, pacer, hub, appLogger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Str("port", cfg.Server.Port).Msg("cannot run server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	appLogger.Info().Msg("shutting down the server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal().Err(err).Msg("server shutdown failed")
	}
	appLogger.Info().Msg("server successfully shut down")
}
