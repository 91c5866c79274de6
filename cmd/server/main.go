package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/dashboard"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/dataset"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/business/publish"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/platform/config"
	firestoreclient "github.com/weiwei-tsao/ev-dashboard/apps/api/internal/platform/firestore"
	apirouter "github.com/weiwei-tsao/ev-dashboard/apps/api/internal/platform/http"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/platform/logging"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/platform/metrics"
	"github.com/weiwei-tsao/ev-dashboard/apps/api/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	store := dataset.NewStore(dataset.NewSource(cfg.DatasetPath, nil), logger)
	store.OnLoad(metrics.ObserveLoad)

	firestoreClient, credsSource, err := firestoreclient.New(ctx, cfg)
	switch {
	case errors.Is(err, firestoreclient.ErrDisabled):
		logger.Info().Msg("firestore publishing disabled")
	case err != nil:
		logger.Fatal().Err(err).Msg("firestore init")
	default:
		defer firestoreClient.Close()
		if err := firestoreclient.Ping(ctx, firestoreClient); err != nil {
			logger.Fatal().Err(err).Msg("firestore ping")
		}
		logger.Info().
			Str("project", cfg.FirebaseProjectID).
			Str("credentials", credsSource).
			Msg("connected to Firestore")

		publisher := publish.NewPublisher(
			repository.NewRunRepository(firestoreClient),
			repository.NewStatsRepository(firestoreClient),
			logger,
		)
		store.OnLoad(publisher.OnLoad)
	}

	store.Start(ctx)

	svc := dashboard.NewService(store, cfg.TopN)
	router, err := apirouter.NewRouter(svc, apirouter.Options{
		AllowedOrigins: cfg.Origins(),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("router init")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()
	logger.Info().Str("port", cfg.Port).Str("dataset", cfg.DatasetPath).Msg("server listening")

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	logger.Info().Msg("server exited")
}
