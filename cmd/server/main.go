package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"anamnesis/internal/cache"
	"anamnesis/internal/config"
	"anamnesis/internal/repository"
	"anamnesis/internal/service"
	"anamnesis/internal/transport/rest"
	"anamnesis/internal/transport/ws"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx := context.Background()
	cfg := config.Load()

	log.Info().
		Str("mongoDb", cfg.MongoDB).
		Bool("summaryEnabled", cfg.SummaryEnabled()).
		Msg("starting")

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	log.Info().Msg("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := cfg.RedisAddr
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping Redis")
	}
	log.Info().Msg("connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()

	// Initialize repositories
	formRepo := repository.NewFormRepo(db)
	intakeRepo := repository.NewIntakeRepo(db)

	// Initialize caches
	sessionCache := cache.NewSessionCache(rdb, cfg.SessionTTL)
	statsCache := cache.NewStatsCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(cfg)
	formSvc := service.NewFormService(formRepo)
	summaryClient := service.NewSummaryClient(cfg)
	sessionSvc := service.NewSessionService(formRepo, intakeRepo, sessionCache, statsCache, authSvc, summaryClient, cfg.SummaryEnabled())
	reviewSvc := service.NewReviewService(intakeRepo, statsCache)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	sessionSvc.SetBroadcaster(wsHub)
	reviewSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:        authSvc,
		FormService:        formSvc,
		SessionService:     sessionSvc,
		ReviewService:      reviewSvc,
		WSHub:              wsHub,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
