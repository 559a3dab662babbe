package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"centraldoconsumidor/backend/internal/advisor"
	"centraldoconsumidor/backend/internal/advisor/providers"
	"centraldoconsumidor/backend/internal/analysis"
	"centraldoconsumidor/backend/internal/api/handler"
	"centraldoconsumidor/backend/internal/api/middleware"
	"centraldoconsumidor/backend/internal/complaint"
	"centraldoconsumidor/backend/internal/config"
	"centraldoconsumidor/backend/internal/distribution"
	"centraldoconsumidor/backend/internal/escalation"
	"centraldoconsumidor/backend/internal/localization"
	"centraldoconsumidor/backend/internal/logging"
	"centraldoconsumidor/backend/internal/models"
	"centraldoconsumidor/backend/internal/notify"
	"centraldoconsumidor/backend/internal/reputation"
	"centraldoconsumidor/backend/internal/storage"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Complaint{},
		&models.Update{},
		&models.CompanyReputation{},
		&models.ReputationHistory{},
		&models.UserNotification{},
		&models.Escalation{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	slog.Info("database and redis connections established, migrations complete")
	return db, rdb
}

func main() {
	cfg := config.Load()
	logging.Init(cfg.SlogLevel(), cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	slog.Info("starting Central do Consumidor backend", "port", cfg.Port)

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	table, err := config.LoadChannelTable(cfg.ChannelTablePath)
	if err != nil {
		log.Fatalf("Failed to load channel table: %v", err)
	}
	scorer := analysis.NewScorer(table)

	provider, err := advisor.NewProvider(cfg.AdvisorProvider, providers.Config{
		APIKey: cfg.AdvisorAPIKey,
		Model:  cfg.AdvisorModel,
	})
	if err != nil {
		log.Fatalf("Failed to configure advisor: %v", err)
	}
	adv := advisor.NewService(provider)
	if !adv.Enabled() {
		slog.Info("mediation advisor disabled, rule-based advice only")
	}

	reputations := reputation.NewService(reputation.NewCalculator(s, time.Now), s, cfg.ReputationCacheTTL)
	complaints := complaint.NewService(s, scorer, reputations)
	orchestrator := distribution.NewOrchestrator(s, scorer, adv, nil)
	escalations := escalation.NewService(s)

	loc, err := localization.Default()
	if err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}
	tokens, err := middleware.NewTokenService(cfg.JWTSecret, 0)
	if err != nil {
		log.Fatalf("Failed to configure tokens: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RateLimit(s, cfg.RateLimit, cfg.RateLimitWindow, loc))
	h := handler.NewHandler(scorer, reputations, complaints, orchestrator, escalations, s, loc)
	h.Register(r, middleware.RequireUser(tokens, loc))

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	ctx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	hub := notify.NewHub(s, s)
	hub.On(models.NotificationComplaintUpdated, escalations.OnComplaintUpdated)
	go func() {
		if err := hub.Run(ctx); err != nil {
			slog.Error("notification hub stopped", "error", err)
		}
	}()

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	if err := rdb.Close(); err != nil {
		slog.Warn("redis close failed", "error", err)
	}
}
