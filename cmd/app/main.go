package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"promptcraft/config"
	"promptcraft/internal/application/usecase"
	"promptcraft/internal/domain"
	"promptcraft/internal/gamification"
	"promptcraft/internal/infrastructure/cache"
	"promptcraft/internal/infrastructure/repository"
	"promptcraft/internal/infrastructure/security"
	"promptcraft/internal/middleware"
	"promptcraft/internal/pkg/logger"
	handlers "promptcraft/internal/transport/http"
	"promptcraft/internal/transport/ws"
)

const reconcileInterval = 6 * time.Hour

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Error("invalid timezone, falling back to UTC", "timezone", cfg.Timezone, "err", err)
		loc = time.UTC
	}

	curve, err := gamification.NewLevelCurve(cfg.BaseXPPerLevel, cfg.XPMultiplier)
	if err != nil {
		log.Error("invalid level curve", "err", err)
		os.Exit(1)
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Error("failed to connect to postgres", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(repository.AllModels()...); err != nil {
		log.Error("failed to migrate schema", "err", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Error("failed to connect to redis", "addr", cfg.RedisAddr, "err", err)
		os.Exit(1)
	}

	store := repository.NewStore(db)
	lb := cache.NewLeaderboard(rdb, loc)
	tokenCache := cache.NewTokenCache(rdb, cfg.RefreshTokenTTL)
	hasher := security.NewPasswordHasher()
	tokenManager := security.NewTokenManager(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	hub := ws.NewHub(log)

	engineCfg := usecase.EngineConfig{
		Location:          loc,
		StreakResetHour:   cfg.StreakResetHour,
		StreakBonusRate:   cfg.StreakBonusRate,
		StreakBonusCap:    cfg.StreakBonusCap,
		MaxStreakFreezes:  cfg.MaxStreakFreezes,
		DailyGoalRewardXP: cfg.XPDailyGoalReward,
	}
	puzzleRewards := map[domain.PuzzleDifficulty]int{
		domain.PuzzleEasy:   cfg.XPPuzzleEasy,
		domain.PuzzleMedium: cfg.XPPuzzleMedium,
		domain.PuzzleHard:   cfg.XPPuzzleHard,
	}

	engine := usecase.NewAwardUseCase(store, lb, hub, curve, engineCfg, log)
	gamUC := usecase.NewGamificationUseCase(store, lb, hub, curve, engineCfg, cfg.StreakFreezeCostXP, log)
	lessonUC := usecase.NewLessonUseCase(store, engine, cfg.XPLessonComplete)
	puzzleUC := usecase.NewPuzzleUseCase(store, engine, puzzleRewards)
	exerciseUC := usecase.NewExerciseUseCase(store, engine)
	challengeUC := usecase.NewChallengeUseCase(store, engine, engineCfg)
	authUC := usecase.NewAuthUseCase(store, tokenCache, hasher, tokenManager, log)
	reconcileUC := usecase.NewReconcileUseCase(store, log)

	wsHandler := ws.NewHandler(hub, func(token string) (uuid.UUID, error) {
		return authUC.ValidateAccess(context.Background(), token)
	}, cfg.CORSOrigins, log)

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:         handlers.NewAuthHandler(authUC),
		Gamification: handlers.NewGamificationHandler(gamUC),
		Content:      handlers.NewContentHandler(lessonUC, puzzleUC, exerciseUC, challengeUC),
		Admin:        handlers.NewAdminHandler(gamUC, reconcileUC),
		WS:           wsHandler,
		Limiter:      middleware.NewRateLimiter(rdb),
		Validator:    authUC,
		AdminAPIKey:  cfg.AdminAPIKey,
		CORSOrigins:  cfg.CORSOrigins,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go reconcileUC.RunPeriodic(ctx, reconcileInterval)

	srv := &http.Server{
		Addr:    cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("server listening", "addr", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("shutting down")
	cancel()
	hub.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}
}
