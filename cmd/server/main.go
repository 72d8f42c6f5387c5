package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"

	"github.com/inkwell/inkwell/internal/app/migrate"
	"github.com/inkwell/inkwell/internal/config"
	httpx "github.com/inkwell/inkwell/internal/http"
	"github.com/inkwell/inkwell/internal/logger"
	"github.com/inkwell/inkwell/internal/repository/postgres"
	"github.com/inkwell/inkwell/internal/service/auth"
	"github.com/inkwell/inkwell/internal/service/post"
	"github.com/inkwell/inkwell/internal/session"
)

func main() {
	cfg := config.Load()
	log := logger.New("inkwell", slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	runner, err := migrate.New(pool, cfg.DatabaseURL, cfg.MigrationsDir, log)
	if err != nil {
		log.Error("failed to configure migrations", "error", err)
		os.Exit(1)
	}
	defer runner.Close()
	if err := runner.Ping(ctx); err != nil {
		log.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	if err := runner.Ensure(ctx); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	cancelPing()

	repo := postgres.New(pool)
	sessions := session.NewManager(rdb, cfg.JWTSecret, cfg.SessionTTL)

	authSvc := auth.New(repo, sessions, log, cfg.BcryptCost)
	postSvc := post.New(repo, log)

	limiter := httpx.NewMemoryRateLimiter()
	if redisLimiter, err := httpx.NewRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log); err != nil {
		log.Warn("redis rate limiter unavailable", "error", err)
	} else {
		limiter = redisLimiter
	}

	router := httpx.NewRouter(log, authSvc, postSvc, limiter, cfg, pool.Ping, sessions.Ping)
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", cfg.Addr)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
