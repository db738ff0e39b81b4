// Command sweeper runs the maintenance sweeps once and exits: expired
// blacklist entries, refresh tokens, session tokens and email tokens
// are deleted. No request path ever triggers these deletes; schedule
// this binary (cron or similar) to bound table growth.
package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/consolehq/auth-service/internal/config"
	"github.com/consolehq/auth-service/internal/database"
	"github.com/consolehq/auth-service/internal/logger"
	"github.com/consolehq/auth-service/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Env)
	defer func() { _ = logger.Sync() }()
	log := logger.Named("sweeper")

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sweep(ctx, log, "blacklisted_tokens", repository.NewBlacklistRepo(db).RemoveExpired)
	sweep(ctx, log, "refresh_tokens", repository.NewRefreshTokenRepo(db).DeleteExpired)
	sweep(ctx, log, "session_tokens", repository.NewSessionRepo(db).DeleteExpired)
	sweep(ctx, log, "email_tokens", repository.NewEmailTokenRepo(db).DeleteExpired)
}

func sweep(ctx context.Context, log *zap.Logger, table string, fn func(context.Context) (int64, error)) {
	n, err := fn(ctx)
	if err != nil {
		log.Error("sweep failed", zap.String("table", table), zap.Error(err))
		return
	}
	log.Info("sweep done", zap.String("table", table), zap.Int64("removed", n))
}
