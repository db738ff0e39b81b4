package main // Entry point package

import (
	"time"

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/consolehq/auth-service/internal/auth"
	"github.com/consolehq/auth-service/internal/config"
	"github.com/consolehq/auth-service/internal/database"
	"github.com/consolehq/auth-service/internal/handler"
	"github.com/consolehq/auth-service/internal/logger"
	"github.com/consolehq/auth-service/internal/middleware"
	"github.com/consolehq/auth-service/internal/queue"
	"github.com/consolehq/auth-service/internal/repository"
	"github.com/consolehq/auth-service/internal/router"
	queue_publisher "github.com/consolehq/auth-service/internal/service"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine outside local dev

	cfg := config.Load()
	logger.Init(cfg.Env)
	defer func() { _ = logger.Sync() }()
	log := logger.Named("server")

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	// Stores
	users := repository.NewUserRepo(db)
	refresh := repository.NewRefreshTokenRepo(db)
	sessions := repository.NewSessionRepo(db)
	blacklist := repository.NewBlacklistRepo(db)
	emailTokens := repository.NewEmailTokenRepo(db)

	svc := auth.New(auth.Config{
		JWTSecret:    cfg.JWTSecret,
		Issuer:       cfg.JWTIssuer,
		Audience:     cfg.JWTAudience,
		AccessTTLMin: cfg.AccessTTLMin,
		RefreshTTL:   time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour,
		EphemeralTTL: time.Duration(cfg.EphemeralTTLHours) * time.Hour,
		SessionTTL:   time.Duration(cfg.SessionTTLHours) * time.Hour,
		BcryptCost:   cfg.BcryptCost,
	}, auth.Deps{
		Users:       users,
		Refresh:     refresh,
		Sessions:    sessions,
		Blacklist:   blacklist,
		EmailTokens: emailTokens,
		Mail:        auth.EmailSenderFunc(queue_publisher.PublishEmailRequested),
	})

	// The consumer degrades to reconnect loops if the broker is away;
	// email delivery is never load bearing.
	go func() {
		if err := queue.StartEmailConsumer(); err != nil {
			log.Warn("email consumer stopped", zap.Error(err))
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	router.RegisterRoutes(e)

	// Rate limiting is optional: no Redis means no throttling, not a
	// dead service.
	var rateLimit echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		rateLimit = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	} else {
		log.Warn("redis unavailable, rate limiting disabled")
	}

	authHandler := handler.NewAuthHandler(svc)
	passwordHandler := handler.NewPasswordHandler(svc)
	emailHandler := handler.NewEmailHandler(svc, cfg.Env == "dev")

	switch cfg.AuthMode {
	case config.ModeSession:
		router.RegisterSession(e, router.SessionDeps{
			Session:   handler.NewSessionHandler(svc),
			Auth:      authHandler,
			Password:  passwordHandler,
			Svc:       svc,
			RateLimit: rateLimit,
		})
	default:
		router.RegisterAuth(e, router.AuthDeps{
			Auth:      authHandler,
			Password:  passwordHandler,
			Email:     emailHandler,
			JWT:       middleware.JWTAuth(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, blacklist),
			RateLimit: rateLimit,
		})
	}

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("mode", cfg.AuthMode))

	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
