package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zhravan/juztadrop-sub000/internal/config"
	"github.com/zhravan/juztadrop-sub000/internal/domain/entities"
	"github.com/zhravan/juztadrop-sub000/internal/infrastructure/datasources/postgres"
	"github.com/zhravan/juztadrop-sub000/internal/infrastructure/jobs"
	"github.com/zhravan/juztadrop-sub000/internal/infrastructure/mail"
	"github.com/zhravan/juztadrop-sub000/internal/infrastructure/repositories"
	"github.com/zhravan/juztadrop-sub000/internal/interfaces/http/handlers"
	"github.com/zhravan/juztadrop-sub000/internal/interfaces/http/middleware"
	"github.com/zhravan/juztadrop-sub000/internal/usecases"
	"github.com/zhravan/juztadrop-sub000/pkg/logger"
	"github.com/zhravan/juztadrop-sub000/pkg/metrics"
	"github.com/zhravan/juztadrop-sub000/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openSQL    = postgres.NewConnection
	openGorm   = postgres.NewGormDB
	migrate    = postgres.AutoMigrate
	runServer  = func(srv *http.Server) error { return srv.ListenAndServe() }
	notifyStop = func(ctx context.Context) (context.Context, context.CancelFunc) {
		return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	}
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

// app is the composition root: everything the server needs, built once.
type app struct {
	router  *gin.Engine
	cleanup *jobs.AuthCleanupJob
}

func buildApp(cfg *config.Config, db *gorm.DB, rdb *goredis.Client, m *metrics.Metrics) (*app, error) {
	userRepo := repositories.NewUserRepository(db)
	moderatorRepo := repositories.NewModeratorRepository(db)
	otpRepo := repositories.NewOtpTokenRepository(db)
	userSessionRepo := repositories.NewSessionRepository(db, entities.PrincipalUser)
	moderatorSessionRepo := repositories.NewSessionRepository(db, entities.PrincipalModerator)
	uow := repositories.NewUnitOfWork(db)

	var otpLimiter usecases.OtpRateLimiter
	if rdb != nil {
		otpLimiter = redis.NewSlidingWindowLimiter(rdb, "otp:send:", cfg.RateLimit.OTPPerEmail, cfg.RateLimit.OTPWindow)
	}

	mailer, err := mail.NewMailer(cfg.Mail, cfg.Server.IsProduction())
	if err != nil {
		return nil, err
	}

	otpUsecase := usecases.NewOtpUsecase(otpRepo, mailer, otpLimiter, m)
	userSessions := usecases.NewUserSessionManager(userSessionRepo, userRepo, m)
	moderatorSessions := usecases.NewModeratorSessionManager(moderatorSessionRepo, moderatorRepo, m)
	authUsecase := usecases.NewAuthUsecase(otpUsecase, userRepo, userSessions)
	moderatorUsecase := usecases.NewModeratorUsecase(otpUsecase, userRepo, moderatorRepo, uow, moderatorSessions, userSessions)

	secure := cfg.Server.IsProduction()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(m))

	applyCORSMiddleware(r, cfg.Server.CORSOrigins)
	registerHealthRoute(r)
	registerMetricsRoute(r, m)
	registerRoutes(r, routeDeps{
		authHandler:          handlers.NewAuthHandler(authUsecase, secure),
		moderatorAuthHandler: handlers.NewModeratorAuthHandler(moderatorUsecase, secure),
		moderatorHandler:     handlers.NewModeratorHandler(moderatorUsecase),
		userSessions:         authUsecase,
		moderatorSessions:    moderatorUsecase,
		sharedSecret:         middleware.RequireSharedSecret(cfg.Auth.SharedSecret),
		otpRateLimit:         middleware.RateLimitByIP(middleware.NewIPRateLimiter(cfg.RateLimit.AuthPerIP), m),
	})

	cleanup := jobs.NewAuthCleanupJob(otpRepo, cfg.Jobs.AuthCleanupInterval, userSessionRepo, moderatorSessionRepo)
	return &app{router: r, cleanup: cleanup}, nil
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if cfg.Auth.SharedSecret == "" {
		logger.Warn(ctx, "X_AUTH_ID is not set; moderator admin routes will reject every request")
	}

	var rdb *goredis.Client
	if cfg.Redis.URL != "" {
		if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
			logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer redis.Close()
		rdb = redis.GetClient()
		logger.Info(ctx, "Redis initialized")
	} else {
		logger.Warn(ctx, "REDIS_URL is empty; OTP rate limiting disabled")
	}

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	sqlDB, err := openSQL(cfg.Database)
	if err != nil {
		return err
	}
	defer closeDB(sqlDB)

	db, err := openGorm(sqlDB)
	if err != nil {
		return err
	}
	logger.Info(ctx, "Connected to PostgreSQL")

	if cfg.Database.AutoMigrate {
		if err := migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info(ctx, "Database schema migrated")
	}

	a, err := buildApp(cfg, db, rdb, metrics.New())
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}

	runCtx, stop := notifyStop(ctx)
	defer stop()

	go a.cleanup.Start(runCtx)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Server starting", zap.String("port", cfg.Server.Port))
		errCh <- runServer(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-runCtx.Done():
	}

	logger.Info(ctx, "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		logger.Warn(context.Background(), "failed to close database", zap.Error(err))
	}
}
