package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zhravan/juztadrop-sub000/internal/config"
	"github.com/zhravan/juztadrop-sub000/internal/infrastructure/mail"
	"github.com/zhravan/juztadrop-sub000/pkg/redis"
)

func withMainHooks(t *testing.T) {
	t.Helper()
	origLoadDotenv := loadDotenv
	origLoadCfg := loadCfg
	origInitLog := initLog
	origInitRedis := initRedis
	origOpenSQL := openSQL
	origOpenGorm := openGorm
	origMigrate := migrate
	origRunServer := runServer
	origNotifyStop := notifyStop

	t.Cleanup(func() {
		loadDotenv = origLoadDotenv
		loadCfg = origLoadCfg
		initLog = origInitLog
		initRedis = origInitRedis
		openSQL = origOpenSQL
		openGorm = origOpenGorm
		migrate = origMigrate
		runServer = origRunServer
		notifyStop = origNotifyStop
		redis.SetClient(nil)
	})

	loadDotenv = func(...string) error { return errors.New("no .env") }
	initLog = func(string) {}
}

func baseTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:        "18080",
			Env:         "development",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Database: config.DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			DBName:   "juztadrop",
			SSLMode:  "disable",
		},
		Auth: config.AuthConfig{SharedSecret: "s3cret"},
		RateLimit: config.RateLimitConfig{
			OTPPerEmail: 5,
			OTPWindow:   15 * time.Minute,
			AuthPerIP:   100,
		},
		Jobs: config.JobsConfig{AuthCleanupInterval: time.Hour},
	}
}

func useSQLite(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	openSQL = func(config.DatabaseConfig) (*sql.DB, error) {
		return sql.Open("sqlite3", dsn)
	}
	openGorm = func(sqlDB *sql.DB) (*gorm.DB, error) {
		return gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{TranslateError: true})
	}
}

func TestRunMainProcess_RedisInitError(t *testing.T) {
	withMainHooks(t)
	cfg := baseTestConfig()
	cfg.Redis.URL = "redis://127.0.0.1:1"
	loadCfg = func() *config.Config { return cfg }
	initRedis = func(string, string) error { return errors.New("redis down") }

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize redis")
}

func TestRunMainProcess_DatabaseError(t *testing.T) {
	withMainHooks(t)
	loadCfg = baseTestConfig
	openSQL = func(config.DatabaseConfig) (*sql.DB, error) {
		return nil, errors.New("failed to ping database: refused")
	}

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping database")
}

func TestRunMainProcess_MigrateError(t *testing.T) {
	withMainHooks(t)
	cfg := baseTestConfig()
	cfg.Database.AutoMigrate = true
	loadCfg = func() *config.Config { return cfg }
	useSQLite(t)
	migrate = func(*gorm.DB) error { return errors.New("boom") }

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to migrate database")
}

func TestRunMainProcess_ServerError(t *testing.T) {
	withMainHooks(t)
	mr := miniredis.RunT(t)
	cfg := baseTestConfig()
	cfg.Redis.URL = "redis://" + mr.Addr()
	cfg.Database.AutoMigrate = true
	loadCfg = func() *config.Config { return cfg }
	useSQLite(t)

	var addr string
	runServer = func(srv *http.Server) error {
		addr = srv.Addr
		return errors.New("address in use")
	}

	err := runMainProcess()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start server")
	assert.Equal(t, ":18080", addr)
}

func TestRunMainProcess_ServerClosedIsClean(t *testing.T) {
	withMainHooks(t)
	loadCfg = baseTestConfig
	useSQLite(t)
	runServer = func(*http.Server) error { return http.ErrServerClosed }

	require.NoError(t, runMainProcess())
}

func TestRunMainProcess_GracefulShutdown(t *testing.T) {
	withMainHooks(t)
	loadCfg = baseTestConfig
	useSQLite(t)

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	runServer = func(*http.Server) error {
		<-release
		return http.ErrServerClosed
	}
	notifyStop = func(ctx context.Context) (context.Context, context.CancelFunc) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		return ctx, cancel
	}

	require.NoError(t, runMainProcess())
}

func TestRunMainProcess_EmptyRedisURLSkipsRedis(t *testing.T) {
	withMainHooks(t)
	loadCfg = baseTestConfig
	useSQLite(t)
	initRedis = func(string, string) error {
		t.Fatal("redis must not be initialized without REDIS_URL")
		return nil
	}
	runServer = func(*http.Server) error { return http.ErrServerClosed }

	require.NoError(t, runMainProcess())
}

func TestRunMainProcess_ProductionRequiresSMTP(t *testing.T) {
	withMainHooks(t)
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })
	loadCfg = func() *config.Config {
		cfg := baseTestConfig()
		cfg.Server.Env = "production"
		return cfg
	}
	useSQLite(t)
	runServer = func(*http.Server) error {
		t.Fatal("server must not start without a mail transport")
		return nil
	}

	err := runMainProcess()
	require.ErrorIs(t, err, mail.ErrSMTPRequired)
	assert.Contains(t, err.Error(), "failed to build app")
}
