package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func resetLogger(t *testing.T) {
	t.Helper()
	origBuild := buildLogger
	t.Cleanup(func() {
		buildLogger = origBuild
		SetLogger(nil)
		once = sync.Once{}
	})
	SetLogger(nil)
	once = sync.Once{}
}

func TestLogger_NopBeforeInit(t *testing.T) {
	resetLogger(t)

	require.NotNil(t, GetLogger())
	Info(context.Background(), "dropped")
	require.NotNil(t, WithContext(nil))
}

func TestInitAndContextLogging(t *testing.T) {
	resetLogger(t)
	Init("development")
	require.NotNil(t, GetLogger())

	ctx := ContextWithRequestID(context.Background(), "req-1")
	Info(ctx, "info")
	Debug(ctx, "debug")
	Warn(ctx, "warn")
	Error(ctx, "error")
	LogRequest(ctx, "GET", "/health", 200, 10*time.Millisecond, "127.0.0.1")
	Sync()
}

func TestWithContext_AddsRequestID(t *testing.T) {
	resetLogger(t)
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(zap.New(core))

	Info(ContextWithRequestID(context.Background(), "req-42"), "otp issued")
	Info(context.Background(), "no id")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	_, has := entries[1].ContextMap()["request_id"]
	require.False(t, has)
}

func TestInit_ProductionOnlyOnce(t *testing.T) {
	resetLogger(t)
	Init("production")
	first := GetLogger()
	Init("development")
	require.Same(t, first, GetLogger())
}

func TestInit_PanicWhenLoggerBuildFails(t *testing.T) {
	resetLogger(t)
	buildLogger = func(zap.Config) (*zap.Logger, error) {
		return nil, errors.New("build failed")
	}

	require.Panics(t, func() { Init("production") })
}
