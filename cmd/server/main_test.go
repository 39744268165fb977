package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stockboard/internal/config"
	"stockboard/internal/job"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps(t)
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func stubServerDeps(t *testing.T) func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origStartPoller := startPollerFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	snapshotPath := filepath.Join(t.TempDir(), "snapshot.json")

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			Port:            "0",
			SnapshotPath:    snapshotPath,
			HistoryDays:     60,
			HTTPTimeout:     time.Second,
			AnalyzerWorkers: 1,
			RefreshPoll:     time.Hour,
			MarketOpenTTL:   5 * time.Minute,
			MarketClosedTTL: 30 * time.Minute,
			MarketTimezone:  "America/New_York",
			OpenAIModel:     "gpt-4o-mini",
		}
	}
	initRedisFunc = func(string) {}
	initTracerFunc = func(ctx context.Context, serviceName string) (trace.Tracer, func(context.Context) error, error) {
		return trace.NewNoopTracerProvider().Tracer("test"),
			func(context.Context) error { return nil }, nil
	}
	startPollerFunc = func(p *job.RefreshPoller, ctx context.Context) {}
	newRouterFunc = gin.New
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(quit <-chan os.Signal) {}
	startHTTPServerFunc = func(srv *http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		startPollerFunc = origStartPoller
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}
