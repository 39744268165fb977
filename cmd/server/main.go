package main

import (
	"context"
	"log"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"stockboard/internal/cache"
	"stockboard/internal/classify"
	"stockboard/internal/config"
	"stockboard/internal/domain"
	"stockboard/internal/handler"
	"stockboard/internal/job"
	"stockboard/internal/provider"
	"stockboard/internal/sentiment"
	"stockboard/internal/service"
	"stockboard/pkg/tracing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "stockboard/docs"
)

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	initRedisFunc  = cache.InitRedis
	initTracerFunc = tracing.InitTracer
	newScorerFunc  = func(cfg *config.Config) sentiment.Scorer {
		if cfg.OpenAIAPIKey == "" {
			log.Println("Warning: OPENAI_API_KEY not set, using neutral sentiment")
			return sentiment.NeutralScorer{}
		}
		return sentiment.NewOpenAIScorer(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
	newClassifierFunc = func(cfg *config.Config) classify.Classifier {
		var c classify.Classifier = classify.NewRuleClassifier()
		if cfg.AnomalyDampEnabled {
			c = classify.NewAnomalyDamper(c, cfg.AnomalyThreshold, cfg.AnomalyTrees)
		}
		return c
	}
	newMarketDataFunc = func(cfg *config.Config) *provider.YahooProvider {
		return provider.NewYahooProvider(cfg.HTTPTimeout)
	}
	newAnalyzerFunc        = service.NewAnalyzerService
	newPortfolioFunc       = service.NewPortfolioService
	newRefreshPollerFunc   = job.NewRefreshPoller
	startPollerFunc        = func(p *job.RefreshPoller, ctx context.Context) { go p.Start(ctx) }
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Stockboard API
// @version         1.0
// @description     Stock analysis dashboard with technical indicators and recommendations.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initRedisFunc(cfg.RedisURL)

	tracer, shutdownTracer, err := initTracerFunc(ctx, "stockboard")
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Market data: the snapshot pipeline reads through Redis, the live
	// prediction endpoint deliberately goes straight to the source.
	yahoo := newMarketDataFunc(cfg)
	cachedMarket := provider.NewCachedProvider(yahoo, cache.Client, cfg.MarketOpenTTL)

	scorer := newScorerFunc(cfg)
	classifier := newClassifierFunc(cfg)

	analyzer := newAnalyzerFunc(cachedMarket, scorer, classifier, cfg.HistoryDays, tracer)
	liveAnalyzer := newAnalyzerFunc(yahoo, scorer, classifier, cfg.HistoryDays, tracer)
	portfolio := newPortfolioFunc(analyzer, cfg.AnalyzerWorkers, tracer)

	store := cache.NewFileStore(cfg.SnapshotPath)
	gate := cache.NewGate(store, func(ctx context.Context) (*domain.Snapshot, error) {
		return portfolio.BuildSnapshot(ctx, domain.Universe())
	}, cfg.MarketOpen, cfg.MarketOpenTTL, cfg.MarketClosedTTL, tracer)

	poller := newRefreshPollerFunc(gate, cfg.RefreshPoll, tracer)
	startPollerFunc(poller, ctx)

	h := newHandlerFunc(gate, cachedMarket, liveAnalyzer, cfg.WebDir, tracer)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("stockboard"))
	r.Use(cors.Default())

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
