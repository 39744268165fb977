package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"stockboard/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Analyzer is the per-symbol pipeline the portfolio service fans out over.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string) *domain.StockAnalysis
}

// PortfolioService analyzes a whole watchlist with a bounded worker pool
// and assembles the results into a snapshot. The output always contains
// exactly one record per requested symbol, in request order, no matter how
// many symbols fail upstream.
type PortfolioService struct {
	analyzer Analyzer
	workers  int
	tracer   trace.Tracer

	now func() time.Time
}

func NewPortfolioService(analyzer Analyzer, workers int, tracer trace.Tracer) *PortfolioService {
	if workers <= 0 {
		workers = 4
	}
	return &PortfolioService{
		analyzer: analyzer,
		workers:  workers,
		tracer:   tracer,
		now:      time.Now,
	}
}

// BuildSnapshot runs the analysis pass over the given symbols.
func (s *PortfolioService) BuildSnapshot(ctx context.Context, symbols []string) (*domain.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "service.build-snapshot",
		trace.WithAttributes(attribute.Int("portfolio.symbols", len(symbols))))
	defer span.End()

	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols to analyze")
	}

	results := make([]*domain.StockAnalysis, len(symbols))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := s.workers
	if workers > len(symbols) {
		workers = len(symbols)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.analyzeGuarded(ctx, symbols[i])
			}
		}()
	}
	for i := range symbols {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	snap := &domain.Snapshot{
		Stocks:      make([]domain.StockAnalysis, 0, len(symbols)),
		Summary:     map[domain.Recommendation]int{},
		LastUpdated: s.now().Format(domain.SnapshotTimeFormat),
	}
	for _, rec := range []domain.Recommendation{
		domain.RecommendBuy, domain.RecommendHold, domain.RecommendSell, domain.RecommendUnknown,
	} {
		snap.Summary[rec] = 0
	}
	for _, r := range results {
		snap.Stocks = append(snap.Stocks, *r)
		snap.Summary[r.Recommendation]++
	}
	return snap, nil
}

// analyzeGuarded never lets one symbol sink the pass, even if the analyzer
// itself misbehaves.
func (s *PortfolioService) analyzeGuarded(ctx context.Context, symbol string) (result *domain.StockAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Warning: analyzer panicked for %s: %v", symbol, r)
			result = &domain.StockAnalysis{
				Symbol:         symbol,
				Name:           symbol,
				Indicators:     domain.NAIndicatorSet(),
				Recommendation: domain.RecommendUnknown,
				Reason:         "Market data unavailable; no recommendation possible.",
				Source:         domain.SourceDegraded,
			}
		}
	}()
	return s.analyzer.Analyze(ctx, symbol)
}
