package service

import (
	"context"
	"log"
	"math"

	"stockboard/internal/classify"
	"stockboard/internal/domain"
	"stockboard/internal/indicator"
	"stockboard/internal/sentiment"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Trading-day lookbacks for the percent-change fields.
const (
	lookback2W = 10
	lookback5D = 5
)

// MarketData is the slice of the provider surface the analyzer consumes.
type MarketData interface {
	Quote(ctx context.Context, symbol string) *domain.Quote
	History(ctx context.Context, symbol string, days int) ([]domain.PriceBar, error)
}

// AnalyzerService runs the full per-symbol pipeline: quote, history,
// indicators, sentiment, classification. Analyze never fails: when upstream
// data cannot be obtained the result is a degraded record that says so,
// carrying UNKNOWN instead of a fabricated recommendation.
type AnalyzerService struct {
	market      MarketData
	scorer      sentiment.Scorer
	classifier  classify.Classifier
	engine      *indicator.Engine
	historyDays int
	tracer      trace.Tracer
}

func NewAnalyzerService(market MarketData, scorer sentiment.Scorer, classifier classify.Classifier, historyDays int, tracer trace.Tracer) *AnalyzerService {
	if historyDays <= 0 {
		historyDays = 60
	}
	return &AnalyzerService{
		market:      market,
		scorer:      scorer,
		classifier:  classifier,
		engine:      indicator.NewEngine(),
		historyDays: historyDays,
		tracer:      tracer,
	}
}

// Analyze produces the analysis record for one symbol.
func (s *AnalyzerService) Analyze(ctx context.Context, symbol string) *domain.StockAnalysis {
	return s.analyze(ctx, symbol, false)
}

// AnalyzeLive is the on-demand variant behind the live-prediction endpoint.
// It folds the freshest quote price into the close series as a synthetic
// latest observation, so the indicators react to intraday movement that
// daily bars have not captured yet.
func (s *AnalyzerService) AnalyzeLive(ctx context.Context, symbol string) *domain.StockAnalysis {
	return s.analyze(ctx, symbol, true)
}

func (s *AnalyzerService) analyze(ctx context.Context, symbol string, foldLivePrice bool) (result *domain.StockAnalysis) {
	spanName := "service.analyze-stock"
	if foldLivePrice {
		spanName = "service.live-prediction"
	}
	ctx, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(attribute.String("stock.symbol", symbol)))
	defer span.End()

	// A panic anywhere in the pipeline must not take down the whole pass.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Warning: analysis panicked for %s: %v", symbol, r)
			result = degradedRecord(symbol, nil)
		}
	}()

	quote := s.market.Quote(ctx, symbol)

	history, err := s.market.History(ctx, symbol, s.historyDays)
	if err != nil || len(history) < 2 {
		if err != nil {
			log.Printf("Warning: no history for %s: %v", symbol, err)
		}
		return degradedRecord(symbol, quote)
	}

	closes := make([]float64, 0, len(history)+1)
	volumes := make([]float64, 0, len(history))
	for _, bar := range history {
		closes = append(closes, bar.Close)
		volumes = append(volumes, bar.Volume)
	}
	if foldLivePrice && quote.Price != nil && *quote.Price > 0 {
		closes = append(closes, *quote.Price)
	}

	rsi := s.engine.RSI(closes, indicator.RSIPeriod)
	macd := s.engine.MACD(closes)
	volumeTrend := s.engine.VolumeTrend(volumes)
	pc2w := indicator.PercentChange(closes, lookback2W)
	pc5d := indicator.PercentChange(closes, lookback5D)
	trend := s.engine.TrendVote(rsi, macd, volumeTrend, pc2w)
	high, low := indicator.HighLow(closes)

	sentimentScore, sentimentSummary, err := s.scorer.Score(ctx, symbol)
	if err != nil {
		sentimentScore = 0
		sentimentSummary = "Sentiment analysis unavailable; treating news flow as neutral."
	}

	indicators := domain.IndicatorSet{
		RSI:         rsi,
		MACD:        macd,
		VolumeTrend: volumeTrend,
		Trend:       trend,
	}
	rec, reason := s.classifier.Classify(classify.Features{
		Indicators:    indicators,
		PercentChange: pc2w,
		Sentiment:     sentimentScore,
		Volatility:    indicator.Volatility(closes),
		History:       history,
	})
	span.SetAttributes(attribute.String("stock.recommendation", string(rec)))

	currentPrice := quote.Price
	if currentPrice == nil && len(closes) > 0 {
		last := closes[len(closes)-1]
		if !math.IsNaN(last) {
			currentPrice = &last
		}
	}

	return &domain.StockAnalysis{
		Symbol:          symbol,
		Name:            quote.Name,
		Sector:          quote.Sector,
		Industry:        quote.Industry,
		CurrentPrice:    currentPrice,
		PercentChange2W: pc2w,
		PercentChange5D: pc5d,
		Volatility:      indicator.Volatility(closes),
		High:            high,
		Low:             low,
		Indicators:      indicators,
		SentimentScore:  sentimentScore,
		NewsSentiment:   sentimentSummary,
		Recommendation:  rec,
		Reason:          reason,
		Source:          domain.SourceLive,
	}
}

// degradedRecord is the well-formed stand-in for a symbol whose market data
// could not be obtained. It carries whatever quote metadata survived, no
// fabricated numbers, and UNKNOWN rather than a guessed label.
func degradedRecord(symbol string, quote *domain.Quote) *domain.StockAnalysis {
	name := symbol
	rec := &domain.StockAnalysis{
		Symbol:         symbol,
		Indicators:     domain.NAIndicatorSet(),
		Recommendation: domain.RecommendUnknown,
		Reason:         "Market data unavailable; no recommendation possible.",
		Source:         domain.SourceDegraded,
	}
	if quote != nil {
		if quote.Name != "" {
			name = quote.Name
		}
		rec.Sector = quote.Sector
		rec.Industry = quote.Industry
		rec.CurrentPrice = quote.Price
	}
	rec.Name = name
	return rec
}
