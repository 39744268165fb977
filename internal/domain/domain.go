package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// SnapshotTimeFormat is the on-disk timestamp layout. Older cache files from
// the previous generation of this service use it, so it is part of the file
// contract and must not change.
const SnapshotTimeFormat = "2006-01-02 15:04:05"

// Quote is the current market quote and instrument metadata for one symbol.
type Quote struct {
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	Price     *float64 `json:"price,omitempty"`
	Sector    string   `json:"sector,omitempty"`
	Industry  string   `json:"industry,omitempty"`
	MarketCap *float64 `json:"market_cap,omitempty"`
	PERatio   *float64 `json:"pe_ratio,omitempty"`
}

// PriceBar is one daily (or intraday) observation. Volume is NaN when the
// data source returned no volume for the bar; it marshals as null so bars
// survive a JSON round trip through the cache.
type PriceBar struct {
	Time   time.Time `json:"time"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

type priceBarJSON struct {
	Time   time.Time `json:"time"`
	Close  float64   `json:"close"`
	Volume *float64  `json:"volume"`
}

func (b PriceBar) MarshalJSON() ([]byte, error) {
	out := priceBarJSON{Time: b.Time, Close: b.Close}
	if !math.IsNaN(b.Volume) {
		v := b.Volume
		out.Volume = &v
	}
	return json.Marshal(out)
}

func (b *PriceBar) UnmarshalJSON(data []byte) error {
	var in priceBarJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	b.Time = in.Time
	b.Close = in.Close
	if in.Volume != nil {
		b.Volume = *in.Volume
	} else {
		b.Volume = math.NaN()
	}
	return nil
}

// HistoryPoint is the charting payload for /api/stock_history.
type HistoryPoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// HistoryPeriod selects the resolution of a stock history request.
type HistoryPeriod string

const (
	Period1D HistoryPeriod = "1D"
	Period1W HistoryPeriod = "1W"
	Period1M HistoryPeriod = "1M"
)

var SupportedPeriods = []HistoryPeriod{Period1D, Period1W, Period1M}

func (p HistoryPeriod) IsValid() bool {
	switch p {
	case Period1D, Period1W, Period1M:
		return true
	}
	return false
}

// Indicator bucket labels. The strings are part of the API contract; the
// dashboard renders them verbatim.
const (
	BucketOverbought         = "Overbought"
	BucketOversold           = "Oversold"
	BucketNeutral            = "Neutral"
	BucketBullish            = "Bullish"
	BucketBearish            = "Bearish"
	BucketIncreasingHigh     = "Increasing (High)"
	BucketIncreasingModerate = "Increasing (Moderate)"
	BucketStable             = "Stable"
	BucketDecreasingModerate = "Decreasing (Moderate)"
	BucketDecreasingHigh     = "Decreasing (High)"
	BucketInsufficientData   = "Insufficient Data"
	BucketNA                 = "N/A"
)

// Indicator is a tagged indicator value: a qualitative bucket plus the
// underlying number when one is defined. Undefined indicators (not enough
// data) carry a nil value.
type Indicator struct {
	Bucket string   `json:"bucket"`
	Value  *float64 `json:"value,omitempty"`
}

// Undefined reports whether the indicator carries no numeric value.
func (i Indicator) Undefined() bool { return i.Value == nil }

func (i Indicator) String() string {
	if i.Value == nil {
		return i.Bucket
	}
	return fmt.Sprintf("%s (%.2f)", i.Bucket, *i.Value)
}

// IndicatorValue builds a defined indicator.
func IndicatorValue(bucket string, value float64) Indicator {
	return Indicator{Bucket: bucket, Value: &value}
}

// IndicatorNA is the undefined sentinel with the given bucket label.
func IndicatorNA(bucket string) Indicator {
	return Indicator{Bucket: bucket}
}

// IndicatorSet is the per-symbol snapshot of computed technicals.
type IndicatorSet struct {
	RSI         Indicator `json:"rsi"`
	MACD        Indicator `json:"macd"`
	VolumeTrend Indicator `json:"volume_trend"`
	Trend       Indicator `json:"trend"`
}

// NAIndicatorSet is the set substituted into degraded records.
func NAIndicatorSet() IndicatorSet {
	return IndicatorSet{
		RSI:         IndicatorNA(BucketNA),
		MACD:        IndicatorNA(BucketNA),
		VolumeTrend: IndicatorNA(BucketNA),
		Trend:       IndicatorNA(BucketNA),
	}
}

// Recommendation is the final categorical label for one symbol.
type Recommendation string

const (
	RecommendBuy  Recommendation = "BUY"
	RecommendHold Recommendation = "HOLD"
	RecommendSell Recommendation = "SELL"
	// RecommendUnknown means no decision was possible (no analyzable data),
	// as opposed to HOLD, which means the classifier ran and landed neutral.
	RecommendUnknown Recommendation = "UNKNOWN"
)

// Record provenance. Degraded records are synthesized when upstream data
// cannot be obtained; they never carry fabricated numbers.
const (
	SourceLive     = "live"
	SourceDegraded = "degraded"
)

// StockAnalysis is one symbol's complete analysis result. Immutable once
// assembled; Recommendation is always set.
type StockAnalysis struct {
	Symbol          string         `json:"symbol"`
	Name            string         `json:"name"`
	Sector          string         `json:"sector,omitempty"`
	Industry        string         `json:"industry,omitempty"`
	CurrentPrice    *float64       `json:"current_price,omitempty"`
	PercentChange2W float64        `json:"percent_change_2w"`
	PercentChange5D float64        `json:"percent_change_5d"`
	Volatility      float64        `json:"volatility"`
	High            float64        `json:"high,omitempty"`
	Low             float64        `json:"low,omitempty"`
	Indicators      IndicatorSet   `json:"technical_indicators"`
	SentimentScore  float64        `json:"sentiment_score"`
	NewsSentiment   string         `json:"news_sentiment,omitempty"`
	Recommendation  Recommendation `json:"recommendation"`
	Reason          string         `json:"reason"`
	Source          string         `json:"source"`
}

// Snapshot is the unit of caching: every record from one analysis pass plus
// the per-recommendation tally. A refresh replaces it wholesale.
type Snapshot struct {
	Stocks      []StockAnalysis        `json:"stocks"`
	Summary     map[Recommendation]int `json:"summary"`
	LastUpdated string                 `json:"last_updated"`
}

// GeneratedAt parses the snapshot timestamp in local time.
func (s Snapshot) GeneratedAt() (time.Time, error) {
	return time.ParseInLocation(SnapshotTimeFormat, s.LastUpdated, time.Local)
}

// Validate checks the summary invariant: counts must add up to the records.
func (s Snapshot) Validate() error {
	total := 0
	for _, n := range s.Summary {
		total += n
	}
	if total != len(s.Stocks) {
		return fmt.Errorf("summary counts %d do not match %d records", total, len(s.Stocks))
	}
	return nil
}
