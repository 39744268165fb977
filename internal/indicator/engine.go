package indicator

import (
	"math"

	"stockboard/internal/domain"
)

const (
	RSIPeriod      = 14
	macdFastPeriod = 12
	macdSlowPeriod = 26

	macdBullishThreshold = 0.5
	rsiOverbought        = 70.0
	rsiOversold          = 30.0

	volumeMinPoints     = 5
	volumeHighThreshold = 25.0
	volumeModThreshold  = 10.0
)

// Engine computes technical indicators from numeric sequences. All methods
// are pure: no I/O, no state, and no errors for well-formed input. When a
// sequence is too short they return the undefined sentinel instead.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// RSI computes the relative strength index over the trailing period.
// Requires period+1 closes. Gains and losses are plain means over the last
// `period` deltas (no Wilder smoothing); an all-gain window reports
// Overbought at 100 rather than dividing by zero.
func (e *Engine) RSI(closes []float64, period int) domain.Indicator {
	if period <= 0 || len(closes) < period+1 {
		return domain.IndicatorNA(domain.BucketNA)
	}

	var gainSum, lossSum float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)

	if avgLoss == 0 {
		return domain.IndicatorValue(domain.BucketOverbought, 100)
	}

	rs := avgGain / avgLoss
	rsi := 100 - (100 / (1 + rs))

	switch {
	case rsi > rsiOverbought:
		return domain.IndicatorValue(domain.BucketOverbought, rsi)
	case rsi < rsiOversold:
		return domain.IndicatorValue(domain.BucketOversold, rsi)
	default:
		return domain.IndicatorValue(domain.BucketNeutral, rsi)
	}
}

// MACD computes the difference between the 12-period and 26-period simple
// moving averages of close price. This is intentionally the SMA
// approximation, not the textbook EMA-based MACD: downstream thresholds and
// the recorded historical snapshots are calibrated to it.
func (e *Engine) MACD(closes []float64) domain.Indicator {
	if len(closes) < macdSlowPeriod {
		return domain.IndicatorNA(domain.BucketNA)
	}

	fast := mean(closes[len(closes)-macdFastPeriod:])
	slow := mean(closes[len(closes)-macdSlowPeriod:])
	macd := fast - slow

	switch {
	case macd > macdBullishThreshold:
		return domain.IndicatorValue(domain.BucketBullish, macd)
	case macd < -macdBullishThreshold:
		return domain.IndicatorValue(domain.BucketBearish, macd)
	default:
		return domain.IndicatorValue(domain.BucketNeutral, macd)
	}
}

// VolumeTrend compares mean volume between the first and second half of the
// window (odd lengths give the first half the smaller share). Missing
// volumes are NaN and are filtered before the split. A window shorter than
// 5 raw points is "N/A"; fewer than 5 valid points after filtering is
// "Insufficient Data".
func (e *Engine) VolumeTrend(volumes []float64) domain.Indicator {
	if len(volumes) < volumeMinPoints {
		return domain.IndicatorNA(domain.BucketNA)
	}

	valid := make([]float64, 0, len(volumes))
	for _, v := range volumes {
		if math.IsNaN(v) {
			continue
		}
		valid = append(valid, v)
	}
	if len(valid) < volumeMinPoints {
		return domain.IndicatorNA(domain.BucketInsufficientData)
	}

	half := len(valid) / 2
	avgFirst := mean(valid[:half])
	avgSecond := mean(valid[half:])
	if avgFirst == 0 {
		return domain.IndicatorNA(domain.BucketInsufficientData)
	}
	change := (avgSecond - avgFirst) / avgFirst * 100

	switch {
	case change > volumeHighThreshold:
		return domain.IndicatorValue(domain.BucketIncreasingHigh, change)
	case change > volumeModThreshold:
		return domain.IndicatorValue(domain.BucketIncreasingModerate, change)
	case change < -volumeHighThreshold:
		return domain.IndicatorValue(domain.BucketDecreasingHigh, change)
	case change < -volumeModThreshold:
		return domain.IndicatorValue(domain.BucketDecreasingModerate, change)
	default:
		return domain.IndicatorValue(domain.BucketStable, change)
	}
}

// TrendVote derives the overall trend as a majority vote over the RSI
// bucket, MACD bucket, momentum sign, and volume bucket.
func (e *Engine) TrendVote(rsi, macd, volume domain.Indicator, percentChange float64) domain.Indicator {
	bullish, bearish := 0, 0

	switch rsi.Bucket {
	case domain.BucketOversold:
		bullish++
	case domain.BucketOverbought:
		bearish++
	}
	switch macd.Bucket {
	case domain.BucketBullish:
		bullish++
	case domain.BucketBearish:
		bearish++
	}
	if percentChange > 0 {
		bullish++
	} else if percentChange < 0 {
		bearish++
	}
	switch volume.Bucket {
	case domain.BucketIncreasingHigh, domain.BucketIncreasingModerate:
		bullish++
	case domain.BucketDecreasingHigh, domain.BucketDecreasingModerate:
		bearish++
	}

	switch {
	case bullish > bearish:
		return domain.IndicatorNA(domain.BucketBullish)
	case bearish > bullish:
		return domain.IndicatorNA(domain.BucketBearish)
	default:
		return domain.IndicatorNA(domain.BucketNeutral)
	}
}

// PercentChange returns the percent change between the close `lookback`
// trading points ago and the last close. Returns 0 when the series is too
// short or the reference close is 0.
func PercentChange(closes []float64, lookback int) float64 {
	if lookback <= 0 || len(closes) < 2 {
		return 0
	}
	start := len(closes) - 1 - lookback
	if start < 0 {
		start = 0
	}
	ref := closes[start]
	if ref == 0 {
		return 0
	}
	return (closes[len(closes)-1] - ref) / ref * 100
}

// Volatility is the population standard deviation of daily percent returns.
func Volatility(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1]*100)
	}
	if len(returns) == 0 {
		return 0
	}
	m := mean(returns)
	var sum float64
	for _, r := range returns {
		d := r - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(returns)))
}

// HighLow returns the extremes of the series; zeros when it is empty.
func HighLow(closes []float64) (high, low float64) {
	if len(closes) == 0 {
		return 0, 0
	}
	high, low = closes[0], closes[0]
	for _, c := range closes[1:] {
		if c > high {
			high = c
		}
		if c < low {
			low = c
		}
	}
	return high, low
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
