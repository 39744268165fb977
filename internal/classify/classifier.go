package classify

import (
	"fmt"
	"strings"

	"stockboard/internal/domain"
)

// Momentum thresholds, in percent. A large drop over the window is read as
// a buying opportunity and a large gain as a sell signal (mean reversion,
// not momentum following). This convention must not be flipped.
const (
	momentumDropThreshold = -7.0
	momentumGainThreshold = 7.0
)

// Features is the input vector for a classification. History is optional
// context for model-backed classifiers; the rule classifier ignores it
// along with sentiment and volatility.
type Features struct {
	Indicators    domain.IndicatorSet
	PercentChange float64
	Sentiment     float64
	Volatility    float64
	History       []domain.PriceBar
}

// Classifier turns a feature vector into a recommendation and a
// human-readable reason. The reason is a first-class output: it must name
// every factor that contributed so the decision is auditable from the
// record alone.
type Classifier interface {
	Classify(f Features) (domain.Recommendation, string)
}

// RuleClassifier is the deterministic threshold classifier.
type RuleClassifier struct{}

func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

func (c *RuleClassifier) Classify(f Features) (domain.Recommendation, string) {
	ind := f.Indicators
	if ind.RSI.Undefined() && ind.MACD.Undefined() && ind.VolumeTrend.Undefined() && f.PercentChange == 0 {
		return domain.RecommendHold, "Insufficient data for a confident classification. Maintain current position."
	}

	var bullish, bearish int
	var reasons []string

	switch ind.RSI.Bucket {
	case domain.BucketOversold:
		bullish++
		reasons = append(reasons, "RSI indicates oversold conditions")
	case domain.BucketOverbought:
		bearish++
		reasons = append(reasons, "RSI indicates overbought conditions")
	}

	switch ind.MACD.Bucket {
	case domain.BucketBullish:
		bullish++
		reasons = append(reasons, "MACD shows bullish momentum")
	case domain.BucketBearish:
		bearish++
		reasons = append(reasons, "MACD shows bearish momentum")
	}

	if f.PercentChange < momentumDropThreshold {
		bullish++
		reasons = append(reasons, fmt.Sprintf("Price is down %.1f%% over the window, potential buying opportunity", -f.PercentChange))
	} else if f.PercentChange > momentumGainThreshold {
		bearish++
		reasons = append(reasons, fmt.Sprintf("Price is up %.1f%% over the window, may be due for a pullback", f.PercentChange))
	}

	switch ind.VolumeTrend.Bucket {
	case domain.BucketIncreasingHigh, domain.BucketIncreasingModerate:
		bullish++
		reasons = append(reasons, "Trading volume is increasing significantly")
	case domain.BucketDecreasingHigh, domain.BucketDecreasingModerate:
		bearish++
		reasons = append(reasons, "Trading volume is decreasing significantly")
	}

	var rec domain.Recommendation
	switch {
	case bullish > bearish:
		rec = domain.RecommendBuy
	case bearish > bullish:
		rec = domain.RecommendSell
	default:
		rec = domain.RecommendHold
	}

	if len(reasons) == 0 {
		return rec, "No significant signals detected. Maintain current position."
	}
	reason := strings.Join(reasons, ". ") + "."
	if rec == domain.RecommendHold {
		reason += " Signals are mixed; holding."
	}
	return rec, reason
}
