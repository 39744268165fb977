package classify

import (
	"strings"
	"testing"

	"stockboard/internal/domain"
)

func TestClassifyAllBullish(t *testing.T) {
	c := NewRuleClassifier()

	rec, reason := c.Classify(Features{
		Indicators: domain.IndicatorSet{
			RSI:         domain.IndicatorValue(domain.BucketOversold, 22),
			MACD:        domain.IndicatorValue(domain.BucketBullish, 1.1),
			VolumeTrend: domain.IndicatorValue(domain.BucketIncreasingHigh, 40),
		},
		PercentChange: -9,
	})
	if rec != domain.RecommendBuy {
		t.Fatalf("expected BUY, got %s", rec)
	}
	for _, want := range []string{"oversold", "bullish momentum", "buying opportunity", "volume is increasing"} {
		if !strings.Contains(reason, want) {
			t.Fatalf("expected reason to mention %q, got %q", want, reason)
		}
	}
}

func TestClassifyAllBearish(t *testing.T) {
	c := NewRuleClassifier()

	rec, _ := c.Classify(Features{
		Indicators: domain.IndicatorSet{
			RSI:         domain.IndicatorValue(domain.BucketOverbought, 80),
			MACD:        domain.IndicatorValue(domain.BucketBearish, -1.3),
			VolumeTrend: domain.IndicatorValue(domain.BucketDecreasingHigh, -35),
		},
		PercentChange: 12,
	})
	if rec != domain.RecommendSell {
		t.Fatalf("expected SELL, got %s", rec)
	}
}

func TestClassifyTieIsHold(t *testing.T) {
	c := NewRuleClassifier()

	rec, reason := c.Classify(Features{
		Indicators: domain.IndicatorSet{
			RSI:         domain.IndicatorValue(domain.BucketOversold, 25),
			MACD:        domain.IndicatorValue(domain.BucketBearish, -0.9),
			VolumeTrend: domain.IndicatorValue(domain.BucketStable, 1),
		},
		PercentChange: 2,
	})
	if rec != domain.RecommendHold {
		t.Fatalf("expected HOLD on a tie, got %s", rec)
	}
	if !strings.Contains(reason, "mixed") {
		t.Fatalf("expected mixed-signals note, got %q", reason)
	}
}

func TestClassifyNoSignals(t *testing.T) {
	c := NewRuleClassifier()

	rec, reason := c.Classify(Features{
		Indicators: domain.IndicatorSet{
			RSI:         domain.IndicatorValue(domain.BucketNeutral, 50),
			MACD:        domain.IndicatorValue(domain.BucketNeutral, 0.1),
			VolumeTrend: domain.IndicatorValue(domain.BucketStable, 2),
		},
		PercentChange: 1,
	})
	if rec != domain.RecommendHold {
		t.Fatalf("expected HOLD, got %s", rec)
	}
	if !strings.Contains(reason, "No significant signals") {
		t.Fatalf("unexpected reason: %q", reason)
	}
}

func TestClassifyInsufficientData(t *testing.T) {
	c := NewRuleClassifier()

	rec, reason := c.Classify(Features{Indicators: domain.NAIndicatorSet()})
	if rec != domain.RecommendHold {
		t.Fatalf("expected HOLD, got %s", rec)
	}
	if !strings.Contains(reason, "Insufficient data") {
		t.Fatalf("unexpected reason: %q", reason)
	}
}

func TestClassifyMomentumThresholdsExclusive(t *testing.T) {
	c := NewRuleClassifier()

	// Exactly at the threshold counts as no momentum factor.
	rec, reason := c.Classify(Features{
		Indicators: domain.IndicatorSet{
			RSI:         domain.IndicatorValue(domain.BucketNeutral, 50),
			MACD:        domain.IndicatorValue(domain.BucketNeutral, 0),
			VolumeTrend: domain.IndicatorValue(domain.BucketStable, 0),
		},
		PercentChange: momentumGainThreshold,
	})
	if rec != domain.RecommendHold {
		t.Fatalf("expected HOLD at exact threshold, got %s (%s)", rec, reason)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewRuleClassifier()

	f := Features{
		Indicators: domain.IndicatorSet{
			RSI:         domain.IndicatorValue(domain.BucketOversold, 28),
			MACD:        domain.IndicatorValue(domain.BucketNeutral, 0.2),
			VolumeTrend: domain.IndicatorValue(domain.BucketIncreasingModerate, 15),
		},
		PercentChange: -3,
	}
	rec1, reason1 := c.Classify(f)
	for i := 0; i < 10; i++ {
		rec2, reason2 := c.Classify(f)
		if rec1 != rec2 || reason1 != reason2 {
			t.Fatalf("classification not deterministic: %s/%s vs %s/%s", rec1, reason1, rec2, reason2)
		}
	}
}
