package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestUniverseDeduplicates(t *testing.T) {
	universe := Universe()

	seen := map[string]bool{}
	for _, sym := range universe {
		if seen[sym] {
			t.Fatalf("duplicate symbol %s in universe", sym)
		}
		seen[sym] = true
	}

	// Base list order is preserved at the front.
	for i, sym := range BaseWatchlist {
		if universe[i] != sym {
			t.Fatalf("expected %s at position %d, got %s", sym, i, universe[i])
		}
	}
}

func TestInUniverse(t *testing.T) {
	if !InUniverse("AAPL") {
		t.Fatal("expected AAPL in universe")
	}
	if InUniverse("NOTREAL") {
		t.Fatal("did not expect NOTREAL in universe")
	}
}

func TestHistoryPeriodIsValid(t *testing.T) {
	for _, p := range SupportedPeriods {
		if !p.IsValid() {
			t.Fatalf("expected %s to be valid", p)
		}
	}
	if HistoryPeriod("1Y").IsValid() {
		t.Fatal("expected 1Y to be invalid")
	}
	if HistoryPeriod("").IsValid() {
		t.Fatal("expected empty period to be invalid")
	}
}

func TestSnapshotValidate(t *testing.T) {
	snap := Snapshot{
		Stocks: []StockAnalysis{
			{Symbol: "AAPL", Recommendation: RecommendBuy},
			{Symbol: "MSFT", Recommendation: RecommendHold},
		},
		Summary: map[Recommendation]int{RecommendBuy: 1, RecommendHold: 1},
	}
	if err := snap.Validate(); err != nil {
		t.Fatalf("expected valid snapshot, got %v", err)
	}

	snap.Summary[RecommendSell] = 3
	if err := snap.Validate(); err == nil {
		t.Fatal("expected validation error for mismatched summary")
	}
}

func TestSnapshotGeneratedAt(t *testing.T) {
	snap := Snapshot{LastUpdated: "2026-08-28 15:04:05"}
	got, err := snap.GeneratedAt()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 8, 28, 15, 4, 5, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	snap.LastUpdated = "not a timestamp"
	if _, err := snap.GeneratedAt(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestPriceBarJSONRoundTrip(t *testing.T) {
	bars := []PriceBar{
		{Time: time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), Close: 101.5, Volume: 1_000_000},
		{Time: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), Close: 102.25, Volume: math.NaN()},
	}

	raw, err := json.Marshal(bars)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded []PriceBar
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(decoded))
	}
	if decoded[0].Volume != 1_000_000 {
		t.Fatalf("expected volume preserved, got %f", decoded[0].Volume)
	}
	if !math.IsNaN(decoded[1].Volume) {
		t.Fatalf("expected missing volume to round trip as NaN, got %f", decoded[1].Volume)
	}
}

func TestIndicatorString(t *testing.T) {
	ind := IndicatorValue(BucketNeutral, 55.123)
	if got := ind.String(); got != "Neutral (55.12)" {
		t.Fatalf("unexpected string: %s", got)
	}
	na := IndicatorNA(BucketNA)
	if got := na.String(); got != "N/A" {
		t.Fatalf("unexpected string: %s", got)
	}
	if !na.Undefined() {
		t.Fatal("expected N/A indicator to be undefined")
	}
}
