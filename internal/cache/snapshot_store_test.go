package cache

import (
	"os"
	"path/filepath"
	"testing"

	"stockboard/internal/domain"
)

func sampleSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Stocks: []domain.StockAnalysis{
			{Symbol: "AAPL", Name: "Apple Inc.", Recommendation: domain.RecommendBuy, Source: domain.SourceLive},
			{Symbol: "MSFT", Name: "Microsoft", Recommendation: domain.RecommendHold, Source: domain.SourceLive},
		},
		Summary: map[domain.Recommendation]int{
			domain.RecommendBuy:  1,
			domain.RecommendHold: 1,
			domain.RecommendSell: 0,
		},
		LastUpdated: "2026-08-28 10:30:00",
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "data", "snapshot.json"))

	if err := store.Save(sampleSnapshot()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.Stocks) != 2 {
		t.Fatalf("expected 2 stocks, got %d", len(loaded.Stocks))
	}
	if loaded.LastUpdated != "2026-08-28 10:30:00" {
		t.Fatalf("unexpected timestamp: %s", loaded.LastUpdated)
	}
	if loaded.Summary[domain.RecommendBuy] != 1 {
		t.Fatalf("unexpected summary: %+v", loaded.Summary)
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	if _, err := store.Load(); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).Load(); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

func TestFileStoreLoadRejectsInvalidSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	payload := `{"stocks":[{"symbol":"AAPL"}],"summary":{"BUY":5},"last_updated":"2026-08-28 10:30:00"}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).Load(); err == nil {
		t.Fatal("expected validation error for mismatched summary")
	}
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "snapshot.json"))
	if err := store.Save(sampleSnapshot()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "snapshot.json" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}
