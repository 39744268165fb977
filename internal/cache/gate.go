package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"stockboard/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Runner produces a complete analysis snapshot. It is expected to be slow
// (network-bound over the whole watchlist).
type Runner func(ctx context.Context) (*domain.Snapshot, error)

// Gate serves analysis snapshots from memory (warm-started from the file
// store) and recomputes them when they go stale. Staleness depends on
// whether the market is open: intraday data ages fast during trading hours
// and barely at all outside them.
//
// Recomputation is single-flight: concurrent callers that find a stale
// snapshot serialize on the mutex, and whoever acquires it second re-checks
// freshness before doing any work, so one burst of requests costs one pass.
type Gate struct {
	store      *FileStore
	runner     Runner
	marketOpen func(time.Time) bool
	openTTL    time.Duration
	closedTTL  time.Duration
	tracer     trace.Tracer

	now func() time.Time

	mu      sync.Mutex
	current *domain.Snapshot
}

func NewGate(store *FileStore, runner Runner, marketOpen func(time.Time) bool, openTTL, closedTTL time.Duration, tracer trace.Tracer) *Gate {
	if openTTL <= 0 {
		openTTL = 5 * time.Minute
	}
	if closedTTL <= 0 {
		closedTTL = 30 * time.Minute
	}
	return &Gate{
		store:      store,
		runner:     runner,
		marketOpen: marketOpen,
		openTTL:    openTTL,
		closedTTL:  closedTTL,
		tracer:     tracer,
		now:        time.Now,
	}
}

// Get returns the current snapshot, recomputing first if it is stale.
func (g *Gate) Get(ctx context.Context) (*domain.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current == nil {
		if snap, err := g.store.Load(); err == nil {
			g.current = snap
		}
	}
	if g.current != nil && g.fresh(g.current) {
		return g.current, nil
	}
	return g.refreshLocked(ctx)
}

// ForceRefresh recomputes unconditionally. Concurrent forced refreshes
// serialize; a caller that was queued behind a just-finished refresh still
// gets its own pass, matching the explicit intent of the endpoint.
func (g *Gate) ForceRefresh(ctx context.Context) (*domain.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.refreshLocked(ctx)
}

func (g *Gate) refreshLocked(ctx context.Context) (*domain.Snapshot, error) {
	ctx, span := g.tracer.Start(ctx, "cache.snapshot-refresh")
	defer span.End()

	snap, err := g.runner(ctx)
	if err != nil {
		// Serve the stale snapshot over an error when we have one.
		if g.current != nil {
			log.Printf("Warning: snapshot refresh failed, serving stale data: %v", err)
			return g.current, nil
		}
		return nil, err
	}
	span.SetAttributes(attribute.Int("snapshot.stocks", len(snap.Stocks)))

	g.current = snap
	if err := g.store.Save(snap); err != nil {
		log.Printf("Warning: failed to persist snapshot: %v", err)
	}
	return snap, nil
}

// fresh applies the market-hours-aware TTL to the snapshot timestamp.
func (g *Gate) fresh(snap *domain.Snapshot) bool {
	generated, err := snap.GeneratedAt()
	if err != nil {
		return false
	}
	now := g.now()
	ttl := g.closedTTL
	if g.marketOpen != nil && g.marketOpen(now) {
		ttl = g.openTTL
	}
	return now.Sub(generated) < ttl
}
