package job

import (
	"context"
	"log"
	"time"

	"stockboard/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// Refresher is the slice of the snapshot gate the poller drives.
type Refresher interface {
	Get(ctx context.Context) (*domain.Snapshot, error)
	ForceRefresh(ctx context.Context) (*domain.Snapshot, error)
}

// RefreshPoller keeps the analysis snapshot warm in the background so the
// first dashboard request after a quiet stretch does not pay for a full
// pass. Start blocks until the context is cancelled.
type RefreshPoller struct {
	gate     Refresher
	interval time.Duration
	tracer   trace.Tracer
}

func NewRefreshPoller(gate Refresher, interval time.Duration, tracer trace.Tracer) *RefreshPoller {
	if interval <= 0 {
		interval = time.Hour
	}
	return &RefreshPoller{gate: gate, interval: interval, tracer: tracer}
}

func (p *RefreshPoller) Start(ctx context.Context) {
	log.Printf("Starting snapshot refresh poller (every %s)", p.interval)

	// Initial fill goes through Get so a fresh persisted snapshot is reused
	// instead of being recomputed on every restart.
	p.run(ctx, p.gate.Get)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("Snapshot refresh poller stopped")
			return
		case <-ticker.C:
			p.run(ctx, p.gate.ForceRefresh)
		}
	}
}

func (p *RefreshPoller) run(ctx context.Context, fn func(context.Context) (*domain.Snapshot, error)) {
	ctx, span := p.tracer.Start(ctx, "job.refresh-snapshot")
	defer span.End()

	snap, err := fn(ctx)
	if err != nil {
		log.Printf("Warning: background snapshot refresh failed: %v", err)
		return
	}
	log.Printf("Snapshot refreshed: %d stocks as of %s", len(snap.Stocks), snap.LastUpdated)
}
