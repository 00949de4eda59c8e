package market

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"milhas/internal/logger"
	"milhas/pkg/metrics"
)

// PricePoint is one observed price for a program, taken from accepted
// opportunity records.
type PricePoint struct {
	Program string    `json:"program" bson:"program"`
	Price   float64   `json:"price" bson:"price"`
	Date    time.Time `json:"date" bson:"date"`
}

// HistorySource reads stored price history for one program over a window
// of days.
type HistorySource interface {
	PriceHistory(ctx context.Context, program string, days int) ([]PricePoint, error)
}

// Provider hands out the current market snapshot. The snapshot is replaced
// wholesale via an atomic pointer swap, so a reader always sees one
// consistent version even while a refresh is running.
type Provider struct {
	current atomic.Pointer[Snapshot]
	seed    Snapshot
	logger  logger.Logger
}

func NewProvider(seed Snapshot, log logger.Logger) *Provider {
	p := &Provider{
		seed:   seed.clone(),
		logger: log,
	}
	snap := seed.clone()
	p.current.Store(&snap)
	return p
}

// Current returns the snapshot in effect right now. The returned map must
// be treated as read-only.
func (p *Provider) Current() Snapshot {
	return *p.current.Load()
}

// Swap publishes next as the new snapshot.
func (p *Provider) Swap(next Snapshot) {
	snap := next.clone()
	p.current.Store(&snap)
}

// Refresh recomputes per-program stats from stored history and swaps in a
// new snapshot. Programs without history keep their seed values.
func (p *Provider) Refresh(ctx context.Context, src HistorySource, days int) error {
	next := p.seed.clone()

	var refreshErr error
	for program := range next {
		points, err := src.PriceHistory(ctx, program, days)
		if err != nil {
			refreshErr = fmt.Errorf("failed to load price history for %s: %w", program, err)
			break
		}
		if len(points) == 0 {
			continue
		}

		stats := computeStats(points)
		next[program] = stats
	}

	if refreshErr != nil {
		metrics.MarketSnapshotRefreshTotal.WithLabelValues("error").Inc()
		return refreshErr
	}

	p.Swap(next)
	metrics.MarketSnapshotRefreshTotal.WithLabelValues("success").Inc()
	return nil
}

// Run refreshes the snapshot on a fixed interval until the context ends.
func (p *Provider) Run(ctx context.Context, src HistorySource, interval time.Duration, days int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.Refresh(ctx, src, days); err != nil {
				p.logger.WarnwCtx(ctx, "Market snapshot refresh failed, keeping previous snapshot",
					"error", err,
				)
			}
		case <-ctx.Done():
			return
		}
	}
}

func computeStats(points []PricePoint) ProgramStats {
	sum := 0.0
	low := points[0].Price
	high := points[0].Price
	for _, pt := range points {
		sum += pt.Price
		if pt.Price < low {
			low = pt.Price
		}
		if pt.Price > high {
			high = pt.Price
		}
	}

	return ProgramStats{
		AvgPrice:  sum / float64(len(points)),
		RangeLow:  low,
		RangeHigh: high,
	}
}
