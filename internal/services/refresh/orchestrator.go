// Package refresh owns the fan-out/join refresh cycle and the single shared
// refresh state read by the rest of the client.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/cryptofolio/cryptofolio/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// gateway is the read surface of the tracker service used by one refresh cycle.
type gateway interface {
	Portfolio(ctx context.Context) (domain.PortfolioSnapshot, error)
	LiveProfitLoss(ctx context.Context) (domain.LiveStats, error)
	DailyProfitLoss(ctx context.Context) (domain.DailyDelta, error)
	Transactions(ctx context.Context) ([]domain.TransactionRecord, error)
	PortfolioHistory(ctx context.Context, frequency string) ([]domain.HistoryPoint, error)
	CurrentPrices(ctx context.Context) (domain.CurrentPrices, error)
	TransactionAnalysis(ctx context.Context) (domain.TransactionAnalysis, error)
}

// State is a copy of the process-wide refresh state. LastSnapshot stays at its
// previous value across failed cycles, so readers always see a consistent
// (possibly stale) view and never a partially updated one.
type State struct {
	InFlight     bool
	LastSnapshot *domain.Snapshot
	LastErr      error
}

// refreshCall is one in-flight fan-out that concurrent triggers coalesce into.
type refreshCall struct {
	done chan struct{}
	err  error
}

// Orchestrator issues all reads concurrently, joins them, and publishes a
// single consistent snapshot. It is the only writer of the refresh state.
type Orchestrator struct {
	gw        gateway
	frequency string
	l         *zap.Logger

	mu       sync.Mutex
	pending  *refreshCall
	snapshot *domain.Snapshot
	lastErr  error
	subs     map[int]chan domain.Snapshot
	nextSub  int
}

// NewOrchestrator creates an orchestrator reading through gw. frequency is the
// portfolio history granularity passed to the gateway.
func NewOrchestrator(l *zap.Logger, gw gateway, frequency string) *Orchestrator {
	return &Orchestrator{
		gw:        gw,
		frequency: frequency,
		l:         l,
		subs:      make(map[int]chan domain.Snapshot),
	}
}

// RefreshAll runs one full fan-out/join cycle. If a cycle is already in
// flight, the call coalesces into it and returns that cycle's result instead
// of starting a second fan-out, so simultaneous manual triggers and timer
// ticks never race overlapping refreshes.
//
// The cycle is all-or-nothing: if any read fails, the previous snapshot is
// kept and the error recorded; a partial snapshot is never published.
func (o *Orchestrator) RefreshAll(ctx context.Context) error {
	o.mu.Lock()
	if o.pending != nil {
		call := o.pending
		o.mu.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	call := &refreshCall{done: make(chan struct{})}
	o.pending = call
	o.mu.Unlock()

	cycle := uuid.NewString()
	logger := o.l.With(zap.String("cycle", cycle))
	started := time.Now()

	snap, err := o.fanOut(ctx)

	o.mu.Lock()
	if err != nil {
		o.lastErr = err
		logger.Error("refresh cycle failed, keeping previous snapshot",
			zap.Duration("elapsed", time.Since(started)), zap.Error(err))
	} else {
		o.snapshot = snap
		o.lastErr = nil
		for _, ch := range o.subs {
			// replace an unread snapshot so a slow subscriber always
			// receives the latest one
			select {
			case <-ch:
			default:
			}
			ch <- *snap
		}
		logger.Info("refresh cycle published",
			zap.Duration("elapsed", time.Since(started)),
			zap.Int("transactions", len(snap.Transactions)),
			zap.Int("history_points", len(snap.History)))
	}
	o.pending = nil
	call.err = err
	close(call.done)
	o.mu.Unlock()

	return err
}

// fanOut issues every read concurrently and waits for all of them.
func (o *Orchestrator) fanOut(ctx context.Context) (*domain.Snapshot, error) {
	var snap domain.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Portfolio, err = o.gw.Portfolio(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Live, err = o.gw.LiveProfitLoss(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Daily, err = o.gw.DailyProfitLoss(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Transactions, err = o.gw.Transactions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.History, err = o.gw.PortfolioHistory(gctx, o.frequency)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Prices, err = o.gw.CurrentPrices(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Analysis, err = o.gw.TransactionAnalysis(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.FetchedAt = time.Now()
	return &snap, nil
}

// Run refreshes immediately, then on every tick of the given interval until
// ctx is cancelled. Cycle failures degrade to a stale display and do not stop
// the loop.
func (o *Orchestrator) Run(ctx context.Context, interval time.Duration) error {
	if err := o.RefreshAll(ctx); err != nil {
		o.l.Warn("initial refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	o.l.Info("refresh loop started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			o.l.Info("refresh loop stopped")
			return ctx.Err()
		case <-ticker.C:
			// errors are already logged and recorded in state
			_ = o.RefreshAll(ctx)
		}
	}
}

// State returns a copy of the current refresh state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return State{
		InFlight:     o.pending != nil,
		LastSnapshot: o.snapshot,
		LastErr:      o.lastErr,
	}
}

// Subscribe registers an observer of published snapshots. Delivery is
// best-effort: a subscriber that cannot keep up skips intermediate snapshots.
// The returned cancel func must be called to release the channel.
func (o *Orchestrator) Subscribe() (<-chan domain.Snapshot, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextSub
	o.nextSub++
	ch := make(chan domain.Snapshot, 1)
	o.subs[id] = ch

	cancel := func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if _, ok := o.subs[id]; ok {
			delete(o.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}
