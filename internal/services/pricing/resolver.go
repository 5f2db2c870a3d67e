// Package pricing derives implied per-unit prices from published snapshots.
package pricing

import (
	"github.com/cryptofolio/cryptofolio/internal/domain"
	"github.com/cryptofolio/cryptofolio/internal/services/refresh"
	"github.com/shopspring/decimal"
)

// Price returns the implied current unit price of a coin: value divided by
// held amount. With no holdings it returns zero: a display default, not a
// financial claim. Recomputed on every published snapshot, never cached.
func Price(p *domain.PortfolioSnapshot, coin domain.Coin) decimal.Decimal {
	held := p.Held(coin)
	if !held.IsPositive() {
		return decimal.Zero
	}
	return p.Value(coin).Div(held)
}

// stateReader exposes the orchestrator's current refresh state.
type stateReader interface {
	State() refresh.State
}

// Resolver reads implied prices off the latest published snapshot. It holds
// no state of its own, so there is no separate invalidation path to keep in
// sync with the orchestrator.
type Resolver struct {
	states stateReader
}

// NewResolver creates a resolver over the given state source.
func NewResolver(states stateReader) *Resolver {
	return &Resolver{states: states}
}

// CurrentPrice returns the implied price for a coin from the latest snapshot,
// or zero when no snapshot has been published yet.
func (r *Resolver) CurrentPrice(coin domain.Coin) decimal.Decimal {
	st := r.states.State()
	if st.LastSnapshot == nil {
		return decimal.Zero
	}
	return Price(&st.LastSnapshot.Portfolio, coin)
}
