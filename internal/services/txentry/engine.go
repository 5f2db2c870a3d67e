// Package txentry implements the add-transaction workflow: a draft state
// machine with dual input modes, live-price binding, validation and
// post-submission re-synchronization with the refresh orchestrator.
package txentry

import (
	"context"
	"sync"
	"time"

	"github.com/cryptofolio/cryptofolio/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InputMode selects whether the user types an amount in coin units or in fiat.
type InputMode string

const (
	ModeNative InputMode = "native"
	ModeFiat   InputMode = "fiat"
)

// ValidationError is a client-side form-field violation. It is recovered
// locally: the draft is retained and no network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// priceSource yields the implied price for a coin from the latest snapshot.
type priceSource interface {
	CurrentPrice(coin domain.Coin) decimal.Decimal
}

// gateway is the slice of the tracker client the engine needs.
type gateway interface {
	AddTransaction(ctx context.Context, tx domain.TransactionRecord) (domain.TransactionRecord, error)
	CurrentPrices(ctx context.Context) (domain.CurrentPrices, error)
}

// refresher re-runs the full read fan-out after a successful submission.
type refresher interface {
	RefreshAll(ctx context.Context) error
}

// Draft is the single in-progress transaction being edited. Amount and price
// fields hold raw user input; they are decoded at validation time.
type Draft struct {
	Coin         domain.Coin
	Type         domain.TxType
	Mode         InputMode
	NativeAmount string
	FiatAmount   string
	Price        string
	UseLivePrice bool
	Date         string
}

// Engine owns the draft and its transitions. It never mutates cached
// portfolio state directly; after a successful submission it asks the
// orchestrator for a full refresh instead.
type Engine struct {
	prices    priceSource
	gw        gateway
	refresher refresher
	l         *zap.Logger

	mu    sync.Mutex
	draft Draft
}

// New creates an engine with a fresh default draft (live price enabled).
func New(l *zap.Logger, prices priceSource, gw gateway, refresher refresher) *Engine {
	e := &Engine{
		prices:    prices,
		gw:        gw,
		refresher: refresher,
		l:         l,
	}
	e.draft = e.defaultDraft(true)
	return e
}

// defaultDraft builds the post-reset draft: bitcoin buy in native mode, dated
// today, inheriting the live-price flag and, when set, the currently resolved
// price.
func (e *Engine) defaultDraft(useLive bool) Draft {
	d := Draft{
		Coin:         domain.CoinBitcoin,
		Type:         domain.TxBuy,
		Mode:         ModeNative,
		UseLivePrice: useLive,
		Date:         time.Now().Format("2006-01-02"),
	}
	if useLive {
		d.Price = e.prices.CurrentPrice(d.Coin).String()
	}
	return d
}

// Draft returns a copy of the current draft.
func (e *Engine) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// SetMode switches between native and fiat entry. Both amount fields are
// cleared on a switch so no stale derived value survives under the new mode's
// semantics.
func (e *Engine) SetMode(mode InputMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft.Mode == mode {
		return
	}
	e.draft.Mode = mode
	e.draft.NativeAmount = ""
	e.draft.FiatAmount = ""
}

// SetCoin selects the asset. With live pricing on, the price immediately
// re-binds to the resolver's output for the new coin.
func (e *Engine) SetCoin(coin domain.Coin) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Coin = coin
	if e.draft.UseLivePrice {
		e.draft.Price = e.prices.CurrentPrice(coin).String()
	}
}

// SetType selects buy or sell.
func (e *Engine) SetType(t domain.TxType) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Type = t
}

// SetUseLivePrice toggles live pricing. Toggling on re-binds the price to the
// resolver's current output; toggling off leaves the last bound value
// editable.
func (e *Engine) SetUseLivePrice(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.UseLivePrice = on
	if on {
		e.draft.Price = e.prices.CurrentPrice(e.draft.Coin).String()
	}
}

// SetPrice sets a manually typed price.
func (e *Engine) SetPrice(price string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Price = price
}

// SetNativeAmount sets the amount in coin units.
func (e *Engine) SetNativeAmount(amount string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.NativeAmount = amount
}

// SetDate sets the transaction date (YYYY-MM-DD).
func (e *Engine) SetDate(date string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Date = date
}

// SetFiatAmount sets the fiat amount and, when the bound price is positive,
// derives the native amount from it. With a zero price the native amount is
// left unset; the user must supply a nonzero price before a fiat-mode
// submission can succeed.
func (e *Engine) SetFiatAmount(amount string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.FiatAmount = amount

	fiat, err := decimal.NewFromString(amount)
	if err != nil {
		e.draft.NativeAmount = ""
		return
	}
	price, err := decimal.NewFromString(e.draft.Price)
	if err != nil || !price.IsPositive() {
		e.draft.NativeAmount = ""
		return
	}
	e.draft.NativeAmount = fiat.Div(price).String()
}

// RefreshPrices re-fetches current prices through the gateway and, with live
// pricing on, re-binds the draft price for the active coin. Concurrent calls
// are tolerated; the last one to resolve wins.
func (e *Engine) RefreshPrices(ctx context.Context) error {
	prices, err := e.gw.CurrentPrices(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.draft.UseLivePrice {
		e.draft.Price = prices.Price(e.draft.Coin).String()
	}
	return nil
}

// validate checks the draft in submission order, short-circuiting on the
// first failure.
func (d *Draft) validate() (decimal.Decimal, decimal.Decimal, error) {
	if d.NativeAmount == "" {
		return decimal.Zero, decimal.Zero, &ValidationError{Field: "amount", Message: "amount is required"}
	}
	amount, err := decimal.NewFromString(d.NativeAmount)
	if err != nil {
		return decimal.Zero, decimal.Zero, &ValidationError{Field: "amount", Message: "amount must be a valid number"}
	}
	if !amount.IsPositive() {
		return decimal.Zero, decimal.Zero, &ValidationError{Field: "amount", Message: "amount must be greater than zero"}
	}
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return decimal.Zero, decimal.Zero, &ValidationError{Field: "price", Message: "price must be a valid number"}
	}
	if !price.IsPositive() {
		return decimal.Zero, decimal.Zero, &ValidationError{Field: "price", Message: "price must be greater than zero"}
	}
	if d.Date == "" {
		return decimal.Zero, decimal.Zero, &ValidationError{Field: "date", Message: "date is required"}
	}
	return amount, price, nil
}

// Submit validates the draft and posts it to the tracker service. On any
// failure the draft is retained for correction. On success the draft resets
// to defaults (keeping the live-price flag) and exactly one full refresh is
// requested so downstream aggregates reflect the new record.
func (e *Engine) Submit(ctx context.Context) error {
	e.mu.Lock()
	draft := e.draft
	e.mu.Unlock()

	amount, price, err := draft.validate()
	if err != nil {
		return err
	}

	tx := domain.TransactionRecord{
		Coin:   draft.Coin,
		Type:   draft.Type,
		Amount: amount,
		Price:  price,
		Date:   draft.Date,
	}

	created, err := e.gw.AddTransaction(ctx, tx)
	if err != nil {
		return err
	}
	e.l.Info("transaction submitted",
		zap.String("coin", string(created.Coin)),
		zap.String("type", string(created.Type)),
		zap.String("amount", created.Amount.String()))

	e.mu.Lock()
	e.draft = e.defaultDraft(draft.UseLivePrice)
	e.mu.Unlock()

	if err := e.refresher.RefreshAll(ctx); err != nil {
		// the record is persisted server-side; the display stays stale
		// until the next tick
		e.l.Warn("post-submission refresh failed", zap.Error(err))
	}
	return nil
}
