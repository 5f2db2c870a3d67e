package txentry

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cryptofolio/cryptofolio/internal/clients"
	"github.com/cryptofolio/cryptofolio/internal/domain"
)

type fakePrices struct {
	btc decimal.Decimal
	eth decimal.Decimal
}

func (f *fakePrices) CurrentPrice(coin domain.Coin) decimal.Decimal {
	if coin == domain.CoinBitcoin {
		return f.btc
	}
	return f.eth
}

type fakeGateway struct {
	added     []domain.TransactionRecord
	addErr    error
	prices    domain.CurrentPrices
	pricesErr error
}

func (f *fakeGateway) AddTransaction(ctx context.Context, tx domain.TransactionRecord) (domain.TransactionRecord, error) {
	if f.addErr != nil {
		return domain.TransactionRecord{}, f.addErr
	}
	f.added = append(f.added, tx)
	return tx, nil
}

func (f *fakeGateway) CurrentPrices(ctx context.Context) (domain.CurrentPrices, error) {
	if f.pricesErr != nil {
		return domain.CurrentPrices{}, f.pricesErr
	}
	return f.prices, nil
}

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) RefreshAll(ctx context.Context) error {
	f.calls++
	return f.err
}

func newTestEngine(t *testing.T) (*Engine, *fakePrices, *fakeGateway, *fakeRefresher) {
	t.Helper()
	prices := &fakePrices{btc: decimal.NewFromInt(3000), eth: decimal.NewFromInt(200)}
	gw := &fakeGateway{
		prices: domain.CurrentPrices{
			Bitcoin:  decimal.NewFromInt(3100),
			Ethereum: decimal.NewFromInt(210),
		},
	}
	refresher := &fakeRefresher{}
	return New(zap.NewNop(), prices, gw, refresher), prices, gw, refresher
}

func TestDefaultDraftBindsLivePrice(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	draft := engine.Draft()
	require.Equal(t, domain.CoinBitcoin, draft.Coin)
	require.Equal(t, domain.TxBuy, draft.Type)
	require.Equal(t, ModeNative, draft.Mode)
	require.True(t, draft.UseLivePrice)
	require.Equal(t, "3000", draft.Price)
	require.NotEmpty(t, draft.Date)
}

func TestModeSwitchClearsBothAmounts(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	engine.SetMode(ModeFiat)
	engine.SetFiatAmount("500")
	require.Equal(t, "500", engine.Draft().FiatAmount)
	require.NotEmpty(t, engine.Draft().NativeAmount)

	engine.SetMode(ModeNative)
	require.Empty(t, engine.Draft().FiatAmount)
	require.Empty(t, engine.Draft().NativeAmount)

	// switching back again returns to empty, not to a stale prior value
	engine.SetMode(ModeFiat)
	require.Empty(t, engine.Draft().FiatAmount)
	require.Empty(t, engine.Draft().NativeAmount)
}

func TestCoinSwitchRebindsLivePrice(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	engine.SetCoin(domain.CoinEthereum)
	require.Equal(t, "200", engine.Draft().Price)

	engine.SetCoin(domain.CoinBitcoin)
	require.Equal(t, "3000", engine.Draft().Price)
}

func TestCoinSwitchLeavesManualPriceAlone(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	engine.SetUseLivePrice(false)
	engine.SetPrice("1234.5")
	engine.SetCoin(domain.CoinEthereum)
	require.Equal(t, "1234.5", engine.Draft().Price)
}

func TestLivePriceToggle(t *testing.T) {
	engine, prices, _, _ := newTestEngine(t)

	engine.SetUseLivePrice(false)
	engine.SetPrice("42")
	require.Equal(t, "42", engine.Draft().Price)

	prices.btc = decimal.NewFromInt(3500)
	engine.SetUseLivePrice(true)
	require.Equal(t, "3500", engine.Draft().Price, "toggle on must re-bind to the resolver")

	engine.SetUseLivePrice(false)
	require.Equal(t, "3500", engine.Draft().Price, "toggle off leaves the last bound price editable")
}

func TestFiatAmountDerivesNative(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	engine.SetMode(ModeFiat)
	engine.SetUseLivePrice(false)
	engine.SetPrice("250")
	engine.SetFiatAmount("500")

	native, err := decimal.NewFromString(engine.Draft().NativeAmount)
	require.NoError(t, err)
	require.True(t, native.Equal(decimal.NewFromInt(2)))
}

func TestFiatAmountWithZeroPriceLeavesNativeUnset(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	engine.SetMode(ModeFiat)
	engine.SetUseLivePrice(false)
	engine.SetPrice("0")
	engine.SetFiatAmount("500")

	require.Empty(t, engine.Draft().NativeAmount, "cannot derive from a division by zero")
}

func TestManualPriceRefreshRebindsLivePrice(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	require.NoError(t, engine.RefreshPrices(context.Background()))
	require.Equal(t, "3100", engine.Draft().Price, "must re-bind to the freshly fetched price")
}

func TestManualPriceRefreshIgnoredWhenManual(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	engine.SetUseLivePrice(false)
	engine.SetPrice("42")
	require.NoError(t, engine.RefreshPrices(context.Background()))
	require.Equal(t, "42", engine.Draft().Price)
}

func TestSubmissionValidationShortCircuits(t *testing.T) {
	tests := []struct {
		name  string
		setup func(e *Engine)
		field string
	}{
		{
			name:  "missing amount",
			setup: func(e *Engine) {},
			field: "amount",
		},
		{
			name: "amount zero",
			setup: func(e *Engine) {
				e.SetNativeAmount("0")
			},
			field: "amount",
		},
		{
			name: "amount negative",
			setup: func(e *Engine) {
				e.SetNativeAmount("-1")
			},
			field: "amount",
		},
		{
			name: "amount not a number",
			setup: func(e *Engine) {
				e.SetNativeAmount("abc")
			},
			field: "amount",
		},
		{
			name: "price zero with live price off",
			setup: func(e *Engine) {
				e.SetNativeAmount("1")
				e.SetUseLivePrice(false)
				e.SetPrice("0")
			},
			field: "price",
		},
		{
			name: "missing date",
			setup: func(e *Engine) {
				e.SetNativeAmount("1")
				e.SetDate("")
			},
			field: "date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _, gw, refresher := newTestEngine(t)
			tt.setup(engine)

			before := engine.Draft()
			err := engine.Submit(context.Background())

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tt.field, validationErr.Field)
			require.Empty(t, gw.added, "no network call on validation failure")
			require.Zero(t, refresher.calls)
			require.Equal(t, before, engine.Draft(), "draft must be retained for correction")
		})
	}
}

func TestSubmitSuccessResetsDraftAndRefreshesOnce(t *testing.T) {
	engine, _, gw, refresher := newTestEngine(t)

	engine.SetCoin(domain.CoinEthereum)
	engine.SetType(domain.TxSell)
	engine.SetMode(ModeFiat)
	engine.SetFiatAmount("500")
	engine.SetDate("2026-08-28")

	require.NoError(t, engine.Submit(context.Background()))

	require.Len(t, gw.added, 1)
	sent := gw.added[0]
	require.Equal(t, domain.CoinEthereum, sent.Coin)
	require.Equal(t, domain.TxSell, sent.Type)
	require.True(t, sent.Amount.Equal(decimal.NewFromFloat(2.5)), "500 USD at 200 per ETH")
	require.True(t, sent.Price.Equal(decimal.NewFromInt(200)))
	require.Equal(t, "2026-08-28", sent.Date)

	require.Equal(t, 1, refresher.calls, "exactly one refresh after success")

	draft := engine.Draft()
	require.True(t, draft.UseLivePrice, "live-price flag survives the reset")
	require.Equal(t, domain.CoinBitcoin, draft.Coin)
	require.Equal(t, ModeNative, draft.Mode)
	require.Empty(t, draft.NativeAmount)
	require.Empty(t, draft.FiatAmount)
	require.Equal(t, "3000", draft.Price, "price re-binds for the default coin")
}

func TestSubmitDomainErrorRetainsDraft(t *testing.T) {
	engine, _, gw, refresher := newTestEngine(t)
	gw.addErr = &clients.DomainError{Message: "Transaction type must be either buy or sell"}

	engine.SetNativeAmount("1")

	before := engine.Draft()
	err := engine.Submit(context.Background())

	var domainErr *clients.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, before, engine.Draft(), "draft survives a service-reported failure")
	require.Zero(t, refresher.calls)
}

func TestSubmitSucceedsEvenIfRefreshFails(t *testing.T) {
	engine, _, gw, refresher := newTestEngine(t)
	refresher.err = context.DeadlineExceeded

	engine.SetNativeAmount("1")
	require.NoError(t, engine.Submit(context.Background()), "the record is persisted server-side")
	require.Len(t, gw.added, 1)
	require.Equal(t, 1, refresher.calls)
}
