package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSnapshot is the aggregated portfolio valuation returned by /portfolio.
// Totals and percentages are computed server-side and propagated as-is; this layer
// does not re-derive or cross-validate them.
type PortfolioSnapshot struct {
	BtcInvested        decimal.Decimal `json:"btc_invested"`
	EthInvested        decimal.Decimal `json:"eth_invested"`
	BtcHeld            decimal.Decimal `json:"btc_held"`
	EthHeld            decimal.Decimal `json:"eth_held"`
	BtcValue           decimal.Decimal `json:"btc_value"`
	EthValue           decimal.Decimal `json:"eth_value"`
	TotalValue         decimal.Decimal `json:"total_value"`
	TotalInvested      decimal.Decimal `json:"total_invested"`
	ProfitLoss         decimal.Decimal `json:"profit_loss"`
	BtcPercentChange   decimal.Decimal `json:"btc_percent_change"`
	EthPercentChange   decimal.Decimal `json:"eth_percent_change"`
	TotalPercentChange decimal.Decimal `json:"total_percent_change"`
}

// Held returns the held amount for a coin.
func (p *PortfolioSnapshot) Held(coin Coin) decimal.Decimal {
	if coin == CoinBitcoin {
		return p.BtcHeld
	}
	return p.EthHeld
}

// Value returns the current fiat value for a coin.
func (p *PortfolioSnapshot) Value(coin Coin) decimal.Decimal {
	if coin == CoinBitcoin {
		return p.BtcValue
	}
	return p.EthValue
}

// LiveStats is real-time profit data from /live_profit_loss. It is structurally
// independent of PortfolioSnapshot and the two are displayed side by side.
type LiveStats struct {
	BtcPrice      decimal.Decimal `json:"btc_price"`
	EthPrice      decimal.Decimal `json:"eth_price"`
	ProfitBtc     decimal.Decimal `json:"profit_btc"`
	ProfitEth     decimal.Decimal `json:"profit_eth"`
	ProfitTotal   decimal.Decimal `json:"profit_total"`
	ProfitPercent decimal.Decimal `json:"profit_percent"`
}

// DailyDelta is the fixed 24h-window comparison from /daily_profit_loss.
// The timestamp pair belongs to the window, not to the refresh wall-clock.
type DailyDelta struct {
	TimestampToday     string          `json:"timestamp_today"`
	TimestampYesterday string          `json:"timestamp_yesterday"`
	BtcDailyChange     decimal.Decimal `json:"btc_daily_change"`
	EthDailyChange     decimal.Decimal `json:"eth_daily_change"`
	TotalDailyChange   decimal.Decimal `json:"total_daily_change"`
}

// HistoryPoint is one element of the /portfolio_history series, ordered by
// ascending date.
type HistoryPoint struct {
	Date          string          `json:"date"`
	TotalValue    decimal.Decimal `json:"total_value"`
	TotalInvested decimal.Decimal `json:"total_invested"`
	ProfitLoss    decimal.Decimal `json:"profit_loss"`
}

// CurrentPrices is the /current_prices payload.
type CurrentPrices struct {
	Bitcoin  decimal.Decimal `json:"bitcoin"`
	Ethereum decimal.Decimal `json:"ethereum"`
}

// Price returns the current price for a coin.
func (c CurrentPrices) Price(coin Coin) decimal.Decimal {
	if coin == CoinBitcoin {
		return c.Bitcoin
	}
	return c.Ethereum
}

// CoinAnalysis aggregates manual-transaction statistics for one coin, as
// computed by /transaction_analysis.
type CoinAnalysis struct {
	TotalBought          decimal.Decimal     `json:"total_bought"`
	TotalSold            decimal.Decimal     `json:"total_sold"`
	NetAmount            decimal.Decimal     `json:"net_amount"`
	TotalInvested        decimal.Decimal     `json:"total_invested"`
	TotalReceived        decimal.Decimal     `json:"total_received"`
	RealizedProfitLoss   decimal.Decimal     `json:"realized_profit_loss"`
	UnrealizedProfitLoss decimal.Decimal     `json:"unrealized_profit_loss"`
	Transactions         []AnalyzedTx    `json:"transactions"`
}

// AnalyzedTx is a single transaction row inside CoinAnalysis.
type AnalyzedTx struct {
	Date              string          `json:"date"`
	Type              TxType          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Price             decimal.Decimal `json:"price"`
	Value             decimal.Decimal `json:"value"`
	ProfitLoss        decimal.Decimal `json:"profit_loss,omitempty"`
	ProfitLossPercent decimal.Decimal `json:"profit_loss_percent,omitempty"`
}

// TransactionAnalysis is the per-coin breakdown from /transaction_analysis.
type TransactionAnalysis struct {
	Bitcoin  CoinAnalysis `json:"bitcoin"`
	Ethereum CoinAnalysis `json:"ethereum"`
}

// Snapshot is one consistent, atomically published read of all portfolio data
// sources. It is immutable once published by the orchestrator.
type Snapshot struct {
	Portfolio    PortfolioSnapshot
	Live         LiveStats
	Daily        DailyDelta
	Transactions []TransactionRecord
	History      []HistoryPoint
	Prices       CurrentPrices
	Analysis     TransactionAnalysis
	FetchedAt    time.Time
}
