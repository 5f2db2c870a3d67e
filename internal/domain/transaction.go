package domain

import "github.com/shopspring/decimal"

// TransactionRecord is a manually entered buy or sell. The client only ever
// constructs and submits these; the authoritative copy lives server-side and
// is re-fetched with the transaction list.
type TransactionRecord struct {
	Coin   Coin            `json:"coin"`
	Type   TxType          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Price  decimal.Decimal `json:"price"`
	Date   string          `json:"date"`

	// Server-assigned fields, present only on records read back from the
	// service. Sells additionally carry realized profit figures.
	Timestamp         string          `json:"timestamp,omitempty"`
	ProfitLoss        decimal.Decimal `json:"profit_loss,omitempty"`
	ProfitLossPercent decimal.Decimal `json:"profit_loss_percent,omitempty"`
	AverageBuyPrice   decimal.Decimal `json:"average_buy_price,omitempty"`
}
