// Package domain defines core data structures shared by the portfolio tracker client.
package domain

import "fmt"

// Coin is one of the two tracked assets.
type Coin string

const (
	CoinBitcoin  Coin = "bitcoin"
	CoinEthereum Coin = "ethereum"
)

// ParseCoin validates a coin identifier as it appears on the wire.
func ParseCoin(s string) (Coin, error) {
	switch Coin(s) {
	case CoinBitcoin, CoinEthereum:
		return Coin(s), nil
	}
	return "", fmt.Errorf("unknown coin %q, must be bitcoin or ethereum", s)
}

// Ticker returns the short display symbol for the coin.
func (c Coin) Ticker() string {
	switch c {
	case CoinBitcoin:
		return "BTC"
	case CoinEthereum:
		return "ETH"
	}
	return string(c)
}

// TxType is the direction of a manually entered transaction.
type TxType string

const (
	TxBuy  TxType = "buy"
	TxSell TxType = "sell"
)

// ParseTxType validates a transaction type as it appears on the wire.
func ParseTxType(s string) (TxType, error) {
	switch TxType(s) {
	case TxBuy, TxSell:
		return TxType(s), nil
	}
	return "", fmt.Errorf("unknown transaction type %q, must be buy or sell", s)
}
