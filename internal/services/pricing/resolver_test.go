package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cryptofolio/cryptofolio/internal/domain"
	"github.com/cryptofolio/cryptofolio/internal/services/refresh"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		name     string
		held     decimal.Decimal
		value    decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "positive holdings yield value per unit",
			held:     decimal.NewFromInt(2),
			value:    decimal.NewFromInt(6000),
			expected: decimal.NewFromInt(3000),
		},
		{
			name:     "no holdings yield zero, not an error",
			held:     decimal.Zero,
			value:    decimal.Zero,
			expected: decimal.Zero,
		},
		{
			name:     "no holdings with residual value still yield zero",
			held:     decimal.Zero,
			value:    decimal.NewFromInt(100),
			expected: decimal.Zero,
		},
		{
			name:     "fractional holdings",
			held:     decimal.NewFromFloat(0.5),
			value:    decimal.NewFromInt(1500),
			expected: decimal.NewFromInt(3000),
		},
		{
			name:     "negative holdings treated as no holdings",
			held:     decimal.NewFromInt(-1),
			value:    decimal.NewFromInt(100),
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &domain.PortfolioSnapshot{BtcHeld: tt.held, BtcValue: tt.value}
			got := Price(p, domain.CoinBitcoin)
			require.True(t, got.Equal(tt.expected), "got %s, want %s", got, tt.expected)
		})
	}
}

func TestPricePerCoin(t *testing.T) {
	p := &domain.PortfolioSnapshot{
		BtcHeld:  decimal.NewFromInt(2),
		BtcValue: decimal.NewFromInt(6000),
		EthHeld:  decimal.NewFromInt(10),
		EthValue: decimal.NewFromInt(2000),
	}
	require.True(t, Price(p, domain.CoinBitcoin).Equal(decimal.NewFromInt(3000)))
	require.True(t, Price(p, domain.CoinEthereum).Equal(decimal.NewFromInt(200)))
}

type staticState struct {
	state refresh.State
}

func (s staticState) State() refresh.State { return s.state }

func TestResolverCurrentPrice(t *testing.T) {
	snap := &domain.Snapshot{
		Portfolio: domain.PortfolioSnapshot{
			BtcHeld:  decimal.NewFromInt(2),
			BtcValue: decimal.NewFromInt(6000),
		},
	}
	r := NewResolver(staticState{refresh.State{LastSnapshot: snap}})
	require.True(t, r.CurrentPrice(domain.CoinBitcoin).Equal(decimal.NewFromInt(3000)))
}

func TestResolverNoSnapshotYieldsZero(t *testing.T) {
	r := NewResolver(staticState{refresh.State{}})
	require.True(t, r.CurrentPrice(domain.CoinBitcoin).IsZero())
}
