package display

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"0", "$0.00"},
		{"3.5", "$3.50"},
		{"1234.56", "$1,234.56"},
		{"1234567.891", "$1,234,567.89"},
		{"-42.1", "-$42.10"},
		{"999", "$999.00"},
		{"1000", "$1,000.00"},
	}
	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.expected, Money(d), "Money(%s)", tt.in)
	}
}

func TestSignedMoney(t *testing.T) {
	require.Equal(t, "+$12.00", SignedMoney(decimal.NewFromInt(12)))
	require.Equal(t, "-$12.00", SignedMoney(decimal.NewFromInt(-12)))
	require.Equal(t, "+$0.00", SignedMoney(decimal.Zero))
}

func TestPercent(t *testing.T) {
	require.Equal(t, "+3.25%", Percent(decimal.NewFromFloat(3.25)))
	require.Equal(t, "-1.50%", Percent(decimal.NewFromFloat(-1.5)))
	require.Equal(t, "+0.00%", Percent(decimal.Zero))
}

func TestCoinAmount(t *testing.T) {
	require.Equal(t, "0.002345", CoinAmount(decimal.NewFromFloat(0.002345)))
	require.Equal(t, "2.000000", CoinAmount(decimal.NewFromInt(2)))
}
