package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cryptofolio/cryptofolio/internal/domain"
	"github.com/cryptofolio/cryptofolio/internal/services/pricing"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	gain      = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	loss      = lipgloss.AdaptiveColor{Light: "#D94C4C", Dark: "#F57373"}

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 2).
			Width(26)

	cardTitleStyle = lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true)

	gainStyle = lipgloss.NewStyle().Foreground(gain)
	lossStyle = lipgloss.NewStyle().Foreground(loss)

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(highlight).
				PaddingRight(2)

	tableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// statCard renders one bordered stat card with a title, a primary value and
// an optional colored secondary line.
func statCard(title, value, secondary string, positive bool) string {
	lines := []string{cardTitleStyle.Render(title), value}
	if secondary != "" {
		style := lossStyle
		if positive {
			style = gainStyle
		}
		lines = append(lines, style.Render(secondary))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// Dashboard renders a snapshot as terminal stat cards and a recent
// transactions table.
func Dashboard(snap *domain.Snapshot) string {
	p := &snap.Portfolio

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("TOTAL VALUE",
			Money(p.TotalValue),
			Percent(p.TotalPercentChange),
			!p.TotalPercentChange.IsNegative()),
		statCard("INVESTED",
			Money(p.TotalInvested),
			SignedMoney(p.ProfitLoss),
			!p.ProfitLoss.IsNegative()),
		statCard("LIVE P/L",
			SignedMoney(snap.Live.ProfitTotal),
			Percent(snap.Live.ProfitPercent),
			!snap.Live.ProfitTotal.IsNegative()),
		statCard("24H CHANGE",
			SignedMoney(snap.Daily.TotalDailyChange),
			"",
			!snap.Daily.TotalDailyChange.IsNegative()),
	)

	prices := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("BTC",
			Money(pricing.Price(p, domain.CoinBitcoin)),
			CoinAmount(p.BtcHeld)+" held",
			!p.BtcPercentChange.IsNegative()),
		statCard("ETH",
			Money(pricing.Price(p, domain.CoinEthereum)),
			CoinAmount(p.EthHeld)+" held",
			!p.EthPercentChange.IsNegative()),
	)

	sections := []string{cards, prices}
	if table := transactionsTable(snap.Transactions); table != "" {
		sections = append(sections, table)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

const maxTableRows = 10

// transactionsTable renders the most recent manual transactions, newest last.
func transactionsTable(txs []domain.TransactionRecord) string {
	if len(txs) == 0 {
		return ""
	}
	if len(txs) > maxTableRows {
		txs = txs[len(txs)-maxTableRows:]
	}

	rows := make([][]string, 0, len(txs)+1)
	rows = append(rows, []string{"DATE", "COIN", "TYPE", "AMOUNT", "PRICE", "VALUE"})
	for _, tx := range txs {
		rows = append(rows, []string{
			tx.Date,
			tx.Coin.Ticker(),
			strings.ToUpper(string(tx.Type)),
			CoinAmount(tx.Amount),
			Money(tx.Price),
			Money(tx.Amount.Mul(tx.Price)),
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for r, row := range rows {
		for i, cell := range row {
			padded := cell + strings.Repeat(" ", widths[i]-len(cell))
			if r == 0 {
				b.WriteString(tableHeaderStyle.Render(padded))
			} else {
				b.WriteString(tableCellStyle.Render(padded))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
