// Package setup contains the interactive terminal wizard for entering a
// manual transaction.
package setup

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/cryptofolio/cryptofolio/internal/domain"
	"github.com/cryptofolio/cryptofolio/internal/services/txentry"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// RunAddTransactionTUI walks the user through one transaction draft and
// submits it through the reconciliation engine.
func RunAddTransactionTUI(ctx context.Context, engine *txentry.Engine) error {
	draft := engine.Draft()

	coin := string(draft.Coin)
	txType := string(draft.Type)
	mode := string(draft.Mode)
	useLive := draft.UseLivePrice
	price := draft.Price
	amount := ""
	date := draft.Date
	confirm := false

	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("CRYPTOFOLIO ADD TRANSACTION"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Record a manual buy or sell.\n"))

	// coin and direction
	fmt.Println(stepStyle.Render("STEP 1: ASSET"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Coin").
				Options(
					huh.NewOption("Bitcoin", string(domain.CoinBitcoin)),
					huh.NewOption("Ethereum", string(domain.CoinEthereum)),
				).
				Value(&coin),
			huh.NewSelect[string]().
				Title("Direction").
				Options(
					huh.NewOption("Buy", string(domain.TxBuy)),
					huh.NewOption("Sell", string(domain.TxSell)),
				).
				Value(&txType),
		),
	).Run()
	if err != nil {
		return err
	}
	engine.SetCoin(domain.Coin(coin))
	engine.SetType(domain.TxType(txType))

	// pricing
	fmt.Println(stepStyle.Render("STEP 2: PRICE"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Use live price (%s)?", engine.Draft().Price)).
				Value(&useLive),
		),
	).Run()
	if err != nil {
		return err
	}
	engine.SetUseLivePrice(useLive)
	if !useLive {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Price (USD per coin)").
					Validate(validatePositiveNumber).
					Value(&price),
			),
		).Run()
		if err != nil {
			return err
		}
		engine.SetPrice(price)
	}

	// amount
	fmt.Println(stepStyle.Render("STEP 3: AMOUNT"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Enter the amount in").
				Options(
					huh.NewOption("Coin units", string(txentry.ModeNative)),
					huh.NewOption("US dollars", string(txentry.ModeFiat)),
				).
				Value(&mode),
		),
	).Run()
	if err != nil {
		return err
	}
	engine.SetMode(txentry.InputMode(mode))

	amountTitle := "Amount (coin units)"
	if txentry.InputMode(mode) == txentry.ModeFiat {
		amountTitle = "Amount (USD)"
	}
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(amountTitle).
				Validate(validatePositiveNumber).
				Value(&amount),
		),
	).Run()
	if err != nil {
		return err
	}
	if txentry.InputMode(mode) == txentry.ModeFiat {
		engine.SetFiatAmount(amount)
	} else {
		engine.SetNativeAmount(amount)
	}

	// date and confirmation
	fmt.Println(stepStyle.Render("STEP 4: DATE"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date (YYYY-MM-DD)").
				Value(&date),
		),
	).Run()
	if err != nil {
		return err
	}
	engine.SetDate(date)

	final := engine.Draft()
	summary := fmt.Sprintf("%s %s %s at %s on %s", final.Type, final.NativeAmount, domain.Coin(coin).Ticker(), final.Price, final.Date)
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Submit: " + summary + "?").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		return errors.New("cancelled")
	}

	if err := engine.Submit(ctx); err != nil {
		fmt.Println(errorStyle.Render("✗ " + err.Error()))
		return err
	}
	fmt.Println(lipgloss.NewStyle().Foreground(special).Render("✓ transaction recorded"))
	return nil
}

func validatePositiveNumber(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if !d.IsPositive() {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}
