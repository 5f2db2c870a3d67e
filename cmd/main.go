// Command cryptofolio runs the BTC/ETH portfolio tracker client. It polls the
// tracker service on a fixed period, renders a terminal dashboard, and serves
// a browser dashboard over SSE.
//
// Usage:
//
//	cryptofolio --config config.yaml
//	cryptofolio (uses CLI arguments)
//	cryptofolio --add (interactive add-transaction wizard)
//
// The TRACKER_BASE_URL environment variable (or a .env file) overrides the
// configured service address.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cryptofolio/cryptofolio/config"
	"github.com/cryptofolio/cryptofolio/internal/clients"
	"github.com/cryptofolio/cryptofolio/internal/domain"
	"github.com/cryptofolio/cryptofolio/internal/services/display"
	"github.com/cryptofolio/cryptofolio/internal/services/pricing"
	"github.com/cryptofolio/cryptofolio/internal/services/refresh"
	"github.com/cryptofolio/cryptofolio/internal/services/txentry"
	"github.com/cryptofolio/cryptofolio/internal/setup"
	"github.com/cryptofolio/cryptofolio/internal/web"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	tracker := clients.NewTrackerClient(cfg.BaseURL, cfg.HTTPTimeout)
	orchestrator := refresh.NewOrchestrator(logger.With(zap.String("component", "refresh")), tracker, cfg.Frequency)
	resolver := pricing.NewResolver(orchestrator)
	engine := txentry.New(logger.With(zap.String("component", "txentry")), resolver, tracker, orchestrator)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.AddTransaction {
		// one refresh up front so the wizard has a live price to bind
		if err := orchestrator.RefreshAll(ctx); err != nil {
			logger.Warn("could not fetch live prices, wizard starts with manual price entry", zap.Error(err))
		}
		if err := setup.RunAddTransactionTUI(ctx, engine); err != nil {
			os.Exit(1)
		}
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return orchestrator.Run(gctx, cfg.RefreshInterval)
	})
	g.Go(func() error {
		return web.NewServer(cfg.Listen, orchestrator).Start(gctx)
	})
	g.Go(func() error {
		return renderLoop(gctx, orchestrator, cfg.TransitionDelay)
	})

	logger.Info("started",
		zap.String("base_url", cfg.BaseURL),
		zap.Duration("refresh_interval", cfg.RefreshInterval),
		zap.String("listen", cfg.Listen))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("client stopped", zap.Error(err))
	}
}

// renderLoop repaints the terminal dashboard on every published snapshot. The
// header ticker values run through the visual-transition state machine, so
// rapid successive snapshots converge on the latest price without flicker.
func renderLoop(ctx context.Context, orchestrator *refresh.Orchestrator, delay time.Duration) error {
	snapshots, cancel := orchestrator.Subscribe()
	defer cancel()

	btcTicker := display.NewStatValue(delay)
	ethTicker := display.NewStatValue(delay)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-snapshots:
			if !ok {
				return nil
			}
			btcTicker.Push(display.Money(pricing.Price(&snap.Portfolio, domain.CoinBitcoin)))
			ethTicker.Push(display.Money(pricing.Price(&snap.Portfolio, domain.CoinEthereum)))

			// let the transition settle before repainting
			timer := time.NewTimer(delay + 50*time.Millisecond)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}

			btc, _ := btcTicker.Current()
			eth, _ := ethTicker.Current()
			fmt.Print("\033[H\033[2J")
			fmt.Printf("BTC %s   ETH %s\n\n", btc, eth)
			fmt.Print(display.Dashboard(&snap))
		}
	}
}
