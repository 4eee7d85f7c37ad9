package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/laramiej/ai-daytrading/internal/bot"
	"github.com/laramiej/ai-daytrading/internal/broker"
	"github.com/laramiej/ai-daytrading/internal/broker/alpaca"
	"github.com/laramiej/ai-daytrading/internal/config"
	"github.com/laramiej/ai-daytrading/internal/llm"
	"github.com/laramiej/ai-daytrading/internal/logger"
	"github.com/laramiej/ai-daytrading/internal/monitoring"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "daytrader",
		Short: "AI-driven intraday equity trading bot",
		Long: `daytrader scans a watchlist, asks a language model for directional
signals (optionally through a bull/bear/judge debate), sizes each
candidate against risk limits and places risk-approved orders.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCmd(), newScanCmd(), newStatusCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and builds the bot with its collaborators
func setup() (*bot.Bot, *config.Config, *logger.Logger, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.NewLoggerWithDebug("daytrader", cfg.Bot.Debug)
	if err != nil {
		return nil, nil, nil, err
	}

	var b broker.Broker = alpaca.NewClient(alpaca.Config{
		APIKey:       cfg.Alpaca.APIKey,
		SecretKey:    cfg.Alpaca.SecretKey,
		PaperTrading: cfg.Alpaca.PaperTrading,
	})

	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return nil, nil, nil, err
	}

	tradingBot, err := bot.New(cfg, b, provider, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return tradingBot, cfg, log, nil
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the continuous scan loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			tradingBot, cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Close()

			startHTTPServers(cfg, tradingBot, log)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = tradingBot.RunContinuous(ctx)

			// End-of-session report regardless of how the loop ended
			pnl := tradingBot.DailyPnL()
			tradingBot.Report().PrintSummary(pnl)
			if path, werr := tradingBot.Report().WriteXLSX("reports", pnl); werr != nil {
				log.Error("failed to write daily report: %v", werr)
			} else {
				fmt.Printf("Daily report written to %s\n", path)
			}

			if err == context.Canceled {
				return nil
			}
			return err
		},
	}
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Evaluate the watchlist once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			tradingBot, _, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Close()

			if err := tradingBot.RunScan(cmd.Context()); err != nil {
				return err
			}
			tradingBot.Report().PrintSummary(tradingBot.DailyPnL())
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show account, exposure and open positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			tradingBot, _, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Close()

			return tradingBot.PrintStatus(cmd.Context())
		},
	}
}

// startHTTPServers exposes Prometheus metrics and the health endpoint
func startHTTPServers(cfg *config.Config, tradingBot *bot.Bot, log *logger.Logger) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", monitoring.NewMetricsHandler())
		addr := fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("metrics server: %v", err)
		}
	}()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/health", tradingBot.Health())
		addr := fmt.Sprintf(":%d", cfg.Monitoring.HealthPort)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("health server: %v", err)
		}
	}()
}
