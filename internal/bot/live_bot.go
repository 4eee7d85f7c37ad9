package bot

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/laramiej/ai-daytrading/internal/broker"
	"github.com/laramiej/ai-daytrading/internal/config"
	boterrors "github.com/laramiej/ai-daytrading/internal/errors"
	"github.com/laramiej/ai-daytrading/internal/llm"
	"github.com/laramiej/ai-daytrading/internal/logger"
	"github.com/laramiej/ai-daytrading/internal/monitoring"
	"github.com/laramiej/ai-daytrading/internal/notifications"
	"github.com/laramiej/ai-daytrading/internal/portfolio"
	"github.com/laramiej/ai-daytrading/internal/reporting"
	"github.com/laramiej/ai-daytrading/internal/risk"
	"github.com/laramiej/ai-daytrading/internal/signal"
	"github.com/laramiej/ai-daytrading/internal/strategy"
)

// Bot wires the signal pipeline to the risk engine and the broker. One
// logical worker evaluates one symbol at a time; portfolio state is read
// once per symbol so sizing and risk checks see the same snapshot.
type Bot struct {
	cfg       *config.Config
	broker    broker.Broker
	accessor  *portfolio.Accessor
	strategy  *strategy.Strategy
	sizer     *risk.Sizer
	evaluator *risk.Evaluator
	approver  Approver
	notifier  notifications.Notifier
	health    *monitoring.HealthChecker
	report    *reporting.DailyReport
	log       *logger.Logger

	stopChan chan struct{}
}

// New assembles a bot from loaded configuration and an already-constructed
// broker and model provider.
func New(cfg *config.Config, b broker.Broker, provider llm.Provider, log *logger.Logger) (*Bot, error) {
	limits := risk.LimitsFromConfig(cfg.Risk)
	if err := limits.Validate(); err != nil {
		return nil, boterrors.Wrap(boterrors.ErrorCategoryConfiguration, "bot", "new", "invalid risk limits", err)
	}

	market := strategy.NewQuoteSource(b)
	strat := strategy.New(provider, market, log, cfg.LLM.EnableDebate)

	var notifier notifications.Notifier = notifications.NopNotifier{}
	if cfg.Notifications.TelegramToken != "" && cfg.Notifications.TelegramChatID != "" {
		notifier = notifications.NewTelegramNotifier(cfg.Notifications.TelegramToken, cfg.Notifications.TelegramChatID)
	}

	var approver Approver
	if cfg.Bot.EnableAutoTrading {
		approver = AutoApprover{}
	} else {
		approver = NewConsoleApprover()
	}

	return &Bot{
		cfg:       cfg,
		broker:    b,
		accessor:  portfolio.NewAccessor(b),
		strategy:  strat,
		sizer:     risk.NewSizer(limits),
		evaluator: risk.NewEvaluator(limits, risk.NewDailyState()),
		approver:  approver,
		notifier:  notifier,
		health:    monitoring.NewHealthChecker(),
		report:    reporting.NewDailyReport(),
		log:       log,
		stopChan:  make(chan struct{}),
	}, nil
}

// Health exposes the health checker for the HTTP endpoint
func (bot *Bot) Health() *monitoring.HealthChecker {
	return bot.health
}

// Report exposes the daily report for end-of-session output
func (bot *Bot) Report() *reporting.DailyReport {
	return bot.report
}

// Strategy exposes the strategy for status display
func (bot *Bot) Strategy() *strategy.Strategy {
	return bot.strategy
}

// DailyPnL returns today's realized P&L
func (bot *Bot) DailyPnL() float64 {
	return bot.evaluator.Daily().PnL()
}

// RunContinuous scans the watchlist on the configured interval until Stop
// is called or the context is cancelled.
func (bot *Bot) RunContinuous(ctx context.Context) error {
	bot.printStartupInfo()

	ticker := time.NewTicker(bot.cfg.Bot.ScanInterval)
	defer ticker.Stop()

	// First scan immediately, then on the ticker
	if err := bot.RunScan(ctx); err != nil {
		bot.log.Error("scan failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			bot.log.Info("context cancelled, shutting down")
			return ctx.Err()
		case <-bot.stopChan:
			bot.log.Info("stop requested, shutting down")
			return nil
		case <-ticker.C:
			if err := bot.RunScan(ctx); err != nil {
				bot.log.Error("scan failed: %v", err)
				bot.health.RecordError(err.Error())
			}
		}
	}
}

// Stop signals the continuous loop to exit after the current scan
func (bot *Bot) Stop() {
	close(bot.stopChan)
}

// RunScan evaluates the whole watchlist once. Failures on individual
// symbols are logged and skipped; only a broker outage that prevents
// reading portfolio state aborts the scan.
func (bot *Bot) RunScan(ctx context.Context) error {
	started := time.Now()
	defer func() {
		monitoring.RecordScanDuration(time.Since(started).Seconds())
	}()

	open, err := bot.broker.IsMarketOpen(ctx)
	if err != nil {
		bot.health.SetConnected(false)
		return boterrors.Wrap(boterrors.ErrorCategoryUpstream, "bot", "scan", "market clock unavailable", err)
	}
	bot.health.SetConnected(true)

	if !open {
		bot.log.Info("market closed, skipping scan")
		return nil
	}

	snap, err := bot.accessor.Take(ctx)
	if err != nil {
		return err
	}
	monitoring.UpdatePortfolio(snap.Exposure(), bot.evaluator.Daily().PnL())

	portfolioContext := portfolio.FormatContext(snap,
		bot.cfg.Risk.MaxOpenPositions, bot.cfg.Risk.MaxTotalExposure, bot.cfg.Risk.EnableShortSelling)

	symbols := bot.cfg.WatchlistSymbols()
	bot.log.Info("scanning %d symbols (debate=%v)", len(symbols), bot.strategy.DebateActive())

	candidates := bot.strategy.AnalyzeWatchlist(ctx, symbols, portfolioContext, bot.cfg.Bot.MinConfidence)
	for _, sig := range candidates {
		monitoring.RecordSignal(sig.Symbol, string(sig.Action), sig.Confidence)

		// Re-read state per candidate so each decision sees the effect of
		// trades executed earlier in this scan
		snap, err = bot.accessor.Take(ctx)
		if err != nil {
			bot.log.Error("portfolio re-read failed, stopping scan: %v", err)
			break
		}

		if err := bot.processSignal(ctx, sig, snap); err != nil {
			bot.log.Error("processing %s failed: %v", sig.Symbol, err)
			monitoring.RecordError("process_signal")
		}
	}

	bot.health.RecordScan()
	bot.log.Info("scan complete: %d candidates in %s", len(candidates), time.Since(started).Round(time.Millisecond))
	return nil
}

// processSignal runs one signal through sizing, risk evaluation, approval
// and execution against a single portfolio snapshot.
func (bot *Bot) processSignal(ctx context.Context, sig *signal.TradingSignal, snap *portfolio.Snapshot) error {
	quote, err := bot.broker.GetLatestQuote(ctx, sig.Symbol)
	if err != nil {
		return boterrors.Wrap(boterrors.ErrorCategoryUpstream, "bot", "process_signal", "quote unavailable", err)
	}
	price := quote.Mid()

	side := broker.OrderSideBuy
	if sig.Action == signal.ActionSell {
		side = broker.OrderSideSell
	}

	quantity, sizing, err := bot.resolveQuantity(sig, side, snap, price)
	if err != nil {
		// Non-positive size means no trade, not a failure
		bot.log.Decision("%s: no trade (%v)", sig.Symbol, err)
		return nil
	}
	if sizing != "" {
		bot.log.Decision("%s: sized %d shares at $%.2f (%s)", sig.Symbol, quantity, price, sizing)
	}

	decision := bot.evaluator.EvaluateTrade(sig.Symbol, side, quantity, price, snap)
	monitoring.RecordDecision(sig.Symbol, decision.Approved)
	for _, w := range decision.Warnings {
		bot.log.Warning("%s: %s", sig.Symbol, w)
	}

	if !decision.Approved {
		bot.log.Decision("%s: denied - %s", sig.Symbol, decision.Reason)
		bot.report.Add(reporting.TradeRecord{
			Timestamp:  time.Now(),
			Symbol:     sig.Symbol,
			Side:       string(side),
			Quantity:   quantity,
			Price:      price,
			Value:      float64(quantity) * price,
			Executed:   false,
			Reason:     decision.Reason,
			Confidence: sig.Confidence,
		})
		return nil
	}

	if !bot.approver.Approve(sig, quantity, price, decision) {
		bot.log.Decision("%s: trade not confirmed, skipping", sig.Symbol)
		bot.report.Add(reporting.TradeRecord{
			Timestamp:  time.Now(),
			Symbol:     sig.Symbol,
			Side:       string(side),
			Quantity:   quantity,
			Price:      price,
			Value:      float64(quantity) * price,
			Executed:   false,
			Reason:     "not confirmed",
			Confidence: sig.Confidence,
		})
		return nil
	}

	return bot.execute(ctx, sig, side, quantity, price, snap)
}

// resolveQuantity picks the share count for a signal. A SELL against an
// existing long (or BUY against a short) closes the whole position; only
// opens and adds go through the sizer.
func (bot *Bot) resolveQuantity(sig *signal.TradingSignal, side broker.OrderSide, snap *portfolio.Snapshot, price float64) (int, string, error) {
	pos := snap.Position(sig.Symbol)
	if pos != nil {
		closing := (side == broker.OrderSideSell && pos.Side == broker.PositionSideLong) ||
			(side == broker.OrderSideBuy && pos.Side == broker.PositionSideShort)
		if closing {
			// Fractional holdings close in whole shares only; anything
			// below one share is no trade, never a zero-share order.
			whole := int(math.Floor(pos.Quantity))
			if whole < 1 {
				return 0, "", fmt.Errorf("held %.4f shares of %s, below one whole share", pos.Quantity, sig.Symbol)
			}
			return whole, fmt.Sprintf("closing %s position (%d whole shares)", pos.Side, whole), nil
		}
	}

	result, err := bot.sizer.Size(sig, snap, price)
	if err != nil {
		return 0, "", err
	}
	return result.Quantity, result.Explanation, nil
}

// execute places the approved order and records the outcome. Realized P&L
// from closes feeds the daily loss tally.
func (bot *Bot) execute(ctx context.Context, sig *signal.TradingSignal, side broker.OrderSide, quantity int, price float64, snap *portfolio.Snapshot) error {
	pos := snap.Position(sig.Symbol)

	order, err := bot.broker.PlaceMarketOrder(ctx, sig.Symbol, side, float64(quantity))
	if err != nil {
		bot.notifier.SendAlert("error", fmt.Sprintf("Order failed: %s %d %s: %v", side, quantity, sig.Symbol, err))
		return boterrors.Wrap(boterrors.ErrorCategoryUpstream, "bot", "execute", "order placement failed", err)
	}

	monitoring.RecordTrade(sig.Symbol, string(side))
	bot.log.Trade("%s %d shares of %s at ~$%.2f (order %s)", side, quantity, sig.Symbol, price, order.ID)

	// A close realizes the position's P&L against today's loss budget
	var realized float64
	if pos != nil && isClose(side, pos.Side) {
		realized = pos.PnL
		bot.evaluator.Daily().AddPnL(realized)
	}
	bot.evaluator.Daily().RecordTrade(risk.TradeEntry{
		Symbol:    sig.Symbol,
		Side:      string(side),
		Quantity:  float64(quantity),
		Price:     price,
		PnL:       realized,
		Timestamp: time.Now(),
	})

	bot.report.Add(reporting.TradeRecord{
		Timestamp:  time.Now(),
		Symbol:     sig.Symbol,
		Side:       string(side),
		Quantity:   quantity,
		Price:      price,
		Value:      float64(quantity) * price,
		Executed:   true,
		Reason:     sig.Reasoning,
		Confidence: sig.Confidence,
		OrderID:    order.ID,
	})

	bot.notifier.SendAlert("trade", fmt.Sprintf("%s %d %s @ ~$%.2f (confidence %.0f)",
		side, quantity, sig.Symbol, price, sig.Confidence))
	return nil
}

func isClose(side broker.OrderSide, posSide broker.PositionSide) bool {
	return (side == broker.OrderSideSell && posSide == broker.PositionSideLong) ||
		(side == broker.OrderSideBuy && posSide == broker.PositionSideShort)
}
