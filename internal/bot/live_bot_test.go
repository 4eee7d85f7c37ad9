package bot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laramiej/ai-daytrading/internal/broker"
	"github.com/laramiej/ai-daytrading/internal/config"
	"github.com/laramiej/ai-daytrading/internal/llm"
	"github.com/laramiej/ai-daytrading/internal/logger"
)

// fakeBroker is an in-memory broker for pipeline tests
type fakeBroker struct {
	account    broker.AccountInfo
	positions  []broker.Position
	quotes     map[string]broker.Quote
	marketOpen bool

	orders []broker.Order
}

func (f *fakeBroker) GetName() string { return "fake" }

func (f *fakeBroker) GetAccountInfo(ctx context.Context) (*broker.AccountInfo, error) {
	a := f.account
	return &a, nil
}

func (f *fakeBroker) GetPositions(ctx context.Context) ([]broker.Position, error) {
	out := make([]broker.Position, len(f.positions))
	copy(out, f.positions)
	return out, nil
}

func (f *fakeBroker) GetLatestQuote(ctx context.Context, symbol string) (*broker.Quote, error) {
	q, ok := f.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("no quote for %s", symbol)
	}
	return &q, nil
}

func (f *fakeBroker) IsMarketOpen(ctx context.Context) (bool, error) {
	return f.marketOpen, nil
}

func (f *fakeBroker) PlaceMarketOrder(ctx context.Context, symbol string, side broker.OrderSide, quantity float64) (*broker.Order, error) {
	order := broker.Order{
		ID:          fmt.Sprintf("order-%d", len(f.orders)+1),
		Symbol:      symbol,
		Side:        side,
		Quantity:    quantity,
		Status:      "accepted",
		SubmittedAt: time.Now(),
	}
	f.orders = append(f.orders, order)
	return &order, nil
}

// scriptedLLM answers every analysis with the same canned JSON
type scriptedLLM struct {
	response string
}

func (s *scriptedLLM) GetName() string      { return "scripted" }
func (s *scriptedLLM) GetModel() string     { return "test" }
func (s *scriptedLLM) SupportsDebate() bool { return false }

func (s *scriptedLLM) AnalyzeMarketData(ctx context.Context, snapshot llm.MarketSnapshot, portfolioContext string) (*llm.Response, error) {
	return &llm.Response{Content: s.response, Provider: "scripted"}, nil
}

func (s *scriptedLLM) MakeBullCase(ctx context.Context, snapshot llm.MarketSnapshot) (*llm.Response, error) {
	return nil, llm.ErrDebateUnsupported
}

func (s *scriptedLLM) MakeBearCase(ctx context.Context, snapshot llm.MarketSnapshot) (*llm.Response, error) {
	return nil, llm.ErrDebateUnsupported
}

func (s *scriptedLLM) JudgeDebate(ctx context.Context, bull, bear llm.DebateCase, snapshot llm.MarketSnapshot) (*llm.Response, error) {
	return nil, llm.ErrDebateUnsupported
}

func testConfig(watchlist string) *config.Config {
	return &config.Config{
		Risk: config.RiskConfig{
			MaxPositionSize:        5000,
			MaxDailyLoss:           500,
			MaxTotalExposure:       50000,
			MaxOpenPositions:       5,
			MaxPositionExposurePct: 25,
			RiskPerTradePct:        1.0,
			EnableShortSelling:     true,
		},
		Bot: config.BotConfig{
			Watchlist:         watchlist,
			ScanInterval:      time.Minute,
			MinConfidence:     70,
			EnableAutoTrading: true,
		},
	}
}

func newTestBot(t *testing.T, cfg *config.Config, b broker.Broker, provider llm.Provider) *Bot {
	t.Helper()
	bot, err := New(cfg, b, provider, logger.NewNop())
	require.NoError(t, err)
	return bot
}

// A SELL against an existing 100-share long closes the whole position; the
// quantity is the held size, not a fresh risk-based size, and the exposure
// check does not block it.
func TestBot_SellClosesFullPosition(t *testing.T) {
	fb := &fakeBroker{
		account: broker.AccountInfo{
			Cash:           5000,
			PortfolioValue: 50000,
			BuyingPower:    10000,
			Equity:         50000,
		},
		positions: []broker.Position{{
			Symbol:       "MSFT",
			Side:         broker.PositionSideLong,
			Quantity:     100,
			EntryPrice:   40,
			CurrentPrice: 42,
			PnL:          200,
		}},
		quotes: map[string]broker.Quote{
			"MSFT": {Symbol: "MSFT", BidPrice: 41.98, AskPrice: 42.02},
		},
		marketOpen: true,
	}

	sell := `{"signal": "SELL", "confidence": 85, "reasoning": "momentum fading", "entry_price": 42.0, "stop_loss": 43.0}`
	bot := newTestBot(t, testConfig("MSFT"), fb, &scriptedLLM{response: sell})

	require.NoError(t, bot.RunScan(context.Background()))

	require.Len(t, fb.orders, 1)
	assert.Equal(t, "MSFT", fb.orders[0].Symbol)
	assert.Equal(t, broker.OrderSideSell, fb.orders[0].Side)
	assert.Equal(t, 100.0, fb.orders[0].Quantity)

	// The close realized +$200 into the daily tally
	assert.Equal(t, 200.0, bot.evaluator.Daily().PnL())

	records := bot.report.Records()
	require.Len(t, records, 1)
	assert.True(t, records[0].Executed)
}

// A fractional long closes in whole shares; the residue stays open rather
// than the close rounding past what is held.
func TestBot_FractionalLongClosesWholeShares(t *testing.T) {
	fb := &fakeBroker{
		account: broker.AccountInfo{
			Cash:           5000,
			PortfolioValue: 50000,
			BuyingPower:    10000,
			Equity:         50000,
		},
		positions: []broker.Position{{
			Symbol:       "MSFT",
			Side:         broker.PositionSideLong,
			Quantity:     10.5,
			EntryPrice:   40,
			CurrentPrice: 42,
			PnL:          21,
		}},
		quotes: map[string]broker.Quote{
			"MSFT": {Symbol: "MSFT", BidPrice: 41.98, AskPrice: 42.02},
		},
		marketOpen: true,
	}

	sell := `{"signal": "SELL", "confidence": 85, "reasoning": "momentum fading"}`
	bot := newTestBot(t, testConfig("MSFT"), fb, &scriptedLLM{response: sell})

	require.NoError(t, bot.RunScan(context.Background()))

	require.Len(t, fb.orders, 1)
	assert.Equal(t, 10.0, fb.orders[0].Quantity)
}

// A sub-share holding cannot be closed in whole shares; that is a quiet
// no-trade, not a denial record.
func TestBot_SubShareCloseIsNoTrade(t *testing.T) {
	fb := &fakeBroker{
		account: broker.AccountInfo{
			Cash:           5000,
			PortfolioValue: 50000,
			BuyingPower:    10000,
			Equity:         50000,
		},
		positions: []broker.Position{{
			Symbol:       "MSFT",
			Side:         broker.PositionSideLong,
			Quantity:     0.4,
			EntryPrice:   40,
			CurrentPrice: 42,
		}},
		quotes: map[string]broker.Quote{
			"MSFT": {Symbol: "MSFT", BidPrice: 41.98, AskPrice: 42.02},
		},
		marketOpen: true,
	}

	sell := `{"signal": "SELL", "confidence": 85, "reasoning": "momentum fading"}`
	bot := newTestBot(t, testConfig("MSFT"), fb, &scriptedLLM{response: sell})

	require.NoError(t, bot.RunScan(context.Background()))

	assert.Empty(t, fb.orders)
	assert.Empty(t, bot.report.Records())
}

func TestBot_BuySizedAndExecuted(t *testing.T) {
	fb := &fakeBroker{
		account: broker.AccountInfo{
			Cash:           50000,
			PortfolioValue: 50000,
			BuyingPower:    100000,
			Equity:         50000,
		},
		quotes: map[string]broker.Quote{
			"AAPL": {Symbol: "AAPL", BidPrice: 149.99, AskPrice: 150.01},
		},
		marketOpen: true,
	}

	buy := `{"signal": "BUY", "confidence": 90, "reasoning": "breakout", "entry_price": 150.0, "stop_loss": 147.0}`
	bot := newTestBot(t, testConfig("AAPL"), fb, &scriptedLLM{response: buy})

	require.NoError(t, bot.RunScan(context.Background()))

	// $5,000 cap at $150 mid: 33 shares
	require.Len(t, fb.orders, 1)
	assert.Equal(t, broker.OrderSideBuy, fb.orders[0].Side)
	assert.Equal(t, 33.0, fb.orders[0].Quantity)
}

func TestBot_MarketClosedSkipsScan(t *testing.T) {
	fb := &fakeBroker{
		account:    broker.AccountInfo{Cash: 50000, PortfolioValue: 50000, BuyingPower: 100000},
		quotes:     map[string]broker.Quote{"AAPL": {BidPrice: 150, AskPrice: 150}},
		marketOpen: false,
	}

	buy := `{"signal": "BUY", "confidence": 90, "reasoning": "breakout"}`
	bot := newTestBot(t, testConfig("AAPL"), fb, &scriptedLLM{response: buy})

	require.NoError(t, bot.RunScan(context.Background()))
	assert.Empty(t, fb.orders)
}

func TestBot_DeniedTradeIsRecordedNotExecuted(t *testing.T) {
	cfg := testConfig("TSLA")
	cfg.Risk.EnableShortSelling = false

	fb := &fakeBroker{
		account: broker.AccountInfo{
			Cash:           50000,
			PortfolioValue: 50000,
			BuyingPower:    100000,
			Equity:         50000,
		},
		quotes: map[string]broker.Quote{
			"TSLA": {Symbol: "TSLA", BidPrice: 199.99, AskPrice: 200.01},
		},
		marketOpen: true,
	}

	sell := `{"signal": "SELL", "confidence": 88, "reasoning": "rolling over", "entry_price": 200.0, "stop_loss": 204.0}`
	bot := newTestBot(t, cfg, fb, &scriptedLLM{response: sell})

	require.NoError(t, bot.RunScan(context.Background()))

	assert.Empty(t, fb.orders)
	records := bot.report.Records()
	require.Len(t, records, 1)
	assert.False(t, records[0].Executed)
	assert.Contains(t, records[0].Reason, "short selling disabled")
}

func TestBot_DailyLossHaltsTrading(t *testing.T) {
	fb := &fakeBroker{
		account: broker.AccountInfo{
			Cash:           50000,
			PortfolioValue: 50000,
			BuyingPower:    100000,
			Equity:         50000,
		},
		quotes: map[string]broker.Quote{
			"AAPL": {Symbol: "AAPL", BidPrice: 150, AskPrice: 150},
		},
		marketOpen: true,
	}

	buy := `{"signal": "BUY", "confidence": 95, "reasoning": "strong setup", "entry_price": 150.0, "stop_loss": 147.0}`
	bot := newTestBot(t, testConfig("AAPL"), fb, &scriptedLLM{response: buy})
	bot.evaluator.Daily().AddPnL(-501)

	require.NoError(t, bot.RunScan(context.Background()))
	assert.Empty(t, fb.orders)
}
