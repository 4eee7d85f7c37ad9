package portfolio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laramiej/ai-daytrading/internal/broker"
)

type stubBroker struct {
	account   broker.AccountInfo
	positions []broker.Position
}

func (s *stubBroker) GetName() string { return "stub" }

func (s *stubBroker) GetAccountInfo(ctx context.Context) (*broker.AccountInfo, error) {
	a := s.account
	return &a, nil
}

func (s *stubBroker) GetPositions(ctx context.Context) ([]broker.Position, error) {
	return s.positions, nil
}

func (s *stubBroker) GetLatestQuote(ctx context.Context, symbol string) (*broker.Quote, error) {
	return &broker.Quote{Symbol: symbol, BidPrice: 100, AskPrice: 100.02}, nil
}

func (s *stubBroker) IsMarketOpen(ctx context.Context) (bool, error) { return true, nil }

func (s *stubBroker) PlaceMarketOrder(ctx context.Context, symbol string, side broker.OrderSide, quantity float64) (*broker.Order, error) {
	return &broker.Order{ID: "1", Symbol: symbol, Side: side, Quantity: quantity}, nil
}

func TestAccessor_Take(t *testing.T) {
	b := &stubBroker{
		account: broker.AccountInfo{Cash: 40000, PortfolioValue: 50000, BuyingPower: 80000, Equity: 50000},
		positions: []broker.Position{
			{Symbol: "AAPL", Side: broker.PositionSideLong, Quantity: 20, EntryPrice: 150, CurrentPrice: 155},
		},
	}

	snap, err := NewAccessor(b).Take(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10000.0, snap.Exposure())
	assert.Equal(t, 1, snap.OpenPositions())
	assert.WithinDuration(t, time.Now(), snap.TakenAt, time.Second)

	require.NotNil(t, snap.Position("AAPL"))
	assert.Nil(t, snap.Position("MSFT"))
}

func TestFormatContext(t *testing.T) {
	snap := &Snapshot{
		Account: broker.AccountInfo{Cash: 40000, PortfolioValue: 50000, BuyingPower: 80000, Equity: 50000},
		Positions: []broker.Position{
			{Symbol: "AAPL", Side: broker.PositionSideLong, Quantity: 20, EntryPrice: 150, CurrentPrice: 155, PnLPercent: 3.33},
		},
	}

	out := FormatContext(snap, 5, 25000, false)

	assert.Contains(t, out, "Exposure: $10000.00 of $25000.00")
	assert.Contains(t, out, "Open Positions: 1 of 5")
	assert.Contains(t, out, "AAPL long 20 shares")
	assert.Contains(t, out, "Short selling: DISABLED")
}

func TestFormatContext_Empty(t *testing.T) {
	snap := &Snapshot{
		Account: broker.AccountInfo{Cash: 50000, PortfolioValue: 50000, Equity: 50000},
	}

	out := FormatContext(snap, 5, 25000, true)
	assert.Contains(t, out, "Holdings: none")
	assert.NotContains(t, out, "DISABLED")
}
