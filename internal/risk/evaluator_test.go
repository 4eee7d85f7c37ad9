package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laramiej/ai-daytrading/internal/broker"
)

func newTestEvaluator(limits Limits) *Evaluator {
	return NewEvaluator(limits, NewDailyState())
}

func longPosition(symbol string, qty, price float64) broker.Position {
	return broker.Position{
		Symbol:       symbol,
		Side:         broker.PositionSideLong,
		Quantity:     qty,
		EntryPrice:   price,
		CurrentPrice: price,
	}
}

func shortPosition(symbol string, qty, price float64) broker.Position {
	return broker.Position{
		Symbol:       symbol,
		Side:         broker.PositionSideShort,
		Quantity:     qty,
		EntryPrice:   price,
		CurrentPrice: price,
	}
}

func TestEvaluator_ApprovesSimpleBuy(t *testing.T) {
	e := newTestEvaluator(testLimits())
	snap := snapshotWith(50000, 50000, 100000)

	d := e.EvaluateTrade("AAPL", broker.OrderSideBuy, 10, 150, snap)

	assert.True(t, d.Approved)
	assert.Contains(t, d.Reason, "approved")
	assert.Empty(t, d.Warnings)
}

// Once the daily loss limit is breached every trade is denied, entries and
// exits alike, regardless of side or symbol.
func TestEvaluator_DailyLossBlocksEverything(t *testing.T) {
	e := newTestEvaluator(testLimits())
	e.Daily().AddPnL(-501)

	snap := snapshotWith(50000, 45000, 100000, longPosition("MSFT", 100, 50))

	cases := []struct {
		symbol string
		side   broker.OrderSide
		qty    int
	}{
		{"AAPL", broker.OrderSideBuy, 10},   // new long
		{"TSLA", broker.OrderSideSell, 10},  // new short
		{"MSFT", broker.OrderSideSell, 100}, // exit of an existing long
	}

	for _, tc := range cases {
		d := e.EvaluateTrade(tc.symbol, tc.side, tc.qty, 50, snap)
		assert.False(t, d.Approved, "%s %s should be denied", tc.side, tc.symbol)
		assert.Contains(t, d.Reason, "daily loss limit")
	}
}

func TestEvaluator_DailyLossExactBoundary(t *testing.T) {
	e := newTestEvaluator(testLimits())
	e.Daily().AddPnL(-500) // exactly at the limit counts as breached

	snap := snapshotWith(50000, 50000, 100000)
	d := e.EvaluateTrade("AAPL", broker.OrderSideBuy, 1, 100, snap)

	assert.False(t, d.Approved)
}

func TestEvaluator_PositionCapRecommendsReduction(t *testing.T) {
	e := newTestEvaluator(testLimits())
	snap := snapshotWith(50000, 50000, 100000)

	// 100 shares at $150 is $15,000 against a $5,000 cap
	d := e.EvaluateTrade("AAPL", broker.OrderSideBuy, 100, 150, snap)

	assert.False(t, d.Approved)
	assert.Contains(t, d.Reason, "max position size")
	assert.Equal(t, 33, d.RecommendedQuantity)
}

func TestEvaluator_OpenPositionCap(t *testing.T) {
	limits := testLimits()
	limits.MaxOpenPositions = 2
	e := newTestEvaluator(limits)

	snap := snapshotWith(50000, 45000, 100000,
		longPosition("A", 10, 100),
		longPosition("B", 10, 100),
	)

	// A new position is denied at the cap
	d := e.EvaluateTrade("C", broker.OrderSideBuy, 10, 100, snap)
	assert.False(t, d.Approved)
	assert.Contains(t, d.Reason, "open position limit")

	// Adding to an existing position is not a new position
	d = e.EvaluateTrade("A", broker.OrderSideBuy, 5, 100, snap)
	assert.True(t, d.Approved)

	// Closing an existing position is exempt too
	d = e.EvaluateTrade("B", broker.OrderSideSell, 10, 100, snap)
	assert.True(t, d.Approved)
}

func TestEvaluator_ExposureCapBlocksIncreases(t *testing.T) {
	limits := testLimits()
	limits.MaxTotalExposure = 10000
	e := newTestEvaluator(limits)

	// $9,500 already deployed
	snap := snapshotWith(50000, 40500, 100000, longPosition("A", 95, 100))

	// Opening $1,000 more projects $10,500, over the cap
	d := e.EvaluateTrade("B", broker.OrderSideBuy, 10, 100, snap)
	assert.False(t, d.Approved)
	assert.Contains(t, d.Reason, "exposure")

	// Adding to A is also an increase
	d = e.EvaluateTrade("A", broker.OrderSideBuy, 10, 100, snap)
	assert.False(t, d.Approved)
}

// Closing trades decrease exposure and are never denied on exposure
// grounds, even when current exposure already exceeds the cap.
func TestEvaluator_ClosesExemptFromExposureCap(t *testing.T) {
	limits := testLimits()
	limits.MaxTotalExposure = 5000
	e := newTestEvaluator(limits)

	// Exposure $12,000, far over the cap
	snap := snapshotWith(50000, 38000, 100000,
		longPosition("AAPL", 40, 150),
		shortPosition("TSLA", 30, 200),
	)

	d := e.EvaluateTrade("AAPL", broker.OrderSideSell, 30, 150, snap)
	assert.True(t, d.Approved, "sell-to-close denied: %s", d.Reason)

	d = e.EvaluateTrade("TSLA", broker.OrderSideBuy, 20, 200, snap)
	assert.True(t, d.Approved, "buy-to-cover denied: %s", d.Reason)
}

func TestEvaluator_BuyingPowerAppliesToNewPositionsOnly(t *testing.T) {
	e := newTestEvaluator(testLimits())

	snap := snapshotWith(50000, 45500, 1000, longPosition("AAPL", 30, 150))

	// New position over buying power
	d := e.EvaluateTrade("MSFT", broker.OrderSideBuy, 10, 400, snap)
	assert.False(t, d.Approved)
	assert.Contains(t, d.Reason, "buying power")

	// Closing does not consume buying power
	d = e.EvaluateTrade("AAPL", broker.OrderSideSell, 30, 150, snap)
	assert.True(t, d.Approved, d.Reason)
}

func TestEvaluator_InsufficientSharesToClose(t *testing.T) {
	e := newTestEvaluator(testLimits())
	snap := snapshotWith(50000, 45000, 100000, longPosition("AAPL", 20, 150))

	d := e.EvaluateTrade("AAPL", broker.OrderSideSell, 30, 150, snap)

	assert.False(t, d.Approved)
	assert.Contains(t, d.Reason, "insufficient shares")
}

// New short with shorting disabled: the denial names the policy and no
// reduced quantity is recommended.
func TestEvaluator_ShortSellingDisabled(t *testing.T) {
	limits := testLimits()
	limits.ShortSellingEnabled = false
	e := newTestEvaluator(limits)

	snap := snapshotWith(50000, 50000, 100000)

	d := e.EvaluateTrade("TSLA", broker.OrderSideSell, 10, 200, snap)

	assert.False(t, d.Approved)
	assert.Contains(t, d.Reason, "short selling disabled")
	assert.Zero(t, d.RecommendedQuantity)
}

func TestEvaluator_ShortSaleWarning(t *testing.T) {
	e := newTestEvaluator(testLimits())
	snap := snapshotWith(50000, 50000, 100000)

	d := e.EvaluateTrade("TSLA", broker.OrderSideSell, 10, 200, snap)

	require.True(t, d.Approved, d.Reason)
	require.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0], "short sale")
}

func TestEvaluator_ClassificationMatrix(t *testing.T) {
	long := longPosition("X", 10, 100)
	short := shortPosition("X", 10, 100)

	cases := []struct {
		name string
		side broker.OrderSide
		pos  *broker.Position
		want orderClass
	}{
		{"buy no position", broker.OrderSideBuy, nil, classOpenLong},
		{"buy against short", broker.OrderSideBuy, &short, classCloseShort},
		{"buy against long", broker.OrderSideBuy, &long, classAddLong},
		{"sell no position", broker.OrderSideSell, nil, classOpenShort},
		{"sell against long", broker.OrderSideSell, &long, classCloseLong},
		{"sell against short", broker.OrderSideSell, &short, classAddShort},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classify(tc.side, tc.pos))
		})
	}
}

func TestEvaluator_InvalidQuantityIsNoTrade(t *testing.T) {
	e := newTestEvaluator(testLimits())
	snap := snapshotWith(50000, 50000, 100000)

	d := e.EvaluateTrade("AAPL", broker.OrderSideBuy, 0, 150, snap)
	assert.False(t, d.Approved)

	d = e.EvaluateTrade("AAPL", broker.OrderSideBuy, -5, 150, snap)
	assert.False(t, d.Approved)
}

// Same inputs, same verdict: evaluation has no hidden state beyond the
// daily tally.
func TestEvaluator_Idempotent(t *testing.T) {
	e := newTestEvaluator(testLimits())
	snap := snapshotWith(50000, 45000, 100000, longPosition("AAPL", 20, 150))

	first := e.EvaluateTrade("AAPL", broker.OrderSideSell, 20, 150, snap)
	second := e.EvaluateTrade("AAPL", broker.OrderSideSell, 20, 150, snap)

	assert.Equal(t, first, second)
}
