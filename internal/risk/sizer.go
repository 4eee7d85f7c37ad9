package risk

import (
	"fmt"
	"math"

	"github.com/laramiej/ai-daytrading/internal/portfolio"
	"github.com/laramiej/ai-daytrading/internal/signal"
)

// SizeResult is the sizer's output: a whole-share quantity, its currency
// value, and which constraint bound it.
type SizeResult struct {
	Quantity    int
	Value       float64
	Explanation string
}

// Sizer converts a signal into a share quantity bounded by four caps: the
// risk-based budget, the absolute per-position cap, the per-position share
// of the exposure budget, and the fair-share slice of what exposure budget
// remains.
type Sizer struct {
	limits Limits
}

func NewSizer(limits Limits) *Sizer {
	return &Sizer{limits: limits}
}

// Size computes the final quantity for one signal against one portfolio
// snapshot. A non-positive result is returned as an error and the caller
// must treat it as no trade, never as a zero-share order.
func (s *Sizer) Size(sig *signal.TradingSignal, snap *portfolio.Snapshot, price float64) (*SizeResult, error) {
	if price <= 0 {
		return nil, fmt.Errorf("size %s: invalid price %.2f", sig.Symbol, price)
	}

	baseValue := s.baseValue(sig, snap, price)

	absoluteCap := s.limits.MaxPositionSize
	perPositionCap := s.limits.MaxTotalExposure * s.limits.MaxPositionExposurePct / 100
	fairShare := s.fairShare(snap)

	value := baseValue
	explanation := "risk-based budget"
	if absoluteCap < value {
		value = absoluteCap
		explanation = fmt.Sprintf("absolute position cap ($%.2f)", absoluteCap)
	}
	if perPositionCap < value {
		value = perPositionCap
		explanation = fmt.Sprintf("per-position exposure cap (%.0f%% of $%.2f)",
			s.limits.MaxPositionExposurePct, s.limits.MaxTotalExposure)
	}
	if fairShare < value {
		value = fairShare
		explanation = fmt.Sprintf("fair-share allocation ($%.2f across remaining slots)", fairShare)
	}

	quantity := int(math.Floor(value / price))
	if quantity <= 0 {
		return nil, fmt.Errorf("size %s: no budget for a single share at $%.2f (bound by %s)",
			sig.Symbol, price, explanation)
	}

	return &SizeResult{
		Quantity:    quantity,
		Value:       float64(quantity) * price,
		Explanation: explanation,
	}, nil
}

// baseValue is the risk-budget starting point before caps. With an
// entry/stop pair the budget is the account value times the per-trade risk
// percent divided by the per-share risk, so a tight stop allows a larger
// position. Without a stop the absolute position cap is the starting point.
func (s *Sizer) baseValue(sig *signal.TradingSignal, snap *portfolio.Snapshot, price float64) float64 {
	if !sig.HasStop() {
		return s.limits.MaxPositionSize
	}

	riskPerShare := math.Abs(sig.EntryPrice - sig.StopLoss)
	riskBudget := snap.Account.PortfolioValue * s.limits.RiskPerTradePct / 100
	shares := riskBudget / riskPerShare
	return shares * price
}

// fairShare divides the remaining exposure budget evenly across the
// remaining open-position slots so the first signals of a scan cannot
// starve later ones.
func (s *Sizer) fairShare(snap *portfolio.Snapshot) float64 {
	remaining := s.limits.MaxTotalExposure - snap.Exposure()
	if remaining < 0 {
		remaining = 0
	}

	slots := s.limits.MaxOpenPositions - snap.OpenPositions()
	if slots < 1 {
		slots = 1
	}

	return remaining / float64(slots)
}
