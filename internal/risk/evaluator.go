package risk

import (
	"fmt"
	"math"

	"github.com/laramiej/ai-daytrading/internal/broker"
	"github.com/laramiej/ai-daytrading/internal/portfolio"
)

// Decision is the evaluator's verdict on one proposed trade. When approved
// is false a non-zero RecommendedQuantity is advisory only and must not be
// executed.
type Decision struct {
	Approved            bool
	Reason              string
	RecommendedQuantity int
	Warnings            []string
}

// orderClass is how a proposed order relates to any existing position
type orderClass int

const (
	classOpenLong orderClass = iota
	classOpenShort
	classAddLong
	classAddShort
	classCloseLong
	classCloseShort
)

// opensNew reports whether the class counts toward the open-position cap
// and the buying-power check
func (c orderClass) opensNew() bool {
	return c == classOpenLong || c == classOpenShort
}

// increasesExposure reports whether the trade raises total exposure.
// Closes always decrease it.
func (c orderClass) increasesExposure() bool {
	switch c {
	case classCloseLong, classCloseShort:
		return false
	default:
		return true
	}
}

func (c orderClass) String() string {
	switch c {
	case classOpenLong:
		return "opening long"
	case classOpenShort:
		return "opening short"
	case classAddLong:
		return "adding to long"
	case classAddShort:
		return "adding to short"
	case classCloseLong:
		return "closing long"
	case classCloseShort:
		return "covering short"
	default:
		return "unknown"
	}
}

// Evaluator runs the ordered risk checks over a proposed trade. The check
// order is part of the contract: reordering changes observable behavior.
type Evaluator struct {
	limits Limits
	daily  *DailyState
}

func NewEvaluator(limits Limits, daily *DailyState) *Evaluator {
	return &Evaluator{limits: limits, daily: daily}
}

// Daily exposes the evaluator's daily risk state so the execution layer
// can record realized P&L after fills.
func (e *Evaluator) Daily() *DailyState {
	return e.daily
}

// Limits returns the evaluator's immutable limit set
func (e *Evaluator) Limits() Limits {
	return e.limits
}

// EvaluateTrade checks a proposed (symbol, side, quantity, price) tuple
// against the portfolio snapshot and short-circuits on the first failing
// check.
func (e *Evaluator) EvaluateTrade(symbol string, side broker.OrderSide, quantity int, price float64, snap *portfolio.Snapshot) *Decision {
	if quantity <= 0 || price <= 0 {
		// Invariant violation upstream, treated as no trade
		return &Decision{Approved: false, Reason: fmt.Sprintf("invalid trade: quantity=%d price=%.2f", quantity, price)}
	}

	tradeValue := float64(quantity) * price

	// Check 1: daily loss limit. This blocks every trade for the rest of
	// the day, including exits. TODO: revisit whether closes should be
	// exempt so a losing day can still be flattened.
	dailyPnL := e.daily.PnL()
	if dailyPnL <= -e.limits.MaxDailyLoss {
		return &Decision{
			Approved: false,
			Reason: fmt.Sprintf("daily loss limit reached: realized P&L $%.2f breaches -$%.2f",
				dailyPnL, e.limits.MaxDailyLoss),
		}
	}

	// Check 2: absolute position-value cap
	if tradeValue > e.limits.MaxPositionSize {
		return &Decision{
			Approved: false,
			Reason: fmt.Sprintf("trade value $%.2f exceeds max position size $%.2f",
				tradeValue, e.limits.MaxPositionSize),
			RecommendedQuantity: int(math.Floor(e.limits.MaxPositionSize / price)),
		}
	}

	// Check 3: classify against any existing position
	class := classify(side, snap.Position(symbol))

	// Check 4: open-position cap, new positions only
	if class.opensNew() && snap.OpenPositions() >= e.limits.MaxOpenPositions {
		return &Decision{
			Approved: false,
			Reason: fmt.Sprintf("open position limit reached: %d of %d",
				snap.OpenPositions(), e.limits.MaxOpenPositions),
		}
	}

	// Check 5: total exposure cap, increasing trades only
	if class.increasesExposure() {
		projected := snap.Exposure() + tradeValue
		if projected > e.limits.MaxTotalExposure {
			return &Decision{
				Approved: false,
				Reason: fmt.Sprintf("%s would push exposure to $%.2f, over the $%.2f cap",
					class, projected, e.limits.MaxTotalExposure),
			}
		}
	}

	// Check 6: buying power, new positions only
	if class.opensNew() && tradeValue > snap.Account.BuyingPower {
		return &Decision{
			Approved: false,
			Reason: fmt.Sprintf("trade value $%.2f exceeds buying power $%.2f",
				tradeValue, snap.Account.BuyingPower),
		}
	}

	// Check 7: share availability and short-selling policy
	var warnings []string
	switch class {
	case classCloseLong, classCloseShort:
		pos := snap.Position(symbol)
		if pos == nil || pos.Quantity < float64(quantity) {
			held := 0.0
			if pos != nil {
				held = pos.Quantity
			}
			return &Decision{
				Approved: false,
				Reason: fmt.Sprintf("insufficient shares to close: want %d, hold %.0f",
					quantity, held),
			}
		}
	case classOpenShort:
		if !e.limits.ShortSellingEnabled {
			return &Decision{
				Approved: false,
				Reason:   fmt.Sprintf("short selling disabled: cannot open short in %s", symbol),
			}
		}
		warnings = append(warnings, fmt.Sprintf("short sale: opening %d-share short in %s", quantity, symbol))
	}

	return &Decision{
		Approved: true,
		Reason:   fmt.Sprintf("approved: %s %d shares of %s ($%.2f)", class, quantity, symbol, tradeValue),
		Warnings: warnings,
	}
}

// classify maps (side, existing position) to an order class per the
// classification matrix: a BUY covers a short or opens/adds a long, a SELL
// closes a long or opens/adds a short.
func classify(side broker.OrderSide, pos *broker.Position) orderClass {
	switch side {
	case broker.OrderSideBuy:
		switch {
		case pos == nil:
			return classOpenLong
		case pos.Side == broker.PositionSideShort:
			return classCloseShort
		default:
			return classAddLong
		}
	default: // sell
		switch {
		case pos == nil:
			return classOpenShort
		case pos.Side == broker.PositionSideLong:
			return classCloseLong
		default:
			return classAddShort
		}
	}
}
