package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/laramiej/ai-daytrading/internal/broker"
	boterrors "github.com/laramiej/ai-daytrading/internal/errors"
)

// Accessor is the thin read layer over the external broker
type Accessor struct {
	broker broker.Broker
}

func NewAccessor(b broker.Broker) *Accessor {
	return &Accessor{broker: b}
}

// Take reads account and positions in one pass and returns them as an
// immutable snapshot.
func (a *Accessor) Take(ctx context.Context) (*Snapshot, error) {
	account, err := a.broker.GetAccountInfo(ctx)
	if err != nil {
		return nil, boterrors.Wrap(boterrors.ErrorCategoryUpstream, "portfolio", "snapshot",
			"get account info", err)
	}

	positions, err := a.broker.GetPositions(ctx)
	if err != nil {
		return nil, boterrors.Wrap(boterrors.ErrorCategoryUpstream, "portfolio", "snapshot",
			"get positions", err)
	}

	return &Snapshot{
		Account:   *account,
		Positions: positions,
		TakenAt:   time.Now(),
	}, nil
}

// FormatContext renders the snapshot as prompt text so the model can weigh
// new signals against what the account already holds.
func FormatContext(snap *Snapshot, maxOpenPositions int, maxTotalExposure float64, shortSellingEnabled bool) string {
	var b strings.Builder

	b.WriteString("CURRENT PORTFOLIO:\n")
	fmt.Fprintf(&b, "- Equity: $%.2f\n", snap.Account.Equity)
	fmt.Fprintf(&b, "- Cash: $%.2f\n", snap.Account.Cash)
	fmt.Fprintf(&b, "- Buying Power: $%.2f\n", snap.Account.BuyingPower)
	fmt.Fprintf(&b, "- Exposure: $%.2f of $%.2f budget\n", snap.Exposure(), maxTotalExposure)
	fmt.Fprintf(&b, "- Open Positions: %d of %d allowed\n", snap.OpenPositions(), maxOpenPositions)
	if !shortSellingEnabled {
		b.WriteString("- Short selling: DISABLED (do not recommend SELL on symbols with no position)\n")
	}

	if len(snap.Positions) == 0 {
		b.WriteString("- Holdings: none\n")
		return b.String()
	}

	b.WriteString("- Holdings:\n")
	for _, p := range snap.Positions {
		fmt.Fprintf(&b, "  - %s %s %.0f shares @ $%.2f (now $%.2f, P&L %+.2f%%)\n",
			p.Symbol, p.Side, p.Quantity, p.EntryPrice, p.CurrentPrice, p.PnLPercent)
	}

	return b.String()
}
