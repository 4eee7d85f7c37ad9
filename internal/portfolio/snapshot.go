package portfolio

import (
	"time"

	"github.com/laramiej/ai-daytrading/internal/broker"
)

// Snapshot is a point-in-time read of broker state. The sizing and risk
// steps for one symbol must both see the same snapshot, so it is taken once
// at the start of each evaluation and never refreshed mid-decision.
type Snapshot struct {
	Account   broker.AccountInfo
	Positions []broker.Position
	TakenAt   time.Time
}

// Exposure is the total currency value of open positions
func (s *Snapshot) Exposure() float64 {
	return s.Account.Exposure()
}

// OpenPositions is the count of currently held positions
func (s *Snapshot) OpenPositions() int {
	return len(s.Positions)
}

// Position returns the held position for symbol, or nil
func (s *Snapshot) Position(symbol string) *broker.Position {
	for i := range s.Positions {
		if s.Positions[i].Symbol == symbol {
			return &s.Positions[i]
		}
	}
	return nil
}
