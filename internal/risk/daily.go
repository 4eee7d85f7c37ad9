package risk

import (
	"sync"
	"time"
)

// TradeEntry is one executed trade recorded against today's tally
type TradeEntry struct {
	Symbol    string
	Side      string
	Quantity  float64
	Price     float64
	PnL       float64
	Timestamp time.Time
}

// DailyState tracks realized P&L and trades for the current calendar day.
// The reset is lazy: the first access after a midnight crossing clears the
// counters, no background timer is involved.
type DailyState struct {
	mu        sync.Mutex
	pnl       float64
	trades    []TradeEntry
	resetDate time.Time

	now func() time.Time // injectable clock for tests
}

func NewDailyState() *DailyState {
	return NewDailyStateWithClock(time.Now)
}

func NewDailyStateWithClock(now func() time.Time) *DailyState {
	s := &DailyState{now: now}
	s.resetDate = dateOf(now())
	return s
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// resetIfNewDay must hold the mutex
func (s *DailyState) resetIfNewDay() {
	today := dateOf(s.now())
	if today.After(s.resetDate) {
		s.pnl = 0
		s.trades = nil
		s.resetDate = today
	}
}

// AddPnL records realized profit or loss from a closed trade
func (s *DailyState) AddPnL(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetIfNewDay()
	s.pnl += amount
}

// RecordTrade appends an executed trade to today's list
func (s *DailyState) RecordTrade(entry TradeEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetIfNewDay()
	s.trades = append(s.trades, entry)
}

// PnL returns today's realized P&L
func (s *DailyState) PnL() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetIfNewDay()
	return s.pnl
}

// Trades returns a copy of today's trade list
func (s *DailyState) Trades() []TradeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetIfNewDay()
	out := make([]TradeEntry, len(s.trades))
	copy(out, s.trades)
	return out
}

// TradeCount returns the number of trades executed today
func (s *DailyState) TradeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetIfNewDay()
	return len(s.trades)
}
