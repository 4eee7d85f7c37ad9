package signal

import "time"

// Action is the directional trading opinion
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Actionable reports whether the action results in an order
func (a Action) Actionable() bool {
	return a == ActionBuy || a == ActionSell
}

// SizeBand is the model's advisory position-size recommendation
type SizeBand string

const (
	SizeSmall  SizeBand = "SMALL"
	SizeMedium SizeBand = "MEDIUM"
	SizeLarge  SizeBand = "LARGE"
)

// WinningCase identifies which side of a debate the judge favored
type WinningCase string

const (
	CaseBull    WinningCase = "BULL"
	CaseBear    WinningCase = "BEAR"
	CaseNeither WinningCase = "NEITHER"
)

// DebateRecord is the trace of a three-stage debate, attached to signals
// produced in debate mode.
type DebateRecord struct {
	BullArgument   string      `json:"bull_argument"`
	BearArgument   string      `json:"bear_argument"`
	BullConfidence float64     `json:"bull_confidence"`
	BearConfidence float64     `json:"bear_confidence"`
	Winner         WinningCase `json:"winning_case"`
}

// TradingSignal is the unit of decision. Created once per analysis pass and
// never mutated afterwards; price fields use zero as "not provided".
type TradingSignal struct {
	Symbol     string  `json:"symbol"`
	Action     Action  `json:"signal"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`

	EntryPrice float64 `json:"entry_price,omitempty"`
	StopLoss   float64 `json:"stop_loss,omitempty"`
	TakeProfit float64 `json:"take_profit,omitempty"`

	SizeRecommendation SizeBand `json:"position_size_recommendation,omitempty"`
	RiskFactors        []string `json:"risk_factors,omitempty"`
	TimeHorizon        string   `json:"time_horizon,omitempty"`

	Provider  string    `json:"provider,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Present only when debate mode produced the signal
	Debate *DebateRecord `json:"debate,omitempty"`
}

// HasStop reports whether the signal carries a usable entry/stop pair for
// risk-based sizing. The stop must differ from the entry since their
// distance is the risk-per-share divisor.
func (s *TradingSignal) HasStop() bool {
	return s.EntryPrice > 0 && s.StopLoss > 0 && s.EntryPrice != s.StopLoss
}
