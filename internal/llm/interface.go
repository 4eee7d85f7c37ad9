package llm

import "context"

// Response is the uniform envelope returned by every provider call
type Response struct {
	Content    string `json:"content"`
	Model      string `json:"model"`
	Provider   string `json:"provider"`
	TokensUsed int    `json:"tokens_used,omitempty"`
}

// MarketSnapshot is the opaque market-data payload handed to providers.
// The decision engine never interprets it beyond the symbol key.
type MarketSnapshot map[string]interface{}

// Symbol returns the snapshot's symbol, if present
func (m MarketSnapshot) Symbol() string {
	if s, ok := m["symbol"].(string); ok {
		return s
	}
	return ""
}

// DebateCase is the structured output of a bull or bear call, handed to the
// judge stage instead of raw text.
type DebateCase struct {
	Argument       string   `json:"argument"`
	KeySignals     []string `json:"key_signals"`
	Confidence     float64  `json:"confidence"`
	ProposedEntry  float64  `json:"proposed_entry,omitempty"`
	ProposedStop   float64  `json:"proposed_stop_loss,omitempty"`
	ProposedTarget float64  `json:"proposed_take_profit,omitempty"`
}

// Provider defines the interface for language-model providers. Providers
// that cannot run the three-stage debate report it via SupportsDebate, and
// callers must fall back to AnalyzeMarketData.
type Provider interface {
	GetName() string
	GetModel() string
	SupportsDebate() bool

	// AnalyzeMarketData runs a single-shot analysis of the market snapshot
	AnalyzeMarketData(ctx context.Context, snapshot MarketSnapshot, portfolioContext string) (*Response, error)

	// Debate calls. Implementations with SupportsDebate() == false return
	// ErrDebateUnsupported from all three.
	MakeBullCase(ctx context.Context, snapshot MarketSnapshot) (*Response, error)
	MakeBearCase(ctx context.Context, snapshot MarketSnapshot) (*Response, error)
	JudgeDebate(ctx context.Context, bull, bear DebateCase, snapshot MarketSnapshot) (*Response, error)
}
