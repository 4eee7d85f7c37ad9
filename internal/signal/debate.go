package signal

import (
	"context"
	"fmt"
	"time"

	"github.com/laramiej/ai-daytrading/internal/llm"
	"github.com/laramiej/ai-daytrading/internal/logger"
)

// Aggregator runs the three-stage bull/bear/judge debate and reduces it to
// a single TradingSignal.
type Aggregator struct {
	provider llm.Provider
	log      *logger.Logger
}

func NewAggregator(provider llm.Provider, log *logger.Logger) *Aggregator {
	return &Aggregator{provider: provider, log: log}
}

// bullPayload mirrors the bull advocate's JSON envelope
type bullPayload struct {
	BullCase   string     `json:"bull_case"`
	KeySignals []string   `json:"key_bullish_signals"`
	Entry      flexFloat  `json:"proposed_entry"`
	Stop       flexFloat  `json:"proposed_stop_loss"`
	Target     flexFloat  `json:"proposed_take_profit"`
	Confidence optFloat   `json:"confidence"`
}

// bearPayload mirrors the bear advocate's JSON envelope
type bearPayload struct {
	BearCase   string     `json:"bear_case"`
	KeySignals []string   `json:"key_bearish_signals"`
	Entry      flexFloat  `json:"proposed_entry"`
	Stop       flexFloat  `json:"proposed_stop_loss"`
	Target     flexFloat  `json:"proposed_take_profit"`
	Confidence optFloat   `json:"confidence"`
}

// judgePayload mirrors the judge's JSON envelope
type judgePayload struct {
	Decision    string     `json:"decision"`
	Reasoning   string     `json:"reasoning"`
	WinningCase string     `json:"winning_case"`
	Confidence  optFloat   `json:"confidence"`
	EntryPrice  flexFloat  `json:"entry_price"`
	StopLoss    flexFloat  `json:"stop_loss"`
	TakeProfit  flexFloat  `json:"take_profit"`
	SizeRec     string     `json:"position_size"`
	TimeHorizon string     `json:"time_horizon"`
	RiskFactors []string   `json:"risk_factors"`
}

// Run executes the debate for one market snapshot. A parse failure on the
// judge stage aborts the whole debate; there is no fallback to single-call
// analysis inside the same invocation.
func (a *Aggregator) Run(ctx context.Context, snapshot llm.MarketSnapshot) (*TradingSignal, error) {
	symbol := snapshot.Symbol()

	bull, err := a.runBullStage(ctx, snapshot, symbol)
	if err != nil {
		return nil, err
	}
	a.log.Signal("%s bull case (confidence %.0f): %s", symbol, bull.Confidence, truncate(bull.Argument, 120))

	bear, err := a.runBearStage(ctx, snapshot, symbol)
	if err != nil {
		return nil, err
	}
	a.log.Signal("%s bear case (confidence %.0f): %s", symbol, bear.Confidence, truncate(bear.Argument, 120))

	resp, err := a.provider.JudgeDebate(ctx, bull, bear, snapshot)
	if err != nil {
		return nil, fmt.Errorf("judge stage: %w", err)
	}

	verdict, err := parseJudge(resp.Content, symbol)
	if err != nil {
		// No partial result: a decision without a judge has no meaning
		return nil, fmt.Errorf("judge stage: %w", err)
	}

	return a.reduce(symbol, bull, bear, verdict)
}

func (a *Aggregator) runBullStage(ctx context.Context, snapshot llm.MarketSnapshot, symbol string) (llm.DebateCase, error) {
	resp, err := a.provider.MakeBullCase(ctx, snapshot)
	if err != nil {
		return llm.DebateCase{}, fmt.Errorf("bull stage: %w", err)
	}

	doc, ok := extractJSON(resp.Content)
	if !ok {
		return llm.DebateCase{}, fmt.Errorf("bull stage: %w", newParseError(symbol, "no JSON object found in response", resp.Content))
	}
	var p bullPayload
	if err := decodeTolerant(doc, &p); err != nil {
		return llm.DebateCase{}, fmt.Errorf("bull stage: %w", newParseError(symbol, fmt.Sprintf("invalid JSON: %v", err), resp.Content))
	}

	return llm.DebateCase{
		Argument:       p.BullCase,
		KeySignals:     p.KeySignals,
		Confidence:     debateConfidence(p.Confidence),
		ProposedEntry:  float64(p.Entry),
		ProposedStop:   float64(p.Stop),
		ProposedTarget: float64(p.Target),
	}, nil
}

func (a *Aggregator) runBearStage(ctx context.Context, snapshot llm.MarketSnapshot, symbol string) (llm.DebateCase, error) {
	resp, err := a.provider.MakeBearCase(ctx, snapshot)
	if err != nil {
		return llm.DebateCase{}, fmt.Errorf("bear stage: %w", err)
	}

	doc, ok := extractJSON(resp.Content)
	if !ok {
		return llm.DebateCase{}, fmt.Errorf("bear stage: %w", newParseError(symbol, "no JSON object found in response", resp.Content))
	}
	var p bearPayload
	if err := decodeTolerant(doc, &p); err != nil {
		return llm.DebateCase{}, fmt.Errorf("bear stage: %w", newParseError(symbol, fmt.Sprintf("invalid JSON: %v", err), resp.Content))
	}

	return llm.DebateCase{
		Argument:       p.BearCase,
		KeySignals:     p.KeySignals,
		Confidence:     debateConfidence(p.Confidence),
		ProposedEntry:  float64(p.Entry),
		ProposedStop:   float64(p.Stop),
		ProposedTarget: float64(p.Target),
	}, nil
}

func parseJudge(raw, symbol string) (*judgePayload, error) {
	doc, ok := extractJSON(raw)
	if !ok {
		return nil, newParseError(symbol, "no JSON object found in judge response", raw)
	}
	var p judgePayload
	if err := decodeTolerant(doc, &p); err != nil {
		return nil, newParseError(symbol, fmt.Sprintf("invalid judge JSON: %v", err), raw)
	}
	if p.Decision == "" {
		return nil, newParseError(symbol, "judge response missing decision", raw)
	}
	return &p, nil
}

// reduce synthesizes the final signal from the judge verdict. Risk factors
// are seeded from the losing side's signal list, then the judge's own
// factors are appended.
func (a *Aggregator) reduce(symbol string, bull, bear llm.DebateCase, verdict *judgePayload) (*TradingSignal, error) {
	action, err := normalizeAction(verdict.Decision)
	if err != nil {
		return nil, newParseError(symbol, fmt.Sprintf("judge decision: %v", err), verdict.Decision)
	}

	winner := normalizeWinner(verdict.WinningCase)

	var riskFactors []string
	switch action {
	case ActionBuy:
		riskFactors = append(riskFactors, bear.KeySignals...)
	case ActionSell:
		riskFactors = append(riskFactors, bull.KeySignals...)
	case ActionHold:
		for _, s := range bull.KeySignals {
			riskFactors = append(riskFactors, "mixed signal: "+s)
		}
		for _, s := range bear.KeySignals {
			riskFactors = append(riskFactors, "mixed signal: "+s)
		}
	}
	riskFactors = append(riskFactors, verdict.RiskFactors...)

	sig := &TradingSignal{
		Symbol:             symbol,
		Action:             action,
		Confidence:         clampConfidence(debateConfidence(verdict.Confidence)),
		Reasoning:          verdict.Reasoning,
		EntryPrice:         float64(verdict.EntryPrice),
		StopLoss:           float64(verdict.StopLoss),
		TakeProfit:         float64(verdict.TakeProfit),
		SizeRecommendation: normalizeSizeBand(verdict.SizeRec),
		RiskFactors:        riskFactors,
		TimeHorizon:        verdict.TimeHorizon,
		Provider:           a.provider.GetName(),
		Timestamp:          time.Now(),
		Debate: &DebateRecord{
			BullArgument:   bull.Argument,
			BearArgument:   bear.Argument,
			BullConfidence: bull.Confidence,
			BearConfidence: bear.Confidence,
			Winner:         winner,
		},
	}
	return sig, nil
}

// debateConfidence applies the debate path's lenient default: a missing or
// unparsable confidence becomes 50 rather than a failure, while a reported
// value, zero included, survives as-is. The single-call parser stays
// strict; the asymmetry is observed behavior.
func debateConfidence(v optFloat) float64 {
	if !v.Set {
		return 50
	}
	return v.Value
}

func normalizeWinner(s string) WinningCase {
	switch WinningCase(trimUpper(s)) {
	case CaseBull:
		return CaseBull
	case CaseBear:
		return CaseBear
	default:
		return CaseNeither
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
