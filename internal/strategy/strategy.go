package strategy

import (
	"context"
	"sort"
	"sync"

	"github.com/laramiej/ai-daytrading/internal/llm"
	"github.com/laramiej/ai-daytrading/internal/logger"
	"github.com/laramiej/ai-daytrading/internal/monitoring"
	"github.com/laramiej/ai-daytrading/internal/signal"
)

// Strategy turns market snapshots into validated trading signals, through
// either a single model call or the three-stage debate.
type Strategy struct {
	provider llm.Provider
	market   MarketDataSource
	debate   *signal.Aggregator
	log      *logger.Logger

	debateMode bool

	mu      sync.Mutex
	history []*signal.TradingSignal
}

func New(provider llm.Provider, market MarketDataSource, log *logger.Logger, debateMode bool) *Strategy {
	return &Strategy{
		provider:   provider,
		market:     market,
		debate:     signal.NewAggregator(provider, log),
		log:        log,
		debateMode: debateMode,
	}
}

// Provider describes the configured model provider for status output
func (s *Strategy) Provider() string {
	return s.provider.GetName() + " (" + s.provider.GetModel() + ")"
}

// DebateActive reports whether debate mode is both requested and supported
// by the provider.
func (s *Strategy) DebateActive() bool {
	return s.debateMode && s.provider.SupportsDebate()
}

// AnalyzeSymbol produces one signal for one symbol. Debate mode silently
// falls back to single-call analysis when the provider cannot debate.
func (s *Strategy) AnalyzeSymbol(ctx context.Context, symbol, portfolioContext string) (*signal.TradingSignal, error) {
	snapshot, err := s.market.Snapshot(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var sig *signal.TradingSignal
	if s.DebateActive() {
		sig, err = s.debate.Run(ctx, snapshot)
	} else {
		sig, err = s.analyzeSingle(ctx, snapshot, symbol, portfolioContext)
	}
	if err != nil {
		return nil, err
	}

	s.record(sig)
	s.log.Signal("%s: %s (confidence %.0f) via %s", symbol, sig.Action, sig.Confidence, sig.Provider)
	return sig, nil
}

func (s *Strategy) analyzeSingle(ctx context.Context, snapshot llm.MarketSnapshot, symbol, portfolioContext string) (*signal.TradingSignal, error) {
	resp, err := s.provider.AnalyzeMarketData(ctx, snapshot, portfolioContext)
	if err != nil {
		return nil, err
	}

	sig, err := signal.Parse(resp.Content, symbol, s.provider.GetName())
	if err != nil {
		monitoring.RecordParseFailure(s.provider.GetName())
		return nil, err
	}
	return sig, nil
}

// AnalyzeWatchlist scans all symbols and returns the actionable signals at
// or above the confidence floor, strongest first. A failure on one symbol
// is logged and skipped; it never aborts the scan.
func (s *Strategy) AnalyzeWatchlist(ctx context.Context, symbols []string, portfolioContext string, minConfidence float64) []*signal.TradingSignal {
	var candidates []*signal.TradingSignal

	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
			s.log.Warning("scan interrupted before %s: %v", symbol, ctx.Err())
			return candidates
		default:
		}

		sig, err := s.AnalyzeSymbol(ctx, symbol, portfolioContext)
		if err != nil {
			s.log.Warning("no signal for %s this cycle: %v", symbol, err)
			continue
		}

		if !sig.Action.Actionable() {
			continue
		}
		if sig.Confidence < minConfidence {
			s.log.Info("%s %s below confidence floor (%.0f < %.0f), skipping",
				symbol, sig.Action, sig.Confidence, minConfidence)
			continue
		}

		candidates = append(candidates, sig)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	return candidates
}

func (s *Strategy) record(sig *signal.TradingSignal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, sig)
}

// History returns a copy of every signal produced this session
func (s *Strategy) History() []*signal.TradingSignal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*signal.TradingSignal, len(s.history))
	copy(out, s.history)
	return out
}
