package strategy

import (
	"context"

	"github.com/laramiej/ai-daytrading/internal/broker"
	"github.com/laramiej/ai-daytrading/internal/llm"
)

// MarketDataSource produces the opaque market snapshot handed to the model.
// Richer implementations add indicators and sentiment; the engine never
// looks inside beyond the symbol.
type MarketDataSource interface {
	Snapshot(ctx context.Context, symbol string) (llm.MarketSnapshot, error)
}

// QuoteSource builds a minimal snapshot from the broker's latest quote.
// It is the default source when no indicator pipeline is configured.
type QuoteSource struct {
	broker broker.Broker
}

func NewQuoteSource(b broker.Broker) *QuoteSource {
	return &QuoteSource{broker: b}
}

func (q *QuoteSource) Snapshot(ctx context.Context, symbol string) (llm.MarketSnapshot, error) {
	quote, err := q.broker.GetLatestQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	return llm.MarketSnapshot{
		"symbol":        symbol,
		"current_price": quote.Mid(),
		"bid":           quote.BidPrice,
		"ask":           quote.AskPrice,
		"bid_size":      quote.BidSize,
		"ask_size":      quote.AskSize,
		"quoted_at":     quote.Timestamp,
	}, nil
}
