package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/laramiej/ai-daytrading/internal/broker"
)

// quoteResponse mirrors the /v2/stocks/{symbol}/quotes/latest payload
type quoteResponse struct {
	Symbol string `json:"symbol"`
	Quote  struct {
		AskPrice  float64   `json:"ap"`
		AskSize   int64     `json:"as"`
		BidPrice  float64   `json:"bp"`
		BidSize   int64     `json:"bs"`
		Timestamp time.Time `json:"t"`
	} `json:"quote"`
}

// GetLatestQuote retrieves the latest NBBO quote for a symbol
func (c *Client) GetLatestQuote(ctx context.Context, symbol string) (*broker.Quote, error) {
	resp, err := c.data.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		Get("/v2/stocks/{symbol}/quotes/latest")
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}
	if resp.IsError() {
		return nil, parseAPIError(resp.StatusCode(), resp.Body())
	}

	var raw quoteResponse
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse quote response for %s: %w", symbol, err)
	}

	if raw.Quote.BidPrice <= 0 && raw.Quote.AskPrice <= 0 {
		return nil, fmt.Errorf("no quote available for %s", symbol)
	}

	return &broker.Quote{
		Symbol:    symbol,
		BidPrice:  raw.Quote.BidPrice,
		AskPrice:  raw.Quote.AskPrice,
		BidSize:   raw.Quote.BidSize,
		AskSize:   raw.Quote.AskSize,
		Timestamp: raw.Quote.Timestamp,
	}, nil
}
