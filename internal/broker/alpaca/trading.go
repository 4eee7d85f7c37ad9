package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/laramiej/ai-daytrading/internal/broker"
)

type orderRequest struct {
	Symbol      string `json:"symbol"`
	Qty         string `json:"qty"`
	Side        string `json:"side"`
	Type        string `json:"type"`
	TimeInForce string `json:"time_in_force"`
}

type orderResponse struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	Qty         string    `json:"qty"`
	Side        string    `json:"side"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// PlaceMarketOrder submits a day market order
func (c *Client) PlaceMarketOrder(ctx context.Context, symbol string, side broker.OrderSide, quantity float64) (*broker.Order, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("order quantity must be positive, got %.2f", quantity)
	}

	req := orderRequest{
		Symbol:      symbol,
		Qty:         strconv.FormatFloat(quantity, 'f', -1, 64),
		Side:        string(side),
		Type:        "market",
		TimeInForce: "day",
	}

	var resp *orderResponse
	err := c.Retry(ctx, func() error {
		r, err := c.trading.R().
			SetContext(ctx).
			SetBody(req).
			Post("/v2/orders")
		if err != nil {
			return fmt.Errorf("failed to place order: %w", err)
		}
		if r.IsError() {
			return parseAPIError(r.StatusCode(), r.Body())
		}

		var parsed orderResponse
		if err := json.Unmarshal(r.Body(), &parsed); err != nil {
			return fmt.Errorf("failed to parse order response: %w", err)
		}
		resp = &parsed
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &broker.Order{
		ID:          resp.ID,
		Symbol:      resp.Symbol,
		Side:        broker.OrderSide(resp.Side),
		Quantity:    parseMoney(resp.Qty),
		Status:      resp.Status,
		SubmittedAt: resp.SubmittedAt,
	}, nil
}
