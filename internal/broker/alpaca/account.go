package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/laramiej/ai-daytrading/internal/broker"
)

// accountResponse mirrors the /v2/account payload; Alpaca serializes money
// fields as strings.
type accountResponse struct {
	Cash           string `json:"cash"`
	PortfolioValue string `json:"portfolio_value"`
	BuyingPower    string `json:"buying_power"`
	Equity         string `json:"equity"`
	TradingBlocked bool   `json:"trading_blocked"`
	AccountBlocked bool   `json:"account_blocked"`
}

type positionResponse struct {
	Symbol         string `json:"symbol"`
	Qty            string `json:"qty"`
	Side           string `json:"side"`
	AvgEntryPrice  string `json:"avg_entry_price"`
	CurrentPrice   string `json:"current_price"`
	UnrealizedPL   string `json:"unrealized_pl"`
	UnrealizedPLPC string `json:"unrealized_plpc"`
}

type clockResponse struct {
	IsOpen bool `json:"is_open"`
}

// GetAccountInfo retrieves the current account state
func (c *Client) GetAccountInfo(ctx context.Context) (*broker.AccountInfo, error) {
	resp, err := c.trading.R().SetContext(ctx).Get("/v2/account")
	if err != nil {
		return nil, fmt.Errorf("failed to get account info: %w", err)
	}
	if resp.IsError() {
		return nil, parseAPIError(resp.StatusCode(), resp.Body())
	}

	var account accountResponse
	if err := json.Unmarshal(resp.Body(), &account); err != nil {
		return nil, fmt.Errorf("failed to parse account response: %w", err)
	}

	if account.TradingBlocked || account.AccountBlocked {
		return nil, fmt.Errorf("account is blocked from trading")
	}

	return &broker.AccountInfo{
		Cash:           parseMoney(account.Cash),
		PortfolioValue: parseMoney(account.PortfolioValue),
		BuyingPower:    parseMoney(account.BuyingPower),
		Equity:         parseMoney(account.Equity),
	}, nil
}

// GetPositions retrieves all open positions
func (c *Client) GetPositions(ctx context.Context) ([]broker.Position, error) {
	resp, err := c.trading.R().SetContext(ctx).Get("/v2/positions")
	if err != nil {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}
	if resp.IsError() {
		return nil, parseAPIError(resp.StatusCode(), resp.Body())
	}

	var raw []positionResponse
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse positions response: %w", err)
	}

	positions := make([]broker.Position, 0, len(raw))
	for _, p := range raw {
		side := broker.PositionSideLong
		if p.Side == "short" {
			side = broker.PositionSideShort
		}

		// Alpaca reports short quantities as negative; positions carry
		// direction in Side and store quantity non-negative.
		qty := parseMoney(p.Qty)
		if qty < 0 {
			qty = -qty
		}

		positions = append(positions, broker.Position{
			Symbol:       p.Symbol,
			Side:         side,
			Quantity:     qty,
			EntryPrice:   parseMoney(p.AvgEntryPrice),
			CurrentPrice: parseMoney(p.CurrentPrice),
			PnL:          parseMoney(p.UnrealizedPL),
			PnLPercent:   parseMoney(p.UnrealizedPLPC) * 100,
		})
	}

	return positions, nil
}

// IsMarketOpen checks the market clock
func (c *Client) IsMarketOpen(ctx context.Context) (bool, error) {
	resp, err := c.trading.R().SetContext(ctx).Get("/v2/clock")
	if err != nil {
		return false, fmt.Errorf("failed to get market clock: %w", err)
	}
	if resp.IsError() {
		return false, parseAPIError(resp.StatusCode(), resp.Body())
	}

	var clock clockResponse
	if err := json.Unmarshal(resp.Body(), &clock); err != nil {
		return false, fmt.Errorf("failed to parse clock response: %w", err)
	}

	return clock.IsOpen, nil
}

func parseMoney(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseAPIError(statusCode int, body []byte) error {
	apiErr := &APIError{StatusCode: statusCode}

	var payload struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = string(body)
	}

	return apiErr
}
