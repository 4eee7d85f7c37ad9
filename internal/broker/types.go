package broker

import "time"

// OrderSide represents the direction of an order
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// PositionSide represents the direction of an open position
type PositionSide string

const (
	PositionSideLong  PositionSide = "long"
	PositionSideShort PositionSide = "short"
)

// AccountInfo represents the trading account state
type AccountInfo struct {
	Cash           float64 `json:"cash"`
	PortfolioValue float64 `json:"portfolio_value"`
	BuyingPower    float64 `json:"buying_power"`
	Equity         float64 `json:"equity"`
}

// Exposure is the total currency value of open positions
func (a AccountInfo) Exposure() float64 {
	return a.PortfolioValue - a.Cash
}

// Position represents an open position. Quantity is always non-negative;
// Side carries the direction.
type Position struct {
	Symbol       string       `json:"symbol"`
	Side         PositionSide `json:"side"`
	Quantity     float64      `json:"quantity"`
	EntryPrice   float64      `json:"entry_price"`
	CurrentPrice float64      `json:"current_price"`
	PnL          float64      `json:"pnl"`
	PnLPercent   float64      `json:"pnl_percent"`
}

// MarketValue returns the current currency value of the position
func (p Position) MarketValue() float64 {
	return p.Quantity * p.CurrentPrice
}

// Quote represents the latest bid/ask for a symbol
type Quote struct {
	Symbol    string    `json:"symbol"`
	BidPrice  float64   `json:"bid_price"`
	AskPrice  float64   `json:"ask_price"`
	BidSize   int64     `json:"bid_size"`
	AskSize   int64     `json:"ask_size"`
	Timestamp time.Time `json:"timestamp"`
}

// Mid returns the quote midpoint, used as the estimated execution price
func (q Quote) Mid() float64 {
	return (q.BidPrice + q.AskPrice) / 2
}

// Order represents a submitted order
type Order struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	Side        OrderSide `json:"side"`
	Quantity    float64   `json:"quantity"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}
