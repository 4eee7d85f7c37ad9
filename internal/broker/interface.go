package broker

import "context"

// Broker defines the interface to the brokerage account. The decision engine
// only reads portfolio state through it; order placement is reserved for the
// execution layer.
type Broker interface {
	GetName() string

	// Account and portfolio state
	GetAccountInfo(ctx context.Context) (*AccountInfo, error)
	GetPositions(ctx context.Context) ([]Position, error)

	// Market data
	GetLatestQuote(ctx context.Context, symbol string) (*Quote, error)
	IsMarketOpen(ctx context.Context) (bool, error)

	// Trading
	PlaceMarketOrder(ctx context.Context, symbol string, side OrderSide, quantity float64) (*Order, error)
}
