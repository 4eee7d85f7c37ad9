package risk

import (
	"fmt"

	"github.com/laramiej/ai-daytrading/internal/config"
)

// Limits is the immutable risk configuration for one evaluator instance.
// Changing limits means constructing a new evaluator, never mutating a live
// one mid-evaluation.
type Limits struct {
	MaxPositionSize        float64 // max USD value per position
	MaxDailyLoss           float64 // max realized daily loss in USD
	MaxTotalExposure       float64 // max total open exposure in USD
	MaxOpenPositions       int     // max concurrent positions
	MaxPositionExposurePct float64 // max % of exposure budget per position
	RiskPerTradePct        float64 // % of account value risked per trade
	ShortSellingEnabled    bool
}

// LimitsFromConfig copies the risk section of the loaded configuration
func LimitsFromConfig(cfg config.RiskConfig) Limits {
	return Limits{
		MaxPositionSize:        cfg.MaxPositionSize,
		MaxDailyLoss:           cfg.MaxDailyLoss,
		MaxTotalExposure:       cfg.MaxTotalExposure,
		MaxOpenPositions:       cfg.MaxOpenPositions,
		MaxPositionExposurePct: cfg.MaxPositionExposurePct,
		RiskPerTradePct:        cfg.RiskPerTradePct,
		ShortSellingEnabled:    cfg.EnableShortSelling,
	}
}

// Validate rejects limit combinations that would make every trade impossible
func (l Limits) Validate() error {
	if l.MaxPositionSize <= 0 {
		return fmt.Errorf("max position size must be positive, got %.2f", l.MaxPositionSize)
	}
	if l.MaxDailyLoss <= 0 {
		return fmt.Errorf("max daily loss must be positive, got %.2f", l.MaxDailyLoss)
	}
	if l.MaxTotalExposure <= 0 {
		return fmt.Errorf("max total exposure must be positive, got %.2f", l.MaxTotalExposure)
	}
	if l.MaxOpenPositions <= 0 {
		return fmt.Errorf("max open positions must be positive, got %d", l.MaxOpenPositions)
	}
	if l.MaxPositionExposurePct <= 0 || l.MaxPositionExposurePct > 100 {
		return fmt.Errorf("max position exposure percent must be in (0,100], got %.2f", l.MaxPositionExposurePct)
	}
	if l.RiskPerTradePct <= 0 || l.RiskPerTradePct > 100 {
		return fmt.Errorf("risk per trade percent must be in (0,100], got %.2f", l.RiskPerTradePct)
	}
	return nil
}
