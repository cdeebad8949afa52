// Package alert evaluates quotes against per-asset alert thresholds.
package alert

import (
	"github.com/shopspring/decimal"

	"price-stalker/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Evaluation is the outcome of comparing a quote to an asset threshold.
// When not triggered, Remaining and RemainingPct describe the distance to
// the target: RemainingPct = (alert - current) / current * 100.
type Evaluation struct {
	Triggered    bool
	Above        decimal.Decimal
	Remaining    decimal.Decimal
	RemainingPct decimal.Decimal
}

// Evaluate compares a quote to the asset's alert price. The trigger
// condition is inclusive: current >= alert. The caller must check that the
// quote is available (amount > 0) before calling; evaluating the
// unavailable sentinel is a contract violation.
func Evaluate(asset models.Asset, quote models.Quote) Evaluation {
	if quote.Amount.GreaterThanOrEqual(asset.AlertPrice) {
		return Evaluation{
			Triggered: true,
			Above:     quote.Amount.Sub(asset.AlertPrice),
		}
	}
	remaining := asset.AlertPrice.Sub(quote.Amount)
	return Evaluation{
		Remaining:    remaining,
		RemainingPct: remaining.Div(quote.Amount).Mul(hundred),
	}
}
