// Package provider implements price sources for tracked assets.
package provider

import (
	"context"
	"net"
	"time"

	apperrors "price-stalker/internal/errors"
	"price-stalker/internal/models"
)

// DefaultTimeout bounds every price request.
const DefaultTimeout = 15 * time.Second

// PriceSource fetches the current price for one asset. Implementations
// fail softly: any per-asset failure is logged and degraded to the
// unavailable sentinel quote, never returned as an error. No asset
// failure may abort the overall poll.
type PriceSource interface {
	Quote(ctx context.Context, asset models.Asset) models.Quote
}

// unavailable is the sentinel quote for a failed fetch.
func unavailable(currency models.Currency) models.Quote {
	return models.Quote{Currency: currency}
}

// classifyTransportErr maps a transport failure onto the provider error
// taxonomy: timeouts vs everything else.
func classifyTransportErr(err error) error {
	if apperrors.Is(err, context.DeadlineExceeded) {
		return apperrors.ErrProviderTimeout
	}
	var netErr net.Error
	if apperrors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.ErrProviderTimeout
	}
	return apperrors.ErrProviderUnreachable
}
