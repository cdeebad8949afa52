package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	apperrors "price-stalker/internal/errors"
	"price-stalker/internal/models"
)

const coinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoConfig configures the crypto price source.
type CoinGeckoConfig struct {
	BaseURL string
	Mapping map[string]string // symbol -> coin id
	Timeout time.Duration
}

// CoinGecko fetches crypto prices from the CoinGecko simple-price endpoint,
// requesting USD and BRL quotes in a single call.
type CoinGecko struct {
	baseURL string
	mapping map[string]string
	client  *http.Client
	logger  zerolog.Logger
}

// NewCoinGecko creates a new CoinGecko price source.
func NewCoinGecko(cfg CoinGeckoConfig, logger zerolog.Logger) *CoinGecko {
	if cfg.BaseURL == "" {
		cfg.BaseURL = coinGeckoBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &CoinGecko{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		mapping: cfg.Mapping,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger.With().Str("provider", "coingecko").Logger(),
	}
}

// Quote returns the current price for a crypto asset, or the unavailable
// sentinel when the fetch fails for any reason.
func (c *CoinGecko) Quote(ctx context.Context, asset models.Asset) models.Quote {
	quote, err := c.fetch(ctx, asset.Symbol)
	if err != nil {
		c.logger.Warn().Str("symbol", asset.Symbol).Err(err).Msg("price unavailable")
		return unavailable(models.USD)
	}
	return quote
}

func (c *CoinGecko) fetch(ctx context.Context, symbol string) (models.Quote, error) {
	coinID, ok := c.mapping[strings.ToUpper(symbol)]
	if !ok {
		return models.Quote{}, apperrors.NewProviderError("coingecko", symbol, apperrors.ErrUnmappedSymbol)
	}

	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd,brl",
		c.baseURL, url.QueryEscape(coinID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.Quote{}, apperrors.NewProviderError("coingecko", symbol, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Quote{}, apperrors.NewProviderError("coingecko", symbol, classifyTransportErr(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Quote{}, apperrors.NewProviderError("coingecko", symbol,
			fmt.Errorf("http status %d: %w", resp.StatusCode, apperrors.ErrMalformedResponse))
	}

	var payload map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.Quote{}, apperrors.NewProviderError("coingecko", symbol,
			fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err))
	}

	prices, ok := payload[coinID]
	if !ok {
		return models.Quote{}, apperrors.NewProviderError("coingecko", symbol, apperrors.ErrMalformedResponse)
	}

	// Fixed tie-break: prefer BRL when present, else USD.
	if amount, ok := prices["brl"]; ok {
		return models.Quote{Amount: amount, Currency: models.BRL}, nil
	}
	if amount, ok := prices["usd"]; ok {
		return models.Quote{Amount: amount, Currency: models.USD}, nil
	}
	return models.Quote{}, apperrors.NewProviderError("coingecko", symbol, apperrors.ErrMalformedResponse)
}
