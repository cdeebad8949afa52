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

const (
	yahooBaseURL = "https://query1.finance.yahoo.com"

	// b3Suffix is appended to plain symbols: bare tickers are assumed to
	// trade on B3, the Brazilian exchange.
	b3Suffix = ".SA"

	// Yahoo rejects requests without a browser-looking user agent.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// YahooConfig configures the stock price source.
type YahooConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Yahoo fetches stock prices from the Yahoo Finance v8 chart endpoint.
type Yahoo struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewYahoo creates a new Yahoo price source.
func NewYahoo(cfg YahooConfig, logger zerolog.Logger) *Yahoo {
	if cfg.BaseURL == "" {
		cfg.BaseURL = yahooBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Yahoo{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger.With().Str("provider", "yahoo").Logger(),
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice decimal.Decimal `json:"regularMarketPrice"`
				Currency           string          `json:"currency"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// Quote returns the current price for a stock asset, or the unavailable
// sentinel when the fetch fails for any reason.
func (y *Yahoo) Quote(ctx context.Context, asset models.Asset) models.Quote {
	quote, err := y.fetch(ctx, asset.Symbol)
	if err != nil {
		y.logger.Warn().Str("symbol", asset.Symbol).Err(err).Msg("price unavailable")
		return unavailable(models.BRL)
	}
	return quote
}

func (y *Yahoo) fetch(ctx context.Context, symbol string) (models.Quote, error) {
	clean := strings.ToUpper(strings.TrimSpace(symbol))
	suffixed := !strings.Contains(clean, ".")
	if suffixed {
		clean += b3Suffix
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", y.baseURL, url.PathEscape(clean))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.Quote{}, apperrors.NewProviderError("yahoo", symbol, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := y.client.Do(req)
	if err != nil {
		return models.Quote{}, apperrors.NewProviderError("yahoo", symbol, classifyTransportErr(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Quote{}, apperrors.NewProviderError("yahoo", symbol,
			fmt.Errorf("http status %d: %w", resp.StatusCode, apperrors.ErrMalformedResponse))
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.Quote{}, apperrors.NewProviderError("yahoo", symbol,
			fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err))
	}

	if len(payload.Chart.Result) == 0 {
		return models.Quote{}, apperrors.NewProviderError("yahoo", symbol, apperrors.ErrMalformedResponse)
	}
	meta := payload.Chart.Result[0].Meta

	// When the B3 suffix was applied, the quote is in BRL regardless of
	// what the provider reports.
	currency := models.USD
	if suffixed || strings.EqualFold(meta.Currency, string(models.BRL)) {
		currency = models.BRL
	}

	return models.Quote{Amount: meta.RegularMarketPrice, Currency: currency}, nil
}
