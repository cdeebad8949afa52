// Package monitor drives the polling loop over all tracked assets.
package monitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"price-stalker/internal/alert"
	"price-stalker/internal/alertlog"
	"price-stalker/internal/models"
	"price-stalker/internal/notify"
	"price-stalker/internal/provider"
)

// Reporter receives per-asset poll outcomes for display. The monitor does
// no printing of its own.
type Reporter interface {
	AssetChecking(asset models.Asset)
	AssetUnavailable(asset models.Asset)
	AssetStatus(asset models.Asset, quote models.Quote, eval alert.Evaluation)
	SoundFallback(asset models.Asset)
	CycleSummary(checked, total, written int)
	NextCheck(at time.Time)
}

// Config wires the monitor's collaborators.
type Config struct {
	Assets   []models.Asset
	Sources  map[models.AssetType]provider.PriceSource
	Log      *alertlog.Log
	Sounder  notify.Sounder
	Reporter Reporter
	Interval time.Duration
	Sound    bool
	Logger   zerolog.Logger
}

// Monitor polls assets sequentially, evaluates alerts, and persists
// triggers. Strictly single-threaded: each HTTP call blocks the loop.
type Monitor struct {
	assets   []models.Asset
	sources  map[models.AssetType]provider.PriceSource
	log      *alertlog.Log
	sounder  notify.Sounder
	reporter Reporter
	interval time.Duration
	sound    bool
	logger   zerolog.Logger
	now      func() time.Time
}

// New creates a Monitor from its configuration.
func New(cfg Config) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Sounder == nil {
		cfg.Sounder = notify.Noop{}
	}
	return &Monitor{
		assets:   cfg.Assets,
		sources:  cfg.Sources,
		log:      cfg.Log,
		sounder:  cfg.Sounder,
		reporter: cfg.Reporter,
		interval: cfg.Interval,
		sound:    cfg.Sound,
		logger:   cfg.Logger.With().Str("component", "monitor").Logger(),
		now:      time.Now,
	}
}

// RunOnce executes a single poll cycle over all assets and returns every
// trigger of this cycle, including ones the log later suppressed as
// same-day duplicates. The log file is the durable source of truth; the
// returned slice is for display.
func (m *Monitor) RunOnce(ctx context.Context) ([]models.AlertRecord, error) {
	var triggers []models.AlertRecord
	checked := 0

	for _, asset := range m.assets {
		m.reporter.AssetChecking(asset)

		source, ok := m.sources[asset.Type]
		if !ok {
			m.logger.Warn().Str("symbol", asset.Symbol).Str("type", string(asset.Type)).
				Msg("no price source for asset type")
			m.reporter.AssetUnavailable(asset)
			continue
		}

		quote := source.Quote(ctx, asset)
		if quote.Unavailable() {
			m.reporter.AssetUnavailable(asset)
			continue
		}
		checked++

		eval := alert.Evaluate(asset, quote)
		m.reporter.AssetStatus(asset, quote, eval)

		if !eval.Triggered {
			continue
		}

		m.logger.Info().
			Str("symbol", asset.Symbol).
			Str("price", quote.Amount.String()).
			Str("currency", string(quote.Currency)).
			Msg("alert triggered")
		triggers = append(triggers, models.NewAlertRecord(asset, quote, m.now()))

		if m.sound {
			if err := m.sounder.Play(); err != nil {
				m.logger.Debug().Err(err).Msg("sound alert failed")
				m.reporter.SoundFallback(asset)
			}
		}
	}

	written := 0
	if len(triggers) > 0 {
		n, err := m.log.Append(triggers)
		if err != nil {
			m.logger.Warn().Err(err).Msg("failed to persist alerts")
		} else {
			written = n
		}
	}
	m.reporter.CycleSummary(checked, len(m.assets), written)

	return triggers, nil
}

// Run polls continuously: one cycle, then an interruptible sleep of the
// configured interval, repeated until the context is cancelled. The
// cancellation lands between cycles, not mid-request; already-evaluated
// assets of the current cycle have been persisted by then.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		if _, err := m.RunOnce(ctx); err != nil {
			return err
		}

		m.reporter.NextCheck(m.now().Add(m.interval))

		timer := time.NewTimer(m.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
