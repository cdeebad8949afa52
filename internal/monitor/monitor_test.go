package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-stalker/internal/alert"
	"price-stalker/internal/alertlog"
	"price-stalker/internal/models"
	"price-stalker/internal/notify"
	"price-stalker/internal/provider"
)

// stubSource returns canned quotes per symbol; unlisted symbols are
// unavailable.
type stubSource struct {
	quotes map[string]models.Quote
}

func (s *stubSource) Quote(_ context.Context, asset models.Asset) models.Quote {
	if q, ok := s.quotes[asset.Symbol]; ok {
		return q
	}
	return models.Quote{Currency: models.USD}
}

// recordingReporter captures reporter callbacks.
type recordingReporter struct {
	unavailable []string
	statuses    []string
	fallbacks   []string
	checked     int
	total       int
	written     int
	cycles      int
}

func (r *recordingReporter) AssetChecking(models.Asset) {}

func (r *recordingReporter) AssetUnavailable(asset models.Asset) {
	r.unavailable = append(r.unavailable, asset.Symbol)
}

func (r *recordingReporter) AssetStatus(asset models.Asset, _ models.Quote, _ alert.Evaluation) {
	r.statuses = append(r.statuses, asset.Symbol)
}

func (r *recordingReporter) SoundFallback(asset models.Asset) {
	r.fallbacks = append(r.fallbacks, asset.Symbol)
}

func (r *recordingReporter) CycleSummary(checked, total, written int) {
	r.checked, r.total, r.written = checked, total, written
	r.cycles++
}

func (r *recordingReporter) NextCheck(time.Time) {}

type countingSounder struct {
	plays int
	err   error
}

func (s *countingSounder) Play() error {
	s.plays++
	return s.err
}

func cryptoAsset(symbol string, alertPrice int64) models.Asset {
	return models.Asset{
		Symbol:     symbol,
		Name:       symbol,
		Type:       models.AssetCrypto,
		AlertPrice: decimal.NewFromInt(alertPrice),
	}
}

func brlQuote(amount int64) models.Quote {
	return models.Quote{Amount: decimal.NewFromInt(amount), Currency: models.BRL}
}

func newTestMonitor(t *testing.T, cfg Config) (*Monitor, *alertlog.Log) {
	t.Helper()
	log := alertlog.New(filepath.Join(t.TempDir(), "alert_log.json"), zerolog.Nop())
	cfg.Log = log
	cfg.Logger = zerolog.Nop()
	if cfg.Reporter == nil {
		cfg.Reporter = &recordingReporter{}
	}
	return New(cfg), log
}

func TestRunOnceTriggersAndPersists(t *testing.T) {
	reporter := &recordingReporter{}
	m, log := newTestMonitor(t, Config{
		Assets: []models.Asset{cryptoAsset("BTC", 50000)},
		Sources: map[models.AssetType]provider.PriceSource{
			models.AssetCrypto: &stubSource{quotes: map[string]models.Quote{"BTC": brlQuote(300000)}},
		},
		Reporter: reporter,
	})

	triggers, err := m.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, triggers, 1)
	assert.Equal(t, "BTC", triggers[0].Symbol)
	assert.Equal(t, models.BRL, triggers[0].Currency)
	assert.True(t, triggers[0].CurrentPrice.Equal(decimal.NewFromInt(300000)))

	records, err := log.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Now().Format("2006-01-02"), records[0].Day())

	assert.Equal(t, 1, reporter.checked)
	assert.Equal(t, 1, reporter.total)
	assert.Equal(t, 1, reporter.written)
}

func TestRunOnceUnavailableNeverTriggers(t *testing.T) {
	reporter := &recordingReporter{}
	m, log := newTestMonitor(t, Config{
		Assets: []models.Asset{
			cryptoAsset("BTC", 50000),
			cryptoAsset("ETH", 1), // would trigger at any price, but is unavailable
		},
		Sources: map[models.AssetType]provider.PriceSource{
			models.AssetCrypto: &stubSource{quotes: map[string]models.Quote{"BTC": brlQuote(300000)}},
		},
		Reporter: reporter,
	})

	triggers, err := m.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, triggers, 1)
	assert.Equal(t, "BTC", triggers[0].Symbol)

	assert.Equal(t, []string{"ETH"}, reporter.unavailable)
	assert.Equal(t, 1, reporter.checked)
	assert.Equal(t, 2, reporter.total)

	records, err := log.Load()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestRunOnceSameDayDuplicateStillReturnedButNotRewritten(t *testing.T) {
	reporter := &recordingReporter{}
	m, log := newTestMonitor(t, Config{
		Assets: []models.Asset{cryptoAsset("BTC", 50000)},
		Sources: map[models.AssetType]provider.PriceSource{
			models.AssetCrypto: &stubSource{quotes: map[string]models.Quote{"BTC": brlQuote(300000)}},
		},
		Reporter: reporter,
	})

	first, err := m.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := m.RunOnce(context.Background())
	require.NoError(t, err)
	// The duplicate trigger is still returned for display...
	require.Len(t, second, 1)
	// ...but the log keeps exactly one record for the (symbol, day) pair.
	records, err := log.Load()
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 0, reporter.written)
}

func TestRunOnceBelowThresholdDoesNotTrigger(t *testing.T) {
	reporter := &recordingReporter{}
	m, log := newTestMonitor(t, Config{
		Assets: []models.Asset{cryptoAsset("BTC", 500000)},
		Sources: map[models.AssetType]provider.PriceSource{
			models.AssetCrypto: &stubSource{quotes: map[string]models.Quote{"BTC": brlQuote(300000)}},
		},
		Reporter: reporter,
	})

	triggers, err := m.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, triggers)
	assert.Equal(t, []string{"BTC"}, reporter.statuses)

	records, err := log.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRunOncePlaysSoundOnTrigger(t *testing.T) {
	sounder := &countingSounder{}
	m, _ := newTestMonitor(t, Config{
		Assets: []models.Asset{cryptoAsset("BTC", 50000)},
		Sources: map[models.AssetType]provider.PriceSource{
			models.AssetCrypto: &stubSource{quotes: map[string]models.Quote{"BTC": brlQuote(300000)}},
		},
		Sounder: sounder,
		Sound:   true,
	})

	_, err := m.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sounder.plays)
}

func TestRunOnceSoundFailureFallsBackToText(t *testing.T) {
	reporter := &recordingReporter{}
	sounder := &countingSounder{err: errors.New("no audio device")}
	m, _ := newTestMonitor(t, Config{
		Assets: []models.Asset{cryptoAsset("BTC", 50000)},
		Sources: map[models.AssetType]provider.PriceSource{
			models.AssetCrypto: &stubSource{quotes: map[string]models.Quote{"BTC": brlQuote(300000)}},
		},
		Sounder:  sounder,
		Sound:    true,
		Reporter: reporter,
	})

	triggers, err := m.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Len(t, triggers, 1)
	assert.Equal(t, []string{"BTC"}, reporter.fallbacks)
}

func TestRunOnceSoundDisabled(t *testing.T) {
	sounder := &countingSounder{}
	m, _ := newTestMonitor(t, Config{
		Assets: []models.Asset{cryptoAsset("BTC", 50000)},
		Sources: map[models.AssetType]provider.PriceSource{
			models.AssetCrypto: &stubSource{quotes: map[string]models.Quote{"BTC": brlQuote(300000)}},
		},
		Sounder: sounder,
		Sound:   false,
	})

	_, err := m.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sounder.plays)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	reporter := &recordingReporter{}
	m, _ := newTestMonitor(t, Config{
		Assets: []models.Asset{cryptoAsset("BTC", 500000)},
		Sources: map[models.AssetType]provider.PriceSource{
			models.AssetCrypto: &stubSource{quotes: map[string]models.Quote{"BTC": brlQuote(300000)}},
		},
		Reporter: reporter,
		Interval: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	// Let the first cycle finish, then interrupt the sleep.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
	assert.Equal(t, 1, reporter.cycles)
}

var _ notify.Sounder = (*countingSounder)(nil)
