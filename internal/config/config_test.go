package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "price-stalker/internal/errors"
	"price-stalker/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingFileIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfigNotFound)
}

func TestLoadMalformedFileIsFatal(t *testing.T) {
	path := writeConfig(t, `{"assets": [`)
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfigMalformed)
}

func TestLoadAppliesSettingsDefaults(t *testing.T) {
	path := writeConfig(t, `{"crypto_mapping": {}, "assets": []}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultCheckIntervalMinutes, cfg.Settings.CheckIntervalMinutes)
	assert.True(t, cfg.Settings.PlaySoundAlert)
	assert.Equal(t, DefaultLogFile, cfg.LogFile)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `{
		"crypto_mapping": {"BTC": "bitcoin", "ETH": "ethereum"},
		"assets": [
			{"symbol": "BTC", "name": "Bitcoin", "type": "crypto", "alert_price": 50000},
			{"symbol": "PETR4", "name": "Petrobras", "type": "stock", "alert_price": 38.5, "buy_date": "2025-01-10", "buy_price": 30.25}
		],
		"settings": {"check_interval_minutes": 15, "play_sound_alert": false}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bitcoin", cfg.CryptoMapping["BTC"])
	require.Len(t, cfg.Assets, 2)

	btc := cfg.Assets[0]
	assert.Equal(t, models.AssetCrypto, btc.Type)
	assert.True(t, btc.AlertPrice.Equal(decimal.NewFromInt(50000)))

	petr := cfg.Assets[1]
	assert.Equal(t, models.AssetStock, petr.Type)
	assert.True(t, petr.AlertPrice.Equal(decimal.RequireFromString("38.5")))
	assert.True(t, petr.BuyPrice.Equal(decimal.RequireFromString("30.25")))
	assert.Equal(t, "2025-01-10", petr.BuyDate)

	assert.Equal(t, 15, cfg.Settings.CheckIntervalMinutes)
	assert.False(t, cfg.Settings.PlaySoundAlert)
}

func TestLoadRejectsInvalidAssetType(t *testing.T) {
	path := writeConfig(t, `{
		"assets": [{"symbol": "XYZ", "name": "X", "type": "bond", "alert_price": 10}]
	}`)
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfigMalformed)
}

func TestLoadRejectsNonPositiveAlertPrice(t *testing.T) {
	path := writeConfig(t, `{
		"assets": [{"symbol": "BTC", "name": "Bitcoin", "type": "crypto", "alert_price": 0}]
	}`)
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfigMalformed)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STALKER_LOG_FILE", "/tmp/other_log.json")
	t.Setenv("STALKER_INTERVAL_MINUTES", "5")
	t.Setenv("STALKER_SOUND", "false")

	path := writeConfig(t, `{"assets": []}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other_log.json", cfg.LogFile)
	assert.Equal(t, 5, cfg.Settings.CheckIntervalMinutes)
	assert.False(t, cfg.Settings.PlaySoundAlert)
}

func TestConfigPathFromEnv(t *testing.T) {
	path := writeConfig(t, `{"assets": []}`)
	t.Setenv("STALKER_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}
