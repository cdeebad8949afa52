// Package config provides configuration management for the price alert tracker.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	apperrors "price-stalker/internal/errors"
	"price-stalker/internal/models"
)

// Default settings applied when the config file omits them.
const (
	DefaultCheckIntervalMinutes = 60
	DefaultPlaySoundAlert       = true
	DefaultConfigFile           = "config.json"
	DefaultLogFile              = "alert_log.json"
)

// Config holds all application configuration. It is built once at startup
// and passed by reference to each component; it is never mutated afterwards.
type Config struct {
	CryptoMapping map[string]string `mapstructure:"crypto_mapping" json:"crypto_mapping"`
	Assets        []models.Asset    `mapstructure:"assets" json:"assets"`
	Settings      Settings          `mapstructure:"settings" json:"settings"`

	// LogFile is the alert log location. Not part of the config file;
	// overridable via STALKER_LOG_FILE.
	LogFile string `mapstructure:"-" json:"-"`
}

// Settings drives the loop cadence and the audible alert.
type Settings struct {
	CheckIntervalMinutes int  `mapstructure:"check_interval_minutes" json:"check_interval_minutes"`
	PlaySoundAlert       bool `mapstructure:"play_sound_alert" json:"play_sound_alert"`
}

// Load reads the JSON configuration from path. An empty path falls back to
// the STALKER_CONFIG environment variable, then to config.json in the
// working directory. A missing file yields ErrConfigNotFound, unparseable
// content ErrConfigMalformed; both are fatal.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("STALKER_CONFIG")
	}
	if path == "" {
		path = DefaultConfigFile
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault("settings.check_interval_minutes", DefaultCheckIntervalMinutes)
	v.SetDefault("settings.play_sound_alert", DefaultPlaySoundAlert)

	if err := v.ReadInConfig(); err != nil {
		if apperrors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrConfigNotFound, path)
		}
		var notFound viper.ConfigFileNotFoundError
		if apperrors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConfigMalformed, err)
	}

	cfg := &Config{}
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		decimalDecodeHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConfigMalformed, err)
	}

	cfg.LogFile = DefaultLogFile
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConfigMalformed, err)
	}

	return cfg, nil
}

// decimalDecodeHook converts JSON numbers and strings into decimal.Decimal
// during viper unmarshalling.
func decimalDecodeHook() mapstructure.DecodeHookFuncType {
	decimalType := reflect.TypeOf(decimal.Decimal{})
	return func(_ reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != decimalType {
			return data, nil
		}
		switch v := data.(type) {
		case float64:
			return decimal.NewFromFloat(v), nil
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case int64:
			return decimal.NewFromInt(v), nil
		case string:
			return decimal.NewFromString(v)
		default:
			return data, nil
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STALKER_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("STALKER_INTERVAL_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			cfg.Settings.CheckIntervalMinutes = minutes
		}
	}
	if v := os.Getenv("STALKER_SOUND"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Settings.PlaySoundAlert = enabled
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, asset := range c.Assets {
		if asset.Symbol == "" {
			return fmt.Errorf("asset with empty symbol")
		}
		if asset.Type != models.AssetCrypto && asset.Type != models.AssetStock {
			return fmt.Errorf("asset %s: invalid type %q (must be 'crypto' or 'stock')", asset.Symbol, asset.Type)
		}
		if !asset.AlertPrice.IsPositive() {
			return fmt.Errorf("asset %s: alert_price must be positive", asset.Symbol)
		}
	}
	if c.Settings.CheckIntervalMinutes <= 0 {
		return fmt.Errorf("check_interval_minutes must be positive")
	}
	return nil
}
