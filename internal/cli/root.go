// Package cli provides the command-line interface for the price alert tracker.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"price-stalker/internal/alertlog"
	"price-stalker/internal/config"
	"price-stalker/internal/logging"
	"price-stalker/internal/models"
	"price-stalker/internal/notify"
	"price-stalker/internal/provider"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Crypto   provider.PriceSource
	Stock    provider.PriceSource
	AlertLog *alertlog.Log
	Sounder  notify.Sounder
}

// Sources returns the per-asset-type price source map.
func (a *App) Sources() map[models.AssetType]provider.PriceSource {
	return map[models.AssetType]provider.PriceSource{
		models.AssetCrypto: a.Crypto,
		models.AssetStock:  a.Stock,
	}
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.Crypto = provider.NewCoinGecko(provider.CoinGeckoConfig{Mapping: cfg.CryptoMapping}, logger)
	app.Stock = provider.NewYahoo(provider.YahooConfig{}, logger)
	app.AlertLog = alertlog.New(cfg.LogFile, logger)
	if cfg.Settings.PlaySoundAlert {
		app.Sounder = notify.NewBell(os.Stdout)
	} else {
		app.Sounder = notify.Noop{}
	}

	rootCmd := &cobra.Command{
		Use:   "stalker",
		Short: "Price alert tracker for crypto and stocks",
		Long: `Stalker polls prices for the crypto and stock assets in your config file,
compares them against per-asset alert thresholds, and records fired alerts
in an append-only JSON log (one entry per symbol per day).

Run 'stalker check' for a single pass or 'stalker watch' to poll on an
interval.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default: config.json)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newCheckCmd(app))
	rootCmd.AddCommand(newWatchCmd(app))
	rootCmd.AddCommand(newLogCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("stalker v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate the tracker configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show alert log path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"log_file": app.AlertLog.Path()})
			} else {
				output.Println(app.AlertLog.Path())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Settings")
	output.Printf("  Check interval:  %d min\n", cfg.Settings.CheckIntervalMinutes)
	output.Printf("  Sound alert:     %v\n", cfg.Settings.PlaySoundAlert)
	output.Println()

	output.Bold("Crypto mapping")
	output.Printf("  %d symbols\n", len(cfg.CryptoMapping))
	output.Println()

	output.Bold("Assets")
	table := NewTable(output, "Symbol", "Name", "Type", "Alert Price")
	for _, asset := range cfg.Assets {
		table.AddRow(asset.Symbol, asset.Name, string(asset.Type), asset.AlertPrice.StringFixed(2))
	}
	table.Render()

	return nil
}
