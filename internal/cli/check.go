package cli

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"price-stalker/internal/alert"
	"price-stalker/internal/models"
	"price-stalker/internal/monitor"
)

var hundred = decimal.NewFromInt(100)

func newCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one price check over all assets",
		Long: `Run a single poll cycle: fetch every asset's price, evaluate alerts,
persist triggers to the alert log, and print a per-asset summary. Then
prompt whether to keep polling on the configured interval.`,
		Example: `  stalker check
  stalker check --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			m := newMonitor(app, newReporter(output))

			triggers, err := m.RunOnce(cmd.Context())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				if triggers == nil {
					triggers = []models.AlertRecord{}
				}
				return output.JSON(triggers)
			}

			output.Println()
			if len(triggers) > 0 {
				output.Bold("%d alert(s) triggered!", len(triggers))
			} else {
				output.Success("No alerts triggered")
			}

			if !promptYes(cmd, output, "Start continuous monitoring? (y/n): ") {
				output.Dim("Single check complete")
				return nil
			}
			return runContinuous(output, m)
		},
	}
}

func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll continuously on the configured interval",
		Long: `Poll all assets, sleep check_interval_minutes, and repeat until
interrupted. Ctrl-C stops the loop cleanly between cycles.`,
		Example: `  stalker watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			m := newMonitor(app, newReporter(output))
			return runContinuous(output, m)
		},
	}
}

func newMonitor(app *App, reporter monitor.Reporter) *monitor.Monitor {
	return monitor.New(monitor.Config{
		Assets:   app.Config.Assets,
		Sources:  app.Sources(),
		Log:      app.AlertLog,
		Sounder:  app.Sounder,
		Reporter: reporter,
		Interval: time.Duration(app.Config.Settings.CheckIntervalMinutes) * time.Minute,
		Sound:    app.Config.Settings.PlaySoundAlert,
		Logger:   app.Logger,
	})
}

func runContinuous(output *Output, m *monitor.Monitor) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	output.Info("Continuous monitoring started. Press Ctrl+C to stop.")

	err := m.Run(ctx)
	if err == nil || ctx.Err() != nil {
		output.Println()
		output.Warning("Monitoring stopped")
		return nil
	}
	return err
}

// promptYes reads a y/n answer from the command's stdin.
func promptYes(cmd *cobra.Command, output *Output, question string) bool {
	output.Println()
	output.Printf("%s", question)

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "s", "sim":
		return true
	}
	return false
}

// consoleReporter renders poll outcomes in the original tool's style.
type consoleReporter struct {
	out *Output
}

func newReporter(out *Output) monitor.Reporter {
	if out.IsJSON() {
		return silentReporter{}
	}
	return &consoleReporter{out: out}
}

func (r *consoleReporter) AssetChecking(asset models.Asset) {
	r.out.Println()
	r.out.Printf("Checking %s (%s)...\n", asset.Symbol, asset.Name)
}

func (r *consoleReporter) AssetUnavailable(asset models.Asset) {
	r.out.Warning("  could not fetch price for %s", asset.Symbol)
}

func (r *consoleReporter) AssetStatus(asset models.Asset, quote models.Quote, eval alert.Evaluation) {
	if eval.Triggered {
		r.out.Success("  ALERT REACHED!")
	} else {
		r.out.Printf("  waiting...\n")
	}

	r.out.Printf("  Current: %s\n", FormatMoney(quote.Amount, quote.Currency))
	r.out.Printf("  Alert:   %s\n", FormatMoney(asset.AlertPrice, quote.Currency))

	if eval.Triggered {
		r.out.Success("  above target by %s", FormatMoney(eval.Above, quote.Currency))
	} else {
		r.out.Printf("  %s to go (%s)\n",
			FormatMoney(eval.Remaining, quote.Currency),
			eval.RemainingPct.StringFixed(1)+"%")
	}

	if asset.BuyPrice.IsPositive() {
		variation := quote.Amount.Sub(asset.BuyPrice).Div(asset.BuyPrice).Mul(hundred)
		sign := ""
		if variation.IsPositive() {
			sign = "+"
		}
		r.out.Printf("  since purchase: %s\n",
			r.out.ColoredString(r.out.VariationColor(variation), sign+variation.StringFixed(2)+"%"))
	}
}

func (r *consoleReporter) SoundFallback(asset models.Asset) {
	r.out.Warning("  ALERT! (sound unavailable)")
}

func (r *consoleReporter) CycleSummary(checked, total, written int) {
	r.out.Println()
	r.out.Printf("Checked %d/%d assets\n", checked, total)
	if written > 0 {
		r.out.Dim("%d new alert(s) saved to log", written)
	}
}

func (r *consoleReporter) NextCheck(at time.Time) {
	r.out.Dim("Next check at %s", at.Format("15:04"))
}

// silentReporter suppresses per-asset output for JSON mode.
type silentReporter struct{}

func (silentReporter) AssetChecking(models.Asset)                               {}
func (silentReporter) AssetUnavailable(models.Asset)                            {}
func (silentReporter) AssetStatus(models.Asset, models.Quote, alert.Evaluation) {}
func (silentReporter) SoundFallback(models.Asset)                               {}
func (silentReporter) CycleSummary(int, int, int)                               {}
func (silentReporter) NextCheck(time.Time)                                      {}
