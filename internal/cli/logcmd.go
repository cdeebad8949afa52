package cli

import (
	"github.com/spf13/cobra"

	apperrors "price-stalker/internal/errors"
	"price-stalker/internal/models"
)

func newLogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "log",
		Aliases: []string{"history"},
		Short:   "Show the persisted alert history",
		Example: `  stalker log
  stalker log --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			records, err := app.AlertLog.Load()
			if err != nil {
				if apperrors.Is(err, apperrors.ErrLogCorrupted) {
					output.Error("Alert log is corrupted: %v", err)
					return err
				}
				return err
			}

			if output.IsJSON() {
				if records == nil {
					records = []models.AlertRecord{}
				}
				return output.JSON(records)
			}

			if len(records) == 0 {
				output.Dim("No alerts recorded yet")
				return nil
			}

			output.Bold("Alert history (%d)", len(records))
			output.Println()

			table := NewTable(output, "Symbol", "Name", "Price", "Alert", "Date")
			for _, r := range records {
				table.AddRow(
					r.Symbol,
					r.Name,
					FormatMoney(r.CurrentPrice, r.Currency),
					FormatMoney(r.AlertPrice, r.Currency),
					r.Day(),
				)
			}
			table.Render()
			return nil
		},
	}
}
