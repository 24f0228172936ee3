package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/SergeiHanus/pressure-monitor/internal/analysis"
	"github.com/SergeiHanus/pressure-monitor/internal/forecast"
	"github.com/SergeiHanus/pressure-monitor/internal/models"
	"github.com/SergeiHanus/pressure-monitor/internal/monitor"
	"github.com/SergeiHanus/pressure-monitor/internal/notify"
)

func newCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one pressure monitoring check",
		Long: `Fetch the forecast, analyze the pressure trend for the next 24 hours,
and send notifications if the forecasted drop exceeds the threshold.

Exits 0 whether or not an alert fired; exits non-zero on an unrecoverable
fetch or analysis failure.`,
		Example: `  pressure-monitor check
  pressure-monitor check --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := context.Background()

			fetcher := forecast.NewClient(app.Config, app.Logger)
			analyzer := analysis.New(app.Config, app.Logger)
			dispatcher := notify.NewDispatcher(&app.Config.Notifications, app.Logger)

			runner := monitor.NewRunner(fetcher, analyzer, dispatcher, app.Journal, app.Logger)
			run, err := runner.Run(ctx)
			if err != nil {
				output.Error("Check failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(run)
			}

			printRunSummary(output, run)
			return nil
		},
	}
}

func printRunSummary(output *Output, run *models.RunRecord) {
	output.Printf("Current pressure: %.2f mmHg\n", run.CurrentPressureMmHg)
	output.Printf("Minimum forecast: %.2f mmHg\n", run.MinPressureMmHg)
	output.Printf("Expected drop:    %.2f mmHg\n", run.DropMmHg)

	if !run.Alert {
		output.Success("No alert: pressure drop below threshold")
		return
	}

	output.Warning("Pressure alert triggered")
	for _, ch := range run.Channels {
		if ch.Sent {
			output.Success("  %s: delivered", ch.Channel)
		} else {
			output.Error("  %s: %s", ch.Channel, ch.Error)
		}
	}
	if len(run.Channels) == 0 {
		output.Warning("  no notification channels enabled")
	}
}
