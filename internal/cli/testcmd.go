package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/SergeiHanus/pressure-monitor/internal/models"
	"github.com/SergeiHanus/pressure-monitor/internal/notify"
)

func newTestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send a test alert through enabled channels",
		Long: `Send a synthetic pressure alert through every enabled notification
channel to verify endpoint and credential configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := context.Background()

			dispatcher := notify.NewDispatcher(&app.Config.Notifications, app.Logger)
			if len(dispatcher.Channels()) == 0 {
				output.Warning("No notification channels enabled")
				return nil
			}

			alert := models.AlertMessage{
				DropMmHg:            10.0,
				CurrentPressureMmHg: 760.0,
				MinPressureMmHg:     750.0,
				MinPressureTime:     time.Now().Add(12 * time.Hour),
				ThresholdMmHg:       app.Config.Monitor.ThresholdMmHg,
			}

			results := dispatcher.Dispatch(ctx, alert)
			if output.IsJSON() {
				return output.JSON(results)
			}

			for _, r := range results {
				if r.Sent {
					output.Success("%s: test alert delivered", r.Channel)
				} else {
					output.Error("%s: %s", r.Channel, r.Error)
				}
			}
			return nil
		},
	}
}
