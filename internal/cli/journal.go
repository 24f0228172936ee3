package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newJournalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "List recent monitoring runs",
		Long:  "Show the outcomes of recent runs recorded in the local journal.",
		Example: `  pressure-monitor journal
  pressure-monitor journal --limit 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := context.Background()

			if app.Journal == nil {
				output.Warning("Run journal is disabled or unavailable")
				return nil
			}

			limit, _ := cmd.Flags().GetInt("limit")
			runs, err := app.Journal.Recent(ctx, limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(runs)
			}

			if len(runs) == 0 {
				output.Dim("No runs recorded yet")
				return nil
			}

			table := NewTable(output, "Started", "Status", "Drop (mmHg)", "Alert", "Channels")
			for _, run := range runs {
				channels := "-"
				if len(run.Channels) > 0 {
					sent := 0
					for _, ch := range run.Channels {
						if ch.Sent {
							sent++
						}
					}
					channels = fmt.Sprintf("%d/%d delivered", sent, len(run.Channels))
				}
				table.AddRow(
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					string(run.Status),
					fmt.Sprintf("%.2f", run.DropMmHg),
					fmt.Sprintf("%v", run.Alert),
					channels,
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "maximum number of runs to show")
	return cmd
}
