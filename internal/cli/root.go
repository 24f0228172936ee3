package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/SergeiHanus/pressure-monitor/internal/config"
	"github.com/SergeiHanus/pressure-monitor/internal/journal"
	"github.com/SergeiHanus/pressure-monitor/internal/logging"
)

// Version information
const (
	Version = "1.0.0"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Journal journal.Journal
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to open run journal, continuing without it")
		} else {
			app.Journal = j
		}
	}

	rootCmd := &cobra.Command{
		Use:   "pressure-monitor",
		Short: "Atmospheric pressure drop monitor",
		Long: `Pressure Monitor polls the OpenWeatherMap forecast API and sends
notifications when the forecasted atmospheric pressure is expected to drop
by more than the configured threshold within the next 24 hours.

Designed to be invoked by a cron-style scheduler; each invocation performs
one check and exits.`,
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

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/pressure-monitor)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newCheckCmd(app))
	rootCmd.AddCommand(newTestCmd(app))
	rootCmd.AddCommand(newJournalCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newVersionCmd())

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
				output.Printf("pressure-monitor v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
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
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Monitor")
	output.Printf("  Threshold:       %.1f mmHg\n", cfg.Monitor.ThresholdMmHg)
	output.Printf("  Lookahead:       %dh\n", cfg.Monitor.LookaheadHours)
	output.Printf("  Coordinates:     %.4f, %.4f\n", cfg.Credentials.Lat, cfg.Credentials.Lon)
	output.Println()

	output.Bold("API")
	output.Printf("  Endpoint:        %s\n", cfg.API.URL)
	output.Printf("  Max Retries:     %d\n", cfg.API.MaxRetries)
	output.Printf("  Retry Delay:     %s\n", cfg.API.RetryDelay)
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Webhook:         %v\n", cfg.Notifications.Webhook.Enabled)
	output.Printf("  Telegram:        %v\n", cfg.Notifications.Telegram.Enabled)
	output.Println()

	output.Bold("Journal")
	output.Printf("  Enabled:         %v\n", cfg.Journal.Enabled)
	output.Printf("  Path:            %s\n", cfg.Journal.Path)
}
