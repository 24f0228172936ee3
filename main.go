package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/SergeiHanus/pressure-monitor/internal/cli"
	"github.com/SergeiHanus/pressure-monitor/internal/config"
	"github.com/SergeiHanus/pressure-monitor/internal/logging"
)

func main() {
	// Secrets may live in a .env file next to the binary or the cron job
	_ = godotenv.Load()

	configDir := configDirFromArgs(os.Args[1:])

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pressure-monitor: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLoggerWithConfig(logging.LogConfig{
		Level:      cfg.Logging.Level,
		Console:    cfg.Logging.Console,
		File:       cfg.Logging.File,
		FilePath:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAgeDays,
	})

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// configDirFromArgs extracts the --config flag before cobra parses it,
// because configuration must be loaded ahead of command construction.
func configDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if len(arg) > len("--config=") && arg[:len("--config=")] == "--config=" {
			return arg[len("--config="):]
		}
	}
	return ""
}
