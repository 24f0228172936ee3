// Package logging provides structured logging functionality.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "pressure-monitor", "logs", "pressure-monitor.log"),
		MaxSize:    10,
		MaxBackups: 7,
		MaxAge:     30,
	}
}

// NewLogger creates a new logger with default configuration.
func NewLogger() zerolog.Logger {
	return NewLoggerWithConfig(DefaultLogConfig())
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	// File writer with rotation
	if cfg.File {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			})
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = os.Stderr
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	return zerolog.New(writer).
		With().
		Timestamp().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetDebugLevel sets the global log level to debug.
func SetDebugLevel() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

// WithChannel adds a notification channel name to the logger context.
func WithChannel(logger zerolog.Logger, channel string) zerolog.Logger {
	return logger.With().Str("channel", channel).Logger()
}

// WithStage adds a run stage name to the logger context.
func WithStage(logger zerolog.Logger, stage string) zerolog.Logger {
	return logger.With().Str("stage", stage).Logger()
}

// LogFetchAttempt logs one forecast fetch attempt.
func LogFetchAttempt(logger zerolog.Logger, attempt, maxAttempts int, err error) {
	event := logger.Info()
	msg := "Forecast fetched"
	if err != nil {
		event = logger.Error().Err(err)
		msg = "Forecast fetch attempt failed"
	}
	event.
		Str("event", "fetch_attempt").
		Int("attempt", attempt).
		Int("max_attempts", maxAttempts).
		Msg(msg)
}

// LogAnalysis logs the pressure analysis numbers.
func LogAnalysis(logger zerolog.Logger, currentMmHg, minMmHg, dropMmHg, threshold float64, alert bool) {
	logger.Info().
		Str("event", "analysis").
		Float64("current_mmhg", currentMmHg).
		Float64("min_mmhg", minMmHg).
		Float64("drop_mmhg", dropMmHg).
		Float64("threshold_mmhg", threshold).
		Bool("alert", alert).
		Msg("Pressure analysis complete")
}

// LogDispatch logs a per-channel delivery outcome.
func LogDispatch(logger zerolog.Logger, channel string, err error) {
	if err != nil {
		logger.Error().
			Str("event", "dispatch").
			Str("channel", channel).
			Err(err).
			Msg("Notification delivery failed")
		return
	}
	logger.Info().
		Str("event", "dispatch").
		Str("channel", channel).
		Msg("Notification delivered")
}
