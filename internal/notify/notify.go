// Package notify delivers pressure alerts through configured channels.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/SergeiHanus/pressure-monitor/internal/config"
	apperrors "github.com/SergeiHanus/pressure-monitor/internal/errors"
	"github.com/SergeiHanus/pressure-monitor/internal/logging"
	"github.com/SergeiHanus/pressure-monitor/internal/models"
)

// Channel defines the interface for a notification channel.
type Channel interface {
	Name() string
	IsEnabled() bool
	Send(ctx context.Context, alert models.AlertMessage) error
}

// Dispatcher fans an alert out to every enabled channel. Channels are
// attempted sequentially and independently: a failure on one is wrapped in a
// DispatchError, logged, and does not prevent attempting the others.
type Dispatcher struct {
	channels []Channel
	logger   zerolog.Logger
}

// NewDispatcher creates a dispatcher with the channels resolved from configuration.
func NewDispatcher(cfg *config.NotificationConfig, logger zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logging.WithStage(logger, "dispatch"),
	}

	if cfg.Webhook.Enabled {
		d.channels = append(d.channels, NewWebhookChannel(cfg.Webhook))
	}
	if cfg.Telegram.Enabled {
		d.channels = append(d.channels, NewTelegramChannel(cfg.Telegram))
	}

	return d
}

// NewDispatcherWithChannels creates a dispatcher over an explicit channel set.
func NewDispatcherWithChannels(logger zerolog.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		logger:   logger,
	}
}

// Channels returns the configured channels.
func (d *Dispatcher) Channels() []Channel {
	return d.channels
}

// Dispatch sends the alert on every enabled channel and returns the
// per-channel delivery results. Zero enabled channels is a configuration
// issue surfaced as a warning, not an error.
func (d *Dispatcher) Dispatch(ctx context.Context, alert models.AlertMessage) []models.ChannelResult {
	enabled := 0
	results := make([]models.ChannelResult, 0, len(d.channels))

	for _, ch := range d.channels {
		if !ch.IsEnabled() {
			continue
		}
		enabled++

		result := models.ChannelResult{Channel: ch.Name()}
		if err := ch.Send(ctx, alert); err != nil {
			derr := apperrors.NewDispatchError(ch.Name(), err)
			result.Error = derr.Error()
			logging.LogDispatch(d.logger, ch.Name(), derr)
		} else {
			result.Sent = true
			logging.LogDispatch(d.logger, ch.Name(), nil)
		}
		results = append(results, result)
	}

	if enabled == 0 {
		d.logger.Warn().
			Err(apperrors.ErrNoChannelsEnabled).
			Msg("Alert triggered but no notification channel is enabled")
	}

	return results
}

// alertTitle is the headline shared by all channel formats.
func alertTitle(alert models.AlertMessage) string {
	return fmt.Sprintf("Pressure Alert: %.1f mmHg drop expected", alert.DropMmHg)
}

// pressurePair summarizes the current and minimum pressure values.
func pressurePair(alert models.AlertMessage) string {
	return fmt.Sprintf("Current: %.1f mmHg, Min: %.1f mmHg",
		alert.CurrentPressureMmHg, alert.MinPressureMmHg)
}

// expectedAt formats the expected time of the pressure minimum.
func expectedAt(alert models.AlertMessage) string {
	return fmt.Sprintf("Expected at: %s", alert.MinPressureTime.Format("2006-01-02 15:04"))
}
