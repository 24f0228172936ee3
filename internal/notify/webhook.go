package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SergeiHanus/pressure-monitor/internal/config"
	"github.com/SergeiHanus/pressure-monitor/internal/models"
)

// WebhookChannel sends alerts to an IFTTT-style webhook endpoint.
// The payload carries three string fields the way IFTTT ingredients do.
type WebhookChannel struct {
	url     string
	enabled bool
	client  *http.Client
}

var _ Channel = (*WebhookChannel)(nil)

// NewWebhookChannel creates a new WebhookChannel.
func NewWebhookChannel(cfg config.WebhookConfig) *WebhookChannel {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WebhookChannel{
		url:     cfg.URL,
		enabled: cfg.Enabled && cfg.URL != "",
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the name of the channel.
func (w *WebhookChannel) Name() string {
	return "webhook"
}

// IsEnabled returns whether the channel is enabled.
func (w *WebhookChannel) IsEnabled() bool {
	return w.enabled
}

// webhookPayload is the IFTTT webhook ingredient format.
type webhookPayload struct {
	Value1 string `json:"value1"`
	Value2 string `json:"value2"`
	Value3 string `json:"value3"`
}

// Send posts the alert to the webhook endpoint.
func (w *WebhookChannel) Send(ctx context.Context, alert models.AlertMessage) error {
	if !w.enabled {
		return nil
	}

	payload := webhookPayload{
		Value1: alertTitle(alert),
		Value2: pressurePair(alert),
		Value3: expectedAt(alert),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "PressureMonitor/1.0")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
