package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/SergeiHanus/pressure-monitor/internal/config"
	"github.com/SergeiHanus/pressure-monitor/internal/models"
)

func testAlert() models.AlertMessage {
	return models.AlertMessage{
		DropMmHg:            10.0,
		CurrentPressureMmHg: 760.0,
		MinPressureMmHg:     750.0,
		MinPressureTime:     time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC),
		ThresholdMmHg:       8.0,
	}
}

func TestWebhookPayload(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
	}))
	defer server.Close()

	ch := NewWebhookChannel(config.WebhookConfig{
		Enabled: true,
		URL:     server.URL,
		Timeout: 5 * time.Second,
	})

	if err := ch.Send(context.Background(), testAlert()); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if got["value1"] != "Pressure Alert: 10.0 mmHg drop expected" {
		t.Errorf("value1 = %q", got["value1"])
	}
	if got["value2"] != "Current: 760.0 mmHg, Min: 750.0 mmHg" {
		t.Errorf("value2 = %q", got["value2"])
	}
	if got["value3"] != "Expected at: 2025-01-15 18:00" {
		t.Errorf("value3 = %q", got["value3"])
	}
}

func TestWebhookNon2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ch := NewWebhookChannel(config.WebhookConfig{Enabled: true, URL: server.URL})
	if err := ch.Send(context.Background(), testAlert()); err == nil {
		t.Error("expected error for non-2xx response")
	}
}

func TestWebhookDisabledWithoutURL(t *testing.T) {
	ch := NewWebhookChannel(config.WebhookConfig{Enabled: true, URL: ""})
	if ch.IsEnabled() {
		t.Error("channel without URL must not be enabled")
	}
}

func TestTelegramPayload(t *testing.T) {
	var gotPath string
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
	}))
	defer server.Close()

	ch := NewTelegramChannel(config.TelegramConfig{
		Enabled:               true,
		BotToken:              "test-token",
		ChatID:                "123456789",
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
		Timeout:               5 * time.Second,
	})
	ch.SetAPIBase(server.URL)

	if err := ch.Send(context.Background(), testAlert()); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if gotPath != "/bottest-token/sendMessage" {
		t.Errorf("path = %s, want /bottest-token/sendMessage", gotPath)
	}
	if got["chat_id"] != "123456789" {
		t.Errorf("chat_id = %v", got["chat_id"])
	}
	if got["parse_mode"] != "HTML" {
		t.Errorf("parse_mode = %v", got["parse_mode"])
	}
	if got["disable_web_page_preview"] != true {
		t.Errorf("disable_web_page_preview = %v", got["disable_web_page_preview"])
	}
}

func TestTelegramFormatText(t *testing.T) {
	ch := NewTelegramChannel(config.TelegramConfig{
		Enabled:  true,
		BotToken: "t",
		ChatID:   "c",
	})

	text := ch.FormatText(testAlert())

	for _, want := range []string{
		"⚠️", "Pressure Alert", "10.0 mmHg",
		"760.0 mmHg", "750.0 mmHg",
		"2025-01-15 18:00", "8.0 mmHg",
		"<b>", "</b>", "<i>", "</i>",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("message text missing %q:\n%s", want, text)
		}
	}
}

func TestTelegramDisabledWithoutCredentials(t *testing.T) {
	ch := NewTelegramChannel(config.TelegramConfig{Enabled: true, BotToken: "", ChatID: "c"})
	if ch.IsEnabled() {
		t.Error("channel without bot token must not be enabled")
	}
}

// recordingChannel counts send attempts and optionally fails.
type recordingChannel struct {
	name    string
	enabled bool
	fail    bool
	sends   int
}

func (c *recordingChannel) Name() string    { return c.name }
func (c *recordingChannel) IsEnabled() bool { return c.enabled }
func (c *recordingChannel) Send(ctx context.Context, alert models.AlertMessage) error {
	c.sends++
	if c.fail {
		return context.DeadlineExceeded
	}
	return nil
}

func TestDispatchContinuesAfterChannelFailure(t *testing.T) {
	failing := &recordingChannel{name: "webhook", enabled: true, fail: true}
	healthy := &recordingChannel{name: "telegram", enabled: true}

	d := NewDispatcherWithChannels(zerolog.Nop(), failing, healthy)
	results := d.Dispatch(context.Background(), testAlert())

	if failing.sends != 1 || healthy.sends != 1 {
		t.Errorf("sends = %d/%d, want both channels attempted", failing.sends, healthy.sends)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Sent {
		t.Error("failing channel reported as sent")
	}
	if results[0].Error == "" {
		t.Error("failing channel result missing error")
	}
	if !results[1].Sent {
		t.Error("healthy channel not reported as sent")
	}
}

func TestDispatchSkipsDisabledChannels(t *testing.T) {
	disabled := &recordingChannel{name: "webhook", enabled: false}
	enabled := &recordingChannel{name: "telegram", enabled: true}

	d := NewDispatcherWithChannels(zerolog.Nop(), disabled, enabled)
	results := d.Dispatch(context.Background(), testAlert())

	if disabled.sends != 0 {
		t.Error("disabled channel was attempted")
	}
	if len(results) != 1 {
		t.Errorf("len(results) = %d, want 1", len(results))
	}
}

func TestDispatchNoChannelsEnabled(t *testing.T) {
	d := NewDispatcherWithChannels(zerolog.Nop())
	results := d.Dispatch(context.Background(), testAlert())

	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestNewDispatcherResolvesChannels(t *testing.T) {
	cfg := &config.NotificationConfig{
		Webhook:  config.WebhookConfig{Enabled: true, URL: "https://example.com/hook"},
		Telegram: config.TelegramConfig{Enabled: false},
	}

	d := NewDispatcher(cfg, zerolog.Nop())
	if len(d.Channels()) != 1 {
		t.Fatalf("channels = %d, want 1", len(d.Channels()))
	}
	if d.Channels()[0].Name() != "webhook" {
		t.Errorf("channel = %s, want webhook", d.Channels()[0].Name())
	}
}
