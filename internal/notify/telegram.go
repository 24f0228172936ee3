package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SergeiHanus/pressure-monitor/internal/config"
	"github.com/SergeiHanus/pressure-monitor/internal/models"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramChannel sends alerts through the Telegram bot API.
type TelegramChannel struct {
	apiBase               string
	botToken              string
	chatID                string
	parseMode             string
	disableWebPagePreview bool
	enabled               bool
	client                *http.Client
}

var _ Channel = (*TelegramChannel)(nil)

// NewTelegramChannel creates a new TelegramChannel.
func NewTelegramChannel(cfg config.TelegramConfig) *TelegramChannel {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	parseMode := cfg.ParseMode
	if parseMode == "" {
		parseMode = "HTML"
	}
	return &TelegramChannel{
		apiBase:               telegramAPIBase,
		botToken:              cfg.BotToken,
		chatID:                cfg.ChatID,
		parseMode:             parseMode,
		disableWebPagePreview: cfg.DisableWebPagePreview,
		enabled:               cfg.Enabled && cfg.BotToken != "" && cfg.ChatID != "",
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetAPIBase overrides the Telegram API base URL. Used by tests.
func (t *TelegramChannel) SetAPIBase(base string) {
	t.apiBase = base
}

// Name returns the name of the channel.
func (t *TelegramChannel) Name() string {
	return "telegram"
}

// IsEnabled returns whether the channel is enabled.
func (t *TelegramChannel) IsEnabled() bool {
	return t.enabled
}

// FormatText renders the alert as a Telegram message body.
func (t *TelegramChannel) FormatText(alert models.AlertMessage) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚠️ <b>%s</b>\n\n", alertTitle(alert)))
	sb.WriteString(fmt.Sprintf("Current: %.1f mmHg\n", alert.CurrentPressureMmHg))
	sb.WriteString(fmt.Sprintf("Minimum: %.1f mmHg\n", alert.MinPressureMmHg))
	sb.WriteString(expectedAt(alert))
	sb.WriteString(fmt.Sprintf("\n\n<i>Alert threshold: %.1f mmHg</i>", alert.ThresholdMmHg))
	return sb.String()
}

// telegramPayload is the sendMessage request body.
type telegramPayload struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// Send posts the alert to the Telegram sendMessage endpoint.
func (t *TelegramChannel) Send(ctx context.Context, alert models.AlertMessage) error {
	if !t.enabled {
		return nil
	}

	payload := telegramPayload{
		ChatID:                t.chatID,
		Text:                  t.FormatText(alert),
		ParseMode:             t.parseMode,
		DisableWebPagePreview: t.disableWebPagePreview,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating telegram request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}
