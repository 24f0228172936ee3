package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Pressure Monitor Configuration
# Secrets (API key, coordinates, webhook URL, bot token) come from the
# environment or a .env file, not from this file.

[monitor]
# Pressure drop threshold for alerting, in mmHg (strict greater-than)
threshold_mmhg = 8.0
# Forecast lookahead window, in hours
lookahead_hours = 24
# hPa to mmHg conversion ratio (760 / 1013.25)
hpa_to_mmhg_ratio = 0.7500616827041698

[api]
# OpenWeatherMap 5-day/3-hour forecast endpoint
url = "https://api.openweathermap.org/data/2.5/forecast"
units = "metric"
timeout = "30s"
# Fixed-count retry: attempts and fixed delay between them
max_retries = 10
retry_delay = "60s"

[notifications.webhook]
enabled = true
# Overridden by IFTTT_WEBHOOK_URL
url = ""
timeout = "30s"

[notifications.telegram]
enabled = false
# Overridden by TELEGRAM_BOT_TOKEN / TELEGRAM_CHAT_ID
bot_token = ""
chat_id = ""
parse_mode = "HTML"
disable_web_page_preview = true
timeout = "30s"

[journal]
# Record run outcomes to a local SQLite journal
enabled = true
# Defaults to <config dir>/journal.db
path = ""

[logging]
level = "info"
console = true
file = true
# Defaults to <config dir>/logs/pressure-monitor.log
file_path = ""
max_size_mb = 10
max_backups = 7
max_age_days = 30
`

// createTemplateConfig writes the default config.toml to the config directory.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
