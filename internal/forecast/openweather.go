// Package forecast fetches pressure forecasts from the OpenWeatherMap API.
package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/SergeiHanus/pressure-monitor/internal/config"
	apperrors "github.com/SergeiHanus/pressure-monitor/internal/errors"
	"github.com/SergeiHanus/pressure-monitor/internal/logging"
	"github.com/SergeiHanus/pressure-monitor/internal/models"
	"github.com/SergeiHanus/pressure-monitor/pkg/utils"
)

// Fetcher returns an ordered forecast point sequence for a coordinate pair.
type Fetcher interface {
	Fetch(ctx context.Context) (points []models.ForecastPoint, attempts int, err error)
}

// Client fetches the 5-day/3-hour forecast from OpenWeatherMap with
// fixed-delay retry on any network error, non-2xx status, or malformed body.
type Client struct {
	baseURL string
	apiKey  string
	lat     float64
	lon     float64
	units   string
	retry   utils.RetryConfig
	client  *http.Client
	logger  zerolog.Logger
}

var _ Fetcher = (*Client)(nil)

// NewClient creates a forecast client from the application configuration.
func NewClient(cfg *config.Config, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.API.URL,
		apiKey:  cfg.Credentials.APIKey,
		lat:     cfg.Credentials.Lat,
		lon:     cfg.Credentials.Lon,
		units:   cfg.API.Units,
		retry: utils.RetryConfig{
			MaxAttempts: cfg.API.MaxRetries,
			Delay:       cfg.API.RetryDelay,
		},
		client: &http.Client{
			Timeout: cfg.API.Timeout,
		},
		logger: logging.WithStage(logger, "fetch"),
	}
}

// SetSleep replaces the retry sleep function. Used by tests.
func (c *Client) SetSleep(sleep func(time.Duration)) {
	c.retry.Sleep = sleep
}

// forecastResponse is the subset of the OpenWeatherMap forecast response we
// consume. The list holds 3-hour steps spanning 5 days.
type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Pressure float64 `json:"pressure"`
		} `json:"main"`
	} `json:"list"`
}

// Fetch retrieves the forecast, retrying up to the configured attempt count
// with a fixed delay between attempts. On exhaustion it returns a FetchError
// carrying the last underlying cause.
func (c *Client) Fetch(ctx context.Context) ([]models.ForecastPoint, int, error) {
	attempts := 0

	points, err := utils.RetryWithResult(ctx, c.retry, func(attempt int) ([]models.ForecastPoint, error) {
		attempts = attempt
		pts, err := c.fetchOnce(ctx)
		logging.LogFetchAttempt(c.logger, attempt, c.retry.MaxAttempts, err)
		if err != nil && attempt < c.retry.MaxAttempts {
			c.logger.Info().
				Dur("retry_delay", c.retry.Delay).
				Msg("Retrying forecast fetch")
		}
		return pts, err
	})
	if err != nil {
		return nil, attempts, apperrors.NewFetchError(c.baseURL, attempts, err)
	}

	return points, attempts, nil
}

func (c *Client) fetchOnce(ctx context.Context) ([]models.ForecastPoint, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(c.lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(c.lon, 'f', -1, 64))
	params.Set("appid", c.apiKey)
	params.Set("units", c.units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating forecast request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("forecast API returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing forecast response: %w", err)
	}

	if len(parsed.List) == 0 {
		return nil, apperrors.ErrEmptyForecast
	}

	points := make([]models.ForecastPoint, 0, len(parsed.List))
	for _, item := range parsed.List {
		points = append(points, models.ForecastPoint{
			Timestamp:   time.Unix(item.Dt, 0),
			PressureHPa: item.Main.Pressure,
		})
	}

	return points, nil
}
