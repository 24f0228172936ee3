// Package analysis evaluates forecast sequences for pressure drops.
package analysis

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/SergeiHanus/pressure-monitor/internal/config"
	apperrors "github.com/SergeiHanus/pressure-monitor/internal/errors"
	"github.com/SergeiHanus/pressure-monitor/internal/logging"
	"github.com/SergeiHanus/pressure-monitor/internal/models"
)

// DefaultRatio is the hPa to mmHg conversion ratio.
const DefaultRatio = 760.0 / 1013.25

// Analyzer decides whether a forecast sequence contains a pressure drop
// exceeding the alert threshold within the lookahead window.
//
// Current pressure is taken from the first forecast point. The lookahead
// window covers points up to and including first.Timestamp + lookahead.
type Analyzer struct {
	ratio     float64
	threshold float64
	lookahead time.Duration
	logger    zerolog.Logger
}

// New creates an analyzer from the application configuration.
func New(cfg *config.Config, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		ratio:     cfg.Monitor.HPaToMmHgRatio,
		threshold: cfg.Monitor.ThresholdMmHg,
		lookahead: time.Duration(cfg.Monitor.LookaheadHours) * time.Hour,
		logger:    logging.WithStage(logger, "analysis"),
	}
}

// NewWithOptions creates an analyzer with explicit parameters.
func NewWithOptions(ratio, thresholdMmHg float64, lookahead time.Duration, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		ratio:     ratio,
		threshold: thresholdMmHg,
		lookahead: lookahead,
		logger:    logger,
	}
}

// HPaToMmHg converts hectopascals to millimeters of mercury.
func (a *Analyzer) HPaToMmHg(hPa float64) float64 {
	return hPa * a.ratio
}

// MmHgToHPa converts millimeters of mercury back to hectopascals.
func (a *Analyzer) MmHgToHPa(mmHg float64) float64 {
	return mmHg / a.ratio
}

// Analyze produces the analysis result for an ordered forecast sequence.
// It fails with an InsufficientDataError when the sequence holds no points
// beyond the current one inside the lookahead window.
func (a *Analyzer) Analyze(points []models.ForecastPoint) (*models.AnalysisResult, error) {
	if len(points) == 0 {
		return nil, apperrors.NewInsufficientDataError(0, "forecast sequence is empty")
	}

	current := points[0]
	currentMmHg := a.HPaToMmHg(current.PressureHPa)
	windowEnd := current.Timestamp.Add(a.lookahead)

	minPoint := current
	windowPoints := 0
	for _, p := range points[1:] {
		if p.Timestamp.After(windowEnd) {
			break
		}
		windowPoints++
		// Strict less-than keeps the earliest point on ties
		if p.PressureHPa < minPoint.PressureHPa {
			minPoint = p
		}
		a.logger.Debug().
			Time("forecast_time", p.Timestamp).
			Float64("pressure_mmhg", a.HPaToMmHg(p.PressureHPa)).
			Msg("Forecast point")
	}

	if windowPoints == 0 {
		return nil, apperrors.NewInsufficientDataError(len(points),
			"no forecast points inside the lookahead window")
	}

	minMmHg := a.HPaToMmHg(minPoint.PressureHPa)
	drop := currentMmHg - minMmHg

	result := &models.AnalysisResult{
		CurrentPressureMmHg: currentMmHg,
		MinPressureMmHg:     minMmHg,
		MinPressureTime:     minPoint.Timestamp,
		DropMmHg:            drop,
		ThresholdMmHg:       a.threshold,
		Alert:               drop > a.threshold,
	}

	logging.LogAnalysis(a.logger, result.CurrentPressureMmHg, result.MinPressureMmHg,
		result.DropMmHg, result.ThresholdMmHg, result.Alert)

	return result, nil
}
