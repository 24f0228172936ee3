package analysis

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"

	"github.com/SergeiHanus/pressure-monitor/internal/models"
)

// pressureSliceGen generates forecast pressure sequences in a realistic hPa
// range at 3-hour steps.
func pressureSliceGen(minLen, maxLen int) gopter.Gen {
	return gen.SliceOfN(maxLen, gen.Float64Range(950.0, 1050.0)).Map(func(pressures []float64) []models.ForecastPoint {
		if len(pressures) < minLen {
			for len(pressures) < minLen {
				pressures = append(pressures, 1000.0)
			}
		}
		start := time.Date(2025, 1, 15, 6, 0, 0, 0, time.UTC)
		pts := make([]models.ForecastPoint, len(pressures))
		for i, p := range pressures {
			pts[i] = models.ForecastPoint{
				Timestamp:   start.Add(time.Duration(i) * 3 * time.Hour),
				PressureHPa: p,
			}
		}
		return pts
	})
}

func TestProperty_DropNeverNegative(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	analyzer := NewWithOptions(DefaultRatio, 8.0, 24*time.Hour, zerolog.Nop())

	properties.Property("pressure drop is never negative", prop.ForAll(
		func(pts []models.ForecastPoint) bool {
			result, err := analyzer.Analyze(pts)
			if err != nil {
				return false
			}
			return result.DropMmHg >= 0
		},
		pressureSliceGen(2, 12),
	))

	properties.TestingRun(t)
}

func TestProperty_AlertIffDropExceedsThreshold(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	analyzer := NewWithOptions(DefaultRatio, 8.0, 24*time.Hour, zerolog.Nop())

	properties.Property("alert is true exactly when drop exceeds threshold", prop.ForAll(
		func(pts []models.ForecastPoint) bool {
			result, err := analyzer.Analyze(pts)
			if err != nil {
				return false
			}
			return result.Alert == (result.DropMmHg > result.ThresholdMmHg)
		},
		pressureSliceGen(2, 12),
	))

	properties.TestingRun(t)
}

func TestProperty_MinNeverAboveCurrent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	analyzer := NewWithOptions(DefaultRatio, 8.0, 24*time.Hour, zerolog.Nop())

	properties.Property("minimum pressure never exceeds current pressure", prop.ForAll(
		func(pts []models.ForecastPoint) bool {
			result, err := analyzer.Analyze(pts)
			if err != nil {
				return false
			}
			return result.MinPressureMmHg <= result.CurrentPressureMmHg
		},
		pressureSliceGen(2, 12),
	))

	properties.TestingRun(t)
}

func TestProperty_ConversionRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	analyzer := NewWithOptions(DefaultRatio, 8.0, 24*time.Hour, zerolog.Nop())

	properties.Property("hPa -> mmHg -> hPa returns the original value", prop.ForAll(
		func(hPa float64) bool {
			back := analyzer.MmHgToHPa(analyzer.HPaToMmHg(hPa))
			diff := back - hPa
			if diff < 0 {
				diff = -diff
			}
			return diff < 1e-6
		},
		gen.Float64Range(800.0, 1100.0),
	))

	properties.TestingRun(t)
}
