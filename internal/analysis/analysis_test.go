package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/SergeiHanus/pressure-monitor/internal/errors"
	"github.com/SergeiHanus/pressure-monitor/internal/models"
)

func newTestAnalyzer(ratio, threshold float64) *Analyzer {
	return NewWithOptions(ratio, threshold, 24*time.Hour, zerolog.Nop())
}

// points builds a 3-hour-step forecast sequence from hPa values.
func points(start time.Time, pressures ...float64) []models.ForecastPoint {
	pts := make([]models.ForecastPoint, len(pressures))
	for i, p := range pressures {
		pts[i] = models.ForecastPoint{
			Timestamp:   start.Add(time.Duration(i) * 3 * time.Hour),
			PressureHPa: p,
		}
	}
	return pts
}

func TestAnalyzeAlertScenario(t *testing.T) {
	// current=1013 hPa, min=1000 hPa -> drop ~9.75 mmHg, above the 8.0 threshold
	a := newTestAnalyzer(DefaultRatio, 8.0)
	start := time.Date(2025, 1, 15, 6, 0, 0, 0, time.UTC)

	result, err := a.Analyze(points(start, 1013, 1010, 1005, 1000, 1002))
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if !result.Alert {
		t.Errorf("expected alert, drop = %.2f", result.DropMmHg)
	}
	if math.Abs(result.DropMmHg-9.75) > 0.01 {
		t.Errorf("drop = %.4f, want ~9.75", result.DropMmHg)
	}
	wantTime := start.Add(9 * time.Hour)
	if !result.MinPressureTime.Equal(wantTime) {
		t.Errorf("min time = %v, want %v", result.MinPressureTime, wantTime)
	}
}

func TestAnalyzeNoAlertScenario(t *testing.T) {
	// current=1013 hPa, min=1008 hPa -> drop ~3.75 mmHg, below threshold
	a := newTestAnalyzer(DefaultRatio, 8.0)
	start := time.Date(2025, 1, 15, 6, 0, 0, 0, time.UTC)

	result, err := a.Analyze(points(start, 1013, 1012, 1008, 1010))
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if result.Alert {
		t.Errorf("expected no alert, drop = %.2f", result.DropMmHg)
	}
	if math.Abs(result.DropMmHg-3.75) > 0.01 {
		t.Errorf("drop = %.4f, want ~3.75", result.DropMmHg)
	}
}

func TestAnalyzeBoundaryEqualityDoesNotTrigger(t *testing.T) {
	// Ratio 1.0 makes the drop exact: 1000 - 992 = 8.0 == threshold
	a := newTestAnalyzer(1.0, 8.0)
	start := time.Date(2025, 1, 15, 6, 0, 0, 0, time.UTC)

	result, err := a.Analyze(points(start, 1000, 992))
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if result.DropMmHg != 8.0 {
		t.Fatalf("drop = %v, want exactly 8.0", result.DropMmHg)
	}
	if result.Alert {
		t.Error("boundary equality must not trigger an alert")
	}
}

func TestAnalyzeTieBreakEarliestWins(t *testing.T) {
	a := newTestAnalyzer(1.0, 8.0)
	start := time.Date(2025, 1, 15, 6, 0, 0, 0, time.UTC)

	result, err := a.Analyze(points(start, 1010, 995, 995, 1000))
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	wantTime := start.Add(3 * time.Hour)
	if !result.MinPressureTime.Equal(wantTime) {
		t.Errorf("min time = %v, want earliest minimum %v", result.MinPressureTime, wantTime)
	}
}

func TestAnalyzeWindowBoundaryInclusive(t *testing.T) {
	a := newTestAnalyzer(1.0, 8.0)
	start := time.Date(2025, 1, 15, 6, 0, 0, 0, time.UTC)

	pts := []models.ForecastPoint{
		{Timestamp: start, PressureHPa: 1010},
		{Timestamp: start.Add(24 * time.Hour), PressureHPa: 990},   // exactly at boundary
		{Timestamp: start.Add(24*time.Hour + time.Second), PressureHPa: 900}, // outside
	}

	result, err := a.Analyze(pts)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if result.MinPressureMmHg != 990 {
		t.Errorf("min = %v, want 990 (point past the window must be ignored)", result.MinPressureMmHg)
	}
}

func TestAnalyzeEmptySequence(t *testing.T) {
	a := newTestAnalyzer(DefaultRatio, 8.0)

	_, err := a.Analyze(nil)
	if err == nil {
		t.Fatal("expected error for empty sequence")
	}

	var insufficientErr *apperrors.InsufficientDataError
	if !apperrors.As(err, &insufficientErr) {
		t.Errorf("error type = %T, want *InsufficientDataError", err)
	}
}

func TestAnalyzeSinglePoint(t *testing.T) {
	a := newTestAnalyzer(DefaultRatio, 8.0)
	start := time.Date(2025, 1, 15, 6, 0, 0, 0, time.UTC)

	_, err := a.Analyze(points(start, 1013))
	if err == nil {
		t.Fatal("expected error when no points fall inside the lookahead window")
	}

	var insufficientErr *apperrors.InsufficientDataError
	if !apperrors.As(err, &insufficientErr) {
		t.Errorf("error type = %T, want *InsufficientDataError", err)
	}
}

func TestConversionRoundTrip(t *testing.T) {
	a := newTestAnalyzer(DefaultRatio, 8.0)

	for _, hPa := range []float64{950.0, 1000.0, 1013.25, 1050.5} {
		back := a.MmHgToHPa(a.HPaToMmHg(hPa))
		if math.Abs(back-hPa) > 1e-6 {
			t.Errorf("round trip for %v hPa = %v, want within 1e-6", hPa, back)
		}
	}
}
