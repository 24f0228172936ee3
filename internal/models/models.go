// Package models provides domain models for the pressure monitor.
package models

import "time"

// ForecastPoint represents one entry of the forecast list: the forecasted
// atmospheric pressure at a point in time. Read-only after creation.
type ForecastPoint struct {
	Timestamp   time.Time
	PressureHPa float64
}

// AnalysisResult is the outcome of analyzing one forecast sequence.
// Derived once per run; immutable.
type AnalysisResult struct {
	CurrentPressureMmHg float64
	MinPressureMmHg     float64
	MinPressureTime     time.Time
	DropMmHg            float64
	ThresholdMmHg       float64
	Alert               bool
}

// AlertMessage carries the shared fields every notification channel formats
// into its own payload.
type AlertMessage struct {
	DropMmHg            float64
	CurrentPressureMmHg float64
	MinPressureMmHg     float64
	MinPressureTime     time.Time
	ThresholdMmHg       float64
}

// AlertFromResult builds the channel-facing alert message from an analysis result.
func AlertFromResult(r *AnalysisResult) AlertMessage {
	return AlertMessage{
		DropMmHg:            r.DropMmHg,
		CurrentPressureMmHg: r.CurrentPressureMmHg,
		MinPressureMmHg:     r.MinPressureMmHg,
		MinPressureTime:     r.MinPressureTime,
		ThresholdMmHg:       r.ThresholdMmHg,
	}
}

// RunStatus represents the terminal state of one monitoring run.
type RunStatus string

const (
	RunFetchFailed    RunStatus = "FETCH_FAILED"
	RunAnalysisFailed RunStatus = "ANALYSIS_FAILED"
	RunNoAlert        RunStatus = "NO_ALERT"
	RunDispatched     RunStatus = "DISPATCHED"
)

// ChannelResult records the delivery outcome for a single channel.
type ChannelResult struct {
	Channel string
	Sent    bool
	Error   string
}

// RunRecord is the journal entry for one completed run.
type RunRecord struct {
	ID                  int64
	StartedAt           time.Time
	FinishedAt          time.Time
	Status              RunStatus
	FetchAttempts       int
	CurrentPressureMmHg float64
	MinPressureMmHg     float64
	DropMmHg            float64
	Alert               bool
	Channels            []ChannelResult
	Error               string
}
