// Package monitor drives a single pressure monitoring run.
package monitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/SergeiHanus/pressure-monitor/internal/analysis"
	"github.com/SergeiHanus/pressure-monitor/internal/forecast"
	"github.com/SergeiHanus/pressure-monitor/internal/journal"
	"github.com/SergeiHanus/pressure-monitor/internal/models"
	"github.com/SergeiHanus/pressure-monitor/internal/notify"
)

// Runner executes the fetch -> analyze -> dispatch sequence once.
// One invocation is one scheduled check; no state survives between runs.
type Runner struct {
	fetcher    forecast.Fetcher
	analyzer   *analysis.Analyzer
	dispatcher *notify.Dispatcher
	journal    journal.Journal // optional
	logger     zerolog.Logger
	now        func() time.Time
}

// NewRunner creates a runner. The journal may be nil.
func NewRunner(fetcher forecast.Fetcher, analyzer *analysis.Analyzer,
	dispatcher *notify.Dispatcher, j journal.Journal, logger zerolog.Logger) *Runner {
	return &Runner{
		fetcher:    fetcher,
		analyzer:   analyzer,
		dispatcher: dispatcher,
		journal:    j,
		logger:     logger,
		now:        time.Now,
	}
}

// Run performs one monitoring check. A returned error means the run failed
// terminally (fetch or analysis); per-channel dispatch failures are recorded
// in the run record but do not fail the run.
func (r *Runner) Run(ctx context.Context) (*models.RunRecord, error) {
	r.logger.Info().Msg("Starting pressure monitoring check")

	run := &models.RunRecord{StartedAt: r.now()}

	points, attempts, err := r.fetcher.Fetch(ctx)
	run.FetchAttempts = attempts
	if err != nil {
		run.Status = models.RunFetchFailed
		run.Error = err.Error()
		r.finish(ctx, run)
		return run, err
	}

	result, err := r.analyzer.Analyze(points)
	if err != nil {
		run.Status = models.RunAnalysisFailed
		run.Error = err.Error()
		r.finish(ctx, run)
		return run, err
	}

	run.CurrentPressureMmHg = result.CurrentPressureMmHg
	run.MinPressureMmHg = result.MinPressureMmHg
	run.DropMmHg = result.DropMmHg
	run.Alert = result.Alert

	if !result.Alert {
		r.logger.Info().
			Float64("drop_mmhg", result.DropMmHg).
			Float64("threshold_mmhg", result.ThresholdMmHg).
			Msg("No pressure alert conditions met")
		run.Status = models.RunNoAlert
		r.finish(ctx, run)
		return run, nil
	}

	r.logger.Warn().
		Float64("drop_mmhg", result.DropMmHg).
		Time("expected_at", result.MinPressureTime).
		Msg("Pressure alert triggered")

	run.Channels = r.dispatcher.Dispatch(ctx, models.AlertFromResult(result))
	run.Status = models.RunDispatched
	r.finish(ctx, run)

	return run, nil
}

func (r *Runner) finish(ctx context.Context, run *models.RunRecord) {
	run.FinishedAt = r.now()

	r.logger.Info().
		Str("status", string(run.Status)).
		Dur("duration", run.FinishedAt.Sub(run.StartedAt)).
		Msg("Monitoring check finished")

	if r.journal == nil {
		return
	}
	if err := r.journal.Record(ctx, run); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to record run in journal")
	}
}
