package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	apperrors "covidcli/internal/errors"
	"covidcli/internal/validation"
)

// Processor runs the select, load, filter and aggregate stages for a request
type Processor struct {
	selector  SnapshotSelector
	validator *validation.RequestValidator
	recorder  StageRecorder
	logger    *slog.Logger
}

// NewProcessor creates a processor reading snapshots chosen by selector
func NewProcessor(selector SnapshotSelector, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		selector:  selector,
		validator: validation.NewRequestValidator(),
		recorder:  noopRecorder{},
		logger:    logger.With(slog.String("component", "processor")),
	}
}

// WithRecorder sends stage durations and counts to r
func (p *Processor) WithRecorder(r StageRecorder) *Processor {
	if r != nil {
		p.recorder = r
	}
	return p
}

// timeStage records the time since start under stage and returns now
func (p *Processor) timeStage(stage string, start time.Time) time.Time {
	now := time.Now()
	p.recorder.ObserveStage(stage, now.Sub(start))
	return now
}

// Run executes every stage in order. Each stage consumes its whole input
// before the next starts, and any stage error aborts the run.
func (p *Processor) Run(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()

	if err := p.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.Filter.IsEmpty() {
		return nil, apperrors.NewEmptyFilter()
	}

	p.logger.Info("Processing request",
		slog.String("start_date", req.StartDate),
		slog.String("end_date", req.EndDate),
		slog.String("metric", req.Metric),
		slog.String("country", req.Filter.Country),
		slog.String("state", req.Filter.State),
		slog.String("county", req.Filter.County))

	stageStart := time.Now()
	files, err := p.selector.SelectRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.StageSelect, "select snapshots")
	}
	stageStart = p.timeStage(apperrors.StageSelect, stageStart)

	snapshots, err := LoadSnapshots(ctx, files, p.logger)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.StageLoad, "load snapshots")
	}
	stageStart = p.timeStage(apperrors.StageLoad, stageStart)
	p.recorder.AddSnapshots(len(snapshots))
	p.logger.Info("Snapshots loaded", slog.Int("count", len(snapshots)))

	sets, err := FilterSnapshots(ctx, snapshots, req.Filter, p.logger)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.StageFilter, "filter snapshots")
	}
	stageStart = p.timeStage(apperrors.StageFilter, stageStart)

	matched := 0
	for _, set := range sets {
		matched += len(set.Rows)
	}
	p.recorder.AddMatchedRows(matched)
	p.logger.Info("Snapshots filtered",
		slog.Int("days", len(sets)),
		slog.Int("matched_rows", matched))

	withBaseline, err := BuildSeries(sets, req.Metric, req.Filter)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.StageAggregate, "aggregate metric")
	}

	series, err := DropBaseline(withBaseline)
	if err != nil {
		return nil, err
	}
	p.timeStage(apperrors.StageAggregate, stageStart)

	p.logger.Info("Delta series computed",
		slog.String("metric", series.Metric),
		slog.Int("points", series.Len()),
		slog.Duration("duration", time.Since(started)))

	return &Result{Files: files, Series: series}, nil
}
