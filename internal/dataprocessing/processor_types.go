package dataprocessing

import (
	"time"

	"covidcli/pkg/contracts/domain"
)

// SnapshotSelector resolves a date range to the daily reports to process,
// baseline day first
type SnapshotSelector interface {
	SelectRange(start, end string) ([]domain.DailyFile, error)
}

// StageRecorder receives per-stage measurements of a run
type StageRecorder interface {
	ObserveStage(stage string, d time.Duration)
	AddSnapshots(n int)
	AddMatchedRows(n int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveStage(string, time.Duration) {}
func (noopRecorder) AddSnapshots(int)                   {}
func (noopRecorder) AddMatchedRows(int)                 {}

// Request describes one chart run
type Request struct {
	StartDate string                `json:"start_date" validate:"required,report_date"`
	EndDate   string                `json:"end_date" validate:"required,report_end_date"`
	Metric    string                `json:"metric" validate:"required,column_name"`
	Filter    domain.LocationFilter `json:"filter"`
}

// Result is the outcome of a processed request
type Result struct {
	// Files are the snapshots read, baseline day first
	Files []domain.DailyFile
	// Series is the reported delta series, baseline dropped
	Series domain.DeltaSeries
}
