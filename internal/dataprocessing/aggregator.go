package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"covidcli/internal/config"
	apperrors "covidcli/internal/errors"
	"covidcli/pkg/contracts/domain"
)

// SumMetric sums the metric column over the rows of set. Blank cells count
// as zero. A metric column absent from the snapshot is a schema mismatch;
// a non-numeric cell is a parse error.
func SumMetric(set RowSet, metric string) (float64, error) {
	if !set.HasColumn(metric) {
		return 0, apperrors.NewSchemaMismatch(apperrors.StageAggregate, set.Path, []string{metric})
	}

	var total float64
	for i, row := range set.Rows {
		cell, _ := row.Value(metric)
		if cell == "" {
			continue
		}
		v, err := parseNumber(cell)
		if err != nil {
			return 0, apperrors.NewParseError(set.Path,
				fmt.Errorf("row %d: %s value %q: %w", i+1, metric, cell, err)).
				WithContext("stage", apperrors.StageAggregate)
		}
		total += v
	}
	return total, nil
}

// parseNumber accepts integers and decimals, as written by the dataset
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

// Totals sums metric for every row set, preserving order
func Totals(sets []RowSet, metric string) ([]float64, error) {
	totals := make([]float64, len(sets))
	for i, set := range sets {
		total, err := SumMetric(set, metric)
		if err != nil {
			return nil, err
		}
		totals[i] = total
	}
	return totals, nil
}

// Deltas returns the running first difference of totals. The first value
// is taken against zero.
func Deltas(totals []float64) []float64 {
	deltas := make([]float64, len(totals))
	var previous float64
	for i, total := range totals {
		deltas[i] = total - previous
		previous = total
	}
	return deltas
}

// FormatLabels formats every date as MM-DD
func FormatLabels(dates []time.Time) []string {
	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = d.Format(config.LabelDateLayout)
	}
	return labels
}

// BuildSeries aggregates row sets into a delta series whose first point is
// still the baseline day
func BuildSeries(sets []RowSet, metric string, scope domain.LocationFilter) (domain.DeltaSeries, error) {
	totals, err := Totals(sets, metric)
	if err != nil {
		return domain.DeltaSeries{}, err
	}
	deltas := Deltas(totals)

	dates := make([]time.Time, len(sets))
	for i, set := range sets {
		dates[i] = set.Date
	}
	labels := FormatLabels(dates)

	series := domain.DeltaSeries{
		Metric: metric,
		Filter: scope,
		Points: make([]domain.DeltaPoint, len(sets)),
	}
	for i := range sets {
		series.Points[i] = domain.DeltaPoint{
			Date:  dates[i],
			Label: labels[i],
			Total: totals[i],
			Delta: deltas[i],
		}
	}
	return series, nil
}

// DropBaseline removes the baseline day from series. Its delta is taken
// against zero rather than a previous day and is never reported.
func DropBaseline(series domain.DeltaSeries) (domain.DeltaSeries, error) {
	if series.BaselineDropped {
		return domain.DeltaSeries{}, apperrors.NewInvalidInput(apperrors.StageAggregate,
			"baseline already dropped from series")
	}
	if len(series.Points) < 2 {
		return domain.DeltaSeries{}, apperrors.NewOutOfRange(apperrors.StageAggregate,
			fmt.Sprintf("series has %d points; at least a baseline day and one reported day are required", len(series.Points)))
	}

	points := make([]domain.DeltaPoint, len(series.Points)-1)
	copy(points, series.Points[1:])

	series.Points = points
	series.BaselineDropped = true
	return series, nil
}
