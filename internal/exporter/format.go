package exporter

import (
	"math"
	"strconv"

	"covidcli/internal/config"
	"covidcli/pkg/contracts/domain"
)

// seriesHeaders is the column layout shared by every export format
var seriesHeaders = []string{"Date", "Label", "Total", "Delta"}

// formatCount writes whole counts without a fractional part and anything
// else with exactly 2 decimal places
func formatCount(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// pointToRow converts a point to the string row written by CSV exports
func pointToRow(p domain.DeltaPoint) []string {
	return []string{
		p.Date.Format(config.ReportDateLayout),
		p.Label,
		formatCount(p.Total),
		formatCount(p.Delta),
	}
}
