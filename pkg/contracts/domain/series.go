package domain

import (
	"time"
)

// DeltaPoint is one day of a delta series.
type DeltaPoint struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
	Total float64   `json:"total"`
	Delta float64   `json:"delta"`
}

// DeltaSeries holds the day-over-day differences of a summed metric,
// aligned to calendar dates. Until the baseline is dropped the first point
// is the baseline day and its Delta is measured against zero.
type DeltaSeries struct {
	Metric          string         `json:"metric"`
	Filter          LocationFilter `json:"filter"`
	Points          []DeltaPoint   `json:"points"`
	BaselineDropped bool           `json:"baseline_dropped"`
}

// Len returns the number of points.
func (s DeltaSeries) Len() int {
	return len(s.Points)
}

// Labels returns the MM-DD label of every point.
func (s DeltaSeries) Labels() []string {
	labels := make([]string, len(s.Points))
	for i, p := range s.Points {
		labels[i] = p.Label
	}
	return labels
}

// Values returns the delta of every point.
func (s DeltaSeries) Values() []float64 {
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Delta
	}
	return values
}

// First returns the first point, or false when the series is empty.
func (s DeltaSeries) First() (DeltaPoint, bool) {
	if len(s.Points) == 0 {
		return DeltaPoint{}, false
	}
	return s.Points[0], true
}

// Last returns the last point, or false when the series is empty.
func (s DeltaSeries) Last() (DeltaPoint, bool) {
	if len(s.Points) == 0 {
		return DeltaPoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}
