package domain

import (
	"strings"
	"time"
)

// DailyFile is one entry of a file selection: a daily report CSV and the
// calendar day parsed from its name.
type DailyFile struct {
	Path string    `json:"path" validate:"required"`
	Name string    `json:"name" validate:"required"`
	Date time.Time `json:"date" validate:"required"`
}

// Row is one geographic sub-region of a snapshot, keyed by header name.
type Row map[string]string

// Value returns the trimmed cell for column and whether the column exists.
func (r Row) Value(column string) (string, bool) {
	v, ok := r[column]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// Snapshot represents one day's full case-count dataset (one CSV file).
// It is not modified after loading.
type Snapshot struct {
	Path   string    `json:"path"`
	Date   time.Time `json:"date"`
	Header []string  `json:"header"`
	Rows   []Row     `json:"rows"`
}

// HasColumn reports whether the snapshot header contains column.
func (s *Snapshot) HasColumn(column string) bool {
	for _, h := range s.Header {
		if h == column {
			return true
		}
	}
	return false
}

// LocationFilter is the geographic scope of a run. Empty fields widen the
// match.
type LocationFilter struct {
	Country string `json:"country,omitempty" yaml:"country"`
	State   string `json:"state,omitempty" yaml:"state"`
	County  string `json:"county,omitempty" yaml:"county"`
}

// IsEmpty reports whether no geographic field is set.
func (f LocationFilter) IsEmpty() bool {
	return f.Country == "" && f.State == "" && f.County == ""
}

// Label concatenates country, state and county, the form used in output
// filenames.
func (f LocationFilter) Label() string {
	return f.Country + f.State + f.County
}

// Describe returns "county state country" with empty parts omitted, the
// form used in chart titles.
func (f LocationFilter) Describe() string {
	return strings.Join(strings.Fields(f.County+" "+f.State+" "+f.Country), " ")
}
