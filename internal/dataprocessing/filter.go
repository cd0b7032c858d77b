package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	apperrors "covidcli/internal/errors"
	"covidcli/pkg/contracts/domain"
)

// SchemaEra is one historical column-naming convention of the daily reports
type SchemaEra struct {
	Name    string
	Country string
	State   string
	County  string
}

// CountyColumn names the county column in every era
const CountyColumn = "Admin2"

// Known schema eras in lookup priority order. The dataset renamed its
// location columns on 03-22-2020; Admin2 appeared with the rename but is
// looked up under the same name in both eras.
var (
	ModernEra = SchemaEra{Name: "modern", Country: "Country_Region", State: "Province_State", County: CountyColumn}
	LegacyEra = SchemaEra{Name: "legacy", Country: "Country/Region", State: "Province/State", County: CountyColumn}

	DefaultEras = []SchemaEra{ModernEra, LegacyEra}
)

// columnsFor returns the era's columns needed to evaluate filter
func (e SchemaEra) columnsFor(filter domain.LocationFilter) []string {
	var cols []string
	if filter.Country != "" {
		cols = append(cols, e.Country)
	}
	if filter.State != "" {
		cols = append(cols, e.State)
	}
	if filter.County != "" {
		cols = append(cols, e.County)
	}
	return cols
}

// RowSet is the rows of one snapshot that matched a location filter
type RowSet struct {
	Date time.Time
	Path string
	Era  string
	// Header is the header of the source snapshot, kept so aggregation can
	// tell a missing metric column from a blank cell.
	Header []string
	Rows   []domain.Row
}

// HasColumn reports whether the source snapshot had column
func (s RowSet) HasColumn(column string) bool {
	for _, h := range s.Header {
		if h == column {
			return true
		}
	}
	return false
}

// ScopeFilter narrows snapshots to a geographic scope
type ScopeFilter struct {
	filter domain.LocationFilter
	eras   []SchemaEra
}

// NewScopeFilter creates a filter for scope. Eras are tried in the given
// order; DefaultEras is used when none are given. An empty scope is
// rejected.
func NewScopeFilter(scope domain.LocationFilter, eras ...SchemaEra) (*ScopeFilter, error) {
	if scope.IsEmpty() {
		return nil, apperrors.NewEmptyFilter()
	}
	if len(eras) == 0 {
		eras = DefaultEras
	}
	return &ScopeFilter{filter: scope, eras: eras}, nil
}

// ResolveEra returns the first era whose columns for this filter are all
// present in the snapshot header. Later eras are not consulted once one
// resolves.
func (f *ScopeFilter) ResolveEra(snapshot *domain.Snapshot) (SchemaEra, error) {
	var tried []string
	for _, era := range f.eras {
		cols := era.columnsFor(f.filter)
		if hasColumns(snapshot, cols) {
			return era, nil
		}
		tried = append(tried, cols...)
	}
	return SchemaEra{}, apperrors.NewSchemaMismatch(apperrors.StageFilter, snapshot.Path, tried)
}

// Apply returns the rows of snapshot matching the filter. A snapshot with
// no matching rows yields an empty RowSet, never an error.
func (f *ScopeFilter) Apply(snapshot *domain.Snapshot) (RowSet, error) {
	era, err := f.ResolveEra(snapshot)
	if err != nil {
		return RowSet{}, err
	}

	set := RowSet{
		Date:   snapshot.Date,
		Path:   snapshot.Path,
		Era:    era.Name,
		Header: snapshot.Header,
		Rows:   []domain.Row{},
	}
	for _, row := range snapshot.Rows {
		if f.matches(era, row) {
			set.Rows = append(set.Rows, row)
		}
	}
	return set, nil
}

func (f *ScopeFilter) matches(era SchemaEra, row domain.Row) bool {
	if f.filter.Country != "" && !cellEquals(row, era.Country, f.filter.Country) {
		return false
	}
	if f.filter.State != "" && !cellEquals(row, era.State, f.filter.State) {
		return false
	}
	if f.filter.County != "" && !cellEquals(row, era.County, f.filter.County) {
		return false
	}
	return true
}

func cellEquals(row domain.Row, column, want string) bool {
	v, ok := row.Value(column)
	return ok && v == want
}

func hasColumns(snapshot *domain.Snapshot, cols []string) bool {
	for _, c := range cols {
		if !snapshot.HasColumn(c) {
			return false
		}
	}
	return true
}

// FilterSnapshots applies scope to every snapshot. The result has one
// RowSet per snapshot in the same order; any schema failure aborts.
func FilterSnapshots(ctx context.Context, snapshots []*domain.Snapshot, scope domain.LocationFilter, logger *slog.Logger) ([]RowSet, error) {
	filter, err := NewScopeFilter(scope)
	if err != nil {
		return nil, err
	}

	sets := make([]RowSet, 0, len(snapshots))
	for _, snapshot := range snapshots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		set, err := filter.Apply(snapshot)
		if err != nil {
			return nil, err
		}
		if len(set.Rows) == 0 {
			logger.Warn("No rows match location filter",
				slog.String("path", snapshot.Path),
				slog.String("era", set.Era),
				slog.String("filter", scope.Describe()))
		}
		sets = append(sets, set)
	}
	return sets, nil
}
