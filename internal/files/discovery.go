package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"covidcli/internal/config"
	apperrors "covidcli/internal/errors"
	"covidcli/pkg/contracts/domain"
)

const reportExt = ".csv"

// Discovery lists and selects daily report snapshots in one directory
type Discovery struct {
	dir    string
	logger *slog.Logger
}

// NewDiscovery creates a discovery over the daily reports directory dir
func NewDiscovery(dir string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{dir: dir, logger: logger}
}

// Dir returns the directory being searched
func (d *Discovery) Dir() string {
	return d.dir
}

// ParseReportDate parses the date of a daily report named MM-DD-YYYY.csv
func ParseReportDate(name string) (time.Time, error) {
	if !strings.EqualFold(filepath.Ext(name), reportExt) {
		return time.Time{}, fmt.Errorf("%s is not a csv file", name)
	}
	return time.Parse(config.ReportDateLayout, strings.TrimSuffix(name, filepath.Ext(name)))
}

// ReportName returns the file name of the daily report for date
func ReportName(date time.Time) string {
	return date.Format(config.ReportDateLayout) + reportExt
}

// FindDailyReports lists every daily report in the directory, oldest first.
// Files whose names are not MM-DD-YYYY.csv are skipped.
func (d *Discovery) FindDailyReports() ([]domain.DailyFile, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, apperrors.NewIOError(apperrors.StageSelect,
			fmt.Sprintf("failed to read directory %s", d.dir), err)
	}

	var reports []domain.DailyFile
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), reportExt) {
			continue
		}

		date, err := ParseReportDate(name)
		if err != nil {
			d.logger.Debug("Skipping file with undated name",
				slog.String("filename", name),
				slog.String("error", err.Error()))
			continue
		}

		reports = append(reports, domain.DailyFile{
			Path: filepath.Join(d.dir, name),
			Name: name,
			Date: date,
		})
	}

	// MM-DD-YYYY names only sort lexicographically within one year
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Date.Before(reports[j].Date)
	})

	return reports, nil
}

// SelectRange resolves the snapshots from start through end (MM-DD-YYYY,
// or "latest" for end), preceded by the baseline snapshot of the day
// before start.
func (d *Discovery) SelectRange(start, end string) ([]domain.DailyFile, error) {
	startDate, err := parseDateArg("start date", start)
	if err != nil {
		return nil, err
	}

	latest := config.IsLatest(end)
	var endDate time.Time
	if !latest {
		endDate, err = parseDateArg("end date", end)
		if err != nil {
			return nil, err
		}
		if endDate.Before(startDate) {
			return nil, apperrors.NewInvalidInput(apperrors.StageSelect,
				fmt.Sprintf("end date %s is before start date %s", end, start))
		}
	}

	reports, err := d.FindDailyReports()
	if err != nil {
		return nil, err
	}

	d.logger.Debug("Daily reports found",
		slog.String("dir", d.dir),
		slog.Int("count", len(reports)))

	if !latest {
		endIndex := indexOfDate(reports, endDate)
		if endIndex < 0 {
			return nil, apperrors.NewNotFound(end)
		}
		reports = reports[:endIndex+1]
	}

	startIndex := indexOfDate(reports, startDate)
	if startIndex < 0 {
		return nil, apperrors.NewNotFound(start)
	}
	if startIndex == 0 {
		return nil, apperrors.NewOutOfRange(apperrors.StageSelect,
			fmt.Sprintf("start date %s is the first snapshot in the dataset; no baseline day precedes it", start)).
			WithContext("date", start)
	}

	selected := reports[startIndex-1:]

	d.logger.Info("Snapshots selected",
		slog.String("baseline", selected[0].Name),
		slog.String("first", selected[1].Name),
		slog.String("last", selected[len(selected)-1].Name),
		slog.Int("count", len(selected)))

	return selected, nil
}

func parseDateArg(what, value string) (time.Time, error) {
	t, err := time.Parse(config.ReportDateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.NewInvalidInput(apperrors.StageSelect,
			fmt.Sprintf("%s %q is not in MM-DD-YYYY format", what, value))
	}
	return t, nil
}

func indexOfDate(reports []domain.DailyFile, date time.Time) int {
	for i, r := range reports {
		if r.Date.Equal(date) {
			return i
		}
	}
	return -1
}
