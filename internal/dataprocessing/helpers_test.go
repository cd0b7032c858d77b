package dataprocessing

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"covidcli/internal/config"
	"covidcli/pkg/contracts/domain"
)

const modernHeader = "FIPS,Admin2,Province_State,Country_Region,Last_Update,Lat,Long_,Confirmed,Deaths,Recovered,Active,Combined_Key"

const legacyHeader = "Province/State,Country/Region,Last Update,Confirmed,Deaths,Recovered"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// modernRow builds a modern-era row with the given confirmed and deaths counts
func modernRow(county, state, country string, confirmed, deaths int) string {
	return fmt.Sprintf(",%s,%s,%s,2020-03-23 23:19:34,0,0,%d,%d,0,0,\"%s, %s, %s\"",
		county, state, country, confirmed, deaths, county, state, country)
}

func legacyRow(state, country string, confirmed int) string {
	return fmt.Sprintf("%s,%s,2020-03-20T22:14:43,%d,0,0", state, country, confirmed)
}

func csvContent(header string, rows ...string) string {
	return header + "\n" + strings.Join(rows, "\n") + "\n"
}

func writeReport(t *testing.T, dir, name, content string) domain.DailyFile {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	date, err := time.Parse(config.ReportDateLayout, strings.TrimSuffix(name, ".csv"))
	require.NoError(t, err)
	return domain.DailyFile{Path: path, Name: name, Date: date}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(config.ReportDateLayout, s)
	require.NoError(t, err)
	return d
}

// pascoDataset writes one modern report per day with Pasco County at the
// given confirmed totals and unrelated noise rows around it
func pascoDataset(t *testing.T, dir string, days []string, totals []int) []domain.DailyFile {
	t.Helper()
	require.Len(t, totals, len(days))

	files := make([]domain.DailyFile, len(days))
	for i, day := range days {
		files[i] = writeReport(t, dir, day+".csv", csvContent(modernHeader,
			modernRow("Pasco", "Florida", "US", totals[i], 0),
			modernRow("Pinellas", "Florida", "US", 100+i, 1),
			modernRow("Pasco", "Washington", "US", 7, 0),
			modernRow("", "Ontario", "Canada", 50, 2),
		))
	}
	return files
}
