package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"covidcli/internal/config"
	apperrors "covidcli/internal/errors"
	"covidcli/internal/files"
	"covidcli/pkg/contracts/domain"
)

func testSeries() domain.DeltaSeries {
	day := func(d int) time.Time { return time.Date(2020, 3, d, 0, 0, 0, 0, time.UTC) }
	return domain.DeltaSeries{
		Metric: "Confirmed",
		Filter: domain.LocationFilter{Country: "US", State: "Florida", County: "Pasco"},
		Points: []domain.DeltaPoint{
			{Date: day(23), Label: "03-23", Total: 150, Delta: 50},
			{Date: day(24), Label: "03-24", Total: 130, Delta: -20},
			{Date: day(25), Label: "03-25", Total: 130.5, Delta: 0.5},
		},
		BaselineDropped: true,
	}
}

func newTestManager(t *testing.T) (*files.Manager, string) {
	t.Helper()
	dir := t.TempDir()
	return files.NewManager(&config.Paths{OutputDir: dir}, nil), dir
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "0"},
		{in: 42, want: "42"},
		{in: -20, want: "-20"},
		{in: 13.4, want: "13.40"},
		{in: 0.5, want: "0.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCount(tt.in))
	}
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(nil).Write(&buf, testSeries()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Date", "Label", "Total", "Delta"},
		{"03-23-2020", "03-23", "150", "50"},
		{"03-24-2020", "03-24", "130", "-20"},
		{"03-25-2020", "03-25", "130.50", "0.50"},
	}, records)
}

func TestCSVWriter_BOMPrefix(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(nil)
	w.BOMPrefix = true
	require.NoError(t, w.Write(&buf, domain.DeltaSeries{}))

	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, buf.Bytes()[:3])
	assert.Equal(t, "Date,Label,Total,Delta\n", buf.String()[3:])
}

func TestCSVWriter_WriteSeries(t *testing.T) {
	manager, dir := newTestManager(t)

	path, err := NewCSVWriter(manager).WriteSeries("series.csv", testSeries())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "series.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "03-24-2020,03-24,130,-20")
}

func TestXLSXWriter_WriteSeries(t *testing.T) {
	manager, dir := newTestManager(t)

	path, err := NewXLSXWriter(manager).WriteSeries("series.xlsx", testSeries())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "series.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Date", "Label", "Total", "Delta"}, rows[0])
	assert.Equal(t, []string{"03-23-2020", "03-23", "150", "50"}, rows[1])
	assert.Equal(t, []string{"03-24-2020", "03-24", "130", "-20"}, rows[2])

	delta, err := f.GetCellValue(SheetName, "D4")
	require.NoError(t, err)
	assert.Equal(t, "0.5", delta)
}

func TestNew(t *testing.T) {
	manager, _ := newTestManager(t)

	tests := []struct {
		name     string
		formats  []string
		wantLen  int
		wantKind apperrors.Kind
	}{
		{name: "none", formats: nil, wantLen: 0},
		{name: "both", formats: []string{"csv", "xlsx"}, wantLen: 2},
		{name: "case and spaces", formats: []string{" CSV "}, wantLen: 1},
		{name: "blank entries ignored", formats: []string{"", "xlsx"}, wantLen: 1},
		{name: "unknown", formats: []string{"json"}, wantKind: apperrors.KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, err := New(manager, tt.formats)
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, exp.Len())
		})
	}
}

func TestExporter_ExportAll(t *testing.T) {
	manager, dir := newTestManager(t)

	exp, err := New(manager, []string{"csv", "xlsx"})
	require.NoError(t, err)

	written, err := exp.ExportAll("USFloridaPascoConfirmed_03-23_03-25", testSeries())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "USFloridaPascoConfirmed_03-23_03-25.csv"),
		filepath.Join(dir, "USFloridaPascoConfirmed_03-23_03-25.xlsx"),
	}, written)
	for _, p := range written {
		assert.FileExists(t, p)
	}
}

func TestExporter_WithCSVBOM(t *testing.T) {
	manager, dir := newTestManager(t)

	exp, err := New(manager, []string{"csv"}, WithCSVBOM(true))
	require.NoError(t, err)
	_, err = exp.ExportAll("bom", testSeries())
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "bom.csv"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("\ufeffDate,Label")))

	exp, err = New(manager, []string{"csv"})
	require.NoError(t, err)
	_, err = exp.ExportAll("plain", testSeries())
	require.NoError(t, err)

	content, err = os.ReadFile(filepath.Join(dir, "plain.csv"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("Date,Label")))
}

func TestExporter_ExportAllFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	manager := files.NewManager(&config.Paths{OutputDir: filepath.Join(blocker, "out")}, nil)
	exp, err := New(manager, []string{"csv"})
	require.NoError(t, err)

	written, err := exp.ExportAll("series", testSeries())
	assert.Empty(t, written)
	assert.Equal(t, apperrors.KindIO, apperrors.KindOf(err))
}
