package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"covidcli/internal/files"
	"covidcli/pkg/contracts/domain"
)

// CSVWriter exports delta series as CSV
type CSVWriter struct {
	manager *files.Manager
	// BOMPrefix adds a UTF-8 BOM so Excel detects the encoding
	BOMPrefix bool
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(manager *files.Manager) *CSVWriter {
	return &CSVWriter{manager: manager}
}

// Extension returns the file extension written
func (w *CSVWriter) Extension() string {
	return "csv"
}

// WriteSeries writes series to path, resolved against the output directory
// when relative, and returns the absolute path written
func (w *CSVWriter) WriteSeries(path string, series domain.DeltaSeries) (string, error) {
	slog.Info("Writing CSV file",
		slog.String("file_path", path),
		slog.Int("record_count", series.Len()))

	return w.manager.WriteFile(path, func(out io.Writer) error {
		return w.Write(out, series)
	})
}

// Write encodes series as CSV with a Date,Label,Total,Delta header
func (w *CSVWriter) Write(out io.Writer, series domain.DeltaSeries) error {
	if w.BOMPrefix {
		if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(seriesHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, p := range series.Points {
		if err := writer.Write(pointToRow(p)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
