package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"covidcli/internal/config"
	"covidcli/internal/files"
	"covidcli/pkg/contracts/domain"
)

// SheetName is the worksheet holding the exported series
const SheetName = "Deltas"

// XLSXWriter exports delta series as an Excel workbook
type XLSXWriter struct {
	manager *files.Manager
}

// NewXLSXWriter creates a new XLSX writer instance
func NewXLSXWriter(manager *files.Manager) *XLSXWriter {
	return &XLSXWriter{manager: manager}
}

// Extension returns the file extension written
func (w *XLSXWriter) Extension() string {
	return "xlsx"
}

// WriteSeries writes series to path and returns the absolute path written
func (w *XLSXWriter) WriteSeries(path string, series domain.DeltaSeries) (string, error) {
	slog.Info("Writing XLSX file",
		slog.String("file_path", path),
		slog.Int("record_count", series.Len()))

	return w.manager.WriteFile(path, func(out io.Writer) error {
		return w.Write(out, series)
	})
}

// Write encodes series as a single-sheet workbook. Totals and deltas are
// stored as numbers so they stay usable in formulas.
func (w *XLSXWriter) Write(out io.Writer, series domain.DeltaSeries) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(seriesHeaders))
	for i, h := range seriesHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "D1", bold); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}

	for i, p := range series.Points {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			p.Date.Format(config.ReportDateLayout),
			p.Label,
			p.Total,
			p.Delta,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "D", 12); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	return f.Write(out)
}
