package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	apperrors "covidcli/internal/errors"
	"covidcli/internal/files"
	"covidcli/pkg/contracts/domain"
)

// SeriesWriter encodes a delta series in one file format
type SeriesWriter interface {
	Extension() string
	Write(out io.Writer, series domain.DeltaSeries) error
	WriteSeries(path string, series domain.DeltaSeries) (string, error)
}

// Exporter writes a series in every configured format
type Exporter struct {
	writers []SeriesWriter
}

// Option adjusts how an Exporter writes its formats
type Option func(*settings)

type settings struct {
	csvBOM bool
}

// WithCSVBOM prefixes CSV exports with a UTF-8 byte order mark
func WithCSVBOM(enabled bool) Option {
	return func(s *settings) {
		s.csvBOM = enabled
	}
}

// New creates an exporter for formats (csv, xlsx). Formats are matched
// case-insensitively; an unknown one is an invalid_input error.
func New(manager *files.Manager, formats []string, opts ...Option) (*Exporter, error) {
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Exporter{}
	for _, format := range formats {
		switch strings.ToLower(strings.TrimSpace(format)) {
		case "csv":
			csvWriter := NewCSVWriter(manager)
			csvWriter.BOMPrefix = cfg.csvBOM
			e.writers = append(e.writers, csvWriter)
		case "xlsx":
			e.writers = append(e.writers, NewXLSXWriter(manager))
		case "":
		default:
			return nil, apperrors.NewInvalidInput(apperrors.StageExport,
				fmt.Sprintf("unknown export format %q (want csv or xlsx)", format))
		}
	}
	return e, nil
}

// Len returns the number of formats configured
func (e *Exporter) Len() int {
	return len(e.writers)
}

// ExportAll writes series as <baseName>.<ext> for every format and returns
// the paths written, in format order
func (e *Exporter) ExportAll(baseName string, series domain.DeltaSeries) ([]string, error) {
	written := make([]string, 0, len(e.writers))
	for _, w := range e.writers {
		name := baseName + "." + w.Extension()
		path, err := w.WriteSeries(name, series)
		if err != nil {
			return written, apperrors.NewIOError(apperrors.StageExport,
				fmt.Sprintf("failed to export %s", name), err)
		}
		slog.Debug("Series exported",
			slog.String("format", w.Extension()),
			slog.String("path", path))
		written = append(written, path)
	}
	return written, nil
}
