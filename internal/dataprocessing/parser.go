package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	apperrors "covidcli/internal/errors"
	"covidcli/pkg/contracts/domain"
)

const utf8BOM = "\ufeff"

// ParseFile reads a daily report CSV into a Snapshot. Header cells become
// the field names of every row.
func ParseFile(file domain.DailyFile) (*domain.Snapshot, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, apperrors.NewParseError(file.Path, err)
	}
	defer f.Close()

	snapshot, err := Parse(f)
	if err != nil {
		return nil, apperrors.NewParseError(file.Path, err)
	}
	snapshot.Path = file.Path
	snapshot.Date = file.Date
	return snapshot, nil
}

// Parse reads CSV content with a header row. Every data row must have as
// many fields as the header.
func Parse(r io.Reader) (*domain.Snapshot, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	// Early reports start with a UTF-8 byte order mark
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	snapshot := &domain.Snapshot{Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(domain.Row, len(header))
		for i, name := range header {
			row[name] = record[i]
		}
		snapshot.Rows = append(snapshot.Rows, row)
	}

	return snapshot, nil
}

func checkHeader(header []string) error {
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if h == "" {
			return fmt.Errorf("header column %d is empty", i+1)
		}
		if seen[h] {
			return fmt.Errorf("duplicate header column %q", h)
		}
		seen[h] = true
	}
	return nil
}

// DefaultLoadConcurrency bounds the number of files parsed at once
const DefaultLoadConcurrency = 4

// LoadSnapshots parses every file, up to DefaultLoadConcurrency at a time.
// Results keep the order of files. The first failure cancels the rest and
// aborts the whole load: a missing day would corrupt the delta series.
func LoadSnapshots(ctx context.Context, files []domain.DailyFile, logger *slog.Logger) ([]*domain.Snapshot, error) {
	snapshots := make([]*domain.Snapshot, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultLoadConcurrency)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			snapshot, err := ParseFile(file)
			if err != nil {
				return err
			}

			logger.Debug("Snapshot loaded",
				slog.Int("index", i),
				slog.Int("total", len(files)),
				slog.String("filename", file.Name),
				slog.Int("rows", len(snapshot.Rows)))

			snapshots[i] = snapshot
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshots, nil
}
