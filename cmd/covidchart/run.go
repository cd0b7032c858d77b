package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/vg"

	"covidcli/internal/chart"
	"covidcli/internal/config"
	"covidcli/internal/dataprocessing"
	apperrors "covidcli/internal/errors"
	"covidcli/internal/exporter"
	"covidcli/internal/files"
	"covidcli/internal/infrastructure"
	"covidcli/internal/validation"
	"covidcli/pkg/contracts"
	"covidcli/pkg/contracts/domain"
)

// run executes one chart run and returns the process exit code. Failures
// are reported on stderr as "error [<kind>]: <message>".
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := execute(ctx, args, stdout, stderr)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return 0
	}
	fmt.Fprintln(stderr, apperrors.Describe(err))
	return apperrors.ExitCode(err)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return apperrors.New(apperrors.KindInvalidInput, apperrors.StageConfig, "failed to load configuration", err)
	}

	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return apperrors.NewInvalidInput(apperrors.StageConfig, err.Error())
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return apperrors.NewInvalidInput(apperrors.StageConfig, err.Error())
	}

	paths, err := config.GetPaths(cfg)
	if err != nil {
		return apperrors.NewIOError(apperrors.StageConfig, "failed to resolve paths", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return apperrors.NewIOError(apperrors.StageConfig, "failed to create directories", err)
	}

	previous := slog.Default()
	if _, err := infrastructure.InitializeLogger(cfg.Logging, stderr); err != nil {
		return apperrors.NewIOError(apperrors.StageConfig, "failed to initialize logger", err)
	}
	defer func() {
		infrastructure.CloseLogFile()
		slog.SetDefault(previous)
	}()

	ctx = infrastructure.EnsureTraceID(ctx)
	logger := infrastructure.LoggerWithContext(ctx, nil)
	slog.SetDefault(logger)

	metrics := infrastructure.NewRunMetrics()
	if cfg.Metrics.File != "" {
		defer func() {
			if err != nil {
				metrics.RunFailed(string(kindOrDefault(err)))
			}
			if werr := metrics.WriteTextfile(cfg.Metrics.File); werr != nil {
				logger.Warn("Failed to write metrics", slog.String("error", werr.Error()))
			}
		}()
	}

	logger.Info("Starting covidchart",
		slog.String("version", contracts.Version),
		slog.String("repo_path", paths.RepoPath),
		slog.String("output_dir", paths.OutputDir))
	paths.LogPathResolution(logger)

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateDatasetDirectory(paths.DailyReportsDir, "*.csv"); err != nil {
		return err
	}
	if err := validator.ValidateOutputDirectory(paths.OutputDir); err != nil {
		return err
	}

	filter := domain.LocationFilter{
		Country: cfg.Dataset.Country,
		State:   cfg.Dataset.State,
		County:  cfg.Dataset.County,
	}
	discovery := files.NewDiscovery(paths.DailyReportsDir, logger)
	processor := dataprocessing.NewProcessor(discovery, logger).WithRecorder(metrics)

	result, err := processor.Run(ctx, dataprocessing.Request{
		StartDate: cfg.Dataset.StartDate,
		EndDate:   cfg.Dataset.EndDate,
		Metric:    cfg.Dataset.Metric,
		Filter:    filter,
	})
	if err != nil {
		return err
	}
	series := result.Series
	if last, ok := series.Last(); ok {
		metrics.SetLastDelta(last.Delta)
	}

	manager := files.NewManager(paths, logger)
	chartOpts := chart.Options{
		Title:       cfg.Chart.Title,
		YLabel:      cfg.Chart.YLabel,
		YLimit:      cfg.Chart.YLimit,
		Palette:     chart.Blues,
		Attribution: config.Attribution,
		Width:       vg.Length(cfg.Chart.Width) * vg.Inch,
		Height:      vg.Length(cfg.Chart.Height) * vg.Inch,
	}

	name := chart.Filename(filter, series.Metric, series, cfg.Chart.Format)
	written, err := manager.WriteFile(name, func(w io.Writer) error {
		return chart.Write(w, series, chartOpts, cfg.Chart.Format)
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.StageRender, fmt.Sprintf("failed to save %s", name))
	}
	metrics.ArtifactWritten(cfg.Chart.Format)
	logger.Info("Chart saved",
		slog.String("path", written),
		slog.Int("bars", series.Len()))
	fmt.Fprintf(stdout, "%s saved!\n", name)

	if len(cfg.Export.Formats) == 0 {
		return nil
	}
	exp, err := exporter.New(manager, cfg.Export.Formats, exporter.WithCSVBOM(cfg.Export.CSVBOM))
	if err != nil {
		return err
	}
	exported, err := exp.ExportAll(chart.BaseName(filter, series.Metric, series), series)
	for _, path := range exported {
		metrics.ArtifactWritten(strings.TrimPrefix(filepath.Ext(path), "."))
		fmt.Fprintf(stdout, "%s saved!\n", filepath.Base(path))
	}
	return err
}

func kindOrDefault(err error) apperrors.Kind {
	if kind := apperrors.KindOf(err); kind != "" {
		return kind
	}
	return apperrors.KindIO
}
