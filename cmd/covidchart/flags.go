package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"covidcli/internal/config"
)

// listValue is a comma separated flag value
type listValue struct {
	items *[]string
}

func (l listValue) String() string {
	if l.items == nil {
		return ""
	}
	return strings.Join(*l.items, ",")
}

func (l listValue) Set(s string) error {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	*l.items = items
	return nil
}

// cliOptions holds flags that are not part of the configuration
type cliOptions struct {
	version bool
}

// parseFlags overlays command line flags onto cfg. Flag defaults are the
// values cfg already holds, so an unset flag keeps the configured value.
// Most options have a long name and a short alias.
func parseFlags(args []string, cfg *config.Config, output io.Writer) (*cliOptions, error) {
	fs := flag.NewFlagSet("covidchart", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "Usage: covidchart [flags]\n\n")
		fmt.Fprintf(output, "Charts per-day changes of a JHU CSSE COVID-19 daily report metric.\n\n")
		fs.PrintDefaults()
	}

	stringFlag := func(p *string, long, short, usage string) {
		fs.StringVar(p, long, *p, usage)
		if short != "" {
			fs.StringVar(p, short, *p, "shorthand for -"+long)
		}
	}

	stringFlag(&cfg.Dataset.StartDate, "start_date", "sd", "first reported day, MM-DD-YYYY")
	stringFlag(&cfg.Dataset.EndDate, "end_date", "ed", "last reported day, MM-DD-YYYY or latest")
	stringFlag(&cfg.Dataset.Metric, "filter_column", "f", "numeric column to chart, e.g. Confirmed or Deaths")
	stringFlag(&cfg.Dataset.Country, "country", "c", "country to match")
	stringFlag(&cfg.Dataset.State, "state", "s", "state or province to match")
	stringFlag(&cfg.Dataset.County, "county", "co", "county to match")
	stringFlag(&cfg.Chart.Title, "graph_title", "g", "chart title (derived from the location when empty)")
	stringFlag(&cfg.Chart.YLabel, "y_label", "y", "value axis label")
	stringFlag(&cfg.Dataset.RepoPath, "repo_path", "r", "directory containing the COVID-19 dataset clone")
	stringFlag(&cfg.Chart.Format, "format", "", "chart format: png, svg or pdf")
	stringFlag(&cfg.Chart.OutputDir, "out", "", "output directory")
	stringFlag(&cfg.Logging.Level, "log-level", "", "log level: debug, info, warn or error")
	stringFlag(&cfg.Metrics.File, "metrics_file", "", "write run metrics in Prometheus text format to this file")

	fs.Float64Var(&cfg.Chart.YLimit, "y_limit", cfg.Chart.YLimit, "value axis maximum (largest delta when 0)")
	fs.Float64Var(&cfg.Chart.YLimit, "yl", cfg.Chart.YLimit, "shorthand for -y_limit")

	fs.Var(listValue{items: &cfg.Export.Formats}, "export", "comma separated series exports: csv, xlsx")
	fs.BoolVar(&cfg.Export.CSVBOM, "csv_bom", cfg.Export.CSVBOM, "start CSV exports with a UTF-8 byte order mark")

	opts := &cliOptions{}
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}
