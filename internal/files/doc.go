// Package files provides snapshot discovery and artifact writing for covidchart.
//
// This package contains two main components:
//
// Discovery: Lists the MM-DD-YYYY.csv daily reports of a JHU CSSE dataset
// clone in date order and resolves a start/end date range to the list of
// snapshots to process, including the baseline day before the start date.
//
// Manager: Writes output artifacts into the output directory through a
// temporary file and rename, so readers never observe a partial chart or
// export.
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.DailyReportsDir, logger)
//	selected, err := discovery.SelectRange("03-23-2020", "latest")
//
//	manager := files.NewManager(paths, logger)
//	written, err := manager.WriteFile("chart.png", func(w io.Writer) error {
//	    return chart.Write(w, series, opts)
//	})
package files
