// Package dataprocessing turns a run of daily report snapshots into a
// per-day delta series.
//
// # Stages
//
// A Processor runs four stages in order, each consuming the whole output of
// the previous one:
//
//  1. Select: a SnapshotSelector resolves the date range to daily report
//     files, baseline day first
//  2. Load: ParseFile reads every file into a domain.Snapshot
//  3. Filter: a ScopeFilter keeps the rows of one geographic scope, picking
//     the column names of whichever SchemaEra the snapshot was written in
//  4. Aggregate: BuildSeries sums the metric per day and takes first
//     differences; DropBaseline removes the baseline day
//
// # Usage
//
//	discovery := files.NewDiscovery(paths.DailyReportsDir, logger)
//	processor := dataprocessing.NewProcessor(discovery, logger)
//	result, err := processor.Run(ctx, dataprocessing.Request{
//	    StartDate: "03-23-2020",
//	    EndDate:   "latest",
//	    Metric:    "Confirmed",
//	    Filter:    domain.LocationFilter{Country: "US", State: "Florida"},
//	})
//
// # Error Handling
//
// Every stage returns *errors.PipelineError values. Any error aborts the
// run; no day is ever skipped, since a gap would shift every later delta.
package dataprocessing
