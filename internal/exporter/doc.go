// Package exporter writes delta series as tabular files next to the chart.
//
// CSVWriter and XLSXWriter share the Date,Label,Total,Delta column layout.
// Both write through files.Manager, so an export either lands complete or
// not at all.
//
// Example usage:
//
//	exp, err := exporter.New(manager, []string{"csv", "xlsx"})
//	if err != nil {
//	    return err
//	}
//	written, err := exp.ExportAll("USFloridaPascoConfirmed_03-23_03-25", series)
package exporter
