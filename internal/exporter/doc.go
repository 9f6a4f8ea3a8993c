// Package exporter provides report export functionality for FuelPulse.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility.
//
// ReportWriter: Writes the analysis report files, the observation table, the
// smoothed-series table with one column per variant, and the full JSON result.
//
// Example usage:
//
//	writer := exporter.NewReportWriter(paths, metrics, logger)
//
//	// Write the well-known report files for an analysis result
//	files, err := writer.WriteAnalysis(ctx, result, true)
//
//	// Or write a single table to a chosen location
//	err = writer.WriteObservations(ctx, "observations.csv", result.Observations)
package exporter
