package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"fuelcli/internal/config"
	"fuelcli/internal/fillup"
	"fuelcli/internal/infrastructure"
	"fuelcli/internal/services"
)

// ReportWriter produces the analysis report files: the observation table, the
// smoothed-series table and the full JSON result. The pipeline itself stays
// persistence-free; these writers run only on request.
type ReportWriter struct {
	csv     *CSVWriter
	paths   *config.Paths
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewReportWriter creates a report writer. Metrics may be nil.
func NewReportWriter(paths *config.Paths, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{
		csv:     NewCSVWriter(paths),
		paths:   paths,
		metrics: metrics,
		logger:  logger,
	}
}

// WriteObservations writes the observation series as CSV: one row per fillup,
// dates ascending, missing extra-fuel values as empty cells.
func (w *ReportWriter) WriteObservations(ctx context.Context, path string, observations []fillup.Observation) error {
	records := make([][]string, len(observations))
	for i, o := range observations {
		records[i] = []string{
			formatDate(o.Date),
			formatFloat(o.Odometer),
			formatFloat(o.Consumption),
			formatOptional(o.Extra),
		}
	}

	headers := []string{"date", "odometer", "consumption", "extra_fuel"}
	if err := w.csv.WriteSimpleCSV(path, headers, records); err != nil {
		return fmt.Errorf("write observations: %w", err)
	}

	w.recordExport(ctx, "observations")
	w.logger.InfoContext(ctx, "observations written",
		slog.String("path", path),
		slog.Int("rows", len(observations)))
	return nil
}

// WriteSmoothed writes the smoothed-series table: the observation columns
// followed by one column per smoothed variant, all index-aligned.
func (w *ReportWriter) WriteSmoothed(ctx context.Context, path string, observations []fillup.Observation, smoothed []services.SmoothedSeries) error {
	headers := []string{"date", "odometer", "consumption"}
	for _, sm := range smoothed {
		headers = append(headers, sm.Label)
	}

	sw, err := w.csv.CreateStreamWriter(path, headers)
	if err != nil {
		return fmt.Errorf("write smoothed series: %w", err)
	}

	for i, o := range observations {
		row := []string{
			formatDate(o.Date),
			formatFloat(o.Odometer),
			formatFloat(o.Consumption),
		}
		for _, sm := range smoothed {
			row = append(row, formatFloat(sm.Values[i]))
		}
		if err := sw.WriteRecord(row); err != nil {
			sw.Close()
			return fmt.Errorf("write smoothed row %d: %w", i, err)
		}
	}
	if err := sw.Close(); err != nil {
		return fmt.Errorf("write smoothed series: %w", err)
	}

	w.recordExport(ctx, "smoothed")
	w.logger.InfoContext(ctx, "smoothed series written",
		slog.String("path", path),
		slog.Int("rows", len(observations)),
		slog.Int("variants", len(smoothed)))
	return nil
}

// WriteJSON writes the full analysis result as indented JSON.
func (w *ReportWriter) WriteJSON(ctx context.Context, path string, payload interface{}) error {
	fullPath := path
	if !filepath.IsAbs(fullPath) {
		fullPath = w.paths.GetReportPath(fullPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal analysis result: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("write analysis result: %w", err)
	}

	w.recordExport(ctx, "json")
	w.logger.InfoContext(ctx, "analysis result written",
		slog.String("path", fullPath),
		slog.Int("bytes", len(data)))
	return nil
}

// WriteAnalysis writes the well-known report files for a result and returns
// the paths written. The JSON result is optional.
func (w *ReportWriter) WriteAnalysis(ctx context.Context, result *services.AnalysisResult, withJSON bool) ([]string, error) {
	written := make([]string, 0, 3)

	if err := w.WriteObservations(ctx, w.paths.ObservationsCSV, result.Observations); err != nil {
		return written, err
	}
	written = append(written, w.paths.ObservationsCSV)

	if err := w.WriteSmoothed(ctx, w.paths.SmoothedCSV, result.Observations, result.Smoothed); err != nil {
		return written, err
	}
	written = append(written, w.paths.SmoothedCSV)

	if withJSON {
		if err := w.WriteJSON(ctx, w.paths.AnalysisJSON, result); err != nil {
			return written, err
		}
		written = append(written, w.paths.AnalysisJSON)
	}

	return written, nil
}

func (w *ReportWriter) recordExport(ctx context.Context, kind string) {
	if w.metrics == nil {
		return
	}
	w.metrics.ExportWritesTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("export.kind", kind)))
}
