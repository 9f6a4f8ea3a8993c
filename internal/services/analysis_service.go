package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"fuelcli/internal/config"
	"fuelcli/internal/dataprocessing"
	"fuelcli/internal/fillup"
	"fuelcli/internal/infrastructure"
	"fuelcli/internal/smoothing"
	apiv1 "fuelcli/pkg/contracts/api/v1"
	"fuelcli/pkg/contracts/domain"
	"fuelcli/pkg/contracts/events"
)

// WebSocketHub interface for WebSocket communication
type WebSocketHub interface {
	Broadcast(messageType string, data interface{})
}

// AnalysisService runs the fillup analysis pipeline: load a document, extract
// the log section, build the observation series and compute the requested
// smoothed variants. Results stay in memory; exporters persist them on demand.
type AnalysisService struct {
	cfg     config.AnalysisConfig
	loader  *dataprocessing.Loader
	dataDir string
	hub     WebSocketHub
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewAnalysisService creates a new analysis service with injected
// dependencies. The hub and metrics may be nil; event push and metric
// recording are then skipped.
func NewAnalysisService(cfg config.AnalysisConfig, loader *dataprocessing.Loader, dataDir string, hub WebSocketHub, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("AnalysisService initialized",
		slog.String("data_dir", dataDir),
		slog.String("section", cfg.Section),
		slog.Any("default_windows", cfg.Windows),
		slog.String("default_method", cfg.Method))

	return &AnalysisService{
		cfg:     cfg,
		loader:  loader,
		dataDir: dataDir,
		hub:     hub,
		metrics: metrics,
		logger:  logger,
	}
}

// SmoothedSeries couples one smoothing configuration with its output values,
// index-aligned with the observation series.
type SmoothedSeries struct {
	Label     string    `json:"label"`
	Window    int       `json:"window"`
	Method    string    `json:"method"`
	Weighting string    `json:"weighting"`
	Values    []float64 `json:"values"`
}

// SkippedRecord reports a malformed row the extraction skipped.
type SkippedRecord struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// AnalysisResult is the complete outcome of one analysis run.
type AnalysisResult struct {
	Document       string               `json:"document"`
	Section        string               `json:"section"`
	Observations   []fillup.Observation `json:"observations"`
	Smoothed       []SmoothedSeries     `json:"smoothed"`
	Insights       fillup.Insights      `json:"insights"`
	SkippedRecords []SkippedRecord      `json:"skipped_records,omitempty"`
	AnalyzedAt     time.Time            `json:"analyzed_at"`
}

// variant is one window/method combination to compute.
type variant struct {
	window int
	method smoothing.Method
}

// Analyze loads the requested document, runs the pipeline and computes every
// requested window/method combination concurrently. Engine invocations are
// independent, so one goroutine per combination is safe.
func (s *AnalysisService) Analyze(ctx context.Context, req apiv1.AnalyzeRequest) (*AnalysisResult, error) {
	start := time.Now()
	infrastructure.RecordActiveAnalysisChange(ctx, s.metrics, 1)
	defer infrastructure.RecordActiveAnalysisChange(ctx, s.metrics, -1)

	windows, methods, weighting, err := s.resolveParameters(req.Windows, req.Methods, req.Weighting)
	if err != nil {
		return nil, err
	}

	section := req.Section
	if section == "" {
		section = s.cfg.Section
	}

	doc, err := s.loadDocument(ctx, req.Document, req.Format)
	if err != nil {
		return nil, err
	}

	series, skipped, err := s.extractSeries(ctx, doc, section)
	if err != nil {
		infrastructure.RecordAnalysisMetrics(ctx, s.metrics, section, methodLabel(methods), time.Since(start), 0, err)
		return nil, err
	}

	variants := make([]variant, 0, len(windows)*len(methods))
	for _, m := range methods {
		for _, w := range windows {
			variants = append(variants, variant{window: w, method: m})
		}
	}

	consumptions := series.Consumptions()
	smoothed := make([]SmoothedSeries, len(variants))

	g, gctx := errgroup.WithContext(ctx)
	for i, v := range variants {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			values, err := smoothing.Smooth(consumptions, v.window, v.method, weighting)
			if err != nil {
				return fmt.Errorf("smooth %s window %d: %w", v.method, v.window, err)
			}
			smoothed[i] = SmoothedSeries{
				Label:     smoothing.Label(v.method, v.window),
				Window:    v.window,
				Method:    v.method.String(),
				Weighting: weighting.String(),
				Values:    values,
			}
			infrastructure.RecordWindowMetrics(gctx, s.metrics, v.method.String(), v.window)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		infrastructure.RecordAnalysisMetrics(ctx, s.metrics, section, methodLabel(methods), time.Since(start), series.Len(), err)
		return nil, err
	}

	result := &AnalysisResult{
		Document:       doc.Source,
		Section:        section,
		Observations:   series.Observations,
		Smoothed:       smoothed,
		Insights:       fillup.ComputeInsights(series),
		SkippedRecords: skipped,
		AnalyzedAt:     time.Now(),
	}

	infrastructure.RecordAnalysisMetrics(ctx, s.metrics, section, methodLabel(methods), time.Since(start), series.Len(), nil)
	s.logger.InfoContext(ctx, "analysis completed",
		slog.String("document", doc.Source),
		slog.String("section", section),
		slog.Int("observations", series.Len()),
		slog.Int("variants", len(variants)),
		slog.Int("skipped_records", len(skipped)),
		slog.Duration("duration", time.Since(start)))

	s.broadcastSnapshot(result, windows, methods)
	return result, nil
}

// Chart assembles the chart-ready payload for the renderer: x-axis odometer
// values, per-point date labels, the raw consumption line and one line per
// smoothed variant.
func (s *AnalysisService) Chart(ctx context.Context, req apiv1.ChartRequest) (*domain.Chart, error) {
	result, err := s.Analyze(ctx, apiv1.AnalyzeRequest{
		DocumentRequest: req.DocumentRequest,
		Windows:         req.Windows,
		Methods:         req.Methods,
		Weighting:       req.Weighting,
	})
	if err != nil {
		return nil, err
	}

	xs := make([]float64, len(result.Observations))
	labels := make([]string, len(result.Observations))
	raw := make([]float64, len(result.Observations))
	for i, o := range result.Observations {
		xs[i] = o.Odometer
		labels[i] = o.Date.Format("2006-01-02")
		raw[i] = o.Consumption
	}

	chart := &domain.Chart{
		Title:      fmt.Sprintf("Consumption: %s", result.Section),
		Document:   result.Document,
		Section:    result.Section,
		XOdometer:  xs,
		DateLabels: labels,
		Raw:        domain.ChartSeries{Label: "consumption", Values: raw},
		Smoothed:   make([]domain.ChartSeries, len(result.Smoothed)),
		BuiltAt:    time.Now(),
	}
	for i, sm := range result.Smoothed {
		chart.Smoothed[i] = domain.ChartSeries{
			Label:     sm.Label,
			Window:    sm.Window,
			Method:    sm.Method,
			Weighting: sm.Weighting,
			Values:    sm.Values,
		}
	}
	return chart, nil
}

// Series computes one smoothed series. Unset parameters fall back to the
// configured defaults; with several default windows the first one wins.
func (s *AnalysisService) Series(ctx context.Context, req apiv1.SeriesRequest) (*SmoothedSeries, error) {
	ar := apiv1.AnalyzeRequest{
		DocumentRequest: req.DocumentRequest,
		Weighting:       req.Weighting,
	}
	if req.Window > 0 {
		ar.Windows = []int{req.Window}
	} else if len(s.cfg.Windows) > 0 {
		ar.Windows = s.cfg.Windows[:1]
	}
	if req.Method != "" {
		ar.Methods = []string{req.Method}
	}

	result, err := s.Analyze(ctx, ar)
	if err != nil {
		return nil, err
	}
	return &result.Smoothed[0], nil
}

// ListDocuments discovers analyzable files in the data directory, newest
// first.
func (s *AnalysisService) ListDocuments(ctx context.Context) ([]dataprocessing.DocumentInfo, error) {
	docs, err := s.loader.ListDocuments(s.dataDir)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNoDocumentsFound
	}
	return docs, nil
}

// Observations runs the extraction without smoothing.
func (s *AnalysisService) Observations(ctx context.Context, req apiv1.DocumentRequest) (*fillup.Series, []SkippedRecord, error) {
	section := req.Section
	if section == "" {
		section = s.cfg.Section
	}

	doc, err := s.loadDocument(ctx, req.Document, req.Format)
	if err != nil {
		return nil, nil, err
	}
	return s.extractSeries(ctx, doc, section)
}

// Insights runs the extraction and summarizes it.
func (s *AnalysisService) Insights(ctx context.Context, req apiv1.DocumentRequest) (fillup.Insights, error) {
	series, _, err := s.Observations(ctx, req)
	if err != nil {
		return fillup.Insights{}, err
	}
	return fillup.ComputeInsights(series), nil
}

// resolveParameters applies configuration defaults and parses the smoothing
// parameters.
func (s *AnalysisService) resolveParameters(windows []int, methodNames []string, weightingName string) ([]int, []smoothing.Method, smoothing.Weighting, error) {
	if len(windows) == 0 {
		windows = s.cfg.Windows
	}
	if len(windows) == 0 {
		return nil, nil, 0, ErrNoWindows
	}
	for _, w := range windows {
		if w < 1 {
			return nil, nil, 0, fmt.Errorf("window %d: %w", w, smoothing.ErrInvalidWindow)
		}
	}

	if len(methodNames) == 0 {
		methodNames = []string{s.cfg.Method}
	}
	methods := make([]smoothing.Method, len(methodNames))
	for i, name := range methodNames {
		m, err := smoothing.ParseMethod(name)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		methods[i] = m
	}

	if weightingName == "" {
		weightingName = s.cfg.Weighting
	}
	weighting, err := smoothing.ParseWeighting(weightingName)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return windows, methods, weighting, nil
}

// loadDocument resolves the document reference and loads it. Bare names
// resolve against the data directory; an empty reference selects the newest
// analyzable file.
func (s *AnalysisService) loadDocument(ctx context.Context, document, format string) (*fillup.Document, error) {
	source, err := s.resolveSource(document)
	if err != nil {
		return nil, err
	}

	if format == "" {
		return s.loader.LoadAuto(ctx, source)
	}
	f, err := dataprocessing.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.loader.Load(ctx, source, f)
}

func (s *AnalysisService) resolveSource(document string) (string, error) {
	if strings.HasPrefix(document, dataprocessing.SheetsPrefix) {
		return document, nil
	}

	if document == "" {
		docs, err := s.loader.ListDocuments(s.dataDir)
		if err != nil {
			return "", err
		}
		if len(docs) == 0 {
			return "", ErrNoDocumentsFound
		}
		return docs[0].Path, nil
	}

	if _, err := os.Stat(document); err == nil {
		return document, nil
	}
	resolved := filepath.Join(s.dataDir, document)
	if _, err := os.Stat(resolved); err == nil {
		return resolved, nil
	}
	return "", fmt.Errorf("%q: %w", document, ErrDocumentNotFound)
}

// extractSeries runs locate, parse, filter and build on the document.
func (s *AnalysisService) extractSeries(ctx context.Context, doc *fillup.Document, section string) (*fillup.Series, []SkippedRecord, error) {
	sec, err := fillup.FindSection(doc, section)
	if err != nil {
		return nil, nil, err
	}

	records, malformed, err := fillup.ParseRecords(doc, sec, s.columns())
	if err != nil {
		return nil, nil, err
	}

	skipped := make([]SkippedRecord, 0, len(malformed))
	for _, m := range malformed {
		skipped = append(skipped, SkippedRecord{Line: m.Line, Reason: m.Error()})
		s.logger.WarnContext(ctx, "skipped malformed record",
			slog.String("document", doc.Source),
			slog.Int("line", m.Line),
			slog.String("reason", m.Error()))
	}
	if s.metrics != nil && len(skipped) > 0 {
		s.metrics.AnalysisSkippedRecords.Add(ctx, int64(len(skipped)))
	}

	series, err := fillup.BuildSeries(fillup.FilterFull(records))
	if err != nil {
		return nil, nil, err
	}
	if len(skipped) == 0 {
		skipped = nil
	}
	return series, skipped, nil
}

// columns maps the analysis configuration onto the extractor schema.
func (s *AnalysisService) columns() fillup.Columns {
	return fillup.Columns{
		Date:        s.cfg.DateColumn,
		Odometer:    s.cfg.OdometerColumn,
		Consumption: s.cfg.ConsumptionColumn,
		Full:        s.cfg.FullColumn,
		Note:        s.cfg.NoteColumn,
	}
}

func (s *AnalysisService) broadcastSnapshot(result *AnalysisResult, windows []int, methods []smoothing.Method) {
	if s.hub == nil {
		return
	}

	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.String()
	}

	s.hub.Broadcast(string(events.MessageTypeAnalysisSnapshot), events.AnalysisSnapshot{
		Document:        result.Document,
		Section:         result.Section,
		Observations:    len(result.Observations),
		SkippedRecords:  len(result.SkippedRecords),
		Windows:         windows,
		Methods:         names,
		MeanConsumption: result.Insights.MeanConsumption,
		Summary:         result.Insights.Summary(),
		AnalyzedAt:      result.AnalyzedAt,
	})
}

func methodLabel(methods []smoothing.Method) string {
	if len(methods) == 1 {
		return methods[0].String()
	}
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.String()
	}
	return strings.Join(names, ",")
}
