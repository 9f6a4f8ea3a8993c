package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fuelcli/internal/config"
	"fuelcli/internal/dataprocessing"
	"fuelcli/internal/exporter"
	"fuelcli/internal/fillup"
	"fuelcli/internal/infrastructure"
	"fuelcli/internal/services"
	"fuelcli/internal/smoothing"
	apiv1 "fuelcli/pkg/contracts/api/v1"
)

func main() {
	in := flag.String("in", "", "input document: a path, a name in the data directory, or sheets:<spreadsheet id> (defaults to the newest document)")
	format := flag.String("format", "", "document format: csv, xlsx or sheets (defaults to detection from the name)")
	section := flag.String("section", "", "section to extract (defaults to the configured section)")
	windowsFlag := flag.String("windows", "", "comma-separated smoothing windows, e.g. 3,9 (defaults from config)")
	method := flag.String("method", "", "smoothing method: lagging, centered or shrinking (defaults from config)")
	weighting := flag.String("weighting", "", "kernel weighting: uniform or exponential (defaults from config)")
	outDir := flag.String("out", "", "output directory for report files (defaults to data/reports relative to executable)")
	withJSON := flag.Bool("json", false, "also write the full analysis result as JSON")
	flag.Parse()

	// Initialize paths first to get default directories
	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	// Load configuration with fallback defaults
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("fillup-report.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	// Redirect the well-known report files when -out is given
	if *outDir != "" {
		paths.ReportsDir = *outDir
		paths.ObservationsCSV = filepath.Join(*outDir, "observations.csv")
		paths.SmoothedCSV = filepath.Join(*outDir, "smoothed.csv")
		paths.AnalysisJSON = filepath.Join(*outDir, "analysis.json")
	}
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	windows, err := parseWindows(*windowsFlag)
	if err != nil {
		logger.Error("Invalid -windows value",
			slog.String("value", *windowsFlag),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	// "sheet" reads naturally on the command line; the loader calls it "sheets"
	if strings.EqualFold(*format, "sheet") {
		*format = "sheets"
	}

	ctx := context.Background()

	// Google Sheets is only dialed when the run needs it; a configured
	// spreadsheet without credentials degrades to local documents.
	needsSheets := strings.HasPrefix(*in, dataprocessing.SheetsPrefix) ||
		strings.EqualFold(*format, "sheets")
	var sheets *dataprocessing.SheetsClient
	if needsSheets || cfg.Sheets.SpreadsheetID != "" {
		sheets, err = dataprocessing.NewSheetsClient(ctx, cfg.Sheets, paths.GetCredentialsPath(), logger)
		if err != nil {
			if needsSheets {
				logger.Error("Google Sheets client initialization failed",
					slog.String("credentials", paths.GetCredentialsPath()),
					slog.String("error", err.Error()))
				os.Exit(1)
			}
			logger.Warn("Google Sheets client unavailable, using local documents only",
				slog.String("error", err.Error()))
			sheets = nil
		}
	}

	loader := dataprocessing.NewLoader(logger, sheets)
	service := services.NewAnalysisService(cfg.Analysis, loader, paths.DataDir, nil, nil, logger)

	var methods []string
	if *method != "" {
		methods = []string{*method}
	}

	logger.Info("Starting fillup analysis",
		slog.String("document", *in),
		slog.String("section", *section),
		slog.Any("windows", windows),
		slog.Any("methods", methods),
		slog.String("data_dir", paths.DataDir),
		slog.String("reports_dir", paths.ReportsDir))

	result, err := service.Analyze(ctx, apiv1.AnalyzeRequest{
		DocumentRequest: apiv1.DocumentRequest{
			Document: *in,
			Format:   *format,
			Section:  *section,
		},
		Windows:   windows,
		Methods:   methods,
		Weighting: *weighting,
	})
	if err != nil {
		exitForError(logger, err)
	}

	logger.Info("Analysis complete",
		slog.String("document", result.Document),
		slog.String("section", result.Section),
		slog.Int("observations", len(result.Observations)),
		slog.Int("skipped_records", len(result.SkippedRecords)),
		slog.Int("smoothed_variants", len(result.Smoothed)))

	for _, skipped := range result.SkippedRecords {
		logger.Warn("Skipped malformed record",
			slog.Int("line", skipped.Line),
			slog.String("reason", skipped.Reason))
	}

	writer := exporter.NewReportWriter(paths, nil, logger)
	written, err := writer.WriteAnalysis(ctx, result, *withJSON)
	if err != nil {
		logger.Error("Failed to write report files", "error", err)
		os.Exit(1)
	}

	logger.Info("Report files written", slog.Any("files", written))

	printSummary(result)
}

// parseWindows parses the -windows comma list. An empty value means the
// configured defaults apply.
func parseWindows(value string) ([]int, error) {
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")
	windows := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		w, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("window %q is not a number", part)
		}
		windows = append(windows, w)
	}
	if len(windows) == 0 {
		return nil, fmt.Errorf("no windows in %q", value)
	}
	return windows, nil
}

// errorKind names the failure taxonomy so each kind gets its own
// operator-facing message.
type errorKind int

const (
	kindOther errorKind = iota
	kindNoDocuments
	kindDocumentNotFound
	kindSectionNotFound
	kindEmptySeries
	kindInvalidObservation
	kindInvalidWindow
	kindInvalidInput
)

func classifyError(err error) errorKind {
	var invalidObs *fillup.InvalidObservationError
	switch {
	case errors.Is(err, services.ErrNoDocumentsFound):
		return kindNoDocuments
	case errors.Is(err, services.ErrDocumentNotFound):
		return kindDocumentNotFound
	case errors.Is(err, fillup.ErrSectionNotFound):
		return kindSectionNotFound
	case errors.Is(err, fillup.ErrEmptySeries):
		return kindEmptySeries
	case errors.As(err, &invalidObs):
		return kindInvalidObservation
	case errors.Is(err, smoothing.ErrInvalidWindow):
		return kindInvalidWindow
	case errors.Is(err, services.ErrInvalidInput):
		return kindInvalidInput
	default:
		return kindOther
	}
}

// exitForError reports the failure with a message per error kind, then exits
// non-zero.
func exitForError(logger *slog.Logger, err error) {
	switch classifyError(err) {
	case kindNoDocuments:
		logger.Error("No analyzable documents found",
			"error", err,
			"hint", "place a fillup CSV or workbook in the data directory, or pass -in")
	case kindDocumentNotFound:
		logger.Error("Document not found", "error", err)
	case kindSectionNotFound:
		logger.Error("Section not found in document",
			"error", err,
			"hint", `check the marker line, e.g. "## Log", or pass -section`)
	case kindEmptySeries:
		logger.Error("No valid observations left after cleaning", "error", err)
	case kindInvalidObservation:
		var invalidObs *fillup.InvalidObservationError
		errors.As(err, &invalidObs)
		logger.Error("Invalid observation aborts extraction",
			"line", invalidObs.Line,
			"field", invalidObs.Field,
			"value", invalidObs.Value,
			"error", invalidObs.Err)
	case kindInvalidWindow:
		logger.Error("Invalid smoothing window", "error", err)
	case kindInvalidInput:
		logger.Error("Invalid analysis parameters", "error", err)
	default:
		logger.Error("Analysis failed", "error", err)
	}
	os.Exit(1)
}

// printSummary prints the human-readable result table.
func printSummary(result *services.AnalysisResult) {
	ins := result.Insights

	fmt.Println("\n=== FILLUP ANALYSIS SUMMARY ===")
	fmt.Printf("Document:     %s (section %q)\n", result.Document, result.Section)
	fmt.Printf("Observations: %d (%d skipped)\n", ins.Observations, len(result.SkippedRecords))
	fmt.Printf("Period:       %s to %s (%d days)\n",
		ins.FirstDate.Format("2006-01-02"),
		ins.LastDate.Format("2006-01-02"),
		ins.SpanDays)
	fmt.Printf("Distance:     %.0f\n", ins.TotalDistance)
	fmt.Printf("Consumption:  mean %.2f | best %.2f | worst %.2f | trend %.2f\n",
		ins.MeanConsumption, ins.BestConsumption, ins.WorstConsumption, ins.ConsumptionTrend)
	if ins.TotalExtraFuel > 0 {
		fmt.Printf("Extra fuel:   %.2f\n", ins.TotalExtraFuel)
	}

	if len(result.Smoothed) == 0 {
		return
	}
	fmt.Println("\nSmoothed variants (latest value):")
	for _, sm := range result.Smoothed {
		if len(sm.Values) == 0 {
			continue
		}
		fmt.Printf("  %-24s %8.2f\n", sm.Label, sm.Values[len(sm.Values)-1])
	}
}
