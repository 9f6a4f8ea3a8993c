package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"fuelcli/internal/config"
	apperrors "fuelcli/internal/errors"
	"fuelcli/internal/fillup"
)

// Format identifies the encoding of a fillup document source.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatWorkbook Format = "workbook"
	FormatSheets   Format = "sheets"
)

// SheetsPrefix marks a source string as a Google Sheets spreadsheet ID.
const SheetsPrefix = "sheets:"

var (
	csvPattern      = regexp.MustCompile(config.CSVDocumentPattern)
	workbookPattern = regexp.MustCompile(config.WorkbookDocumentPattern)
)

// ParseFormat parses a user-supplied format name.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return FormatCSV, nil
	case "workbook", "xlsx", "excel":
		return FormatWorkbook, nil
	case "sheets", "gsheets":
		return FormatSheets, nil
	}
	return "", fmt.Errorf("unknown document format %q", value)
}

// DetectFormat guesses the format from the source name. Sources with the
// sheets: prefix load from Google Sheets, files matching the workbook pattern
// load as xlsx, everything else as CSV.
func DetectFormat(source string) Format {
	if strings.HasPrefix(source, SheetsPrefix) {
		return FormatSheets
	}
	if workbookPattern.MatchString(strings.ToLower(source)) {
		return FormatWorkbook
	}
	return FormatCSV
}

// DocumentInfo describes one loadable document in the data directory.
type DocumentInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Format    Format    `json:"format"`
	SizeBytes int64     `json:"size_bytes"`
	Modified  time.Time `json:"modified"`
}

// Loader resolves document sources into line-oriented fillup documents.
type Loader struct {
	logger *slog.Logger
	sheets *SheetsClient
}

// NewLoader creates a loader. The sheets client may be nil when Google Sheets
// ingestion is not configured; sheets: sources then fail with a network error.
func NewLoader(logger *slog.Logger, sheets *SheetsClient) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger: logger.With(slog.String("component", "loader")),
		sheets: sheets,
	}
}

// Load reads the source into a document using the given format.
func (l *Loader) Load(ctx context.Context, source string, format Format) (*fillup.Document, error) {
	start := time.Now()

	var (
		doc *fillup.Document
		err error
	)

	switch format {
	case FormatCSV:
		doc, err = l.loadCSV(source)
	case FormatWorkbook:
		doc, err = ReadWorkbook(source, "")
	case FormatSheets:
		if l.sheets == nil {
			return nil, apperrors.NewNetworkError("google sheets ingestion is not configured", nil)
		}
		doc, err = l.sheets.Fetch(ctx, strings.TrimPrefix(source, SheetsPrefix))
	default:
		return nil, fmt.Errorf("unknown document format %q", format)
	}

	if err != nil {
		l.logger.ErrorContext(ctx, "document load failed",
			slog.String("source", source),
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		return nil, err
	}

	l.logger.InfoContext(ctx, "document loaded",
		slog.String("source", source),
		slog.String("format", string(format)),
		slog.Int("lines", len(doc.Lines)),
		slog.Duration("elapsed", time.Since(start)))

	return doc, nil
}

// LoadAuto reads the source with the format detected from its name.
func (l *Loader) LoadAuto(ctx context.Context, source string) (*fillup.Document, error) {
	return l.Load(ctx, source, DetectFormat(source))
}

// loadCSV reads a plain CSV document from disk.
func (l *Loader) loadCSV(path string) (*fillup.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open document %s", path), err)
	}
	defer f.Close()

	doc, err := fillup.ReadDocument(path, f)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read document %s", path), err)
	}
	return doc, nil
}

// ListDocuments scans the directory for loadable documents, newest first.
func (l *Loader) ListDocuments(dir string) ([]DocumentInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read data directory %s", dir), err)
	}

	var docs []DocumentInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := strings.ToLower(entry.Name())
		var format Format
		switch {
		case csvPattern.MatchString(name):
			format = FormatCSV
		case workbookPattern.MatchString(name):
			format = FormatWorkbook
		default:
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		docs = append(docs, DocumentInfo{
			Name:      entry.Name(),
			Path:      filepath.Join(dir, entry.Name()),
			Format:    format,
			SizeBytes: info.Size(),
			Modified:  info.ModTime(),
		})
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Modified.After(docs[j].Modified)
	})

	return docs, nil
}
