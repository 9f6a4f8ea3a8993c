package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"fuelcli/internal/config"
	apperrors "fuelcli/internal/errors"
	"fuelcli/internal/fillup"
)

// SheetsClient fetches fillup documents from the Google Sheets API.
type SheetsClient struct {
	service   *sheets.Service
	logger    *slog.Logger
	readRange string
}

// NewSheetsClient builds a client from the sheets configuration. Credentials
// resolve in order: service account credentials file, then API key.
func NewSheetsClient(ctx context.Context, cfg config.SheetsConfig, credentialsPath string, logger *slog.Logger) (*SheetsClient, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var opts []option.ClientOption
	switch {
	case credentialsPath != "" && config.FileExists(credentialsPath):
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, apperrors.NewConfigError("no google sheets credentials configured", nil)
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to create sheets service", err)
	}

	readRange := cfg.Range
	if readRange == "" {
		readRange = "A:Z"
	}

	return &SheetsClient{
		service:   service,
		logger:    logger.With(slog.String("component", "sheets")),
		readRange: readRange,
	}, nil
}

// Fetch reads the configured range of the spreadsheet into a document.
func (c *SheetsClient) Fetch(ctx context.Context, spreadsheetID string) (*fillup.Document, error) {
	if spreadsheetID == "" {
		return nil, apperrors.NewAppValidationError("spreadsheet id must not be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, config.SheetsFetchTimeout)
	defer cancel()

	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, c.readRange).Context(ctx).Do()
	if err != nil {
		return nil, apperrors.NewNetworkError(fmt.Sprintf("failed to fetch spreadsheet %s", spreadsheetID), err)
	}

	rows := valuesToRows(resp.Values)
	c.logger.InfoContext(ctx, "spreadsheet fetched",
		slog.String("spreadsheet_id", spreadsheetID),
		slog.String("range", c.readRange),
		slog.Int("rows", len(rows)))

	return rowsToDocument(SheetsPrefix+spreadsheetID, rows)
}

// valuesToRows converts the API's dynamically typed cells to strings.
func valuesToRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, cell := range row {
			switch v := cell.(type) {
			case string:
				cells[j] = v
			case nil:
				cells[j] = ""
			default:
				cells[j] = fmt.Sprint(v)
			}
		}
		rows[i] = cells
	}
	return rows
}
