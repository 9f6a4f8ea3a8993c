package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "fuelcli/internal/errors"
	"fuelcli/internal/fillup"
)

// ReadWorkbook reads an xlsx workbook and converts the chosen sheet into a
// line-oriented fillup document. An empty sheet name selects the first sheet.
// Rows are re-serialized as CSV so section markers and table rows parse the
// same way they would in a plain CSV file.
func ReadWorkbook(path, sheet string) (*fillup.Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError(fmt.Sprintf("workbook %s has no sheets", path), nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q from %s", sheet, path), err)
	}

	return rowsToDocument(fmt.Sprintf("%s#%s", path, sheet), rows)
}

// rowsToDocument serializes spreadsheet rows into a CSV-shaped document.
// Trailing empty cells are dropped per row so that a single-cell marker row
// round-trips to an exact "## name" line. Spreadsheet readers also drop
// trailing blank cells from data rows, so rows shorter than their section's
// first row are padded back to that width, the same shape a trailing comma
// gives a CSV row.
func rowsToDocument(source string, rows [][]string) (*fillup.Document, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	headerWidth := 0
	for _, row := range rows {
		row = trimTrailingEmpty(row)
		switch {
		case len(row) == 1 && strings.HasPrefix(row[0], fillup.SectionMarkerPrefix):
			headerWidth = 0
		case len(row) == 0:
			// blank row
		case headerWidth == 0:
			headerWidth = len(row)
		case len(row) < headerWidth:
			padded := make([]string, headerWidth)
			copy(padded, row)
			row = padded
		}

		if err := w.Write(row); err != nil {
			return nil, apperrors.NewParsingError("failed to serialize spreadsheet row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.NewParsingError("failed to serialize spreadsheet rows", err)
	}

	return fillup.ReadDocument(source, &buf)
}

// trimTrailingEmpty removes trailing empty cells from a spreadsheet row.
func trimTrailingEmpty(row []string) []string {
	end := len(row)
	for end > 0 && row[end-1] == "" {
		end--
	}
	return row[:end]
}
