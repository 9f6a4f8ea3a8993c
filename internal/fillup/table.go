package fillup

import (
	"encoding/csv"
	"fmt"
	"strings"

	apperrors "fuelcli/internal/errors"
)

// Columns names the document columns the extractor binds against. The values
// must match the header row of the log section verbatim.
type Columns struct {
	Date        string `json:"date" yaml:"date"`
	Odometer    string `json:"odometer" yaml:"odometer"`
	Consumption string `json:"consumption" yaml:"consumption"`
	Full        string `json:"full" yaml:"full"`
	Note        string `json:"note" yaml:"note"`
}

// DefaultColumns returns the identifiers used by the stock fillup export.
func DefaultColumns() Columns {
	return Columns{
		Date:        "Date",
		Odometer:    "Odometer",
		Consumption: "Consumption",
		Full:        "Full",
		Note:        "Note",
	}
}

// Record is one raw data row bound to the fixed schema. Values stay untouched
// strings until BuildSeries validates them; Line is the 1-based line number in
// the source document for diagnostics.
type Record struct {
	Date        string
	Odometer    string
	Consumption string
	Full        string
	Note        string
	Line        int
}

// ParseRecords parses a section's header row and binds every data row to the
// Record schema. The first line of the section must be a CSV header naming at
// least the date, odometer, consumption and full-flag columns; the note column
// is optional and rows simply carry an empty note when it is absent. Rows with
// broken quoting or the wrong field count are skipped and reported in the
// returned slice without aborting the extraction; blank lines are skipped
// silently.
func ParseRecords(doc *Document, sec Section, cols Columns) ([]Record, []*MalformedRecordError, error) {
	lines := doc.SectionLines(sec)
	if len(lines) == 0 {
		return nil, nil, apperrors.NewParsingError(
			fmt.Sprintf("section %q has no header row", sec.Name), nil)
	}

	header, err := splitRow(lines[0])
	if err != nil {
		return nil, nil, apperrors.NewParsingError(
			fmt.Sprintf("section %q header is not valid CSV", sec.Name), err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{cols.Date, cols.Odometer, cols.Consumption, cols.Full} {
		if _, ok := index[required]; !ok {
			return nil, nil, apperrors.NewParsingError(
				fmt.Sprintf("section %q header is missing column %q", sec.Name, required), nil)
		}
	}
	noteIdx, hasNote := index[cols.Note]

	var (
		records []Record
		skipped []*MalformedRecordError
	)
	for i, line := range lines[1:] {
		lineNum := sec.Start + 1 + i + 1 // 1-based position in the document
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields, err := splitRow(line)
		if err != nil {
			skipped = append(skipped, &MalformedRecordError{Line: lineNum, Err: err})
			continue
		}
		if len(fields) != len(header) {
			skipped = append(skipped, &MalformedRecordError{
				Line: lineNum,
				Err:  fmt.Errorf("expected %d fields, got %d", len(header), len(fields)),
			})
			continue
		}

		rec := Record{
			Date:        fields[index[cols.Date]],
			Odometer:    fields[index[cols.Odometer]],
			Consumption: fields[index[cols.Consumption]],
			Full:        fields[index[cols.Full]],
			Line:        lineNum,
		}
		if hasNote {
			rec.Note = fields[noteIdx]
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

// splitRow parses a single CSV row with standard quoting (quoted fields,
// doubled-quote escape). Parsing per line keeps row failures independent of
// one another.
func splitRow(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	return r.Read()
}
