package fillup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fuelcli/internal/errors"
)

func parseLog(t *testing.T, lines []string, cols Columns) ([]Record, []*MalformedRecordError, error) {
	t.Helper()
	doc := NewDocument("test.csv", lines)
	sec, err := FindSection(doc, "Log")
	require.NoError(t, err)
	return ParseRecords(doc, sec, cols)
}

func TestParseRecords(t *testing.T) {
	records, skipped, err := parseLog(t, []string{
		"## Log",
		`"Date","Odometer","Consumption","Full","Note"`,
		"2024-01-05,1200,5.6,1,",
		`2024-01-19,1800,6.1,1,"4.8 liters extra"`,
	}, DefaultColumns())

	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, records, 2)

	assert.Equal(t, Record{
		Date:        "2024-01-05",
		Odometer:    "1200",
		Consumption: "5.6",
		Full:        "1",
		Note:        "",
		Line:        3,
	}, records[0])
	assert.Equal(t, "4.8 liters extra", records[1].Note)
	assert.Equal(t, 4, records[1].Line)
}

func TestParseRecords_SkipsMalformedRows(t *testing.T) {
	records, skipped, err := parseLog(t, []string{
		"## Log",
		"Date,Odometer,Consumption,Full,Note",
		"2024-01-05,1200,5.6,1",
		`2024-01-12,"1500,5.9,1,broken quote`,
		"2024-01-19,1800,6.1,1,",
	}, DefaultColumns())

	require.NoError(t, err, "row failures must not abort the extraction")
	require.Len(t, records, 1)
	assert.Equal(t, "2024-01-19", records[0].Date)

	require.Len(t, skipped, 2)
	assert.Equal(t, 3, skipped[0].Line)
	assert.Contains(t, skipped[0].Error(), "expected 5 fields, got 4")
	assert.Equal(t, 4, skipped[1].Line)
}

func TestParseRecords_SkipsBlankLines(t *testing.T) {
	records, skipped, err := parseLog(t, []string{
		"## Log",
		"Date,Odometer,Consumption,Full,Note",
		"",
		"2024-01-05,1200,5.6,1,",
		"   ",
	}, DefaultColumns())

	require.NoError(t, err)
	assert.Empty(t, skipped, "blank lines are not malformed records")
	require.Len(t, records, 1)
}

func TestParseRecords_MissingColumn(t *testing.T) {
	_, _, err := parseLog(t, []string{
		"## Log",
		"Date,Odometer,Consumption,Note",
		"2024-01-05,1200,5.6,",
	}, DefaultColumns())

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
	assert.Contains(t, err.Error(), `"Full"`)
}

func TestParseRecords_NoteColumnOptional(t *testing.T) {
	records, skipped, err := parseLog(t, []string{
		"## Log",
		"Date,Odometer,Consumption,Full",
		"2024-01-05,1200,5.6,1",
	}, DefaultColumns())

	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Note)
}

func TestParseRecords_EmptySection(t *testing.T) {
	doc := NewDocument("test.csv", []string{"## Log", "## B"})
	sec, err := FindSection(doc, "Log")
	require.NoError(t, err)

	_, _, err = ParseRecords(doc, sec, DefaultColumns())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestParseRecords_CustomColumns(t *testing.T) {
	cols := Columns{
		Date:        "Datum",
		Odometer:    "Stand",
		Consumption: "Verbrauch",
		Full:        "Voll",
		Note:        "Bemerkung",
	}

	records, skipped, err := parseLog(t, []string{
		"## Log",
		"Datum,Stand,Verbrauch,Voll,Bemerkung",
		"05.01.2024,1200,\"5,6\",x,",
	}, cols)

	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, "05.01.2024", records[0].Date)
	assert.Equal(t, "5,6", records[0].Consumption)
}

func TestDefaultColumns(t *testing.T) {
	cols := DefaultColumns()
	assert.Equal(t, "Date", cols.Date)
	assert.Equal(t, "Odometer", cols.Odometer)
	assert.Equal(t, "Consumption", cols.Consumption)
	assert.Equal(t, "Full", cols.Full)
	assert.Equal(t, "Note", cols.Note)
}
