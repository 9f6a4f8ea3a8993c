package dataprocessing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fuelcli/internal/errors"
	"fuelcli/internal/fillup"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    Format
		wantErr bool
	}{
		{name: "csv", value: "csv", want: FormatCSV},
		{name: "workbook", value: "workbook", want: FormatWorkbook},
		{name: "xlsx alias", value: "xlsx", want: FormatWorkbook},
		{name: "excel alias", value: "Excel", want: FormatWorkbook},
		{name: "sheets", value: "sheets", want: FormatSheets},
		{name: "padded", value: "  CSV  ", want: FormatCSV},
		{name: "unknown", value: "parquet", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		source string
		want   Format
	}{
		{source: "data/fillups.csv", want: FormatCSV},
		{source: "data/fillups.xlsx", want: FormatWorkbook},
		{source: "DATA/FILLUPS.XLSX", want: FormatWorkbook},
		{source: "sheets:1aBcD", want: FormatSheets},
		{source: "fillups.txt", want: FormatCSV},
		{source: "fillups", want: FormatCSV},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.source))
		})
	}
}

func TestLoader_LoadCSV(t *testing.T) {
	content := "Vehicle fillup export\n" +
		"\n" +
		"## Log\n" +
		"Date,Odometer,Consumption,Full,Note\n" +
		"2024-01-05,1000,6.0,yes,\n" +
		"2024-01-19,1450,5.6,x,4.8 l extra\n" +
		"\n" +
		"## Stations\n" +
		"Name\n"
	path := filepath.Join(t.TempDir(), "fillups.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	loader := NewLoader(nil, nil)
	doc, err := loader.Load(context.Background(), path, FormatCSV)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, path, doc.Source)
	assert.Len(t, doc.Lines, 9)

	sec, err := fillup.FindSection(doc, "Log")
	require.NoError(t, err)
	records, skipped, err := fillup.ParseRecords(doc, sec, fillup.DefaultColumns())
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-01-05", records[0].Date)
}

func TestLoader_LoadAuto(t *testing.T) {
	content := "## Log\nDate,Odometer,Consumption,Full\n2024-01-05,1000,6.0,yes\n"
	path := filepath.Join(t.TempDir(), "fillups.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	loader := NewLoader(nil, nil)
	doc, err := loader.LoadAuto(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, doc.Lines, 3)
}

func TestLoader_LoadMissingFile(t *testing.T) {
	loader := NewLoader(nil, nil)
	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), FormatCSV)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)
}

func TestLoader_LoadUnknownFormat(t *testing.T) {
	loader := NewLoader(nil, nil)
	_, err := loader.Load(context.Background(), "fillups.csv", Format("parquet"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown document format")
}

func TestLoader_SheetsNotConfigured(t *testing.T) {
	loader := NewLoader(nil, nil)
	_, err := loader.Load(context.Background(), "sheets:1aBcD", FormatSheets)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeNetwork, appErr.Type)
}

func TestLoader_ListDocuments(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "january.csv")
	require.NoError(t, os.WriteFile(older, []byte("data"), 0644))
	require.NoError(t, os.Chtimes(older, time.Now().Add(-time.Hour), time.Now().Add(-time.Hour)))

	newer := filepath.Join(dir, "february.xlsx")
	require.NoError(t, os.WriteFile(newer, []byte("data"), 0644))

	// Not loadable, must be ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.csv"), 0755))

	loader := NewLoader(nil, nil)
	docs, err := loader.ListDocuments(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// Newest first
	assert.Equal(t, "february.xlsx", docs[0].Name)
	assert.Equal(t, FormatWorkbook, docs[0].Format)
	assert.Equal(t, "january.csv", docs[1].Name)
	assert.Equal(t, FormatCSV, docs[1].Format)
	assert.Equal(t, int64(4), docs[1].SizeBytes)
	assert.Equal(t, older, docs[1].Path)
}

func TestLoader_ListDocumentsMissingDir(t *testing.T) {
	loader := NewLoader(nil, nil)
	_, err := loader.ListDocuments(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)
}
