package dataprocessing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelcli/internal/config"
	apperrors "fuelcli/internal/errors"
)

func TestValuesToRows(t *testing.T) {
	rows := valuesToRows([][]interface{}{
		{"## Log"},
		{"Date", "Odometer", "Consumption", "Full"},
		{"2024-01-05", 1000.0, "5,6", true},
		{"2024-01-19", nil, 6.2},
		{},
	})

	want := [][]string{
		{"## Log"},
		{"Date", "Odometer", "Consumption", "Full"},
		{"2024-01-05", "1000", "5,6", "true"},
		{"2024-01-19", "", "6.2"},
		{},
	}
	assert.Equal(t, want, rows)
}

func TestNewSheetsClient_NoCredentials(t *testing.T) {
	cfg := config.SheetsConfig{}

	_, err := NewSheetsClient(context.Background(), cfg, "", nil)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
}

func TestNewSheetsClient_MissingCredentialsFile(t *testing.T) {
	// A configured but absent credentials file falls through; with no API
	// key either, construction must fail rather than call out unauthenticated.
	cfg := config.SheetsConfig{CredentialsFile: "credentials.json"}

	_, err := NewSheetsClient(context.Background(), cfg, "/nonexistent/credentials.json", nil)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
}
