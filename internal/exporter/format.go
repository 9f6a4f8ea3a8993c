package exporter

import (
	"fmt"
	"time"

	"fuelcli/internal/fillup"
)

// formatFloat formats a float64 value for CSV output with exactly 2 decimal places
func formatFloat(f float64) string {
	// Always format with exactly 2 decimal places for consistency
	// This ensures values like 5.6 appear as 5.60 in CSV
	return fmt.Sprintf("%.2f", f)
}

// formatDate formats a date column value
func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// formatOptional formats an optional value; missing stays an empty cell
func formatOptional(o fillup.Optional) string {
	if !o.Valid {
		return ""
	}
	return formatFloat(o.Value)
}
