// Package config provides centralized configuration management for FuelPulse.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration files (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern FUEL_* for namespacing:
//
//	FUEL_SERVER_PORT=8080
//	FUEL_LOGGING_LEVEL=info
//	FUEL_ANALYSIS_SECTION=Log
//	FUEL_ANALYSIS_WINDOWS=3,9
//	FUEL_SHEETS_SPREADSHEET_ID=1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms
//
// # Configuration Structure
//
// Configuration splits into sections mirroring the application surfaces:
// Server (HTTP timeouts and port), Security (CORS, rate limiting), Logging
// (level, format, output), Paths (data/reports/logs directories), WebSocket
// (buffers and heartbeats), Analysis (section name, column identifiers,
// default smoothing windows, method and weighting), and Sheets (Google
// Sheets document source).
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which handles all file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	documentPath := paths.GetDataPath("fillups.csv")
//	reportPath := paths.GetReportPath("smoothed.csv")
//
// # Validation
//
// All configuration is validated at load time to ensure:
//
//	- Required fields are present
//	- Values are within acceptable ranges
//	- Analysis windows are positive
//	- Report directories are accessible
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
