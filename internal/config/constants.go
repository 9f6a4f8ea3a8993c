package config

import "time"

// Application constants - all hardcoded values for the FuelPulse system
const (
	// Application Info
	AppName    = "FuelPulse"
	AppVersion = "1.2.0"

	// Default Analysis Identifiers
	DefaultSectionName       = "Log"
	DefaultDateColumn        = "Date"
	DefaultOdometerColumn    = "Odometer"
	DefaultConsumptionColumn = "Consumption"
	DefaultFullColumn        = "Full"
	DefaultNoteColumn        = "Note"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per minute
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	SheetsFetchTimeout  = 45 * time.Second
	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultReportsDir = "data/reports"

	// Log Settings
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "json"
	MaxLogFileSize    = 100 * 1024 * 1024 // 100MB
	MaxLogFileAge     = 30                // days
	MaxLogFileBackups = 10

	// Document Patterns
	CSVDocumentPattern      = ".*\\.csv$"
	WorkbookDocumentPattern = ".*\\.xlsx?$"

	// WebSocket Buffer Sizes
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024
)

// URLs and Endpoints
const (
	// API Endpoints (internal)
	APIBasePath     = "/api"
	FillupEndpoint  = "/api/fillup"
	HealthEndpoint  = "/api/health"
	VersionEndpoint = "/api/version"
	MetricsEndpoint = "/metrics"

	// WebSocket Endpoints
	WebSocketEndpoint = "/ws"
)
