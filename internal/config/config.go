package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Sheets    SheetsConfig    `yaml:"sheets" envconfig:"SHEETS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"60s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"true"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir    string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE" default:"1024"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE" default:"1024"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD" default:"30s"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT" default:"60s"`
}

// AnalysisConfig contains the fillup extraction and smoothing defaults
type AnalysisConfig struct {
	Section           string `yaml:"section" envconfig:"SECTION" default:"Log"`
	DateColumn        string `yaml:"date_column" envconfig:"DATE_COLUMN" default:"Date"`
	OdometerColumn    string `yaml:"odometer_column" envconfig:"ODOMETER_COLUMN" default:"Odometer"`
	ConsumptionColumn string `yaml:"consumption_column" envconfig:"CONSUMPTION_COLUMN" default:"Consumption"`
	FullColumn        string `yaml:"full_column" envconfig:"FULL_COLUMN" default:"Full"`
	NoteColumn        string `yaml:"note_column" envconfig:"NOTE_COLUMN" default:"Note"`
	Windows           []int  `yaml:"windows" envconfig:"WINDOWS" default:"3,9"`
	Method            string `yaml:"method" envconfig:"METHOD" default:"lagging"`
	Weighting         string `yaml:"weighting" envconfig:"WEIGHTING" default:"uniform"`
}

// SheetsConfig contains Google Sheets ingestion configuration
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID"`
	Range           string `yaml:"range" envconfig:"RANGE" default:"A:Z"`
	APIKey          string `yaml:"api_key" envconfig:"API_KEY"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE" default:"credentials.json"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("FUEL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Resolve relative paths
	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Validate paths
	if err := cfg.ValidatePaths(); err != nil {
		return nil, fmt.Errorf("path validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence);
// file values only fill fields the environment left unset
func mergeConfigs(fileConfig, envConfig Config) Config {
	// Server config
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Server.WriteTimeout == 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if envConfig.Server.IdleTimeout == 0 {
		envConfig.Server.IdleTimeout = fileConfig.Server.IdleTimeout
	}

	// Analysis config
	if envConfig.Analysis.Section == "" {
		envConfig.Analysis.Section = fileConfig.Analysis.Section
	}
	if envConfig.Analysis.DateColumn == "" {
		envConfig.Analysis.DateColumn = fileConfig.Analysis.DateColumn
	}
	if envConfig.Analysis.OdometerColumn == "" {
		envConfig.Analysis.OdometerColumn = fileConfig.Analysis.OdometerColumn
	}
	if envConfig.Analysis.ConsumptionColumn == "" {
		envConfig.Analysis.ConsumptionColumn = fileConfig.Analysis.ConsumptionColumn
	}
	if envConfig.Analysis.FullColumn == "" {
		envConfig.Analysis.FullColumn = fileConfig.Analysis.FullColumn
	}
	if envConfig.Analysis.NoteColumn == "" {
		envConfig.Analysis.NoteColumn = fileConfig.Analysis.NoteColumn
	}
	if len(envConfig.Analysis.Windows) == 0 {
		envConfig.Analysis.Windows = fileConfig.Analysis.Windows
	}
	if envConfig.Analysis.Method == "" {
		envConfig.Analysis.Method = fileConfig.Analysis.Method
	}
	if envConfig.Analysis.Weighting == "" {
		envConfig.Analysis.Weighting = fileConfig.Analysis.Weighting
	}

	// Sheets config
	if envConfig.Sheets.SpreadsheetID == "" {
		envConfig.Sheets.SpreadsheetID = fileConfig.Sheets.SpreadsheetID
	}
	if envConfig.Sheets.Range == "" {
		envConfig.Sheets.Range = fileConfig.Sheets.Range
	}
	if envConfig.Sheets.APIKey == "" {
		envConfig.Sheets.APIKey = fileConfig.Sheets.APIKey
	}
	if envConfig.Sheets.CredentialsFile == "" {
		envConfig.Sheets.CredentialsFile = fileConfig.Sheets.CredentialsFile
	}

	// Paths config
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.ReportsDir == "" {
		envConfig.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}

	return envConfig
}

// resolvePaths sets up the executable directory and validates paths
func (c *Config) resolvePaths() error {
	// Use centralized paths system to get all paths
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}

	// Update config with resolved paths from centralized system
	c.Paths.ExecutableDir = paths.ExecutableDir

	// Keep the configured relative paths; the Get* methods resolve against
	// the centralized paths system

	return nil
}

// ValidatePaths validates that critical paths exist or can be created
func (c *Config) ValidatePaths() error {
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}

	// Ensure all required directories exist
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	// Log path resolution for debugging
	paths.LogPathResolution()

	return nil
}

// GetDataDir returns the resolved data directory path
func (c *Config) GetDataDir() string {
	// Use centralized paths system as the single source of truth
	paths, err := GetPaths()
	if err != nil {
		// Fallback to config-based resolution if paths system fails
		if filepath.IsAbs(c.Paths.DataDir) {
			return c.Paths.DataDir
		}
		return filepath.Join(c.Paths.ExecutableDir, c.Paths.DataDir)
	}
	return paths.DataDir
}

// GetReportsDir returns the resolved reports directory path
func (c *Config) GetReportsDir() string {
	// Use centralized paths system as the single source of truth
	paths, err := GetPaths()
	if err != nil {
		// Fallback to config-based resolution if paths system fails
		if filepath.IsAbs(c.Paths.ReportsDir) {
			return c.Paths.ReportsDir
		}
		return filepath.Join(c.Paths.ExecutableDir, c.Paths.ReportsDir)
	}
	return paths.ReportsDir
}

// GetLogsDir returns the resolved logs directory path
func (c *Config) GetLogsDir() string {
	// Use centralized paths system as the single source of truth
	paths, err := GetPaths()
	if err != nil {
		// Fallback to config-based resolution if paths system fails
		if filepath.IsAbs(c.Paths.LogsDir) {
			return c.Paths.LogsDir
		}
		return filepath.Join(c.Paths.ExecutableDir, c.Paths.LogsDir)
	}
	return paths.LogsDir
}

// GetCredentialsFile returns the resolved Google credentials file path
func (c *Config) GetCredentialsFile() string {
	if filepath.IsAbs(c.Sheets.CredentialsFile) {
		return c.Sheets.CredentialsFile
	}
	paths, err := GetPaths()
	if err != nil {
		return filepath.Join(c.Paths.ExecutableDir, c.Sheets.CredentialsFile)
	}
	return filepath.Join(paths.ExecutableDir, c.Sheets.CredentialsFile)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "stdout" {
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	if err := c.Analysis.validate(); err != nil {
		return err
	}

	return nil
}

// validate checks the analysis defaults
func (a *AnalysisConfig) validate() error {
	if a.Section == "" {
		return fmt.Errorf("analysis section name must not be empty")
	}
	for _, col := range []struct{ name, value string }{
		{"date_column", a.DateColumn},
		{"odometer_column", a.OdometerColumn},
		{"consumption_column", a.ConsumptionColumn},
		{"full_column", a.FullColumn},
	} {
		if col.value == "" {
			return fmt.Errorf("analysis %s must not be empty", col.name)
		}
	}
	if len(a.Windows) == 0 {
		return fmt.Errorf("analysis windows must not be empty")
	}
	for _, w := range a.Windows {
		if w < 1 {
			return fmt.Errorf("invalid analysis window: %d", w)
		}
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
		"../../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			Output:      "both",
			FilePath:    "logs/app.log",
			Development: true,
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ReportsDir: "data/reports",
			LogsDir:    "logs",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      30 * time.Second,
			PongWait:        60 * time.Second,
		},
		Analysis: AnalysisConfig{
			Section:           "Log",
			DateColumn:        "Date",
			OdometerColumn:    "Odometer",
			ConsumptionColumn: "Consumption",
			FullColumn:        "Full",
			NoteColumn:        "Note",
			Windows:           []int{3, 9},
			Method:            "lagging",
			Weighting:         "uniform",
		},
		Sheets: SheetsConfig{
			Range:           "A:Z",
			CredentialsFile: "credentials.json",
		},
	}
}
