package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvVars = []string{
	"FUEL_SERVER_PORT", "FUEL_SERVER_READ_TIMEOUT", "FUEL_SERVER_WRITE_TIMEOUT",
	"FUEL_SECURITY_ALLOWED_ORIGINS", "FUEL_SECURITY_ENABLE_CORS",
	"FUEL_LOGGING_LEVEL", "FUEL_LOGGING_FORMAT", "FUEL_LOGGING_OUTPUT",
	"FUEL_PATHS_DATA_DIR", "FUEL_PATHS_REPORTS_DIR", "FUEL_PATHS_LOGS_DIR",
	"FUEL_ANALYSIS_SECTION", "FUEL_ANALYSIS_WINDOWS", "FUEL_ANALYSIS_METHOD",
	"FUEL_ANALYSIS_WEIGHTING", "FUEL_SHEETS_SPREADSHEET_ID", "FUEL_SHEETS_RANGE",
	"FUEL_WEBSOCKET_READ_BUFFER_SIZE",
}

// saveEnv snapshots the FUEL_* variables and restores them on cleanup
func saveEnv(t *testing.T) {
	t.Helper()
	original := make(map[string]string)
	for _, envVar := range testEnvVars {
		original[envVar] = os.Getenv(envVar)
	}
	t.Cleanup(func() {
		for _, envVar := range testEnvVars {
			if val, exists := original[envVar]; exists && val != "" {
				os.Setenv(envVar, val)
			} else {
				os.Unsetenv(envVar)
			}
		}
	})
}

func clearEnv() {
	for _, envVar := range testEnvVars {
		os.Unsetenv(envVar)
	}
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	saveEnv(t)

	tests := []struct {
		name        string
		setupEnv    func()
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name:     "default configuration with no env vars",
			setupEnv: clearEnv,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
				assert.Equal(t, 1048576, cfg.Server.MaxHeaderBytes)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

				assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.EnableCORS)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)
				assert.Equal(t, 50, cfg.Security.RateLimit.Burst)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "both", cfg.Logging.Output)
				assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)

				assert.Equal(t, "data", cfg.Paths.DataDir)
				assert.Equal(t, "data/reports", cfg.Paths.ReportsDir)
				assert.Equal(t, "logs", cfg.Paths.LogsDir)
				assert.NotEmpty(t, cfg.Paths.ExecutableDir)

				assert.Equal(t, "Log", cfg.Analysis.Section)
				assert.Equal(t, "Date", cfg.Analysis.DateColumn)
				assert.Equal(t, "Odometer", cfg.Analysis.OdometerColumn)
				assert.Equal(t, "Consumption", cfg.Analysis.ConsumptionColumn)
				assert.Equal(t, "Full", cfg.Analysis.FullColumn)
				assert.Equal(t, "Note", cfg.Analysis.NoteColumn)
				assert.Equal(t, []int{3, 9}, cfg.Analysis.Windows)
				assert.Equal(t, "lagging", cfg.Analysis.Method)
				assert.Equal(t, "uniform", cfg.Analysis.Weighting)

				assert.Equal(t, "A:Z", cfg.Sheets.Range)
				assert.Equal(t, "credentials.json", cfg.Sheets.CredentialsFile)
			},
		},
		{
			name: "custom environment variables",
			setupEnv: func() {
				clearEnv()
				os.Setenv("FUEL_SERVER_PORT", "9090")
				os.Setenv("FUEL_SERVER_READ_TIMEOUT", "30s")
				os.Setenv("FUEL_SECURITY_ALLOWED_ORIGINS", "http://example.com,https://example.com")
				os.Setenv("FUEL_LOGGING_LEVEL", "debug")
				os.Setenv("FUEL_LOGGING_FORMAT", "text")
				os.Setenv("FUEL_ANALYSIS_SECTION", "Fahrtenbuch")
				os.Setenv("FUEL_ANALYSIS_WINDOWS", "5")
				os.Setenv("FUEL_ANALYSIS_METHOD", "shrinking")
				os.Setenv("FUEL_SHEETS_SPREADSHEET_ID", "sheet-123")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://example.com", "https://example.com"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format, "validate() forces JSON logging")
				assert.Equal(t, "Fahrtenbuch", cfg.Analysis.Section)
				assert.Equal(t, []int{5}, cfg.Analysis.Windows)
				assert.Equal(t, "shrinking", cfg.Analysis.Method)
				assert.Equal(t, "sheet-123", cfg.Sheets.SpreadsheetID)
			},
		},
		{
			name: "invalid port number",
			setupEnv: func() {
				clearEnv()
				os.Setenv("FUEL_SERVER_PORT", "99999")
			},
			wantErr: true,
		},
		{
			name: "invalid analysis window",
			setupEnv: func() {
				clearEnv()
				os.Setenv("FUEL_ANALYSIS_WINDOWS", "3,0")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv()

			cfg, err := Load()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Run("valid yaml", func(t *testing.T) {
		content := `
server:
  port: 9191
  read_timeout: 20s
analysis:
  section: Tankbuch
  windows: [3, 5, 9]
  method: centered
  weighting: exponential
sheets:
  spreadsheet_id: file-sheet-id
`
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := loadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, 9191, cfg.Server.Port)
		assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, "Tankbuch", cfg.Analysis.Section)
		assert.Equal(t, []int{3, 5, 9}, cfg.Analysis.Windows)
		assert.Equal(t, "centered", cfg.Analysis.Method)
		assert.Equal(t, "exponential", cfg.Analysis.Weighting)
		assert.Equal(t, "file-sheet-id", cfg.Sheets.SpreadsheetID)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

		_, err := loadFromFile(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}

func TestMergeConfigs(t *testing.T) {
	fileConfig := Config{}
	fileConfig.Server.Port = 9999
	fileConfig.Server.ReadTimeout = 45 * time.Second
	fileConfig.Analysis.Section = "Tankbuch"
	fileConfig.Analysis.Windows = []int{7}
	fileConfig.Sheets.SpreadsheetID = "from-file"
	fileConfig.Paths.DataDir = "file-data"

	t.Run("file fills unset fields", func(t *testing.T) {
		merged := mergeConfigs(fileConfig, Config{})
		assert.Equal(t, 9999, merged.Server.Port)
		assert.Equal(t, 45*time.Second, merged.Server.ReadTimeout)
		assert.Equal(t, "Tankbuch", merged.Analysis.Section)
		assert.Equal(t, []int{7}, merged.Analysis.Windows)
		assert.Equal(t, "from-file", merged.Sheets.SpreadsheetID)
		assert.Equal(t, "file-data", merged.Paths.DataDir)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		envConfig := Config{}
		envConfig.Server.Port = 8081
		envConfig.Analysis.Section = "Log"
		envConfig.Analysis.Windows = []int{3, 9}
		envConfig.Sheets.SpreadsheetID = "from-env"

		merged := mergeConfigs(fileConfig, envConfig)
		assert.Equal(t, 8081, merged.Server.Port)
		assert.Equal(t, "Log", merged.Analysis.Section)
		assert.Equal(t, []int{3, 9}, merged.Analysis.Windows)
		assert.Equal(t, "from-env", merged.Sheets.SpreadsheetID)
		assert.Equal(t, 45*time.Second, merged.Server.ReadTimeout, "unset env fields still come from the file")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config { return Default() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default config is valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "negative read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = -1 },
			wantErr: "read timeout must be positive",
		},
		{
			name:    "zero write timeout",
			mutate:  func(c *Config) { c.Server.WriteTimeout = 0 },
			wantErr: "write timeout must be positive",
		},
		{
			name:    "no allowed origins",
			mutate:  func(c *Config) { c.Security.AllowedOrigins = nil },
			wantErr: "allowed origin",
		},
		{
			name:    "empty section name",
			mutate:  func(c *Config) { c.Analysis.Section = "" },
			wantErr: "section name",
		},
		{
			name:    "empty date column",
			mutate:  func(c *Config) { c.Analysis.DateColumn = "" },
			wantErr: "date_column",
		},
		{
			name:    "empty odometer column",
			mutate:  func(c *Config) { c.Analysis.OdometerColumn = "" },
			wantErr: "odometer_column",
		},
		{
			name:    "no windows",
			mutate:  func(c *Config) { c.Analysis.Windows = nil },
			wantErr: "windows must not be empty",
		},
		{
			name:    "window below one",
			mutate:  func(c *Config) { c.Analysis.Windows = []int{3, -1} },
			wantErr: "invalid analysis window",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_NormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "Log", cfg.Analysis.Section)
	assert.Equal(t, []int{3, 9}, cfg.Analysis.Windows)
	assert.Equal(t, "lagging", cfg.Analysis.Method)
	assert.Equal(t, "uniform", cfg.Analysis.Weighting)
	assert.Equal(t, "A:Z", cfg.Sheets.Range)
	require.NoError(t, cfg.validate())
}

func TestConfigPathMethods(t *testing.T) {
	cfg := Default()

	t.Run("resolved from paths system", func(t *testing.T) {
		dataDir := cfg.GetDataDir()
		reportsDir := cfg.GetReportsDir()
		logsDir := cfg.GetLogsDir()

		assert.True(t, filepath.IsAbs(dataDir))
		assert.True(t, strings.HasPrefix(reportsDir, dataDir))
		assert.True(t, filepath.IsAbs(logsDir))
	})

	t.Run("credentials file resolution", func(t *testing.T) {
		abs := filepath.Join(t.TempDir(), "creds.json")
		cfg := Default()
		cfg.Sheets.CredentialsFile = abs
		assert.Equal(t, abs, cfg.GetCredentialsFile())

		cfg.Sheets.CredentialsFile = "credentials.json"
		resolved := cfg.GetCredentialsFile()
		assert.True(t, filepath.IsAbs(resolved))
		assert.Equal(t, "credentials.json", filepath.Base(resolved))
	})
}

func TestGetConfigFilePath(t *testing.T) {
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })

	assert.Empty(t, getConfigFilePath(), "no config file anywhere")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  port: 8080\n"), 0644))
	assert.Equal(t, "config.yaml", getConfigFilePath())
}
