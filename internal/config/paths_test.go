package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetPaths tests the GetPaths function with various scenarios
func TestGetPaths(t *testing.T) {
	t.Run("basic path resolution", func(t *testing.T) {
		paths, err := GetPaths()
		require.NoError(t, err)
		require.NotNil(t, paths)

		// Verify all paths are absolute
		assert.True(t, filepath.IsAbs(paths.ExecutableDir), "ExecutableDir should be absolute")
		assert.True(t, filepath.IsAbs(paths.DataDir), "DataDir should be absolute")
		assert.True(t, filepath.IsAbs(paths.ReportsDir), "ReportsDir should be absolute")
		assert.True(t, filepath.IsAbs(paths.LogsDir), "LogsDir should be absolute")

		// Verify paths are correctly related to executable dir
		assert.Equal(t, filepath.Join(paths.ExecutableDir, "data"), paths.DataDir)
		assert.Equal(t, filepath.Join(paths.DataDir, "reports"), paths.ReportsDir)
		assert.Equal(t, filepath.Join(paths.ExecutableDir, "logs"), paths.LogsDir)
		assert.Equal(t, filepath.Join(paths.ExecutableDir, "credentials.json"), paths.CredentialsFile)
	})

	t.Run("consistent calls return same paths", func(t *testing.T) {
		paths1, err1 := GetPaths()
		require.NoError(t, err1)

		paths2, err2 := GetPaths()
		require.NoError(t, err2)

		assert.Equal(t, paths1.ExecutableDir, paths2.ExecutableDir)
		assert.Equal(t, paths1.DataDir, paths2.DataDir)
		assert.Equal(t, paths1.ReportsDir, paths2.ReportsDir)
	})

	t.Run("well-known report files", func(t *testing.T) {
		paths, err := GetPaths()
		require.NoError(t, err)

		// All report files should be in the reports directory
		assert.True(t, strings.HasPrefix(paths.ObservationsCSV, paths.ReportsDir))
		assert.True(t, strings.HasPrefix(paths.SmoothedCSV, paths.ReportsDir))
		assert.True(t, strings.HasPrefix(paths.AnalysisJSON, paths.ReportsDir))

		// Check specific filenames
		assert.Equal(t, "observations.csv", filepath.Base(paths.ObservationsCSV))
		assert.Equal(t, "smoothed.csv", filepath.Base(paths.SmoothedCSV))
		assert.Equal(t, "analysis.json", filepath.Base(paths.AnalysisJSON))
	})
}

// TestEnsureDirectories tests directory creation functionality
func TestEnsureDirectories(t *testing.T) {
	tempDir := t.TempDir()

	paths := &Paths{
		ExecutableDir:   tempDir,
		DataDir:         filepath.Join(tempDir, "data"),
		ReportsDir:      filepath.Join(tempDir, "data", "reports"),
		LogsDir:         filepath.Join(tempDir, "logs"),
		CredentialsFile: filepath.Join(tempDir, "credentials.json"),
	}

	t.Run("creates all directories", func(t *testing.T) {
		err := paths.EnsureDirectories()
		require.NoError(t, err)

		assert.DirExists(t, paths.DataDir)
		assert.DirExists(t, paths.ReportsDir)
		assert.DirExists(t, paths.LogsDir)
	})

	t.Run("idempotent - can be called multiple times", func(t *testing.T) {
		err1 := paths.EnsureDirectories()
		require.NoError(t, err1)

		err2 := paths.EnsureDirectories()
		require.NoError(t, err2)

		assert.DirExists(t, paths.DataDir)
		assert.DirExists(t, paths.LogsDir)
	})

	t.Run("handles existing directories", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(paths.DataDir, 0755))
		require.NoError(t, os.MkdirAll(paths.LogsDir, 0755))

		err := paths.EnsureDirectories()
		require.NoError(t, err)

		assert.DirExists(t, paths.DataDir)
		assert.DirExists(t, paths.ReportsDir)
	})
}

// TestPathHelperMethods tests various path helper methods
func TestPathHelperMethods(t *testing.T) {
	paths := &Paths{
		ExecutableDir: "/app",
		DataDir:       "/app/data",
		ReportsDir:    "/app/data/reports",
		LogsDir:       "/app/logs",
	}

	tests := []struct {
		name     string
		method   func(string) string
		input    string
		expected string
	}{
		{
			name:     "GetRelativePath",
			method:   paths.GetRelativePath,
			input:    "config.yaml",
			expected: filepath.Join("/app", "config.yaml"),
		},
		{
			name:     "GetDataPath",
			method:   paths.GetDataPath,
			input:    "fillups.csv",
			expected: filepath.Join("/app/data", "fillups.csv"),
		},
		{
			name:     "GetReportPath",
			method:   paths.GetReportPath,
			input:    "smoothed.csv",
			expected: filepath.Join("/app/data/reports", "smoothed.csv"),
		},
		{
			name:     "GetLogPath",
			method:   paths.GetLogPath,
			input:    "app.log",
			expected: filepath.Join("/app/logs", "app.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.method(tt.input)
			// Normalize paths for comparison across platforms
			expected := filepath.ToSlash(tt.expected)
			actual := filepath.ToSlash(result)
			assert.Equal(t, expected, actual)
		})
	}
}

// TestGetCredentialsPath tests the credentials path resolution
func TestGetCredentialsPath(t *testing.T) {
	paths := &Paths{
		ExecutableDir:   "/app",
		CredentialsFile: filepath.Join("/app", "credentials.json"),
	}

	path := paths.GetCredentialsPath()
	assert.Equal(t, filepath.ToSlash(filepath.Join("/app", "credentials.json")), filepath.ToSlash(path))
}

// TestFileExists tests the FileExists helper function
func TestFileExists(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("existing file returns true", func(t *testing.T) {
		testFile := filepath.Join(tempDir, "test.txt")
		require.NoError(t, os.WriteFile(testFile, []byte("test"), 0644))

		assert.True(t, FileExists(testFile))
	})

	t.Run("non-existing file returns false", func(t *testing.T) {
		nonExistentFile := filepath.Join(tempDir, "does-not-exist.txt")
		assert.False(t, FileExists(nonExistentFile))
	})

	t.Run("directory returns true", func(t *testing.T) {
		assert.True(t, FileExists(tempDir))
	})
}
