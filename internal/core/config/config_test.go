package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_defaults_without_file(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(dataDir, "missing.yaml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.Backend.URL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 1000, cfg.Backend.RowLimit)
	assert.Equal(t, 30, cfg.Poll.MaxFailures)
	assert.Equal(t, "tokyo-night", cfg.TUI.Theme)
	assert.Equal(t, 300*time.Millisecond, cfg.TUI.SearchDebounce)
	assert.Equal(t, 150*time.Millisecond, cfg.DevServer.ItemDelay)
	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dataDir, "lingo.log"), cfg.LogFile())
}

func TestLoad_file_overrides_and_keeps_defaults(t *testing.T) {
	path := writeConfig(t, `
backend:
  url: https://translate.example.com
  timeout: 3s
poll:
  max_failures: 5
tui:
  theme: gruvbox
`)

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://translate.example.com", cfg.Backend.URL)
	assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 1000, cfg.Backend.RowLimit, "unset field keeps default")
	assert.Equal(t, 5, cfg.Poll.MaxFailures)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
}

func TestLoad_rejects_invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"bad yaml", "backend: [", "parse config file"},
		{"unknown theme", "tui:\n  theme: neon\n", "tui.theme"},
		{"non-http url", "backend:\n  url: ftp://host\n", "backend.url"},
		{"negative failures", "poll:\n  max_failures: -1\n", "poll.max_failures"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_collects_field_errors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Backend.URL = "localhost:8000"
	cfg.Backend.RowLimit = 0
	cfg.TUI.Theme = "neon"
	cfg.DevServer.Addr = "no-port"

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{
		"backend.url",
		"backend.row_limit",
		"tui.theme",
		"dev_server.addr",
	}, fields)
}

func TestValidateDeep_ConfigPathIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(t.TempDir())

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "config_file", fieldErrs[0].Field)
	assert.Contains(t, fieldErrs[0].Err.Error(), "is a directory")
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	cfg.DataDir = file

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 1)
	assert.Equal(t, "data_dir", fieldErrs[0].Field)
}

func TestWarnings(t *testing.T) {
	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings())

	cfg.Backend.Timeout = time.Minute
	cfg.Backend.RowLimit = 50000

	warnings := cfg.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, "backend.timeout", warnings[0].Item)
	assert.Equal(t, "backend.row_limit", warnings[1].Item)
}
