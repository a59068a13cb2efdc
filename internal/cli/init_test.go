package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsestation/pulse/internal/config"
	perrors "github.com/pulsestation/pulse/internal/errors"
)

func TestInit_NonInteractive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)

	var out bytes.Buffer
	err := Init(&out, InitOptions{
		Path:           path,
		URL:            "http://nas.local:8000/api/data",
		Interval:       30 * time.Second,
		NonInteractive: true,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Created "+path)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://nas.local:8000/api/data", cfg.Source.URL)
	assert.Equal(t, 30*time.Second, cfg.Poll.Interval)
	assert.NoError(t, config.Validate(cfg))
}

func TestInit_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	writeFile(t, path, "version: 1\n")

	t.Run("refuses without force", func(t *testing.T) {
		err := Init(&bytes.Buffer{}, InitOptions{Path: path, NonInteractive: true})
		require.Error(t, err)
		assert.True(t, perrors.IsCode(err, perrors.ErrConfig))
		assert.Contains(t, err.Error(), "already exists")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "version: 1\n", string(data))
	})

	t.Run("overwrites with force", func(t *testing.T) {
		err := Init(&bytes.Buffer{}, InitOptions{Path: path, Overwrite: true, NonInteractive: true})
		require.NoError(t, err)

		cfg, err := config.Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultConfig().Source.URL, cfg.Source.URL)
	})
}

func TestInit_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFileName)

	err := Init(&bytes.Buffer{}, InitOptions{Path: path, URL: "ftp://nas.local/data", NonInteractive: true})
	require.Error(t, err)
	assert.True(t, perrors.IsCode(err, perrors.ErrConfig))
	assert.NoFileExists(t, path)
}

func TestInitCommand_DefaultPath(t *testing.T) {
	dir := isolate(t)

	// stdin is not a terminal under go test, so prompts are skipped.
	_, err := execute(t, nil, "init", "--url", "http://127.0.0.1:8000/api/data")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, config.ConfigFileName))
}

func TestPromptValidators(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(string) error
		input   string
		wantErr bool
	}{
		{name: "http url", fn: validateURL, input: "http://localhost:8000/api/data"},
		{name: "https url", fn: validateURL, input: " https://nas.local/metrics "},
		{name: "no scheme", fn: validateURL, input: "localhost:8000", wantErr: true},
		{name: "no host", fn: validateURL, input: "http://", wantErr: true},
		{name: "interval", fn: validateInterval, input: "30s"},
		{name: "interval minimum", fn: validateInterval, input: "1s"},
		{name: "interval too short", fn: validateInterval, input: "500ms", wantErr: true},
		{name: "interval garbage", fn: validateInterval, input: "often", wantErr: true},
		{name: "limit", fn: validateLimit, input: "85.5"},
		{name: "limit garbage", fn: validateLimit, input: "hot", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
