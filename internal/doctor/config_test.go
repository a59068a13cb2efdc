package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pulse.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigFileCheck(t *testing.T) {
	t.Run("explicit file", func(t *testing.T) {
		path := writeConfig(t, "version: 1\n")
		r := (&ConfigFileCheck{ConfigPath: path}).Run(context.Background())
		assert.Equal(t, StatusPass, r.Status)
		assert.Contains(t, r.Message, path)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		r := (&ConfigFileCheck{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml")}).Run(context.Background())
		assert.Equal(t, StatusFail, r.Status)
	})

	t.Run("no file falls back to defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("HOME", t.TempDir())
		r := (&ConfigFileCheck{}).Run(context.Background())
		assert.Equal(t, StatusWarn, r.Status)
		assert.Contains(t, r.Suggestion, "pulse init")
	})
}

func TestConfigSchemaCheck(t *testing.T) {
	tests := []struct {
		name    string
		content string
		status  CheckStatus
	}{
		{
			name:    "valid",
			content: "version: 1\nsource:\n  url: http://nas.local:8000/api/data\npoll:\n  interval: 30s\n",
			status:  StatusPass,
		},
		{
			name:    "interval too short",
			content: "version: 1\npoll:\n  interval: 100ms\n",
			status:  StatusFail,
		},
		{
			name:    "broken yaml",
			content: "source: [\n",
			status:  StatusFail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := (&ConfigSchemaCheck{ConfigPath: writeConfig(t, tt.content)}).Run(context.Background())
			assert.Equal(t, tt.status, r.Status, r.Message)
		})
	}
}

func TestNewConfigChecks(t *testing.T) {
	checks := NewConfigChecks("", nil)
	assert.Len(t, checks, 2)
	for _, c := range checks {
		assert.Equal(t, CategoryConfig, c.Category())
	}
}
