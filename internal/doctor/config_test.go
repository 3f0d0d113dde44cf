package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".sdnctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfigFileCheck(t *testing.T) {
	path := writeFile(t, "backend:\n  url: http://localhost:5000\n")

	result := (&ConfigFileCheck{ConfigPath: path}).Run(context.Background())
	assert.Equal(t, StatusPass, result.Status)
	assert.Equal(t, "Config file: .sdnctl.yaml", result.Message)

	result = (&ConfigFileCheck{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml")}).Run(context.Background())
	assert.Equal(t, StatusFail, result.Status)
	assert.Contains(t, result.Message, "not found")
}

func TestConfigValidCheck(t *testing.T) {
	good := writeFile(t, "backend:\n  url: http://10.0.0.5:5000\n")
	result := (&ConfigValidCheck{ConfigPath: good}).Run(context.Background())
	assert.Equal(t, StatusPass, result.Status)
	assert.Contains(t, result.Message, "http://10.0.0.5:5000")

	bad := writeFile(t, "backend:\n  url: ftp://nowhere\n")
	result = (&ConfigValidCheck{ConfigPath: bad}).Run(context.Background())
	assert.Equal(t, StatusFail, result.Status)
	assert.NotEmpty(t, result.Suggestion)
}

func TestNewConfigChecks(t *testing.T) {
	checks := NewConfigChecks("")
	require.Len(t, checks, 2)
	for _, c := range checks {
		assert.Equal(t, CategoryConfig, c.Category())
	}
}
