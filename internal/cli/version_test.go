package cli

import (
	"bytes"
	"encoding/json"
	"runtime"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setVersion(t *testing.T, v, c, d string) {
	t.Helper()
	oldVersion, oldCommit, oldDate := version, commit, date
	t.Cleanup(func() { SetVersionInfo(oldVersion, oldCommit, oldDate) })
	SetVersionInfo(v, c, d)
}

func TestPrintVersion(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	setVersion(t, "1.2.3", "abc123", "2024-01-01")

	var buf bytes.Buffer
	require.NoError(t, printVersion(&buf, false, false))
	out := buf.String()
	assert.Contains(t, out, "sdnctl v1.2.3\n")
	assert.Contains(t, out, "commit   abc123")
	assert.Contains(t, out, "built    2024-01-01")
	assert.Contains(t, out, runtime.Version())

	buf.Reset()
	require.NoError(t, printVersion(&buf, true, false))
	assert.Equal(t, "1.2.3\n", buf.String())
}

func TestPrintVersion_JSON(t *testing.T) {
	setVersion(t, "v0.4.0", "deadbeef", "2026-10-01")

	var buf bytes.Buffer
	require.NoError(t, printVersion(&buf, false, true))

	var env struct {
		Success bool        `json:"success"`
		Data    VersionInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "v0.4.0", env.Data.Version)
	assert.Equal(t, "deadbeef", env.Data.Commit)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, env.Data.OSArch)
}

func TestDisplayVersion(t *testing.T) {
	assert.Equal(t, "dev", displayVersion("dev"))
	assert.Equal(t, "", displayVersion(""))
	assert.Equal(t, "v1.0.0", displayVersion("1.0.0"))
	assert.Equal(t, "v1.0.0", displayVersion("v1.0.0"))
}
