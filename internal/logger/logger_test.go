package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		envValue  string
		expectLog bool
	}{
		{
			name:      "logs when SDNCTL_DEBUG is set",
			envValue:  "1",
			expectLog: true,
		},
		{
			name:      "does not log when SDNCTL_DEBUG is empty",
			envValue:  "",
			expectLog: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SDNCTL_DEBUG", tt.envValue)

			var buf bytes.Buffer
			l := newEnvLogger(&buf, "test")
			l.Debug("test message %s", "arg")

			if tt.expectLog {
				assert.Contains(t, buf.String(), "test message arg")
				assert.Contains(t, buf.String(), "component=test")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestEnvLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := newEnvLogger(&buf, "levels")

	l.Info("info message %d", 42)
	l.Warn("warning message")
	l.Error("error message")

	out := buf.String()
	assert.Contains(t, out, "INF info message 42")
	assert.Contains(t, out, "WRN warning message")
	assert.Contains(t, out, "ERR error message")
}

func TestFromZerolog_AddsComponent(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)

	l := FromZerolog(zl, "remote")
	l.Info("GET %s", "/api/status")

	assert.Contains(t, buf.String(), `"component":"remote"`)
	assert.Contains(t, buf.String(), `"message":"GET /api/status"`)
}

func TestNew_WritesToFile(t *testing.T) {
	t.Setenv("SDNCTL_DEBUG", "")
	path := filepath.Join(t.TempDir(), "logs", "sdnctl.log")

	zl, closer, err := New("warn", path)
	require.NoError(t, err)

	zl.Info().Msg("filtered out")
	zl.Warn().Msg("kept")
	closer()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "filtered out")
	assert.Contains(t, string(data), "kept")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, closer, err := New("loud", "")
	require.Error(t, err)
	assert.NotNil(t, closer)
}

func TestNoopLogger(t *testing.T) {
	l := Noop()
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %s", "msg")
	l.Info("info %s", "msg")
	l.Warn("warn %s", "msg")
	l.Error("error %s", "msg")

	entries := l.Entries()
	require.Len(t, entries, 4)

	assert.Equal(t, LogMessage{Level: "debug", Message: "debug msg"}, entries[0])
	assert.Equal(t, LogMessage{Level: "info", Message: "info msg"}, entries[1])
	assert.Equal(t, LogMessage{Level: "warn", Message: "warn msg"}, entries[2])
	assert.Equal(t, LogMessage{Level: "error", Message: "error msg"}, entries[3])
}

func TestBufferLogger_HasLevel(t *testing.T) {
	l := NewBufferLogger()

	assert.False(t, l.HasLevel("debug"))
	assert.False(t, l.HasLevel("error"))

	l.Debug("test")
	assert.True(t, l.HasLevel("debug"))
	assert.False(t, l.HasLevel("error"))

	l.Error("test")
	assert.True(t, l.HasLevel("error"))
}

func TestBufferLogger_Clear(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("test1")
	l.Info("test2")
	require.Len(t, l.Entries(), 2)

	l.Clear()
	assert.Empty(t, l.Entries())
}

func TestDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	assert.NotNil(t, Default())

	buf := NewBufferLogger()
	SetDefault(buf)

	assert.Equal(t, buf, Default())
}

func TestLoggerInterface(t *testing.T) {
	var _ Logger = NewEnvLogger("")
	var _ Logger = Noop()
	var _ Logger = NewBufferLogger()
}

func TestEnvLogger_FormatStrings(t *testing.T) {
	var buf bytes.Buffer
	l := newEnvLogger(&buf, "fmt")

	l.Info("int: %d, string: %s, float: %.2f", 42, "hello", 3.14159)

	output := buf.String()
	assert.True(t, strings.Contains(output, "int: 42"))
	assert.True(t, strings.Contains(output, "string: hello"))
	assert.True(t, strings.Contains(output, "float: 3.14"))
}
