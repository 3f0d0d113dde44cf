package cli

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sdnctl/internal/config"
	"github.com/rileyhilliard/sdnctl/internal/errors"
)

// saveGlobals restores the global flag variables when the test ends.
func saveGlobals(t *testing.T) {
	t.Helper()
	oldCfgFile, oldBackend, oldLevel, oldFile, oldLoaded := cfgFile, backendURL, logLevel, logFile, loadedCfg
	t.Cleanup(func() {
		cfgFile, backendURL, logLevel, logFile, loadedCfg = oldCfgFile, oldBackend, oldLevel, oldFile, oldLoaded
	})
}

func TestIsUnknownCommandError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unknown command error", stderrors.New(`unknown command "foo" for "sdnctl"`), true},
		{"unknown flag error", stderrors.New(`unknown flag: --foo`), true},
		{"other error", stderrors.New("connection failed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUnknownCommandError(tt.err))
		})
	}
}

func TestExtractUnknownCommand(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"standard cobra format", stderrors.New(`unknown command "foo" for "sdnctl"`), "foo"},
		{"command with hyphen", stderrors.New(`unknown command "flow-set" for "sdnctl"`), "flow-set"},
		{"no quotes returns empty", stderrors.New("unknown command foo"), ""},
		{"single quote returns empty", stderrors.New(`unknown command "foo`), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractUnknownCommand(tt.err))
		})
	}
}

func TestFormatError(t *testing.T) {
	structured := errors.New(errors.ErrConfig, "bad config", "fix it")
	assert.Equal(t, structured.Error(), formatError(structured))

	assert.Equal(t, "✗ plain failure\n", formatError(stderrors.New("plain failure")))
}

func TestCommandsRegistered(t *testing.T) {
	paths := [][]string{
		{"dashboard"},
		{"watch"},
		{"status"},
		{"inject"},
		{"network", "start"},
		{"network", "stop"},
		{"test", "ping"},
		{"test", "iperf"},
		{"validate", "ip"},
		{"validate", "cidr"},
		{"init"},
		{"doctor"},
		{"version"},
		{"completion"},
	}
	for _, path := range paths {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestSkipConfigCommands(t *testing.T) {
	for _, cmd := range []string{"init", "doctor", "version", "completion"} {
		c, _, err := rootCmd.Find([]string{cmd})
		require.NoError(t, err)
		assert.Equal(t, "true", c.Annotations[skipConfigAnnotation], cmd)
	}

	c, _, err := rootCmd.Find([]string{"validate", "ip"})
	require.NoError(t, err)
	assert.Equal(t, "true", c.Annotations[skipConfigAnnotation])

	c, _, err = rootCmd.Find([]string{"status"})
	require.NoError(t, err)
	assert.Empty(t, c.Annotations[skipConfigAnnotation])
}

func TestGlobalFlags(t *testing.T) {
	for _, name := range []string{"config", "backend", "log-level", "log-file", "no-color"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestApplyOverrides(t *testing.T) {
	saveGlobals(t)

	backendURL = "http://10.0.0.5:5000/"
	logLevel = "debug"
	logFile = "/tmp/sdnctl.log"

	cfg := config.DefaultConfig()
	applyOverrides(cfg)

	assert.Equal(t, "http://10.0.0.5:5000", cfg.Backend.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/sdnctl.log", cfg.Log.File)
}

func TestApplyOverrides_NoFlagsKeepsConfig(t *testing.T) {
	saveGlobals(t)
	backendURL, logLevel, logFile = "", "", ""

	cfg := config.DefaultConfig()
	applyOverrides(cfg)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoadConfig_UsesEnvAndFlags(t *testing.T) {
	saveGlobals(t)

	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SDNCTL_POLL_INTERVAL", "7s")
	cfgFile, backendURL, logLevel = "", "http://flag:5000", ""

	c, _, err := rootCmd.Find([]string{"status"})
	require.NoError(t, err)
	require.NoError(t, loadConfig(c, nil))

	assert.Equal(t, "http://flag:5000", Config().Backend.URL)
	assert.Equal(t, "7s", Config().PollInterval.String())
}

func TestLoadConfig_InvalidOverrideFails(t *testing.T) {
	saveGlobals(t)

	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	cfgFile, backendURL, logLevel = "", "ftp://nope", ""

	c, _, err := rootCmd.Find([]string{"status"})
	require.NoError(t, err)
	err = loadConfig(c, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}
