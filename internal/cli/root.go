package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sdnctl/internal/config"
	"github.com/rileyhilliard/sdnctl/internal/errors"
	"github.com/rileyhilliard/sdnctl/internal/ui"
)

// skipConfigAnnotation marks commands that run without loading config.
const skipConfigAnnotation = "sdnctl/skip-config"

// Global flags
var (
	cfgFile    string
	backendURL string
	logLevel   string
	logFile    string
	noColor    bool
	loadedCfg  *config.Config
)

// rootCmd is the base command. Without a subcommand it opens the dashboard.
var rootCmd = &cobra.Command{
	Use:   "sdnctl",
	Short: "Terminal console for an SDN QoS testbed",
	Long: `sdnctl watches and drives an SDN QoS testbed backend.

Running sdnctl with no arguments opens the interactive dashboard: network
status, devices, topologies, flow rules and QoS limits, refreshed in the
background, with one-key actions to inject flow rules, start or stop the
emulated network and run ping or iperf tests.

Examples:
  sdnctl
  sdnctl status
  sdnctl inject --set 2
  sdnctl --backend http://10.0.0.5:5000 watch`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .sdnctl.yaml, then ~/.config/sdnctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// skipConfig marks a command that must work without a valid config.
func skipConfig(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[skipConfigAnnotation] = "true"
	return cmd
}

// loadConfig resolves the config for the command about to run and applies
// flag overrides on top of file and environment values.
func loadConfig(cmd *cobra.Command, args []string) error {
	if noColor || os.Getenv("NO_COLOR") != "" {
		ui.DisableColors()
	}

	if cmd.Annotations[skipConfigAnnotation] == "true" {
		return nil
	}

	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}
	applyOverrides(cfg)

	if err := config.Validate(cfg); err != nil {
		return err
	}

	loadedCfg = cfg
	return nil
}

// applyOverrides copies global flag values onto cfg.
func applyOverrides(cfg *config.Config) {
	if backendURL != "" {
		cfg.Backend.URL = strings.TrimRight(backendURL, "/")
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.Log.File = config.ExpandPath(logFile)
	}
}

// Config returns the loaded configuration, or defaults before loading.
func Config() *config.Config {
	if loadedCfg == nil {
		return config.DefaultConfig()
	}
	return loadedCfg
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if isUnknownCommandError(err) {
			if name := extractUnknownCommand(err); name != "" {
				err = errors.New(errors.ErrConfig,
					fmt.Sprintf("Unknown command '%s'", name),
					"Run 'sdnctl --help' to see available commands.")
			}
		}
		fmt.Fprint(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

// formatError renders err for the terminal, keeping structured errors in
// their multi-line form.
func formatError(err error) string {
	msg := err.Error()
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	if _, ok := err.(*errors.Error); ok {
		return msg
	}
	return "✗ " + msg
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the quoted command name out of cobra's
// "unknown command" message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
