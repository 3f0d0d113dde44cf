package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/sdnctl/internal/config"
	"github.com/rileyhilliard/sdnctl/internal/errors"
	"github.com/rileyhilliard/sdnctl/internal/remote"
	"github.com/rileyhilliard/sdnctl/internal/ui"
)

// initProbeTimeout bounds the connection test run before saving.
const initProbeTimeout = 5 * time.Second

var (
	initBackendFlag string
	initForce       bool
)

// initCmd creates a new .sdnctl.yaml configuration
var initCmd = skipConfig(&cobra.Command{
	Use:   "init",
	Short: "Create .sdnctl.yaml configuration",
	Long: `Initialize a new sdnctl configuration file in the current directory.

Prompts for the backend URL and refresh intervals, tests the connection,
then writes .sdnctl.yaml. If the file already exists, --backend updates
just backend.url and keeps the rest of the file (comments included).

Examples:
  sdnctl init
  sdnctl init --backend http://10.0.0.5:5000
  sdnctl init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(InitOptions{
			Dir:            ".",
			Backend:        initBackendFlag,
			Overwrite:      initForce,
			NonInteractive: !term.IsTerminal(int(os.Stdin.Fd())),
			Out:            os.Stdout,
		})
	},
})

func init() {
	initCmd.Flags().StringVar(&initBackendFlag, "backend", "", "backend URL to write")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	rootCmd.AddCommand(initCmd)
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Dir            string // Directory to write the config into
	Backend        string // Pre-specified backend URL
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use flags and defaults
	Out            io.Writer
}

// Init creates or updates the .sdnctl.yaml configuration file.
func Init(opts InitOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	configPath := filepath.Join(opts.Dir, config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.Backend != "" {
			return updateBackend(out, configPath, opts.Backend)
		}

		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite, or --backend to change just the URL.")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if opts.Backend != "" {
		cfg.Backend.URL = strings.TrimRight(opts.Backend, "/")
	}

	if !opts.NonInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	probeBackend(out, cfg)

	data, err := config.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# sdnctl configuration
# Run 'sdnctl' to open the dashboard, 'sdnctl status' for a one-shot summary.
# Every key can be overridden with SDNCTL_<KEY>, e.g. SDNCTL_BACKEND_URL.

`
	if err := os.WriteFile(configPath, []byte(header+string(data)), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Fprintf(out, "%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  sdnctl          - Open the dashboard")
	fmt.Fprintln(out, "  sdnctl status   - Print a one-shot summary")
	fmt.Fprintln(out, "  sdnctl inject   - Install the default flow rules")

	return nil
}

// updateBackend rewrites backend.url in an existing file.
func updateBackend(out io.Writer, configPath, backend string) error {
	backend = strings.TrimRight(backend, "/")
	if err := config.ValidateBackendURL(backend); err != nil {
		return err
	}
	if err := config.SetValue(configPath, "backend.url", backend); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Updated backend.url in %s\n", ui.SymbolSuccess, configPath)
	return nil
}

// promptConfig asks for the values most setups change.
func promptConfig(cfg *config.Config) error {
	backend := cfg.Backend.URL
	poll := cfg.PollInterval.String()
	probe := cfg.ProbeInterval.String()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Base URL of the SDN testbed API").
				Placeholder(config.DefaultBackendURL).
				Value(&backend).
				Validate(func(s string) error {
					if err := config.ValidateBackendURL(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("%s", errors.Summary(err))
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Refresh interval").
				Description("How often dashboard panels reload").
				Value(&poll).
				Validate(validDuration),
			huh.NewInput().
				Title("Health probe interval").
				Description("How often backend reachability is checked").
				Value(&probe).
				Validate(validDuration),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or pass --backend from a script")
	}

	return applyAnswers(cfg, backend, poll, probe)
}

// applyAnswers copies prompt answers onto cfg, parsing them the same way
// the prompts validated them.
func applyAnswers(cfg *config.Config, backend, poll, probe string) error {
	pollInterval, err := parsePromptDuration(poll)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid refresh interval %q", poll), "Use a duration like 30s or 1m")
	}
	probeInterval, err := parsePromptDuration(probe)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid health probe interval %q", probe), "Use a duration like 30s or 1m")
	}

	cfg.Backend.URL = strings.TrimRight(strings.TrimSpace(backend), "/")
	cfg.PollInterval = pollInterval
	cfg.ProbeInterval = probeInterval
	return nil
}

// parsePromptDuration parses a positive duration, ignoring surrounding spaces.
func parsePromptDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("use a duration like 30s or 1m")
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return d, nil
}

func validDuration(s string) error {
	_, err := parsePromptDuration(s)
	return err
}

// probeBackend reports whether the backend answers. Failure only warns:
// the backend is often started after the console is configured.
func probeBackend(out io.Writer, cfg *config.Config) {
	spinner := ui.NewSpinner(out, "Testing connection to "+cfg.Backend.URL)
	spinner.Start()

	ctx, cancel := context.WithTimeout(context.Background(), initProbeTimeout)
	defer cancel()

	client := remote.New(cfg.Backend.URL, remote.WithTimeout(initProbeTimeout))
	res := client.Call(ctx, cfg.Backend.HealthPath, remote.Options{Method: http.MethodHead})
	if !res.OK {
		spinner.Fail("not reachable yet, saving anyway")
		return
	}
	spinner.Success("")
}
