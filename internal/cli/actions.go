package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/sdnctl/internal/action"
	"github.com/rileyhilliard/sdnctl/internal/config"
	"github.com/rileyhilliard/sdnctl/internal/errors"
	"github.com/rileyhilliard/sdnctl/internal/fault"
	"github.com/rileyhilliard/sdnctl/internal/notify"
	"github.com/rileyhilliard/sdnctl/internal/ui"
)

// Command-specific flags
var (
	injectSetFlag int
	stopYesFlag   bool
)

// injectCmd pushes a predefined flow rule set to the controller
var injectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Inject a predefined flow rule set",
	Long: `Ask the backend to install one of its predefined flow rule sets.

Examples:
  sdnctl inject
  sdnctl inject --set 2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := injectAction(injectSetFlag)
		if err != nil {
			return err
		}
		return runAction(cmd.Context(), os.Stdout, Config(), name)
	},
}

// networkCmd groups the emulated network lifecycle commands
var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Start or stop the emulated network",
}

var networkStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the emulated network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd.Context(), os.Stdout, Config(), action.StartNetwork.Name)
	},
}

var networkStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the emulated network",
	Long: `Stop the emulated network. Asks for confirmation unless --yes is given.

Examples:
  sdnctl network stop
  sdnctl network stop --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := confirmStop(stopYesFlag)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
		return runAction(cmd.Context(), os.Stdout, Config(), action.StopNetwork.Name)
	},
}

// testCmd groups the connectivity tests run inside the emulated network
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run ping or iperf tests in the emulated network",
}

var testPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping between all hosts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd.Context(), os.Stdout, Config(), action.PingAll.Name)
	},
}

var testIperfCmd = &cobra.Command{
	Use:   "iperf",
	Short: "Measure bandwidth with iperf",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd.Context(), os.Stdout, Config(), action.Iperf.Name)
	},
}

func init() {
	injectCmd.Flags().IntVar(&injectSetFlag, "set", 1, "flow rule set to inject (1 or 2)")
	networkStopCmd.Flags().BoolVarP(&stopYesFlag, "yes", "y", false, "skip the confirmation prompt")

	networkCmd.AddCommand(networkStartCmd, networkStopCmd)
	testCmd.AddCommand(testPingCmd, testIperfCmd)

	rootCmd.AddCommand(injectCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(testCmd)
}

// injectAction maps --set to the action name.
func injectAction(set int) (string, error) {
	switch set {
	case 1:
		return action.InjectFlows.Name, nil
	case 2:
		return action.InjectFlowSet2.Name, nil
	}
	return "", errors.New(errors.ErrValidate,
		fmt.Sprintf("Unknown flow rule set %d", set),
		"Use --set 1 or --set 2.")
}

// confirmStop asks before stopping the network.
func confirmStop(yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New(errors.ErrAction,
			"Refusing to stop the network without confirmation",
			"Pass --yes when running non-interactively.")
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Stop the emulated network?").
				Description("Running tests and installed flows will be lost.").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrAction,
			"Failed to get user input",
			"Pass --yes to skip the prompt.")
	}
	return confirmed, nil
}

// runAction runs one backend action with a spinner and prints its result.
func runAction(ctx context.Context, w io.Writer, cfg *config.Config, name string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	def, ok := action.Lookup(name)
	if !ok {
		return errors.New(errors.ErrAction, "Unknown action "+name, "")
	}

	// Outcomes are printed below; the sink only keeps them in history.
	sess, err := newSession(cfg, sessionOptions{Sink: notify.SinkFunc{}})
	if err != nil {
		return err
	}
	defer sess.close()

	spinner := ui.NewSpinner(w, def.Label)
	spinner.Start()

	out := sess.actions.Run(ctx, name)
	if !out.Success {
		spinner.Fail(out.Message)
		return actionError(cfg, out)
	}

	spinner.Success(out.Message)
	if output := strings.TrimRight(out.Output, "\n"); output != "" {
		fmt.Fprintln(w)
		for _, line := range strings.Split(output, "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
	return nil
}

// actionError turns a failed outcome into a structured error.
func actionError(cfg *config.Config, out action.Outcome) error {
	suggestion := "Check the backend logs for details."
	if fault.IsNetworkNoise(out.Err) {
		suggestion = fmt.Sprintf("Check that the backend is running at %s.", cfg.Backend.URL)
	}
	return errors.WrapWithCode(out.Err, errors.ErrAction, out.Message, suggestion)
}
