package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/sdnctl/internal/console"
	"github.com/rileyhilliard/sdnctl/internal/dashboard"
	"github.com/rileyhilliard/sdnctl/internal/errors"
	"github.com/rileyhilliard/sdnctl/internal/store"
)

// dashboardCmd opens the interactive dashboard
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive dashboard for the SDN backend",
	Long: `Open the interactive dashboard. Panels refresh in the background and
a badge in the header shows whether the backend answers health probes.

Keyboard shortcuts:
  i / I       Inject flow rules / flow rule set 2
  s / x       Start / stop the emulated network
  p / f       Ping all hosts / iperf test
  r           Refresh now
  t           Cycle topology selection
  tab         Switch the detail pane (flows, devices, QoS)
  up/k        Scroll up
  down/j      Scroll down
  esc         Dismiss notification
  ?           Show help
  q / Ctrl+C  Quit

Without a terminal, falls back to 'sdnctl watch'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

// dashboardCommand runs the TUI until the operator quits.
func dashboardCommand(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "No terminal detected, falling back to watch mode.")
		return watchCommand(ctx, 0)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bridge := console.NewBridge(ctx, console.DefaultEventBuffer)
	sess, err := newSession(Config(), sessionOptions{
		Sink:        bridge,
		Indicator:   bridge,
		Interactive: true,
	})
	if err != nil {
		return err
	}
	defer sess.close()

	sess.board.OnChange(bridge.PanelChanged)

	model := console.NewModel(console.Options{
		Context:    ctx,
		BackendURL: sess.cfg.Backend.URL,
		Board:      sess.board,
		Actions:    sess.actions,
		Refresh:    sess.poller.Tick,
		Events:     bridge.Events(),
		History:    sess.notifier.History,
		Dismiss:    sess.notifier.Dismiss,
		Selection:  store.Load(sess.store, store.KeySelection, ""),
		OnSelect: func(topology string) {
			if err := sess.store.Save(store.KeySelection, topology); err != nil {
				sess.faults.Handle(err)
			}
		},
		Detail: dashboard.Panel(store.Load(sess.store, store.KeyLastPanel, string(dashboard.PanelFlows))),
		OnDetail: func(p dashboard.Panel) {
			if err := sess.store.Save(store.KeyLastPanel, string(p)); err != nil {
				sess.faults.Handle(err)
			}
		},
	})

	sess.start(ctx)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Dashboard exited unexpectedly",
			"Try 'sdnctl watch' if your terminal has trouble with full-screen apps.")
	}
	return nil
}
