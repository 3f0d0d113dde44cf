package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/sdnctl/internal/config"
	"github.com/rileyhilliard/sdnctl/internal/dashboard"
	"github.com/rileyhilliard/sdnctl/internal/errors"
	"github.com/rileyhilliard/sdnctl/internal/fault"
	"github.com/rileyhilliard/sdnctl/internal/format"
	"github.com/rileyhilliard/sdnctl/internal/remote"
	"github.com/rileyhilliard/sdnctl/internal/ui"
)

var statusJSON bool

// statusCmd fetches every panel once and prints it
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show network, device and flow status",
	Long: `Fetch every dashboard panel once and print it.

Panels that fail are reported inline; the command fails only when the
backend could not be reached at all.

Examples:
  sdnctl status
  sdnctl status --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusCommand(cmd.Context(), os.Stdout, Config(), statusJSON)
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(statusCmd)
}

// StatusOutput is the JSON form of the status command.
type StatusOutput struct {
	Backend    string                `json:"backend"`
	Status     dashboard.Status      `json:"status"`
	Devices    []dashboard.Device    `json:"devices"`
	Topologies []dashboard.Topology  `json:"topologies"`
	Flows      []dashboard.Flow      `json:"flows"`
	Selection  dashboard.Selection   `json:"selection"`
	QoS        dashboard.QoS         `json:"qos"`
	Errors     map[string]*JSONError `json:"errors,omitempty"`
}

// statusCommand implements the status command logic.
func statusCommand(ctx context.Context, w io.Writer, cfg *config.Config, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	client := remote.New(cfg.Backend.URL, remote.WithTimeout(cfg.Backend.RequestTimeout))
	snap, failed := fetchAll(ctx, client)

	if failed == len(dashboard.Panels()) {
		cause := snap.Panel(dashboard.PanelStatus).Err
		err := errors.WrapWithCode(cause, errors.ErrHTTP,
			"Every request to "+cfg.Backend.URL+" failed",
			"Check the backend logs.")
		if fault.IsNetworkNoise(cause) {
			err = errors.WrapWithCode(cause, errors.ErrNetwork,
				"Couldn't reach the backend at "+cfg.Backend.URL,
				"Check that the backend is running, or point at it with --backend.")
		}
		if asJSON {
			_ = WriteJSONFromError(w, err)
		}
		return err
	}

	if asJSON {
		return WriteJSONSuccess(w, toStatusOutput(cfg.Backend.URL, snap))
	}

	renderStatus(w, cfg.Backend.URL, snap)
	return nil
}

// fetchAll refreshes every panel in parallel and returns the snapshot and
// how many panels failed.
func fetchAll(ctx context.Context, caller remote.Caller) (dashboard.Snapshot, int) {
	board := dashboard.NewBoard()
	refresher := dashboard.NewRefresher(caller, board)

	// Errors land on the board; the group only waits.
	var g errgroup.Group
	for _, op := range refresher.Operations() {
		g.Go(func() error {
			_ = op.Run(ctx)
			return nil
		})
	}
	_ = g.Wait()

	snap := board.Snapshot()
	failed := 0
	for _, p := range dashboard.Panels() {
		if snap.Panel(p).Err != nil {
			failed++
		}
	}
	return snap, failed
}

func toStatusOutput(backend string, snap dashboard.Snapshot) StatusOutput {
	out := StatusOutput{
		Backend:    backend,
		Status:     snap.Status,
		Devices:    snap.Devices,
		Topologies: snap.Topologies,
		Flows:      snap.Flows,
		Selection:  snap.Selection,
		QoS:        snap.QoS,
	}
	for _, p := range dashboard.Panels() {
		if err := snap.Panel(p).Err; err != nil {
			if out.Errors == nil {
				out.Errors = map[string]*JSONError{}
			}
			out.Errors[string(p)] = ErrorToJSON(err)
		}
	}
	return out
}

var (
	sectionStyle = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	errorStyle   = lipgloss.NewStyle().Foreground(ui.ColorWarning)
)

func renderStatus(w io.Writer, backend string, snap dashboard.Snapshot) {
	ns := format.NetworkStatus(snap.Status.NetworkRunning)
	available := snap.AvailableDevices()

	fmt.Fprintln(w, sectionStyle.Render("Backend"))
	fmt.Fprintln(w, ui.RenderKeyValues([]ui.KeyValue{
		{Key: "URL", Value: backend},
		{Key: "Network", Value: ns.Icon + " " + ns.Text},
		{Key: "Devices", Value: fmt.Sprintf("%s (%s available)", format.Count(int64(snap.Status.DeviceCount)), format.Count(int64(available)))},
		{Key: "Topology", Value: orNone(snap.Selection.Topology)},
		{Key: "Flow set", Value: orNone(snap.Selection.FlowSet)},
	}))
	if total := len(snap.Devices); total > 0 {
		fmt.Fprintln(w, "  "+ui.RenderProgressBar(format.Percent(float64(available), float64(total)), 30))
	}
	panelError(w, snap, dashboard.PanelStatus)
	panelError(w, snap, dashboard.PanelSelection)

	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render("Devices"))
	if len(snap.Devices) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  none"))
	} else {
		rows := make([][]string, 0, len(snap.Devices))
		for _, d := range snap.Devices {
			state := ui.SymbolOffline + " offline"
			if d.Available {
				state = ui.SymbolComplete + " online"
			}
			rows = append(rows, []string{d.ID, d.Type, state})
		}
		fmt.Fprintln(w, ui.RenderSimpleTable([]ui.TableColumn{
			{Title: "ID", Width: 24}, {Title: "TYPE", Width: 10}, {Title: "STATE", Width: 10},
		}, rows))
	}
	panelError(w, snap, dashboard.PanelDevices)

	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("Flow rules (%s)", format.Count(int64(len(snap.Flows))))))
	if len(snap.Flows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  none"))
	} else {
		rows := make([][]string, 0, len(snap.Flows))
		for _, f := range snap.Flows {
			rows = append(rows, []string{f.ID, f.DeviceID, strconv.Itoa(f.Priority), f.State, format.Bytes(f.Bytes)})
		}
		fmt.Fprintln(w, ui.RenderSimpleTable([]ui.TableColumn{
			{Title: "ID", Width: 18}, {Title: "DEVICE", Width: 22}, {Title: "PRIORITY", Width: 8},
			{Title: "STATE", Width: 10}, {Title: "BYTES", Width: 10},
		}, rows))
	}
	panelError(w, snap, dashboard.PanelFlows)

	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render("Topologies"))
	if len(snap.Topologies) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  none"))
	}
	for _, t := range snap.Topologies {
		line := "  " + t.Name
		if t.Description != "" {
			line += mutedStyle.Render(" - " + t.Description)
		}
		fmt.Fprintln(w, line)
	}
	panelError(w, snap, dashboard.PanelTopologies)

	classes := snap.QoS.Classes()
	if len(classes) > 0 || snap.Panel(dashboard.PanelQoS).Err != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sectionStyle.Render("QoS limits"))
		pairs := make([]ui.KeyValue, 0, len(classes))
		for _, c := range classes {
			pairs = append(pairs, ui.KeyValue{Key: c, Value: snap.QoS.BandwidthLimits[c]})
		}
		if len(pairs) > 0 {
			fmt.Fprintln(w, ui.RenderKeyValues(pairs))
		}
		panelError(w, snap, dashboard.PanelQoS)
	}
}

func panelError(w io.Writer, snap dashboard.Snapshot, p dashboard.Panel) {
	if err := snap.Panel(p).Err; err != nil {
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("  %s %s: %s", ui.SymbolWarning, p, errors.Summary(err))))
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
