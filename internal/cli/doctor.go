package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sdnctl/internal/config"
	"github.com/rileyhilliard/sdnctl/internal/dashboard"
	"github.com/rileyhilliard/sdnctl/internal/doctor"
	"github.com/rileyhilliard/sdnctl/internal/errors"
	"github.com/rileyhilliard/sdnctl/internal/remote"
	"github.com/rileyhilliard/sdnctl/internal/ui"
)

var (
	doctorJSON bool
	doctorFix  bool
)

// doctorCmd runs diagnostics against config, backend and local state
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, backend and local state",
	Long: `Check that the config loads, the backend answers on every endpoint the
dashboard reads, and the local state file is usable.

Examples:
  sdnctl doctor
  sdnctl doctor --fix
  sdnctl doctor --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd.Context(), os.Stdout, DoctorOptions{
			ConfigPath: cfgFile,
			Fix:        doctorFix,
			JSON:       doctorJSON,
		})
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")
	rootCmd.AddCommand(skipConfig(doctorCmd))
}

// DoctorOptions controls a doctor run.
type DoctorOptions struct {
	ConfigPath string
	Fix        bool
	JSON       bool
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

// doctorCommand implements the doctor command logic.
func doctorCommand(ctx context.Context, w io.Writer, opts DoctorOptions) error {
	checks := collectChecks(opts.ConfigPath)

	results := doctor.RunAllParallel(ctx, checks)
	if opts.Fix {
		results = doctor.Fix(ctx, checks, results)
	}

	if opts.JSON {
		if err := WriteJSONSuccess(w, buildDoctorOutput(checks, results)); err != nil {
			return err
		}
	} else {
		renderDoctorText(w, checks, results, opts.Fix)
	}

	if doctor.HasFailures(results) {
		return errors.New(errors.ErrValidate,
			"Doctor found problems: "+doctor.Summary(results),
			"Fix the failing checks and run 'sdnctl doctor' again.")
	}
	return nil
}

// collectChecks gathers every check. Backend and state checks run against
// the loaded config, or defaults when it can't be loaded, so one broken
// setting doesn't hide the rest of the report.
func collectChecks(configPath string) []doctor.Check {
	checks := doctor.NewConfigChecks(configPath)

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil || config.Validate(cfg) != nil {
		cfg = config.DefaultConfig()
	}
	applyOverrides(cfg)

	if config.ValidateBackendURL(cfg.Backend.URL) == nil {
		client := remote.New(cfg.Backend.URL, remote.WithTimeout(cfg.Backend.RequestTimeout))

		var endpoints []doctor.PanelEndpoint
		for _, p := range dashboard.Panels() {
			endpoints = append(endpoints, doctor.PanelEndpoint{
				Panel:    string(p),
				Endpoint: dashboard.PanelEndpoint(p),
			})
		}
		checks = append(checks, doctor.NewBackendChecks(client, cfg.Backend.URL, cfg.Backend.HealthPath, endpoints)...)
	}

	checks = append(checks, &doctor.StateFileCheck{Path: config.ExpandPath(cfg.StateFile)})
	return checks
}

// buildDoctorOutput groups results by category for JSON output.
func buildDoctorOutput(checks []doctor.Check, results []doctor.CheckResult) DoctorOutput {
	grouped := doctor.GroupByCategory(checks)

	output := DoctorOutput{Categories: make([]CategoryOutput, 0, len(grouped))}
	for _, cat := range doctor.Categories {
		indices, ok := grouped[cat]
		if !ok {
			continue
		}
		co := CategoryOutput{Name: cat}
		for _, idx := range indices {
			co.Results = append(co.Results, results[idx])
		}
		output.Categories = append(output.Categories, co)
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		Fixable:  doctor.FixableCount(results),
		AllClear: !doctor.HasIssues(results),
	}
	return output
}

// renderDoctorText writes the human-readable report.
func renderDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult, fixed bool) {
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	failStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("sdnctl Diagnostic Report"))
	fmt.Fprintln(w)

	grouped := doctor.GroupByCategory(checks)
	for _, cat := range doctor.Categories {
		indices, ok := grouped[cat]
		if !ok {
			continue
		}
		fmt.Fprintln(w, headerStyle.Render(cat))
		for _, idx := range indices {
			renderCheckResult(w, results[idx])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", 60))
	fmt.Fprintln(w)

	if !doctor.HasIssues(results) {
		fmt.Fprintf(w, "%s %s\n", successStyle.Render(ui.SymbolSuccess), doctor.Summary(results))
	} else {
		fmt.Fprintf(w, "%s %s\n", failStyle.Render(ui.SymbolFail), doctor.Summary(results))
		if n := doctor.FixableCount(results); n > 0 && !fixed {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "  Run with %s to attempt automatic fixes where possible.\n",
				mutedStyle.Render("--fix"))
		}
	}
	fmt.Fprintln(w)
}

// renderCheckResult renders a single check result.
func renderCheckResult(w io.Writer, result doctor.CheckResult) {
	symbol, color := ui.SymbolComplete, ui.ColorSuccess
	switch result.Status {
	case doctor.StatusWarn:
		symbol, color = ui.SymbolWarning, ui.ColorWarning
	case doctor.StatusFail:
		symbol, color = ui.SymbolFail, ui.ColorError
	}

	fmt.Fprintf(w, "  %s %s\n", lipgloss.NewStyle().Foreground(color).Render(symbol), result.Message)

	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		for _, line := range strings.Split(result.Suggestion, "\n") {
			fmt.Fprintf(w, "    %s\n", mutedStyle.Render(line))
		}
	}
}
