package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sdnctl/internal/ui"
)

// Set via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	versionShort bool
	versionJSON  bool
)

var versionCmd = skipConfig(&cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of sdnctl.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVersion(cmd.OutOrStdout(), versionShort, versionJSON)
	},
})

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version number")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(versionCmd)
}

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Built   string `json:"built"`
	Go      string `json:"go"`
	OSArch  string `json:"os_arch"`
}

func currentVersion() VersionInfo {
	return VersionInfo{
		Version: displayVersion(version),
		Commit:  commit,
		Built:   date,
		Go:      runtime.Version(),
		OSArch:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func printVersion(w io.Writer, short, asJSON bool) error {
	info := currentVersion()
	switch {
	case asJSON:
		return WriteJSONSuccess(w, info)
	case short:
		_, err := fmt.Fprintln(w, version)
		return err
	}

	fmt.Fprintf(w, "sdnctl %s\n", info.Version)
	fmt.Fprint(w, ui.RenderKeyValues([]ui.KeyValue{
		{Key: "commit", Value: info.Commit},
		{Key: "built", Value: info.Built},
		{Key: "go", Value: info.Go},
		{Key: "os/arch", Value: info.OSArch},
	}))
	return nil
}

// displayVersion adds a v prefix to release versions.
func displayVersion(v string) string {
	if v == "" || v == "dev" || strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// SetVersionInfo sets the version information (called from main).
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
