package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sdnctl/internal/errors"
)

// completionCmd generates shell completion scripts
var completionCmd = skipConfig(&cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for sdnctl.

Examples:
  # Bash
  sdnctl completion bash > /etc/bash_completion.d/sdnctl

  # Zsh
  sdnctl completion zsh > "${fpath[1]}/_sdnctl"

  # Fish
  sdnctl completion fish > ~/.config/fish/completions/sdnctl.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
})

func init() {
	rootCmd.AddCommand(completionCmd)
}
