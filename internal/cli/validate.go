package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sdnctl/internal/ui"
	"github.com/rileyhilliard/sdnctl/internal/validate"
)

// validateCmd checks addresses before they go into flow rules
var validateCmd = skipConfig(&cobra.Command{
	Use:   "validate",
	Short: "Check IPv4 addresses and prefixes",
	Long: `Check that a value is a well-formed IPv4 address or CIDR prefix, as
accepted in flow rule match fields.

Examples:
  sdnctl validate ip 10.0.0.1
  sdnctl validate cidr 10.0.0.0/24`,
})

var validateIPCmd = skipConfig(&cobra.Command{
	Use:   "ip <address>",
	Short: "Check an IPv4 address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateIPCommand(os.Stdout, args[0])
	},
})

var validateCIDRCmd = skipConfig(&cobra.Command{
	Use:   "cidr <prefix>",
	Short: "Check an IPv4 CIDR prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateCIDRCommand(os.Stdout, args[0])
	},
})

func init() {
	validateCmd.AddCommand(validateIPCmd, validateCIDRCmd)
	rootCmd.AddCommand(validateCmd)
}

func validateIPCommand(w io.Writer, value string) error {
	ip, err := validate.ParseIP(value)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s is a valid IPv4 address\n", ui.SymbolSuccess, ip)
	return nil
}

func validateCIDRCommand(w io.Writer, value string) error {
	prefix, err := validate.ParseCIDR(value)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s is a valid IPv4 prefix (address %s, /%d)\n",
		ui.SymbolSuccess, prefix, prefix.Addr, prefix.Bits)
	return nil
}
