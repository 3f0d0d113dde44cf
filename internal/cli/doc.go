// Package cli implements the sdnctl command-line interface.
//
// Each Cobra command parses its flags and hands off to a plain function
// (statusCommand, runAction, Init, ...) that takes its writer and config
// explicitly, so the logic can be tested without going through Cobra.
//
// # Command Structure
//
//	sdnctl                       - Interactive dashboard (same as 'dashboard')
//	sdnctl watch                 - Headless refresh, notifications as log lines
//	sdnctl status [--json]       - One-shot summary of every panel
//	sdnctl inject [--set 1|2]    - Install a flow rule set
//	sdnctl network start|stop    - Start or stop the emulated network
//	sdnctl test ping|iperf       - Run a connectivity test
//	sdnctl validate ip|cidr      - Check an address
//	sdnctl init                  - Create .sdnctl.yaml
//
// # Runtime
//
// Commands that talk to the backend build a session from the loaded config:
// the HTTP client, notifier, panel board and poller, connectivity monitor,
// action triggers and the local state store. The dashboard renders the
// notifier and monitor through a console.Bridge; watch mode logs them.
//
// # Flag Handling
//
// Global flags (--config, --backend, --log-level, --log-file, --no-color)
// are applied on top of the config file and SDNCTL_* environment variables
// before any command runs. Commands that must work without a usable config
// (init, validate, version, completion) skip loading it.
package cli
