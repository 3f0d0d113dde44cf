package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sdnctl/internal/connectivity"
	"github.com/rileyhilliard/sdnctl/internal/errors"
	"github.com/rileyhilliard/sdnctl/internal/logger"
	"github.com/rileyhilliard/sdnctl/internal/notify"
)

// minWatchInterval keeps watch mode from hammering the backend.
const minWatchInterval = time.Second

var watchIntervalFlag string

// watchCmd runs the background refresh without a TUI
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh panels and report notifications as log lines",
	Long: `Run the panel poller and connectivity monitor without the dashboard.

Notifications and connectivity changes are written to stderr, one line each.
Useful under a process supervisor or when no terminal is attached.

Examples:
  sdnctl watch
  sdnctl watch --interval 5s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, err := ParseInterval(watchIntervalFlag)
		if err != nil {
			return err
		}
		return watchCommand(cmd.Context(), interval)
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchIntervalFlag, "interval", "", "poll interval (e.g., 5s, 1m); defaults to poll_interval")
	rootCmd.AddCommand(watchCmd)
}

// ParseInterval parses a poll interval flag. An empty flag returns zero,
// meaning "use the configured interval".
func ParseInterval(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 5s, 30s, or 1m.")
	}
	if d < minWatchInterval {
		return 0, errors.New(errors.ErrConfig,
			"Interval too short",
			fmt.Sprintf("Minimum interval is %s to avoid overwhelming the backend.", minWatchInterval))
	}
	return d, nil
}

// watchCommand polls until interrupted. A zero interval keeps the
// configured one.
func watchCommand(ctx context.Context, interval time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := *Config()
	if interval > 0 {
		cfg.PollInterval = interval
	}

	out := logger.NewEnvLogger("watch")
	sess, err := newSession(&cfg, sessionOptions{
		Sink:      notify.LogSink{Log: out},
		Indicator: connectivityReporter(out),
	})
	if err != nil {
		return err
	}
	defer sess.close()

	out.Info("watching %s every %s (Ctrl+C to stop)", cfg.Backend.URL, cfg.PollInterval)
	sess.start(ctx)
	<-ctx.Done()
	out.Info("stopped")
	return nil
}

// connectivityReporter logs reachability transitions, not every probe.
func connectivityReporter(log logger.Logger) connectivity.Indicator {
	var (
		mu    sync.Mutex
		known bool
		last  bool
	)
	return connectivity.IndicatorFunc(func(s connectivity.State) {
		mu.Lock()
		defer mu.Unlock()

		if known && last == s.Reachable {
			return
		}
		known, last = true, s.Reachable

		view := s.View()
		if s.Reachable {
			log.Info("%s: %s", view.Label, view.Title)
		} else {
			log.Warn("%s: %s", view.Label, view.Title)
		}
	})
}
