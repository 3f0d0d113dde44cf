package cli

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/rileyhilliard/sdnctl/internal/action"
	"github.com/rileyhilliard/sdnctl/internal/config"
	"github.com/rileyhilliard/sdnctl/internal/connectivity"
	"github.com/rileyhilliard/sdnctl/internal/dashboard"
	"github.com/rileyhilliard/sdnctl/internal/fault"
	"github.com/rileyhilliard/sdnctl/internal/logger"
	"github.com/rileyhilliard/sdnctl/internal/notify"
	"github.com/rileyhilliard/sdnctl/internal/poller"
	"github.com/rileyhilliard/sdnctl/internal/remote"
	"github.com/rileyhilliard/sdnctl/internal/store"
)

// sessionOptions selects where a session renders.
type sessionOptions struct {
	// Sink renders notifications. Nil drops them.
	Sink notify.Sink
	// Indicator receives connectivity changes.
	Indicator connectivity.Indicator
	// Interactive means the terminal belongs to a TUI, so logs never go
	// to stderr.
	Interactive bool
}

// session holds every long-lived component built from the config.
type session struct {
	cfg       *config.Config
	log       zerolog.Logger
	closeLog  func()
	client    *remote.Client
	store     *store.Store
	notifier  *notify.Notifier
	board     *dashboard.Board
	refresher *dashboard.Refresher
	poller    *poller.Poller
	monitor   *connectivity.Monitor
	actions   *action.Set
	faults    *fault.Handler
}

// newSession wires the components together.
func newSession(cfg *config.Config, opts sessionOptions) (*session, error) {
	zl, closeLog, err := newLogger(cfg, opts.Interactive)
	if err != nil {
		return nil, err
	}

	sess := &session{cfg: cfg, log: zl, closeLog: closeLog}

	sess.client = remote.New(cfg.Backend.URL,
		remote.WithTimeout(cfg.Backend.RequestTimeout),
		remote.WithLogger(sess.component("remote")),
	)
	sess.store = store.New(cfg.StateFile, sess.component("store"))

	sess.notifier = notify.New(opts.Sink,
		notify.WithDefaultDuration(cfg.Notifications.Duration),
		notify.WithHistorySize(cfg.Notifications.History),
	)
	sess.notifier.Restore(store.Load(sess.store, store.KeyNotifications, []notify.Notification(nil)))

	sess.faults = fault.NewHandler(sess.component("fault"), sess.notifier)

	sess.board = dashboard.NewBoard()
	sess.refresher = dashboard.NewRefresher(sess.client, sess.board)
	sess.poller = poller.New(sess.refresher.Operations(),
		poller.WithInterval(cfg.PollInterval),
		poller.WithFailureHandler(sess.refreshFailed),
		poller.WithLogger(sess.component("poller")),
	)

	monitorOpts := []connectivity.Option{
		connectivity.WithInterval(cfg.ProbeInterval),
		connectivity.WithEndpoint(cfg.Backend.HealthPath),
		connectivity.WithLogger(sess.component("connectivity")),
	}
	if opts.Indicator != nil {
		monitorOpts = append(monitorOpts, connectivity.WithIndicator(opts.Indicator))
	}
	sess.monitor = connectivity.New(sess.client, monitorOpts...)

	sess.actions = action.NewSet(sess.client, sess.notifier,
		action.WithDuration(cfg.Notifications.Duration),
		action.WithLogger(sess.component("action")),
	)

	return sess, nil
}

// newLogger builds the process logger. An empty log file means stderr for
// one-shot commands and no logging at all for the TUI.
func newLogger(cfg *config.Config, interactive bool) (zerolog.Logger, func(), error) {
	if interactive && cfg.Log.File == "" {
		return zerolog.New(io.Discard), func() {}, nil
	}
	return logger.New(cfg.Log.Level, cfg.Log.File)
}

func (sess *session) component(name string) logger.Logger {
	return logger.FromZerolog(sess.log, name)
}

// refreshFailed reports a failed panel refresh. Connectivity noise is a
// warning since the indicator already shows it; anything else is an error.
func (sess *session) refreshFailed(name string, err error) {
	if fault.IsNetworkNoise(err) {
		sess.notifier.Notify(notify.Request{
			Message:  "Could not refresh " + name,
			Severity: notify.SeverityWarning,
			Duration: sess.cfg.Notifications.Duration,
		})
		return
	}
	sess.faults.Handle(err)
}

// start runs the monitor and poller until ctx is done.
func (sess *session) start(ctx context.Context) {
	sess.faults.Go(func() { sess.monitor.Run(ctx) })
	sess.faults.Go(func() { sess.poller.Run(ctx) })
}

// close persists session state and releases the log file.
func (sess *session) close() {
	if err := sess.store.Save(store.KeyNotifications, sess.notifier.History()); err != nil {
		sess.component("store").Warn("save notification history: %v", err)
	}
	sess.closeLog()
}
