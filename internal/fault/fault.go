// Package fault is the last line of error handling for background work.
// Panics and errors that escape a goroutine end up here: they are always
// logged, and turned into an error notification only when the operator can
// act on them. Routine connectivity noise stays in the log.
package fault

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"runtime/debug"

	"github.com/rileyhilliard/sdnctl/internal/errors"
	"github.com/rileyhilliard/sdnctl/internal/logger"
	"github.com/rileyhilliard/sdnctl/internal/notify"
	"github.com/rileyhilliard/sdnctl/internal/remote"
)

// Notifier is the part of notify.Notifier the handler needs.
type Notifier interface {
	Notify(notify.Request)
}

// Handler logs unhandled failures and surfaces the user-relevant ones.
type Handler struct {
	log      logger.Logger
	notifier Notifier
}

// NewHandler creates a Handler. A nil notifier means log-only.
func NewHandler(log logger.Logger, notifier Notifier) *Handler {
	if log == nil {
		log = logger.Noop()
	}
	return &Handler{log: log, notifier: notifier}
}

// Handle logs err and notifies unless it is network noise.
func (h *Handler) Handle(err error) {
	if err == nil {
		return
	}

	if IsNetworkNoise(err) {
		h.log.Debug("suppressed network error: %v", err)
		return
	}

	h.log.Error("unhandled error: %v", err)
	if h.notifier != nil {
		h.notifier.Notify(notify.Request{
			Message:  errors.Summary(err),
			Severity: notify.SeverityError,
			Duration: notify.DefaultDuration,
		})
	}
}

// Recover must be deferred. It converts a panic into a handled error.
func (h *Handler) Recover() {
	if r := recover(); r != nil {
		h.log.Debug("panic stack: %s", debug.Stack())
		h.Handle(fmt.Errorf("unexpected failure: %v", r))
	}
}

// Go runs fn on a new goroutine with panic recovery.
func (h *Handler) Go(fn func()) {
	go func() {
		defer h.Recover()
		fn()
	}()
}

// IsNetworkNoise reports whether err is a transient transport failure:
// a remote NetworkError, a net.Error, a cancelled or expired context, or a
// structured error coded ErrNetwork.
func IsNetworkNoise(err error) bool {
	if err == nil {
		return false
	}

	var callErr *remote.CallError
	if stderrors.As(err, &callErr) {
		return callErr.Kind == remote.NetworkError
	}

	if errors.IsCode(err, errors.ErrNetwork) {
		return true
	}

	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return stderrors.As(err, &netErr)
}
