// Package poller drives the dashboard's periodic refresh.
//
// A Poller holds a fixed, ordered set of refresh operations. Each tick starts
// every operation in order without waiting for the previous one, so their
// completions may interleave. Operations are independent: one failing (or
// panicking) is reported and never blocks or cancels the rest of the tick.
package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rileyhilliard/sdnctl/internal/logger"
)

// DefaultInterval is the refresh cadence.
const DefaultInterval = 30 * time.Second

// Operation is one named refresh.
type Operation struct {
	Name string
	Run  func(ctx context.Context) error
}

// FailureFunc is called once for every failed operation.
type FailureFunc func(name string, err error)

// Poller runs its operations at startup and on every interval.
type Poller struct {
	ops       []Operation
	interval  time.Duration
	onFailure FailureFunc
	log       logger.Logger
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval sets the refresh interval.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithFailureHandler sets the function that surfaces failed operations.
func WithFailureHandler(fn FailureFunc) Option {
	return func(p *Poller) {
		p.onFailure = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Poller) {
		if l != nil {
			p.log = l
		}
	}
}

// New creates a Poller over ops. The slice is copied; the set of operations
// is fixed for the Poller's lifetime.
func New(ops []Operation, opts ...Option) *Poller {
	p := &Poller{
		ops:      append([]Operation(nil), ops...),
		interval: DefaultInterval,
		log:      logger.Noop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Operations returns the operation names in run order.
func (p *Poller) Operations() []string {
	names := make([]string, len(p.ops))
	for i, op := range p.ops {
		names[i] = op.Name
	}
	return names
}

// Interval returns the refresh interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run ticks once immediately and then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.Tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick starts every operation and returns a channel that is closed once all
// of them have finished.
func (p *Poller) Tick(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(len(p.ops))
	for _, op := range p.ops {
		go func(op Operation) {
			defer wg.Done()
			p.runOne(ctx, op)
		}(op)
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	return done
}

func (p *Poller) runOne(ctx context.Context, op Operation) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			p.log.Warn("refresh %s failed: %v", op.Name, err)
			if p.onFailure != nil {
				p.onFailure(op.Name, err)
			}
		}
	}()

	err = op.Run(ctx)
	if err != nil && ctx.Err() != nil {
		p.log.Debug("refresh %s abandoned: %v", op.Name, err)
		err = nil
	}
}
