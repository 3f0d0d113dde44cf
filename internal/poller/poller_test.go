package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failures struct {
	mu    sync.Mutex
	names []string
}

func (f *failures) record(name string, _ error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, name)
}

func (f *failures) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.names...)
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tick did not finish")
	}
}

func TestTick_FailureDoesNotBlockOthers(t *testing.T) {
	var topologies, flows atomic.Bool
	f := &failures{}

	p := New([]Operation{
		{Name: "devices", Run: func(context.Context) error { return errors.New("HTTP 500") }},
		{Name: "topologies", Run: func(context.Context) error { topologies.Store(true); return nil }},
		{Name: "flows", Run: func(context.Context) error { flows.Store(true); return nil }},
	}, WithFailureHandler(f.record))

	waitDone(t, p.Tick(context.Background()))

	assert.True(t, topologies.Load())
	assert.True(t, flows.Load())
	assert.Equal(t, []string{"devices"}, f.all())
}

func TestTick_PanicIsReported(t *testing.T) {
	var ran atomic.Bool
	f := &failures{}

	p := New([]Operation{
		{Name: "status", Run: func(context.Context) error { panic("nil map") }},
		{Name: "flows", Run: func(context.Context) error { ran.Store(true); return nil }},
	}, WithFailureHandler(f.record))

	waitDone(t, p.Tick(context.Background()))

	assert.True(t, ran.Load())
	assert.Equal(t, []string{"status"}, f.all())
}

func TestTick_CancelledRefreshIsNotAFailure(t *testing.T) {
	started := make(chan struct{})
	f := &failures{}

	p := New([]Operation{
		{Name: "flows", Run: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		}},
		{Name: "devices", Run: func(context.Context) error { return errors.New("HTTP 500") }},
	}, WithFailureHandler(f.record))

	ctx, cancel := context.WithCancel(context.Background())
	done := p.Tick(ctx)
	<-started
	require.Eventually(t, func() bool { return len(f.all()) == 1 }, time.Second, time.Millisecond)
	cancel()
	waitDone(t, done)

	assert.Equal(t, []string{"devices"}, f.all())
}

func TestTick_DoesNotWaitForPriorOperations(t *testing.T) {
	release := make(chan struct{})
	var second atomic.Bool

	p := New([]Operation{
		{Name: "slow", Run: func(context.Context) error { <-release; return nil }},
		{Name: "fast", Run: func(context.Context) error { second.Store(true); return nil }},
	})

	done := p.Tick(context.Background())

	// The fast operation completes while the slow one is still blocked.
	require.Eventually(t, second.Load, time.Second, time.Millisecond)
	select {
	case <-done:
		t.Fatal("tick finished before slow operation")
	default:
	}

	close(release)
	waitDone(t, done)
}

func TestTick_NoOperations(t *testing.T) {
	waitDone(t, New(nil).Tick(context.Background()))
}

func TestRun_TicksAtStartupAndOnInterval(t *testing.T) {
	var count atomic.Int32
	p := New([]Operation{
		{Name: "status", Run: func(context.Context) error { count.Add(1); return nil }},
	}, WithInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(stopped)
	}()

	require.Eventually(t, func() bool { return count.Load() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_StartupTickIsImmediate(t *testing.T) {
	var count atomic.Int32
	p := New([]Operation{
		{Name: "status", Run: func(context.Context) error { count.Add(1); return nil }},
	}, WithInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	require.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, time.Millisecond)
}

func TestOperations_Order(t *testing.T) {
	noop := func(context.Context) error { return nil }
	ops := []Operation{{Name: "status", Run: noop}, {Name: "devices", Run: noop}, {Name: "flows", Run: noop}}
	p := New(ops)

	ops[0].Name = "mutated"
	assert.Equal(t, []string{"status", "devices", "flows"}, p.Operations())
	assert.Equal(t, DefaultInterval, p.Interval())
}
