// Package scripting implements the embedded JavaScript host that drives the
// bot: a serialized run loop owning a goja evaluator, timer scheduling,
// event dispatch, and the mf host API installed into the script's globals.
package scripting

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"
	"github.com/dop251/goja_nodejs/require"
)

// Runtime owns the event loop that serializes all JavaScript execution.
// goja.Runtime is not goroutine-safe; every evaluator, timer, and dispatch
// operation is funnelled through RunOnLoop so that exactly one goroutine
// ever enters the evaluator. Foreign-thread callers (game signal emitters,
// the host's public Start) marshal through the same loop.
type Runtime struct {
	loop     *eventloop.EventLoop
	registry *require.Registry

	mu      sync.RWMutex
	started bool
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRuntime creates a Runtime with a running event loop. Call Close when
// done. The provided context bounds the runtime's lifetime: cancelling it
// stops the loop.
func NewRuntime(ctx context.Context) (*Runtime, error) {
	registry := require.NewRegistry()
	loop := eventloop.NewEventLoop(
		eventloop.WithRegistry(registry),
		eventloop.EnableConsole(true),
	)

	childCtx, cancel := context.WithCancel(context.Background())
	rt := &Runtime{
		loop:     loop,
		registry: registry,
		ctx:      childCtx,
		cancel:   cancel,
	}

	loop.Start()
	rt.mu.Lock()
	rt.started = true
	rt.mu.Unlock()

	if ctx != nil && ctx.Done() != nil {
		context.AfterFunc(ctx, func() {
			_ = rt.Close()
		})
	}
	return rt, nil
}

// Registry returns the CommonJS require registry, for registering native
// modules before any script runs.
func (rt *Runtime) Registry() *require.Registry {
	return rt.registry
}

// EventLoop exposes the underlying loop for timer scheduling.
func (rt *Runtime) EventLoop() *eventloop.EventLoop {
	return rt.loop
}

// Close stops the event loop after pending jobs complete. Safe to call
// multiple times.
func (rt *Runtime) Close() error {
	rt.mu.Lock()
	if rt.stopped {
		rt.mu.Unlock()
		return nil
	}
	rt.stopped = true
	rt.mu.Unlock()

	// Unblock Done() waiters before the (blocking) loop stop.
	rt.cancel()
	rt.loop.Stop()
	return nil
}

// Done is closed when the runtime has stopped.
func (rt *Runtime) Done() <-chan struct{} {
	return rt.ctx.Done()
}

// IsRunning reports whether the loop is accepting work.
func (rt *Runtime) IsRunning() bool {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.started && !rt.stopped
}

// RunOnLoop schedules fn on the loop goroutine. A request accepted here is
// never dropped: if the loop is busy the job queues behind in-flight work
// and executes once the loop drains. Returns false only if the runtime has
// stopped.
//
// All goja values must stay confined to the callback.
func (rt *Runtime) RunOnLoop(fn func(*goja.Runtime)) bool {
	rt.mu.RLock()
	if !rt.started || rt.stopped {
		rt.mu.RUnlock()
		return false
	}
	rt.mu.RUnlock()
	return rt.loop.RunOnLoop(fn)
}

// RunOnLoopSync schedules fn on the loop and waits for it to finish.
// Must not be called from the loop goroutine itself.
func (rt *Runtime) RunOnLoopSync(fn func(*goja.Runtime) error) error {
	errCh := make(chan error, 1)
	if !rt.RunOnLoop(func(vm *goja.Runtime) { errCh <- fn(vm) }) {
		return errors.New("event loop not running")
	}
	select {
	case err := <-errCh:
		return err
	case <-rt.Done():
		return errors.New("runtime stopped before completion")
	}
}

// GetGlobal reads a global from the evaluator, exported to a Go value.
// Returns nil for undefined/null globals.
func (rt *Runtime) GetGlobal(name string) (any, error) {
	var result any
	err := rt.RunOnLoopSync(func(vm *goja.Runtime) error {
		val := vm.Get(name)
		if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
			return nil
		}
		result = val.Export()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get global %s: %w", name, err)
	}
	return result, nil
}
