package scripting

import (
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"
)

// timerEntry is one outstanding timer. Ids are monotonically increasing and
// never reused while the host lives.
type timerEntry struct {
	id       int64
	repeat   bool
	this     goja.Value
	fn       goja.Callable
	interval time.Duration

	timer  *eventloop.Timer
	ticker *eventloop.Interval
}

// timerRegistry tracks outstanding timers by id. The underlying timing is
// the event loop's own timer mechanism, so firings arrive as discrete jobs
// on the serialized loop and never interleave with running handlers.
// All methods run on the loop goroutine.
type timerRegistry struct {
	host    *Host
	nextID  int64
	entries map[int64]*timerEntry
}

func newTimerRegistry(host *Host) *timerRegistry {
	return &timerRegistry{host: host, entries: make(map[int64]*timerEntry)}
}

// schedule registers a callback to fire after interval (and, if repeat,
// every interval thereafter) and returns its id immediately.
func (r *timerRegistry) schedule(fn goja.Callable, this goja.Value, interval time.Duration, repeat bool) int64 {
	id := r.nextID
	r.nextID++

	entry := &timerEntry{
		id:       id,
		repeat:   repeat,
		this:     this,
		fn:       fn,
		interval: interval,
	}
	r.entries[id] = entry

	loop := r.host.rt.EventLoop()
	if repeat {
		entry.ticker = loop.SetInterval(func(*goja.Runtime) { r.fire(id) }, interval)
	} else {
		entry.timer = loop.SetTimeout(func(*goja.Runtime) { r.fire(id) }, interval)
	}
	return id
}

// cancel stops a timer and forgets it. Idempotent: unknown and already
// fired ids are a no-op. Cancellation only prevents future firings; it
// never interrupts a callback already running.
func (r *timerRegistry) cancel(id int64) {
	entry, ok := r.entries[id]
	if !ok {
		return
	}
	delete(r.entries, id)
	r.stop(entry)
}

// fire runs on the loop when the native timer expires. A non-repeating
// entry is removed before its callback executes, so a callback that
// re-schedules sees a registry without its own entry.
func (r *timerRegistry) fire(id int64) {
	if r.host.exiting {
		return
	}
	entry, ok := r.entries[id]
	if !ok {
		// cancelled after the firing was already queued
		return
	}
	if !entry.repeat {
		delete(r.entries, id)
	}
	_, err := entry.fn(entry.this)
	r.host.checkEngine("calling timer callback", err)
}

// clear cancels everything; used on shutdown.
func (r *timerRegistry) clear() {
	for id, entry := range r.entries {
		delete(r.entries, id)
		r.stop(entry)
	}
}

func (r *timerRegistry) stop(entry *timerEntry) {
	loop := r.host.rt.EventLoop()
	if entry.ticker != nil {
		loop.ClearInterval(entry.ticker)
		entry.ticker = nil
	}
	if entry.timer != nil {
		loop.ClearTimeout(entry.timer)
		entry.timer = nil
	}
}

// size reports the number of outstanding timers.
func (r *timerRegistry) size() int {
	return len(r.entries)
}
