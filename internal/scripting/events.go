package scripting

import (
	"strconv"

	"github.com/dop251/goja"
)

// eventDispatcher maps event names to ordered handler lists. The lists live
// in a JS object (mf.handlers) initialized from the embedded handler
// resource, so scripts mutate registration with plain array operations and
// see exactly the sequences the dispatcher reads. All methods run on the
// loop goroutine.
type eventDispatcher struct {
	host     *Host
	handlers *goja.Object
}

// raise invokes every handler registered for name, in registration order,
// with args. Unknown names and empty lists are a no-op.
//
// The handler sequence is snapshotted before the first invocation: handlers
// added or removed during this dispatch cycle (including a handler removing
// itself) take effect from the next raise, never the one in flight. After
// each handler the engine is checked; an uncaught error aborts the rest of
// the cycle and routes to the shutdown path.
func (d *eventDispatcher) raise(name string, args ...goja.Value) {
	if d.host.exiting || d.handlers == nil {
		return
	}
	val := d.handlers.Get(name)
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return
	}
	list, ok := val.(*goja.Object)
	if !ok {
		return
	}
	length := int(list.Get("length").ToInteger())
	if length == 0 {
		return
	}

	snapshot := make([]goja.Callable, 0, length)
	for i := 0; i < length; i++ {
		if fn, ok := goja.AssertFunction(list.Get(strconv.Itoa(i))); ok {
			snapshot = append(snapshot, fn)
		}
	}
	for _, fn := range snapshot {
		if d.host.exiting {
			return
		}
		_, err := fn(goja.Undefined(), args...)
		d.host.checkEngine("calling event handler "+name, err)
	}
}
