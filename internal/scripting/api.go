package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/dop251/goja"

	"github.com/voxbot/voxbot/internal/game"
)

// apiBridge installs and implements the mf host API. Every exposed
// operation follows the same contract: validate arity, validate each
// argument's type, then perform the operation. Validation failures throw an
// ArgumentError before any host or game state is touched.
//
// All methods run on the loop goroutine, invoked synchronously from script
// code.
type apiBridge struct {
	host *Host
}

func (b *apiBridge) install() {
	mf := b.host.mf

	// utility functions
	_ = mf.Set("include", b.include)
	_ = mf.Set("exit", b.exit)
	_ = mf.Set("print", b.print)
	_ = mf.Set("debug", b.debug)
	_ = mf.Set("setTimeout", b.setTimeout)
	_ = mf.Set("clearTimeout", b.clearTimer)
	_ = mf.Set("setInterval", b.setInterval)
	_ = mf.Set("clearInterval", b.clearTimer)
	_ = mf.Set("readFile", b.readFile)
	_ = mf.Set("writeFile", b.writeFile)
	_ = mf.Set("raiseEvent", b.raiseEvent)

	// game operations
	_ = mf.Set("chat", b.chat)
	_ = mf.Set("username", b.username)
	_ = mf.Set("itemStackHeight", b.itemStackHeight)
	_ = mf.Set("health", b.health)
	_ = mf.Set("blockAt", b.blockAt)
	_ = mf.Set("playerState", b.playerState)
	_ = mf.Set("setControlState", b.setControlState)

	_ = mf.Set("Point", b.point)
}

// checkArity throws an ArgumentError unless the call has between min and
// max arguments. max < 0 means exactly min.
func (b *apiBridge) checkArity(call goja.FunctionCall, min, max int) {
	if max < 0 {
		max = min
	}
	n := len(call.Arguments)
	if n >= min && n <= max {
		return
	}
	if min == max {
		throwArgumentError(b.host.vm, "expected %d arguments, received %d", min, n)
	}
	throwArgumentError(b.host.vm, "expected between %d and %d arguments, received %d", min, max, n)
}

func (b *apiBridge) wantString(v goja.Value) string {
	s, ok := v.Export().(string)
	if !ok {
		throwArgumentError(b.host.vm, "invalid argument: expected a string")
	}
	return s
}

func (b *apiBridge) wantNumber(v goja.Value) float64 {
	switch n := v.Export().(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	}
	throwArgumentError(b.host.vm, "invalid argument: expected a number")
	return 0
}

func (b *apiBridge) wantBoolean(v goja.Value) bool {
	t, ok := v.Export().(bool)
	if !ok {
		throwArgumentError(b.host.vm, "invalid argument: expected a boolean")
	}
	return t
}

func (b *apiBridge) wantFunction(v goja.Value) goja.Callable {
	fn, ok := goja.AssertFunction(v)
	if !ok {
		throwArgumentError(b.host.vm, "invalid argument: expected a function")
	}
	return fn
}

func (b *apiBridge) wantObject(v goja.Value) *goja.Object {
	obj, ok := v.(*goja.Object)
	if !ok {
		throwArgumentError(b.host.vm, "invalid argument: expected an object")
	}
	return obj
}

// roundToNearestInt rounds half-up on each axis, matching block coordinate
// semantics: 2.5 -> 3, -0.5 -> 0.
func roundToNearestInt(f float64) int {
	return int(math.Floor(f + 0.5))
}

// --- utility operations ---

// include resolves a path relative to the main script's directory and
// evaluates its contents against the global execution context, so included
// code shares (and can mutate) the main script's global bindings.
func (b *apiBridge) include(call goja.FunctionCall) goja.Value {
	b.checkArity(call, 1, -1)
	name := b.wantString(call.Argument(0))

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(b.host.opts.ScriptPath), name)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		throwHostIOError(b.host.vm, "cannot open included file: %s", path)
	}
	if err := b.host.evalScript(name, string(contents)); err != nil {
		rethrow(b.host.vm, err)
	}
	return goja.Undefined()
}

// exit raises the intentional-termination sentinel. It does not return
// control to the caller. The optional code is honored on the process exit
// path; omitted means 0.
func (b *apiBridge) exit(call goja.FunctionCall) goja.Value {
	b.checkArity(call, 0, 1)
	code := 0
	if len(call.Arguments) == 1 {
		code = int(b.wantNumber(call.Argument(0)))
	}
	panic(newExitSentinel(b.host.vm, code))
}

func (b *apiBridge) print(call goja.FunctionCall) goja.Value {
	b.checkArity(call, 1, -1)
	text := b.wantString(call.Argument(0))
	fmt.Fprint(b.host.stdout, text)
	return goja.Undefined()
}

// debug accepts any value and writes its string form to the diagnostic
// stream.
func (b *apiBridge) debug(call goja.FunctionCall) goja.Value {
	b.checkArity(call, 1, -1)
	fmt.Fprintln(b.host.stderr, call.Argument(0).String())
	return goja.Undefined()
}

func (b *apiBridge) setTimeout(call goja.FunctionCall) goja.Value {
	return b.schedule(call, false)
}

func (b *apiBridge) setInterval(call goja.FunctionCall) goja.Value {
	return b.schedule(call, true)
}

func (b *apiBridge) schedule(call goja.FunctionCall, repeat bool) goja.Value {
	b.checkArity(call, 2, -1)
	fn := b.wantFunction(call.Argument(0))
	ms := b.wantNumber(call.Argument(1))

	id := b.host.timers.schedule(fn, goja.Undefined(), time.Duration(ms)*time.Millisecond, repeat)
	return b.host.vm.ToValue(id)
}

func (b *apiBridge) clearTimer(call goja.FunctionCall) goja.Value {
	b.checkArity(call, 1, -1)
	id := b.wantNumber(call.Argument(0))
	b.host.timers.cancel(int64(id))
	return goja.Undefined()
}

// readFile returns the file's contents, or null if it cannot be read.
func (b *apiBridge) readFile(call goja.FunctionCall) goja.Value {
	b.checkArity(call, 1, -1)
	path := b.wantString(call.Argument(0))
	contents, err := os.ReadFile(path)
	if err != nil {
		return goja.Null()
	}
	return b.host.vm.ToValue(string(contents))
}

func (b *apiBridge) writeFile(call goja.FunctionCall) goja.Value {
	b.checkArity(call, 2, -1)
	path := b.wantString(call.Argument(0))
	contents := b.wantString(call.Argument(1))
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		throwHostIOError(b.host.vm, "unable to write file: %s", path)
	}
	return goja.Undefined()
}

// raiseEvent raises a user-declared custom event through the dispatcher.
// Raising a name with no registered handlers is a no-op.
func (b *apiBridge) raiseEvent(call goja.FunctionCall) goja.Value {
	if len(call.Arguments) < 1 {
		throwArgumentError(b.host.vm, "expected at least 1 argument, received 0")
	}
	name := b.wantString(call.Argument(0))
	b.host.dispatcher.raise(name, call.Arguments[1:]...)
	return goja.Undefined()
}

// --- game operations ---

func (b *apiBridge) chat(call goja.FunctionCall) goja.Value {
	b.checkArity(call, 1, -1)
	message := b.wantString(call.Argument(0))
	b.host.game.SendChat(message)
	return goja.Undefined()
}

func (b *apiBridge) username(call goja.FunctionCall) goja.Value {
	b.checkArity(call, 0, -1)
	return b.host.vm.ToValue(b.host.opts.Username)
}

func (b *apiBridge) itemStackHeight(call goja.FunctionCall) goja.Value {
	b.checkArity(call, 1, -1)
	item := b.wantNumber(call.Argument(0))
	return b.host.vm.ToValue(b.host.game.ItemStackHeight(game.ItemType(item)))
}

func (b *apiBridge) health(call goja.FunctionCall) goja.Value {
	b.checkArity(call, 0, -1)
	return b.host.vm.ToValue(b.host.game.PlayerHealth())
}

func (b *apiBridge) blockAt(call goja.FunctionCall) goja.Value {
	b.checkArity(call, 1, -1)
	pt := b.wantObject(call.Argument(0))

	p := game.Int3D{
		X: roundToNearestInt(pt.Get("x").ToFloat()),
		Y: roundToNearestInt(pt.Get("y").ToFloat()),
		Z: roundToNearestInt(pt.Get("z").ToFloat()),
	}
	block := b.host.game.BlockAt(p)

	result := b.host.vm.NewObject()
	_ = result.Set("type", int(block.Type))
	return result
}

func (b *apiBridge) playerState(call goja.FunctionCall) goja.Value {
	b.checkArity(call, 0, -1)
	pos := b.host.game.PlayerPosition()

	result := b.host.vm.NewObject()
	_ = result.Set("position", b.host.jsPoint(pos.X, pos.Y, pos.Z))
	_ = result.Set("velocity", b.host.jsPoint(pos.DX, pos.DY, pos.DZ))
	_ = result.Set("yaw", pos.Yaw)
	_ = result.Set("pitch", pos.Pitch)
	_ = result.Set("on_ground", pos.OnGround)
	return result
}

func (b *apiBridge) setControlState(call goja.FunctionCall) goja.Value {
	b.checkArity(call, 2, -1)
	control := b.wantNumber(call.Argument(0))
	state := b.wantBoolean(call.Argument(1))
	b.host.game.SetControlActivated(game.Control(control), state)
	return goja.Undefined()
}

// point is the Point(x, y, z) convenience constructor for the {x,y,z}
// object shape used throughout the API.
func (b *apiBridge) point(call goja.FunctionCall) goja.Value {
	b.checkArity(call, 3, -1)
	obj := b.host.vm.NewObject()
	_ = obj.Set("x", call.Argument(0))
	_ = obj.Set("y", call.Argument(1))
	_ = obj.Set("z", call.Argument(2))
	return obj
}
