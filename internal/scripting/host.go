package scripting

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"

	"github.com/voxbot/voxbot/internal/game"
)

// handlersJS is the declarative event-handler registration resource: an
// object literal mapping each built-in event name to an initially empty,
// ordered handler list. Evaluated once at host initialization and exposed
// to scripts as mf.handlers.
//
//go:embed handlers.js
var handlersJS string

// DefaultPhysicsFPS is the fixed physics tick rate used when the options
// leave it unset.
const DefaultPhysicsFPS = 10

// GameEngine is the operation surface the host consumes. The websocket
// client implements it; tests substitute a fake.
type GameEngine interface {
	SetListener(l game.Listener)
	Start() error
	Shutdown(code int)
	SendChat(message string)
	BlockAt(p game.Int3D) game.Block
	PlayerPosition() game.EntityPosition
	PlayerHealth() int
	SetControlActivated(c game.Control, active bool)
	ItemStackHeight(item game.ItemType) int
	DoPhysics(elapsed float64)
}

// State is the host lifecycle state.
type State int32

const (
	StateCreated State = iota
	StateInitializing
	StateRunning
	StateExiting
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateExiting:
		return "exiting"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Options configures a Host.
type Options struct {
	// ScriptPath is the main script file. include() paths resolve relative
	// to its directory.
	ScriptPath string
	// Username is the connection identity reported by mf.username().
	Username string
	// PhysicsFPS is the fixed physics tick rate; zero means
	// DefaultPhysicsFPS.
	PhysicsFPS int
	// Stdout and Stderr receive mf.print and mf.debug output. Nil defaults
	// to the process streams.
	Stdout io.Writer
	Stderr io.Writer
	// Logger receives host diagnostics. Nil defaults to slog.Default().
	Logger *slog.Logger
}

// Host orchestrates script lifecycle: it initializes the evaluator on the
// run loop, installs the mf host API, evaluates the main script, wires the
// game engine's signals to event dispatch, and owns the shutdown protocol.
//
// Fields below the vm marker are confined to the loop goroutine.
type Host struct {
	rt     *Runtime
	game   GameEngine
	opts   Options
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer

	state atomic.Int32

	exitCode atomic.Int32
	done     chan struct{}
	doneOnce sync.Once

	// loop-confined state
	vm          *goja.Runtime
	mf          *goja.Object
	timers      *timerRegistry
	dispatcher  *eventDispatcher
	exiting     bool
	startedGame bool
	physics     *eventloop.Interval
	lastPhysics time.Time
}

// NewHost creates a host bound to a runtime and game engine. The host does
// nothing until Start.
func NewHost(rt *Runtime, engine GameEngine, opts Options) *Host {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PhysicsFPS <= 0 {
		opts.PhysicsFPS = DefaultPhysicsFPS
	}
	h := &Host{
		rt:     rt,
		game:   engine,
		opts:   opts,
		logger: opts.Logger,
		stdout: opts.Stdout,
		stderr: opts.Stderr,
		done:   make(chan struct{}),
	}
	h.timers = newTimerRegistry(h)
	h.dispatcher = &eventDispatcher{host: h}
	return h
}

// Start requests execution on the dedicated loop. Safe to call from any
// goroutine; if the loop is busy the request queues and executes once the
// loop is ready — it is deferred, never dropped.
func (h *Host) Start() error {
	if !h.rt.RunOnLoop(h.run) {
		return fmt.Errorf("script host: run loop is not running")
	}
	return nil
}

// State returns the current lifecycle state.
func (h *Host) State() State {
	return State(h.state.Load())
}

// Done is closed when the host reaches Exiting.
func (h *Host) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the host exits and returns the process exit code.
func (h *Host) Wait() int {
	<-h.done
	return int(h.exitCode.Load())
}

// RequestExit asks the host to terminate with the given code. Safe to call
// from any goroutine; observed at the next loop boundary.
func (h *Host) RequestExit(code int) {
	h.rt.RunOnLoop(func(*goja.Runtime) {
		h.shutdown(code)
	})
}

// run performs startup on the loop goroutine: install globals, evaluate the
// main script, connect the game engine.
func (h *Host) run(vm *goja.Runtime) {
	if h.exiting {
		return
	}
	h.state.Store(int32(StateInitializing))
	h.vm = vm

	h.mf = vm.NewObject()
	if err := vm.Set("mf", h.mf); err != nil {
		h.logger.Error("installing mf global", "error", err)
		h.shutdown(1)
		return
	}

	// event handler framework
	handlers := h.evalResource("handlers.js", handlersJS)
	if h.exiting {
		return
	}
	h.dispatcher.handlers = handlers
	_ = h.mf.Set("handlers", handlers)

	// script-visible enums from the host's type tables
	_ = h.mf.Set("ItemType", h.enumObject(game.ItemTypes))
	_ = h.mf.Set("Control", h.enumObject(game.Controls))

	bridge := &apiBridge{host: h}
	bridge.install()

	contents, err := os.ReadFile(h.opts.ScriptPath)
	if err != nil {
		h.logger.Warn("file not found", "path", h.opts.ScriptPath)
		h.shutdown(1)
		return
	}
	h.checkEngine("evaluating main script", h.evalScript(h.opts.ScriptPath, string(contents)))
	if h.exiting {
		return
	}

	// connect to the server: asynchronous game signals now feed dispatch
	h.game.SetListener(h)
	h.state.Store(int32(StateRunning))
	h.startedGame = true
	if err := h.game.Start(); err != nil {
		h.logger.Error("starting game", "error", err)
		h.shutdown(1)
	}
}

// evalScript compiles and runs source against the global object.
func (h *Host) evalScript(name, src string) error {
	prg, err := goja.Compile(name, src, false)
	if err != nil {
		return err
	}
	_, err = h.vm.RunProgram(prg)
	return err
}

// evalResource evaluates an embedded object-literal resource and returns
// the resulting object. A malformed resource is a host bug and takes the
// uncaught-error path.
func (h *Host) evalResource(name, contents string) *goja.Object {
	prg, err := goja.Compile(name, "("+contents+")", false)
	if err != nil {
		h.checkEngine("evaluating "+name, err)
		return nil
	}
	val, err := h.vm.RunProgram(prg)
	if err != nil {
		h.checkEngine("evaluating "+name, err)
		return nil
	}
	obj, ok := val.(*goja.Object)
	if !ok {
		h.checkEngine("evaluating "+name, fmt.Errorf("%s: not an object literal", name))
		return nil
	}
	return obj
}

// enumObject synthesizes a plain { name: value } object from an ordered
// enumeration table.
func (h *Host) enumObject(table []game.EnumValue) *goja.Object {
	obj := h.vm.NewObject()
	for _, ev := range table {
		_ = obj.Set(ev.Name, ev.Value)
	}
	return obj
}

// checkEngine is the central uncaught-error checkpoint, run after every
// evaluation, handler invocation, and timer callback. The exit sentinel is
// a clean termination carrying its own code; anything else is logged with
// its backtrace and terminates with code 1.
func (h *Host) checkEngine(while string, err error) {
	if h.exiting || err == nil {
		return
	}
	if code, ok := exitCode(err); ok {
		h.shutdown(code)
		return
	}
	if while != "" {
		h.logger.Warn("script error", "while", while)
	}
	if ex, ok := err.(*goja.Exception); ok {
		fmt.Fprintln(h.stderr, ex.String())
	} else {
		fmt.Fprintln(h.stderr, err.Error())
	}
	h.shutdown(1)
}

// shutdown transitions to Exiting(code). Terminal: no further script
// evaluation, event dispatch, or timer firing happens after this. Runs on
// the loop goroutine.
func (h *Host) shutdown(code int) {
	if h.exiting {
		return
	}
	h.exiting = true
	h.state.Store(int32(StateExiting))
	h.exitCode.Store(int32(code))

	if h.physics != nil {
		h.rt.EventLoop().ClearInterval(h.physics)
		h.physics = nil
	}
	h.timers.clear()

	if h.startedGame {
		h.game.Shutdown(code)
	}
	h.doneOnce.Do(func() { close(h.done) })
}

// tickPhysics advances the game simulation by wall-clock elapsed time.
func (h *Host) tickPhysics() {
	if h.exiting {
		return
	}
	now := time.Now()
	elapsed := now.Sub(h.lastPhysics).Seconds()
	h.lastPhysics = now
	h.game.DoPhysics(elapsed)
}

// jsPointInt builds the {x,y,z} object shape from a block coordinate.
func (h *Host) jsPointInt(p game.Int3D) goja.Value {
	return h.jsPoint(float64(p.X), float64(p.Y), float64(p.Z))
}

func (h *Host) jsPoint(x, y, z float64) goja.Value {
	obj := h.vm.NewObject()
	_ = obj.Set("x", x)
	_ = obj.Set("y", y)
	_ = obj.Set("z", z)
	return obj
}

// --- game.Listener ---
//
// Signal emitters run on the game client's goroutines; each notification
// marshals onto the run loop and re-checks the exiting flag there, so a
// signal racing shutdown is dropped at the loop boundary.

func (h *Host) ChunkUpdated(origin, size game.Int3D) {
	h.rt.RunOnLoop(func(*goja.Runtime) {
		if h.exiting {
			return
		}
		h.dispatcher.raise("onChunkUpdated", h.jsPointInt(origin), h.jsPointInt(size))
	})
}

func (h *Host) PositionUpdated() {
	h.rt.RunOnLoop(func(*goja.Runtime) {
		if h.exiting {
			return
		}
		h.dispatcher.raise("onPositionUpdated")
	})
}

func (h *Host) HealthUpdated() {
	h.rt.RunOnLoop(func(*goja.Runtime) {
		if h.exiting {
			return
		}
		h.dispatcher.raise("onHealthChanged")
	})
}

func (h *Host) PlayerDied() {
	h.rt.RunOnLoop(func(*goja.Runtime) {
		if h.exiting {
			return
		}
		h.dispatcher.raise("onDeath")
	})
}

func (h *Host) ChatReceived(username, message string) {
	h.rt.RunOnLoop(func(vm *goja.Runtime) {
		if h.exiting {
			return
		}
		h.dispatcher.raise("onChat", vm.ToValue(username), vm.ToValue(message))
	})
}

func (h *Host) LoginStatusUpdated(status game.LoginStatus) {
	h.rt.RunOnLoop(func(*goja.Runtime) {
		if h.exiting {
			return
		}
		switch status {
		case game.LoginSuccess:
			h.lastPhysics = time.Now()
			interval := time.Second / time.Duration(h.opts.PhysicsFPS)
			h.physics = h.rt.EventLoop().SetInterval(func(*goja.Runtime) { h.tickPhysics() }, interval)
			h.dispatcher.raise("onConnected")
		case game.LoginDisconnected:
			h.shutdown(0)
		case game.LoginSocketError:
			h.shutdown(1)
		}
	})
}
