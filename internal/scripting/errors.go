package scripting

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// Script-visible error categories, tagged structurally via the thrown
// Error object's name property so scripts (and the termination path) never
// need to match a rendered message.
const (
	errNameArgument = "ArgumentError"
	errNameHostIO   = "HostIOError"
	errNameExit     = "SystemExit"
)

// newNamedError constructs a real JS Error (so instanceof Error holds and a
// stack is attached) and retags its name.
func newNamedError(vm *goja.Runtime, name, message string) *goja.Object {
	ctor := vm.Get("Error")
	obj, err := vm.New(ctor, vm.ToValue(message))
	if err != nil {
		// Error constructor cannot fail on a healthy runtime.
		panic(fmt.Errorf("constructing %s: %w", name, err))
	}
	_ = obj.Set("name", name)
	return obj
}

// throwArgumentError signals an arity or type validation failure. Catchable
// by script code; never reaches host or game state.
func throwArgumentError(vm *goja.Runtime, format string, args ...any) {
	panic(newNamedError(vm, errNameArgument, fmt.Sprintf(format, args...)))
}

// throwHostIOError signals a file-access failure from include or writeFile.
func throwHostIOError(vm *goja.Runtime, format string, args ...any) {
	panic(newNamedError(vm, errNameHostIO, fmt.Sprintf(format, args...)))
}

// newExitSentinel builds the intentional-termination sentinel carrying the
// requested process exit code.
func newExitSentinel(vm *goja.Runtime, code int) *goja.Object {
	obj := newNamedError(vm, errNameExit, "SystemExit")
	_ = obj.Set("code", code)
	return obj
}

// exitCode reports whether err is an uncaught exit sentinel, and the exit
// code it carries.
func exitCode(err error) (int, bool) {
	var ex *goja.Exception
	if !errors.As(err, &ex) {
		return 0, false
	}
	obj, ok := ex.Value().(*goja.Object)
	if !ok {
		return 0, false
	}
	name := obj.Get("name")
	if name == nil || name.String() != errNameExit {
		return 0, false
	}
	code := 0
	if v := obj.Get("code"); v != nil && !goja.IsUndefined(v) {
		code = int(v.ToInteger())
	}
	return code, true
}

// rethrow propagates an error out of a nested evaluation (include) as a JS
// exception so the normal uncaught-error path sees it.
func rethrow(vm *goja.Runtime, err error) {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		panic(ex.Value())
	}
	panic(vm.NewGoError(err))
}
