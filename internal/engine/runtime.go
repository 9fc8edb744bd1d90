package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GriffinCanCode/jsexec/internal/sandbox"
	"github.com/bytedance/sonic"
	"github.com/dop251/goja"
	"github.com/dop251/goja/parser"
)

var errMemoryLimit = errors.New("memory limit exceeded")

// Globals removed from every runtime. Most do not exist in a bare goja
// runtime; deleting them keeps the list honest if goja ever adds them.
var strippedGlobals = []string{
	"eval",
	"globalThis",
	"WebAssembly",
	"require",
	"process",
	"module",
	"exports",
	"global",
	"Buffer",
	"__dirname",
	"__filename",
	"setTimeout",
	"setInterval",
	"setImmediate",
	"queueMicrotask",
}

// Prototypes whose constructor property compiles source text
var constructorSources = []string{
	"Function.prototype",
	"Object.getPrototypeOf(function* () {})",
	"Object.getPrototypeOf(async function () {})",
	"Object.getPrototypeOf(async function* () {})",
}

var consoleLevels = []string{"log", "info", "warn", "error", "debug", "trace"}

// Runtime is a hardened goja VM used for exactly one evaluation
type Runtime struct {
	vm   *goja.Runtime
	opts Options
	hook sandbox.ConsoleHook
	used bool
}

func newRuntime(opts Options) (*Runtime, error) {
	vm := goja.New()
	vm.SetMaxCallStackSize(opts.MaxCallStackSize)

	r := &Runtime{vm: vm, opts: opts}
	if err := r.harden(); err != nil {
		return nil, fmt.Errorf("failed to harden runtime: %w", err)
	}
	return r, nil
}

// harden strips host capabilities and installs the console
func (r *Runtime) harden() error {
	if err := r.blockDynamicEval(); err != nil {
		return err
	}

	global := r.vm.GlobalObject()
	for _, name := range strippedGlobals {
		if err := global.Delete(name); err != nil {
			return fmt.Errorf("delete %s: %w", name, err)
		}
	}

	console := r.vm.NewObject()
	for _, level := range consoleLevels {
		if err := console.Set(level, r.write); err != nil {
			return fmt.Errorf("console.%s: %w", level, err)
		}
	}
	return r.vm.Set("console", console)
}

// blockDynamicEval replaces every function constructor with one that throws
func (r *Runtime) blockDynamicEval() error {
	blocked := r.vm.ToValue(func(goja.FunctionCall) goja.Value {
		panic(r.vm.NewTypeError("dynamic code evaluation is disabled"))
	}).(*goja.Object)

	for _, src := range constructorSources {
		program, err := goja.Compile("", src, true)
		if err != nil {
			// goja cannot compile this function kind (async generators), so
			// submitted code cannot reach its constructor either.
			continue
		}
		proto, err := r.vm.RunProgram(program)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", src, err)
		}

		obj, ok := proto.(*goja.Object)
		if !ok {
			return fmt.Errorf("resolve %s: not an object", src)
		}
		if src == constructorSources[0] {
			// Keep instanceof Function working against the replacement.
			if err := blocked.Set("prototype", obj); err != nil {
				return err
			}
		}
		if err := obj.DefineDataProperty("constructor", blocked, goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE); err != nil {
			return fmt.Errorf("lock %s.constructor: %w", src, err)
		}
	}

	return r.vm.Set("Function", blocked)
}

// write is the console.* implementation
func (r *Runtime) write(call goja.FunctionCall) goja.Value {
	if r.hook != nil {
		r.hook(r.format(call.Arguments))
	}
	return goja.Undefined()
}

func (r *Runtime) format(args []goja.Value) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, r.formatArg(arg))
	}
	return strings.Join(parts, " ")
}

func (r *Runtime) formatArg(arg goja.Value) string {
	obj, ok := arg.(*goja.Object)
	if !ok {
		return arg.String()
	}
	if _, callable := goja.AssertFunction(obj); callable {
		return functionLabel(obj)
	}

	exported := Export(r.vm, obj)
	if s, ok := exported.(string); ok {
		return s
	}
	encoded, err := sonic.MarshalString(exported)
	if err != nil {
		return arg.String()
	}
	return encoded
}

// run evaluates program once. Any panic raised by goja or by value export is
// converted into a failure.
func (r *Runtime) run(ctx context.Context, program *goja.Program, cfg sandbox.Config, hook sandbox.ConsoleHook) (value any, err error) {
	if r.used || r.vm == nil {
		return nil, sandbox.NewFailure(sandbox.FailureEngine, "runtime already used")
	}
	r.used = true
	r.hook = hook

	stop := r.watch(ctx, cfg.MemoryBytes)
	defer stop()

	defer func() {
		if p := recover(); p != nil {
			value = nil
			if perr, ok := p.(error); ok {
				err = classify(perr)
				return
			}
			err = sandbox.NewFailure(sandbox.FailureRuntime, "%v", p)
		}
	}()

	if _, err := r.vm.RunProgram(program); err != nil {
		return nil, classify(err)
	}

	entry, ok := goja.AssertFunction(r.vm.Get(sandbox.EntryPoint))
	if !ok {
		return nil, sandbox.NewFailure(sandbox.FailureCompile, "%s is not a function", sandbox.EntryPoint)
	}

	ret, err := entry(goja.Undefined())
	if err != nil {
		return nil, classify(err)
	}

	settled, err := r.settle(ret)
	if err != nil {
		return nil, err
	}

	return Export(r.vm, settled), nil
}

// settle unwraps the promise returned by the async entry point. Promise jobs
// have already run by the time the entry call returns.
func (r *Runtime) settle(v goja.Value) (goja.Value, error) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return v, nil
	}
	promise, ok := obj.Export().(*goja.Promise)
	if !ok {
		return v, nil
	}

	switch promise.State() {
	case goja.PromiseStateFulfilled:
		return promise.Result(), nil
	case goja.PromiseStateRejected:
		return nil, sandbox.NewFailure(sandbox.FailureRuntime, "%s", r.describe(promise.Result()))
	default:
		return nil, sandbox.NewFailure(sandbox.FailureRuntime, "promise did not settle")
	}
}

// describe renders a thrown value for an error message
func (r *Runtime) describe(v goja.Value) string {
	if v == nil {
		return "undefined"
	}
	if obj, ok := v.(*goja.Object); ok && obj.ClassName() == "Error" {
		return errorLabel(obj)
	}
	return r.formatArg(v)
}

// watch interrupts the VM when ctx ends or the heap grows past limit. The
// returned func stops the watchdog and waits for it to exit, so no interrupt
// is delivered once it returns.
func (r *Runtime) watch(ctx context.Context, limit int64) func() {
	vm := r.vm
	stop := make(chan struct{})
	exited := make(chan struct{})
	sampler := r.opts.Memory
	baseline := sampler.SampleMemory()

	stopped := func() bool {
		select {
		case <-stop:
			return true
		default:
			return false
		}
	}

	go func() {
		defer close(exited)

		ticker := time.NewTicker(r.opts.MemoryPoll)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				if !stopped() {
					vm.Interrupt(ctx.Err())
				}
				return
			case <-ticker.C:
				if stopped() {
					return
				}
				if used := sampler.SampleMemory(); used > baseline && used-baseline > uint64(limit) {
					vm.Interrupt(errMemoryLimit)
					return
				}
			}
		}
	}()

	return func() {
		close(stop)
		<-exited
	}
}

// discard drops the VM so the runtime cannot be reused
func (r *Runtime) discard() {
	r.vm = nil
	r.hook = nil
}

// classify maps goja errors onto sandbox failures
func classify(err error) *sandbox.Failure {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		cause, _ := interrupted.Value().(error)
		switch {
		case errors.Is(cause, errMemoryLimit):
			return sandbox.NewFailure(sandbox.FailureMemory, "heap growth exceeded the memory limit")
		case errors.Is(cause, context.Canceled):
			return sandbox.NewFailure(sandbox.FailureCanceled, "execution cancelled")
		default:
			return sandbox.NewFailure(sandbox.FailureTimeout, "execution interrupted")
		}
	}

	var syntaxErr *goja.CompilerSyntaxError
	if errors.As(err, &syntaxErr) {
		return sandbox.NewFailure(sandbox.FailureCompile, "%s", syntaxErr.Error())
	}
	var parseErrs parser.ErrorList
	if errors.As(err, &parseErrs) {
		return sandbox.NewFailure(sandbox.FailureCompile, "%s", parseErrs.Error())
	}

	var exception *goja.Exception
	if errors.As(err, &exception) {
		if val := exception.Value(); val != nil {
			if obj, ok := val.(*goja.Object); ok && obj.ClassName() == "Error" {
				return sandbox.NewFailure(sandbox.FailureRuntime, "%s", errorLabel(obj))
			}
			return sandbox.NewFailure(sandbox.FailureRuntime, "%s", val.String())
		}
		return sandbox.NewFailure(sandbox.FailureRuntime, "%s", exception.Error())
	}

	var failure *sandbox.Failure
	if errors.As(err, &failure) {
		return failure
	}

	return sandbox.NewFailure(sandbox.FailureRuntime, "%s", err.Error())
}
