package sandbox

import (
	"context"
	"time"
)

// Request bounds and defaults.
const (
	MinTimeoutMs     = 100
	MaxTimeoutMs     = 30000
	DefaultTimeoutMs = 5000

	MinMemoryBytes     int64 = 1 << 20
	MaxMemoryBytes     int64 = 100 << 20
	DefaultMemoryBytes int64 = 50 << 20
)

// Request is a decoded execute_js call
type Request struct {
	Code        string
	TimeoutMs   *int   // nil selects DefaultTimeoutMs
	MemoryBytes *int64 // nil selects DefaultMemoryBytes
}

// Policy describes which host capabilities an execution context exposes.
// BuildContext always produces the same policy; the fields exist so engines
// and logs can state what was stripped.
type Policy struct {
	CaptureConsole bool // console writes go to the ConsoleHook
	ModuleLoader   bool // require/import of host modules
	DynamicEval    bool // eval and the Function constructors
	GlobalAlias    bool // globalThis/global exposure
	WebAssembly    bool
	HostIO         bool // filesystem, network and process access
}

// Config is the execution context for a single run. It is never reused.
type Config struct {
	Timeout     time.Duration
	MemoryBytes int64
	Policy      Policy
}

// ConsoleHook receives console writes in the order the code made them
type ConsoleHook func(line string)

// Engine evaluates code in an isolated scope with no ambient capabilities.
//
// Implementations compile the code themselves, call hook for every console
// write, stop evaluating once ctx is done, and report failures as *Failure.
type Engine interface {
	Evaluate(ctx context.Context, code string, cfg Config, hook ConsoleHook) (any, error)
}

// Outcome is the raw result of one execution. Failure is nil on success.
type Outcome struct {
	Value       any
	Console     []string
	Elapsed     time.Duration
	MemoryBytes uint64
	Failure     *Failure
}

// Succeeded reports whether the execution produced a value
func (o Outcome) Succeeded() bool {
	return o.Failure == nil
}

// ElapsedMs returns the elapsed time in fractional milliseconds
func (o Outcome) ElapsedMs() float64 {
	return float64(o.Elapsed) / float64(time.Millisecond)
}
