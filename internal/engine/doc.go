/*
Package engine evaluates sandboxed JavaScript with the goja engine.

# Overview

Engine implements sandbox.Engine. Every evaluation runs on a fresh goja
runtime that is thrown away afterwards; a Pool keeps a few runtimes
prewarmed so the hardening cost is paid off the request path.

# Hardening

A runtime is hardened before any caller code sees it:

  - eval, globalThis, WebAssembly and the Node.js style globals are removed
  - Function and the generator/async function constructors throw
  - console.* writes go to the execution's ConsoleHook
  - there are no timers, no module loader and no host I/O bindings
  - the call stack is capped

# Limits

A watchdog goroutine interrupts the runtime when the context ends or when
process heap growth since the start of the evaluation passes the
configured memory bound. goja checks interrupts between VM instructions,
so a runtime blocked inside a host function cannot be preempted; the only
host functions exposed are the console writers.

# Values

Results are coerced into JSON-safe Go values. See Export for the rules.
*/
package engine
