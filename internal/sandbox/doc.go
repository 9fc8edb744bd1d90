/*
Package sandbox implements the execution policy for untrusted JavaScript.

# Overview

Every execute_js call passes through the same linear pipeline:

 1. Validate: parse the code and scan it for forbidden capability names
 2. BuildContext: turn the requested bounds into an immutable Config
 3. Executor.Execute: run the code on an Engine under the Config
 4. Telemetry: elapsed time, process memory and console lines

Validation is a strict gate. Nothing reaches an Engine unless Validate
returned nil, and nothing is measured for rejected code.

# Forbidden Names

The forbidden name scan is a literal substring match over the raw source.
It is not token aware: a comment or string literal that mentions a
forbidden name is rejected as well. The Engine strips the same
capabilities from the runtime independently of this scan.

# Engines

Engine is the narrow interface to the isolated evaluator. The goja
implementation lives in internal/engine. Tests drive the Executor with a
fake Engine that emits console lines, throws or hangs on demand.

# Memory

Memory figures are whole-process heap samples, not per-execution
accounting. Concurrent executions therefore see each other's allocations.
*/
package sandbox
