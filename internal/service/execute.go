package service

import (
	"context"

	"github.com/GriffinCanCode/jsexec/internal/infrastructure/logging"
	"github.com/GriffinCanCode/jsexec/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/jsexec/internal/sandbox"
	"github.com/GriffinCanCode/jsexec/internal/shared/id"
	"github.com/GriffinCanCode/jsexec/internal/shared/types"
	"go.uber.org/zap"
)

// ToolExecuteJS is the name of the JavaScript execution tool
const ToolExecuteJS = "execute_js"

// Executor runs validated code. *sandbox.Executor satisfies it.
type Executor interface {
	Execute(ctx context.Context, code string, cfg sandbox.Config) sandbox.Outcome
}

// JSTool implements execute_js on top of the sandbox
type JSTool struct {
	exec    Executor
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewJSTool creates the tool. logger and metrics may be nil.
func NewJSTool(exec Executor, logger *logging.Logger, metrics *monitoring.Metrics) *JSTool {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &JSTool{exec: exec, logger: logger, metrics: metrics}
}

// Definition describes execute_js
func (t *JSTool) Definition() types.Tool {
	return types.Tool{
		Name:        ToolExecuteJS,
		Description: "Execute JavaScript in an isolated sandbox. The code is an async function body: use return to produce a result and await freely. console output is captured. No module loader, dynamic evaluation, timers, filesystem, network or process access.",
		Parameters: []types.Parameter{
			{
				Name:        "code",
				Type:        "string",
				Description: "JavaScript function body to execute",
				Required:    true,
			},
			{
				Name:        "timeout",
				Type:        "number",
				Description: "Timeout in milliseconds",
				Default:     sandbox.DefaultTimeoutMs,
				Minimum:     types.Bound(sandbox.MinTimeoutMs),
				Maximum:     types.Bound(sandbox.MaxTimeoutMs),
			},
			{
				Name:        "memory",
				Type:        "number",
				Description: "Memory limit in bytes",
				Default:     sandbox.DefaultMemoryBytes,
				Minimum:     types.Bound(float64(sandbox.MinMemoryBytes)),
				Maximum:     types.Bound(float64(sandbox.MaxMemoryBytes)),
			},
		},
		Returns: "object with result, console, executionTime (ms) and memoryUsage (bytes)",
	}
}

// Call runs one execute_js request. The returned error is always a
// *ToolError.
func (t *JSTool) Call(ctx context.Context, args map[string]any) (any, error) {
	resp, toolErr := t.Execute(ctx, args)
	if toolErr != nil {
		return nil, toolErr
	}
	return resp, nil
}

// Execute decodes, validates, bounds, runs and translates one request
func (t *JSTool) Execute(ctx context.Context, args map[string]any) (*types.ExecutionResponse, *ToolError) {
	execID := id.NewExecutionID()

	req, err := DecodeRequest(args)
	if err != nil {
		return nil, t.reject(execID, len(req.Code), err)
	}
	if err := sandbox.Validate(req.Code); err != nil {
		return nil, t.reject(execID, len(req.Code), err)
	}
	cfg, err := sandbox.BuildContext(req.TimeoutMs, req.MemoryBytes)
	if err != nil {
		return nil, t.reject(execID, len(req.Code), err)
	}

	outcome := t.exec.Execute(ctx, req.Code, cfg)
	resp, toolErr := TranslateOutcome(outcome, cfg)

	t.record(execID, len(req.Code), outcome, toolErr)
	return resp, toolErr
}

func (t *JSTool) reject(execID id.ExecutionID, codeLen int, err error) *ToolError {
	toolErr := TranslateError(err)

	reason := "invalid"
	if invalid, ok := err.(*sandbox.ValidationError); ok {
		reason = string(invalid.Reason)
	}
	t.metrics.RecordRejection(reason)

	t.log(func(l *zap.Logger) {
		l.Info("execution rejected",
			zap.String("execution_id", execID.String()),
			zap.Int("code_length", codeLen),
			zap.String("reason", reason),
			zap.Int("error_code", int(toolErr.Code)),
			zap.String("error", toolErr.Message),
		)
	})
	return toolErr
}

func (t *JSTool) record(execID id.ExecutionID, codeLen int, outcome sandbox.Outcome, toolErr *ToolError) {
	status := monitoring.StatusSuccess
	if toolErr != nil {
		status = monitoring.StatusFailure
	}
	t.metrics.RecordExecution(status, outcome.Elapsed, outcome.MemoryBytes)

	t.log(func(l *zap.Logger) {
		fields := []zap.Field{
			zap.String("execution_id", execID.String()),
			zap.Int("code_length", codeLen),
			zap.Float64("elapsed_ms", outcome.ElapsedMs()),
		}
		if toolErr != nil {
			l.Warn("execution failed", append(fields,
				zap.String("kind", string(outcome.Failure.Kind)),
				zap.Int("error_code", int(toolErr.Code)),
				zap.String("error", toolErr.Message),
			)...)
			return
		}
		l.Info("execution completed", append(fields,
			zap.Uint64("memory_bytes", outcome.MemoryBytes),
			zap.Int("console_lines", len(outcome.Console)),
		)...)
	})
}

// log never lets a logging fault reach the caller
func (t *JSTool) log(write func(*zap.Logger)) {
	defer func() { _ = recover() }()
	if t.logger != nil && t.logger.Logger != nil {
		write(t.logger.Logger)
	}
}
