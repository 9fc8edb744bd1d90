package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GriffinCanCode/jsexec/internal/engine"
	"github.com/GriffinCanCode/jsexec/internal/infrastructure/logging"
	"github.com/GriffinCanCode/jsexec/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/jsexec/internal/sandbox"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// countingExecutor records calls and returns a fixed outcome
type countingExecutor struct {
	outcome sandbox.Outcome
	calls   atomic.Int32
	lastCfg sandbox.Config
}

func (c *countingExecutor) Execute(ctx context.Context, code string, cfg sandbox.Config) sandbox.Outcome {
	c.calls.Add(1)
	c.lastCfg = cfg
	return c.outcome
}

func newRealTool(t *testing.T) *JSTool {
	t.Helper()
	eng, err := engine.New(engine.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	return NewJSTool(sandbox.NewExecutor(eng), nil, nil)
}

func TestExecuteRejectsBeforeRunning(t *testing.T) {
	exec := &countingExecutor{}
	tool := NewJSTool(exec, nil, nil)

	tests := []struct {
		name    string
		args    map[string]any
		wantMsg string
	}{
		{"missing code", map[string]any{}, "Missing required parameter: code"},
		{"blank code", map[string]any{"code": "  \n"}, "Missing required parameter: code"},
		{"forbidden", map[string]any{"code": "return process.env"}, "Forbidden pattern detected: process"},
		{"forbidden in comment", map[string]any{"code": "// require\nreturn 1"}, "Forbidden pattern detected: require"},
		{"timeout too low", map[string]any{"code": "return 1", "timeout": 99.0}, "Invalid timeout: must be between 100 and 30000"},
		{"timeout too high", map[string]any{"code": "return 1", "timeout": 30001.0}, "Invalid timeout: must be between 100 and 30000"},
		{"memory too low", map[string]any{"code": "return 1", "memory": 1024.0}, "Invalid memory: must be between 1048576 and 104857600"},
		{"timeout not a number", map[string]any{"code": "return 1", "timeout": "fast"}, "Invalid timeout: must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, toolErr := tool.Execute(context.Background(), tt.args)

			assert.Nil(t, resp)
			require.NotNil(t, toolErr)
			assert.Equal(t, CodeInvalidRequest, toolErr.Code)
			assert.Equal(t, tt.wantMsg, toolErr.Message)
		})
	}

	assert.Equal(t, int32(0), exec.calls.Load())
}

func TestExecuteSyntaxErrorTakesNoTelemetry(t *testing.T) {
	exec := &countingExecutor{}
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	tool := NewJSTool(exec, nil, metrics)

	_, toolErr := tool.Execute(context.Background(), map[string]any{"code": "return (;"})

	require.NotNil(t, toolErr)
	assert.Equal(t, CodeInvalidRequest, toolErr.Code)
	assert.Contains(t, toolErr.Message, "Syntax error: ")
	assert.Equal(t, int32(0), exec.calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Rejections.WithLabelValues(string(sandbox.ReasonSyntax))))
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.Executions))
}

func TestExecutePassesBoundsToExecutor(t *testing.T) {
	exec := &countingExecutor{outcome: sandbox.Outcome{Value: "ok", MemoryBytes: 1}}
	tool := NewJSTool(exec, nil, nil)

	resp, toolErr := tool.Execute(context.Background(), map[string]any{
		"code":    "return 'ok'",
		"timeout": 1234.0,
		"memory":  float64(2 << 20),
	})

	require.Nil(t, toolErr)
	assert.Equal(t, "ok", resp.Result)
	assert.Equal(t, 1234*time.Millisecond, exec.lastCfg.Timeout)
	assert.Equal(t, int64(2<<20), exec.lastCfg.MemoryBytes)
}

func TestExecuteLogsOneRecordPerExecution(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := &logging.Logger{Logger: zap.New(core)}

	exec := &countingExecutor{outcome: sandbox.Outcome{Value: int64(1), Console: []string{"x"}, MemoryBytes: 10}}
	tool := NewJSTool(exec, logger, nil)

	_, toolErr := tool.Execute(context.Background(), map[string]any{"code": "return 1"})
	require.Nil(t, toolErr)

	exec.outcome = sandbox.Outcome{Failure: sandbox.NewFailure(sandbox.FailureRuntime, "Error: boom")}
	_, toolErr = tool.Execute(context.Background(), map[string]any{"code": "throw new Error('boom')"})
	require.NotNil(t, toolErr)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	assert.Equal(t, "execution completed", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(8), fields["code_length"])
	assert.Equal(t, int64(1), fields["console_lines"])
	assert.Contains(t, fields["execution_id"], "exec_")

	assert.Equal(t, "execution failed", entries[1].Message)
	assert.Equal(t, "Execution failed: Error: boom", entries[1].ContextMap()["error"])
}

func TestExecuteSurvivesBrokenLogger(t *testing.T) {
	exec := &countingExecutor{outcome: sandbox.Outcome{Value: int64(1), MemoryBytes: 1}}
	tool := NewJSTool(exec, &logging.Logger{}, nil)

	resp, toolErr := tool.Execute(context.Background(), map[string]any{"code": "return 1"})

	require.Nil(t, toolErr)
	assert.Equal(t, int64(1), resp.Result)
}

func TestExecuteEndToEnd(t *testing.T) {
	tool := newRealTool(t)

	resp, toolErr := tool.Execute(context.Background(), map[string]any{"code": "return 1+1;"})
	require.Nil(t, toolErr)
	assert.Equal(t, int64(2), resp.Result)
	assert.Equal(t, []string{}, resp.Console)
	assert.GreaterOrEqual(t, resp.ExecutionTime, 0.0)
	assert.Greater(t, resp.MemoryUsage, uint64(0))
}

func TestExecuteConsoleOrder(t *testing.T) {
	tool := newRealTool(t)

	resp, toolErr := tool.Execute(context.Background(), map[string]any{
		"code": "console.log('a'); console.log('b');",
	})

	require.Nil(t, toolErr)
	assert.Nil(t, resp.Result)
	assert.Equal(t, []string{"a", "b"}, resp.Console)
}

func TestExecuteInfiniteLoopTimesOut(t *testing.T) {
	tool := newRealTool(t)

	start := time.Now()
	resp, toolErr := tool.Execute(context.Background(), map[string]any{
		"code":    "while (true) {}",
		"timeout": 100.0,
	})
	took := time.Since(start)

	assert.Nil(t, resp)
	require.NotNil(t, toolErr)
	assert.Equal(t, CodeInternalError, toolErr.Code)
	assert.Equal(t, "Execution timed out after 100ms", toolErr.Message)
	assert.Less(t, took, 100*time.Millisecond+sandbox.DefaultAbandonGrace+250*time.Millisecond)
}

func TestExecuteRuntimeFailure(t *testing.T) {
	tool := newRealTool(t)

	_, toolErr := tool.Execute(context.Background(), map[string]any{
		"code": "console.log('lost'); throw new RangeError('too far')",
	})

	require.NotNil(t, toolErr)
	assert.Equal(t, CodeInternalError, toolErr.Code)
	assert.Equal(t, "Execution failed: RangeError: too far", toolErr.Message)
}

func TestExecuteIsIdempotent(t *testing.T) {
	tool := newRealTool(t)
	args := map[string]any{"code": "return [1, 2, 3].map(x => x * x).concat({k: 'v'})"}

	first, err1 := tool.Execute(context.Background(), args)
	second, err2 := tool.Execute(context.Background(), args)

	require.Nil(t, err1)
	require.Nil(t, err2)
	assert.Equal(t, first.Result, second.Result)
}

func TestExecuteCoercesNonJSONValues(t *testing.T) {
	tool := newRealTool(t)

	resp, toolErr := tool.Execute(context.Background(), map[string]any{
		"code": "return {f: function named() {}, n: NaN, u: undefined, d: new Date(0)}",
	})

	require.Nil(t, toolErr)
	assert.Equal(t, map[string]any{
		"f": "[Function: named]",
		"n": "NaN",
		"u": nil,
		"d": "1970-01-01T00:00:00.000Z",
	}, resp.Result)
}

func TestDefinition(t *testing.T) {
	def := NewJSTool(&countingExecutor{}, nil, nil).Definition()

	assert.Equal(t, ToolExecuteJS, def.Name)
	assert.Equal(t, []string{"code"}, def.Required())
	require.Len(t, def.Parameters, 3)
	assert.Equal(t, 100.0, *def.Parameters[1].Minimum)
	assert.Equal(t, 30000.0, *def.Parameters[1].Maximum)
	assert.Equal(t, float64(100<<20), *def.Parameters[2].Maximum)
}
