// Package service turns tool calls into sandbox executions.
//
// It owns the caller-visible error surface: ToolError values carry a
// JSON-RPC style code and are built only here, by TranslateError for
// rejections and TranslateOutcome for executions that ran.
//
// Components:
//   - JSTool: execute_js (decode, validate, bound, execute, translate)
//   - Registry: tool listing and dispatch by name
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(service.NewJSTool(executor, logger, metrics))
//	result, toolErr := registry.Call(ctx, "execute_js", map[string]any{"code": "return 1+1"})
package service
