package service

import (
	"errors"

	"github.com/GriffinCanCode/jsexec/internal/sandbox"
	"github.com/GriffinCanCode/jsexec/internal/shared/types"
)

// TranslateError maps a rejection raised before execution
func TranslateError(err error) *ToolError {
	if err == nil {
		return nil
	}

	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr
	}

	var invalid *sandbox.ValidationError
	if errors.As(err, &invalid) {
		switch invalid.Reason {
		case sandbox.ReasonMissingCode:
			return newToolError(CodeInvalidRequest, "Missing required parameter: code")
		case sandbox.ReasonSyntax:
			return newToolError(CodeInvalidRequest, "Syntax error: %s", invalid.Message)
		case sandbox.ReasonForbiddenPattern:
			return newToolError(CodeInvalidRequest, "Forbidden pattern detected: %s", invalid.Pattern)
		default:
			return newToolError(CodeInvalidRequest, "Invalid %s: %s", invalid.Field, invalid.Message)
		}
	}

	var failure *sandbox.Failure
	if errors.As(err, &failure) {
		return translateFailure(failure, sandbox.Config{})
	}

	return newToolError(CodeInternalError, "Execution failed: %s", err.Error())
}

// TranslateOutcome maps an execution outcome onto the response or its error
func TranslateOutcome(outcome sandbox.Outcome, cfg sandbox.Config) (*types.ExecutionResponse, *ToolError) {
	if !outcome.Succeeded() {
		return nil, translateFailure(outcome.Failure, cfg)
	}

	console := outcome.Console
	if console == nil {
		console = []string{}
	}

	return &types.ExecutionResponse{
		Result:        outcome.Value,
		Console:       console,
		ExecutionTime: outcome.ElapsedMs(),
		MemoryUsage:   outcome.MemoryBytes,
	}, nil
}

func translateFailure(failure *sandbox.Failure, cfg sandbox.Config) *ToolError {
	switch failure.Kind {
	case sandbox.FailureCompile:
		return newToolError(CodeInvalidRequest, "Syntax error: %s", failure.Message)
	case sandbox.FailureTimeout:
		return newToolError(CodeInternalError, "Execution timed out after %dms", cfg.Timeout.Milliseconds())
	case sandbox.FailureMemory:
		return newToolError(CodeInternalError, "Memory limit exceeded: %d bytes", cfg.MemoryBytes)
	case sandbox.FailureCanceled:
		return newToolError(CodeInternalError, "Execution cancelled")
	default:
		return newToolError(CodeInternalError, "Execution failed: %s", failure.Message)
	}
}

// MalformedRequest reports a call envelope that could not be decoded
func MalformedRequest(err error) *ToolError {
	return newToolError(CodeInvalidRequest, "Invalid request: %s", err.Error())
}
