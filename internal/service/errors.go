package service

import (
	"fmt"

	"github.com/GriffinCanCode/jsexec/internal/shared/types"
)

// ErrorCode is a JSON-RPC style error code
type ErrorCode int

const (
	CodeInvalidRequest ErrorCode = -32600
	CodeMethodNotFound ErrorCode = -32601
	CodeInternalError  ErrorCode = -32603
)

func (c ErrorCode) String() string {
	switch c {
	case CodeInvalidRequest:
		return "InvalidRequest"
	case CodeMethodNotFound:
		return "MethodNotFound"
	case CodeInternalError:
		return "InternalError"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// ToolError is the only error shape a caller ever sees. It is built
// exclusively by this package.
type ToolError struct {
	Code    ErrorCode
	Message string
}

func newToolError(code ErrorCode, format string, args ...interface{}) *ToolError {
	return &ToolError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// UnknownTool is the error for a call naming no registered tool
func UnknownTool(name string) *ToolError {
	return newToolError(CodeMethodNotFound, "Unknown tool: %s", name)
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, int(e.Code), e.Message)
}

// Response returns the wire form of the error
func (e *ToolError) Response() types.ErrorResponse {
	return types.ErrorResponse{Code: int(e.Code), Message: e.Message}
}
