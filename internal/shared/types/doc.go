// Package types provides shared data structures for the jsexec server.
//
// Types here cross the transport boundary and carry JSON tags matching the
// wire format. They hold no behaviour beyond small helpers.
//
// Core Types:
//   - Tool, Parameter: tool definitions served by tool listing
//   - ExecutionResponse: successful execute_js payload
//   - CallRequest: HTTP tool call body
//   - ErrorResponse: wire form of a tool error
//
// Example Usage:
//
//	resp := &types.ExecutionResponse{
//	    Result:        int64(2),
//	    Console:       []string{},
//	    ExecutionTime: 1.7,
//	    MemoryUsage:   4194304,
//	}
package types
