package types

// ExecutionResponse is the success payload of execute_js
type ExecutionResponse struct {
	Result        any      `json:"result"`
	Console       []string `json:"console"`
	ExecutionTime float64  `json:"executionTime"` // milliseconds
	MemoryUsage   uint64   `json:"memoryUsage"`   // bytes
}
