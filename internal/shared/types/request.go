package types

// CallRequest represents a tool call over HTTP
type CallRequest struct {
	Name      string         `json:"name" binding:"required"`
	Arguments map[string]any `json:"arguments"`
}

// ErrorResponse is the wire form of a tool error
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
