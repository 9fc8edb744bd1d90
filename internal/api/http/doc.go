// Package http provides the gin handlers of the HTTP transport.
//
// Routes:
//   - GET  /            service identity
//   - GET  /health      registry, engine and execution statistics
//   - GET  /tools       tool definitions
//   - POST /tools/call  {"name": ..., "arguments": {...}}
//
// Tool errors are returned as {"error": {"code": ..., "message": ...}}
// with 400 for InvalidRequest, 404 for MethodNotFound and 500 otherwise.
// Responses are encoded with sonic.
package http
