// Package mcpserver serves the tool registry over the Model Context Protocol
// using mark3labs/mcp-go. Each registry tool becomes an MCP tool whose
// input schema mirrors the tool definition, bounds included.
//
// Successful calls return one text content item holding the JSON result.
// Failed calls return an error result whose text is
// {"code": <JSON-RPC code>, "message": "..."}.
package mcpserver
