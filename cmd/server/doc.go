// Command jsexec serves the execute_js tool.
//
// Usage:
//
//	jsexec                          # MCP over stdio
//	jsexec --transport http --addr 127.0.0.1:8765
//	jsexec version
//
// Configuration comes from the environment (see internal/infrastructure/config);
// flags override it. Logs go to stderr.
package main
