// Package config provides environment-driven configuration for the server.
//
// Configuration is loaded from environment variables with defaults; the
// command line can override the transport, address and logging.
//
// Configuration Sections:
//   - Server: transport (stdio or http) and HTTP listen address
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting for the HTTP transport
//   - Engine: runtime pool size, call stack depth, memory polling
//
// Environment Variables:
//   - TRANSPORT, HTTP_ADDR
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - ENGINE_POOL_SIZE, ENGINE_MAX_CALL_STACK, ENGINE_MEMORY_POLL, ENGINE_ABANDON_GRACE
package config
