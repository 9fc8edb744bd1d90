// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON lines for machine parsing
//   - Development: colored console output
//
// Logs always go to stderr by default. When the server speaks MCP over
// stdio, stdout belongs to the protocol and a stray log line would corrupt
// the stream.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("execution completed", zap.String("execution_id", id))
package logging
