// Package middleware provides gin middleware for the HTTP transport:
// per-IP and global rate limiting, CORS, and request ids.
package middleware
