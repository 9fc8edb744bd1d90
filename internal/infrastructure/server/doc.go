// Package server wires the HTTP transport: middleware, routes, the
// Prometheus endpoint and graceful shutdown.
package server
