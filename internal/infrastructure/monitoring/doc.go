/*
Package monitoring provides Prometheus metrics for the server.

# Overview

Metrics cover two areas: the HTTP transport (request counts and latency,
labelled by route template) and executions (outcome counts, wall time,
pre-execution rejections by reason, and the heap reading of the last
successful run).

# Usage

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	router.Use(monitoring.Middleware(metrics))
	metrics.RecordExecution(monitoring.StatusSuccess, elapsed, heap)

A nil *Metrics is accepted everywhere and records nothing.

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
