/*
Package monitoring provides metrics collection for the desktop backend.

# Overview

Prometheus-based metrics for HTTP requests, window kernel operations,
intent dispatch, translator round trips, file system projections and
WebSocket connections. Each Metrics value owns a private registry.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	metrics.RecordWindowOp("open", 3)

	timer := monitoring.NewTimer(metrics, "remote")
	// ... call translator ...
	timer.Stop("success")

All recording methods are safe on a nil *Metrics.
*/
package monitoring
