/*
Package monitoring provides Prometheus metrics for the firewall and executor.

# Overview

Tracks validation outcomes, rejection reasons, action durations, winning
strategy ranks, service tool calls, and HTTP traffic.

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record firewall decisions
	metrics.RecordValidation("booking", false, "forbidden_action")

	// Time tool calls
	timer := monitoring.NewTimer(metrics, "firewall", "validate")
	// ... perform operation ...
	timer.Stop("success")

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
