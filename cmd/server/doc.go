// Package main is the entry point for the WebPilot backend server.
//
// The server puts an action-safety firewall between an autonomous web
// agent and the pages it touches: each task locks an immutable intent
// up front, and every subsequent page action is validated against that
// intent before it executes.
//
// The server provides:
//   - REST API for service discovery and tool execution
//   - Firewall service: intent lifecycle, validation, permission catalog
//   - Actions service: open, navigate, fill, click with ranked fallbacks
//   - Prometheus metrics and request tracing
//
// Configuration comes from environment variables with CLI flag
// overrides.
//
// Usage:
//
//	# Production mode
//	./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown
package main
