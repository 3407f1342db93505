// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Loggers carry structured fields; firewall and executor code attaches
// task identity via WithTask so every decision can be traced back to the
// task run that produced it.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Intent locked", zap.String("category", "booking"))
//	logger.WithTask("task_01H...").Warn("Action rejected", zap.String("reason", reason))
package logging
