// Package config provides 12-factor configuration management for the
// WebPilot backend.
//
// Configuration is loaded from environment variables with sensible defaults.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Firewall: Default task budgets (wall-clock and action count)
//   - Web: Outbound page-fetch client settings
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - FIREWALL_MAX_DURATION_SECONDS, FIREWALL_MAX_ACTIONS
//   - WEB_TIMEOUT_SECONDS, WEB_MAX_RETRIES
package config
