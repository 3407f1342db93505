// Package webclient provides the outbound HTTP client used to fetch pages
// for agent sessions, with retries, rate limiting, and circuit breaking.
package webclient
