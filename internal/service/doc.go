// Package service provides the service registry for provider management.
//
// The registry maintains a catalog of available service providers and handles
// service discovery, tool execution, and relevance scoring for planner queries.
//
// Components:
//   - Registry: Central service catalog
//   - Provider: Interface for service implementations
//   - Service discovery with relevance scoring
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(firewallProvider)
//	services := registry.Discover("validate action", 5)
//	result, err := registry.Execute(ctx, "firewall.validate", params, appCtx)
package service
