// Package types provides shared data structures for the WebPilot backend.
//
// This package defines the types used across backend components,
// ensuring consistent data structures between the firewall core, the
// action executor, and the service provider surface.
//
// Core Types:
//   - Service: Service provider definition
//   - Tool: Service tool specification
//   - Context: Execution context for operations
//   - Result: Standard operation result
//
// Request Types:
//   - ExecuteRequest: Service tool execution
package types
