// Package providers contains the service providers exposed through the
// service registry: the firewall (intent and validation surface) and
// actions (validated page interaction).
package providers
