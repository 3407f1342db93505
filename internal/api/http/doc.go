// Package http contains the REST handlers: service discovery and
// execution, health, and the JSON metrics snapshot.
package http
