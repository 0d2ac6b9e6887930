// Package driving provides interfaces for application entry points
// (primary/inbound ports).
//
// Driving ports are implemented by the core services and consumed by
// the HTTP, CLI and watcher adapters under internal/adapters/driving.
package driving
