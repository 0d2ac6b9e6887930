// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// Driven ports are implemented by adapters under
// internal/adapters/driven and consumed by the core services. Services
// depend only on these interfaces, never on concrete adapters.
package driven
