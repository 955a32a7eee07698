// Package driving defines the interfaces that infrastructure calls IN to core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI depends on these interfaces; core services implement them.
package driving
