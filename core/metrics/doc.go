// Package metrics defines the Prometheus collectors of the service and the
// fiber handler that exposes them.
package metrics
