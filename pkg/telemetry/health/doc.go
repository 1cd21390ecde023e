// Package health provides liveness and readiness probes for the cleanup
// service.
//
// Liveness is a trivial process-alive check. Readiness runs registered
// component checks concurrently, typically a case store ping and a folder
// root access check, and reports degraded with a 503 when any component is
// unhealthy.
package health
