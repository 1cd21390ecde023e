// Package cases defines the case record model shared by the custodian
// service and the repository interface over the case store.
//
// A case is owned by exactly one user and moves through a simple lifecycle
// (open, active, closed, archived). The cleanup subsystem only ever acts on
// closed cases; UpdatedAt marks the most recent status transition and serves
// as the retention anchor. There is no dedicated closed_at field, so any
// later write to a closed case resets its retention clock.
//
// The Repository interface is a capability interface: FindClosedBefore is
// the single query the retention sweep needs, and the remaining methods are
// the minimal CRUD surface a case store carries. Implementations live in the
// storage subpackage (SQLite, Postgres, and an in-memory test backend).
package cases
