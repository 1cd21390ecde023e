// Package storage provides case Repository implementations.
//
// Three backends are available:
//
//   - SQLite: durable single-file store, the default for standalone
//     deployments. Uses WAL mode for better concurrent read performance.
//   - Postgres: shared store for deployments where the case database is
//     operated separately from the custodian service.
//   - Memory: map-backed store for testing only.
//
// All backends implement cases.Repository and are selected through the
// storage.backend configuration key.
package storage
