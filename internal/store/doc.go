// Package store persists analytics snapshots.
//
// All implementations are append-only (never update, only insert) and
// expose the single read operation the serving layer consumes: the
// snapshot with the greatest taken-at time. Append is atomic from a
// reader's point of view: a concurrent Latest sees either the previous
// snapshot or the fully-formed new one, never a partial write.
//
// Implementations:
//   - PostgresStore: durable store, one transaction per snapshot
//   - MemoryStore: in-process store for tests and credential-free runs
//   - CachedStore: Redis read cache layered over another store
package store
