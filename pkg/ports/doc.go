/*
Package ports defines the driven ports (interfaces) around the model graph.

These interfaces decouple the core from external implementations, allowing
snapshots to be kept in memory, on disk or in Redis.

# Key Interfaces

  - SnapshotStore: Persists and loads model snapshots by name.
  - DistributedLocker: Provides distributed locking for writers sharing a store.
*/
package ports
