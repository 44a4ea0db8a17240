// Package redis stores model snapshots in Redis and provides a Redis-backed
// distributed lock for writers that share one store.
package redis
