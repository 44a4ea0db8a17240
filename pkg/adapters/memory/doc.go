// Package memory keeps model snapshots in process memory.
// Useful for tests and single-process tools.
package memory
