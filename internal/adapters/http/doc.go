// Package http serves diagnostics for a live model graph: snapshots,
// transform queries, joint updates, a Mermaid rendering, a server-sent
// event stream of changes and Prometheus metrics.
package http
