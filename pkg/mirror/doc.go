// Package mirror persists snapshots of a live model graph as it changes.
//
// A Mirror is a regular change bus subscriber. When its queue overflows it
// recovers the way any subscriber should: by taking a new snapshot instead
// of replaying the events it lost.
package mirror
