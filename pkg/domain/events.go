package domain

// ChangeKind defines the category of a change event.
type ChangeKind string

const (
	ChangeNodeAdded   ChangeKind = "node_added"
	ChangeNodeRemoved ChangeKind = "node_removed"
	ChangeEdgeUpdated ChangeKind = "edge_updated"
)
