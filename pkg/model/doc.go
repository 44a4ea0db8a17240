// Package model holds the model graph of a vehicle: a single-root tree of
// rigid bodies, each owning a coordinate space, joined by transform edges
// from child to parent.
//
// Nodes live in an arena keyed by identity. Callers only ever hold
// identities, so the graph can reorganize its storage during a mutation.
//
// Mutations (AddNode, RemoveNode, UpdateEdge, SetJointValue) are validated
// first and applied all at once. Each accepted mutation publishes one event
// on the graph's change bus. Queries (TransformBetween, Snapshot) run
// concurrently with each other and only briefly with mutations.
//
//	g := model.New()
//	_ = g.AddNode(model.NodeSpec{ID: "chassis", Space: s, Edge: model.Static(space.Identity(space.Spatial))})
//	...
//	t, err := g.TransformBetween("wheel_0", "chassis")
package model
