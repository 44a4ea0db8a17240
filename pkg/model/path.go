package model

import (
	"fmt"
	"time"

	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/space"
)

// TransformBetween returns the transform that maps coordinates expressed in
// from's space into to's space.
//
// The path climbs from both endpoints to their nearest common ancestor.
// Edges are copied under the read lock; the matrix arithmetic runs after it
// is released.
func (g *Graph) TransformBetween(from, to string) (space.Transform, error) {
	start := time.Now()
	defer func() { g.metrics.ObserveQuery(time.Since(start)) }()

	up, down, dim, err := g.path(from, to)
	if err != nil {
		return space.Transform{}, err
	}

	fromToLCA, err := chain(dim, up)
	if err != nil {
		return space.Transform{}, err
	}
	toToLCA, err := chain(dim, down)
	if err != nil {
		return space.Transform{}, err
	}
	lcaToTo, err := space.Invert(toToLCA)
	if err != nil {
		return space.Transform{}, err
	}
	return space.Compose(lcaToTo, fromToLCA)
}

// path collects the edges from each endpoint up to their common ancestor,
// ordered from the endpoint upward.
func (g *Graph) path(from, to string) (up, down []Edge, dim space.Dim, err error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	src, ok := g.nodes[from]
	if !ok {
		return nil, nil, 0, fmt.Errorf("%w: %q", domain.ErrUnknownIdentity, from)
	}
	dst, ok := g.nodes[to]
	if !ok {
		return nil, nil, 0, fmt.Errorf("%w: %q", domain.ErrUnknownIdentity, to)
	}
	if src.space.Dim != dst.space.Dim {
		return nil, nil, 0, &domain.DimensionError{Op: fmt.Sprintf("path %s -> %s", from, to), Want: int(dst.space.Dim), Got: int(src.space.Dim)}
	}

	// depth of every ancestor of from (itself included) along the upward walk
	ancestors := make(map[string]int)
	var upEdges []Edge
	for id, steps := from, 0; id != ""; steps++ {
		if steps > len(g.nodes) {
			return nil, nil, 0, fmt.Errorf("%w: cycle above %q", domain.ErrInternalInvariant, from)
		}
		n, ok := g.nodes[id]
		if !ok {
			return nil, nil, 0, fmt.Errorf("%w: dangling parent %q", domain.ErrInternalInvariant, id)
		}
		ancestors[id] = len(upEdges)
		if n.parent != "" {
			upEdges = append(upEdges, n.edge)
		}
		id = n.parent
	}

	var downEdges []Edge
	for id, steps := to, 0; ; steps++ {
		if depth, ok := ancestors[id]; ok {
			return upEdges[:depth], downEdges, src.space.Dim, nil
		}
		if steps > len(g.nodes) {
			return nil, nil, 0, fmt.Errorf("%w: cycle above %q", domain.ErrInternalInvariant, to)
		}
		n, ok := g.nodes[id]
		if !ok {
			return nil, nil, 0, fmt.Errorf("%w: dangling parent %q", domain.ErrInternalInvariant, id)
		}
		if n.parent == "" {
			return nil, nil, 0, fmt.Errorf("%w: %q and %q", domain.ErrDisconnected, from, to)
		}
		downEdges = append(downEdges, n.edge)
		id = n.parent
	}
}

// chain composes edges ordered from the lowest upward into a single
// transform from the lowest node to the top of the chain.
func chain(dim space.Dim, edges []Edge) (space.Transform, error) {
	acc := space.Identity(dim)
	for _, e := range edges {
		t, err := e.Transform()
		if err != nil {
			return space.Transform{}, err
		}
		if acc, err = space.Compose(t, acc); err != nil {
			return space.Transform{}, err
		}
	}
	return acc, nil
}
