package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/swerve/pkg/model"
)

// Builder manages the graph construction.
type Builder struct {
	nodes map[string]*NodeBuilder
	order []string
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new frame in the graph.
// If the frame already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := newNodeBuilder(id)
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Specs compiles the frames into node specs, parents before children.
// Frames keep their declaration order otherwise; a frame whose parent is
// never declared is emitted last so the graph reports it.
func (b *Builder) Specs() ([]model.NodeSpec, error) {
	var errs []error
	for _, id := range b.order {
		if err := b.nodes[id].err; err != nil {
			errs = append(errs, fmt.Errorf("frame %q: %w", id, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	placed := make(map[string]bool, len(b.order))
	specs := make([]model.NodeSpec, 0, len(b.order))
	for len(specs) < len(b.order) {
		progress := false
		for _, id := range b.order {
			nb := b.nodes[id]
			if placed[id] || (nb.parent != "" && !placed[nb.parent]) {
				continue
			}
			spec, err := nb.spec()
			if err != nil {
				return nil, fmt.Errorf("frame %q: %w", id, err)
			}
			specs = append(specs, spec)
			placed[id] = true
			progress = true
		}
		if progress {
			continue
		}
		for _, id := range b.order {
			if placed[id] {
				continue
			}
			spec, err := b.nodes[id].spec()
			if err != nil {
				return nil, fmt.Errorf("frame %q: %w", id, err)
			}
			specs = append(specs, spec)
			placed[id] = true
		}
	}
	return specs, nil
}

// Build compiles the frames into a model graph.
func (b *Builder) Build(opts ...model.Option) (*model.Graph, error) {
	specs, err := b.Specs()
	if err != nil {
		return nil, err
	}
	g, err := model.Build(specs, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build model graph: %w", err)
	}
	return g, nil
}
