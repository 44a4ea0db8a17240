package model

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/space"
)

// NodeView is the read-only description of one node in a Snapshot.
type NodeView struct {
	ID        string          `json:"id"`
	Parent    string          `json:"parent,omitempty"`
	Space     space.Space     `json:"space"`
	Edge      EdgeKind        `json:"edge,omitempty"`
	Transform space.Transform `json:"transform"`
	Joint     *Joint          `json:"joint,omitempty"`
	Body      domain.Body     `json:"body"`
	Children  []string        `json:"children,omitempty"`
}

// Snapshot is an immutable copy of the topology at one graph version.
// Later mutations do not affect it.
type Snapshot struct {
	Version uint64     `json:"version"`
	Root    string     `json:"root,omitempty"`
	Nodes   []NodeView `json:"nodes"` // pre-order from the root, children sorted

	index map[string]int
}

type rawNode struct {
	id, parent string
	space      space.Space
	edge       Edge
	body       domain.Body
	children   []string
}

// Snapshot copies the topology under the read lock and evaluates the edges
// afterwards.
func (g *Graph) Snapshot() (*Snapshot, error) {
	g.mu.RLock()
	version, root := g.seq, g.root
	raw := make(map[string]rawNode, len(g.nodes))
	for id, n := range g.nodes {
		raw[id] = rawNode{
			id:       n.id,
			parent:   n.parent,
			space:    n.space,
			edge:     n.edge,
			body:     n.body,
			children: slices.Clone(n.children),
		}
	}
	g.mu.RUnlock()

	s := &Snapshot{Version: version, Root: root, Nodes: make([]NodeView, 0, len(raw))}
	if root == "" {
		s.reindex()
		return s, nil
	}

	stack := []string{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n, ok := raw[id]
		if !ok {
			return nil, fmt.Errorf("%w: child %q is not in the graph", domain.ErrInternalInvariant, id)
		}
		view := NodeView{
			ID:       n.id,
			Parent:   n.parent,
			Space:    n.space,
			Body:     n.body,
			Children: n.children,
		}
		if n.parent != "" {
			t, err := n.edge.Transform()
			if err != nil {
				return nil, err
			}
			view.Edge = n.edge.Kind()
			view.Transform = t
			if j, ok := n.edge.Joint(); ok {
				view.Joint = &j
			}
		} else {
			view.Transform = space.Identity(n.space.Dim)
		}
		s.Nodes = append(s.Nodes, view)

		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	if len(s.Nodes) != len(raw) {
		return nil, fmt.Errorf("%w: %d nodes reachable from root, %d in graph", domain.ErrInternalInvariant, len(s.Nodes), len(raw))
	}
	s.reindex()
	return s, nil
}

func (s *Snapshot) reindex() {
	s.index = make(map[string]int, len(s.Nodes))
	for i, n := range s.Nodes {
		s.index[n.ID] = i
	}
}

// Len returns the number of nodes.
func (s *Snapshot) Len() int { return len(s.Nodes) }

// Node looks up a node by identity.
func (s *Snapshot) Node(id string) (NodeView, bool) {
	i, ok := s.index[id]
	if !ok {
		return NodeView{}, false
	}
	return s.Nodes[i], true
}

// Children returns the identities hanging directly from id.
func (s *Snapshot) Children(id string) []string {
	n, ok := s.Node(id)
	if !ok {
		return nil
	}
	return slices.Clone(n.Children)
}

// Wheels returns the leaf nodes that are wheels: either declared as such or
// attached through a joint spinning about the Y axis.
func (s *Snapshot) Wheels() []string {
	var wheels []string
	for _, n := range s.Nodes {
		if len(n.Children) > 0 {
			continue
		}
		if n.Body.Kind == domain.BodyWheel || (n.Joint != nil && n.Joint.Dof == domain.DofRevoluteY) {
			wheels = append(wheels, n.ID)
		}
	}
	return wheels
}

// UnmarshalJSON restores a snapshot, including its lookup index.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type plain Snapshot
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Snapshot(p)
	s.reindex()
	return nil
}

// Clone returns a deep copy that shares nothing mutable with s.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{Version: s.Version, Root: s.Root}
	if s.Nodes != nil {
		c.Nodes = make([]NodeView, len(s.Nodes))
	}
	for i, n := range s.Nodes {
		n.Children = slices.Clone(n.Children)
		if n.Joint != nil {
			j := *n.Joint
			n.Joint = &j
		}
		c.Nodes[i] = n
	}
	c.reindex()
	return c
}

// Path returns the identities on the tree path from one node to another,
// both ends included.
func (s *Snapshot) Path(from, to string) ([]string, error) {
	ancestors := func(id string) ([]string, error) {
		var chain []string
		for id != "" {
			i, ok := s.index[id]
			if !ok || len(chain) > len(s.Nodes) {
				return nil, fmt.Errorf("%w: %q", domain.ErrUnknownIdentity, id)
			}
			chain = append(chain, id)
			id = s.Nodes[i].Parent
		}
		return chain, nil
	}

	up, err := ancestors(from)
	if err != nil {
		return nil, err
	}
	down, err := ancestors(to)
	if err != nil {
		return nil, err
	}

	depth := make(map[string]int, len(up))
	for i, id := range up {
		depth[id] = i
	}
	for j, id := range down {
		if d, ok := depth[id]; ok {
			tail := slices.Clone(down[:j])
			slices.Reverse(tail)
			return append(slices.Clone(up[:d+1]), tail...), nil
		}
	}
	return nil, fmt.Errorf("%w: %q and %q", domain.ErrDisconnected, from, to)
}
