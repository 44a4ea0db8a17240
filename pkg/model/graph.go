package model

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/swerve/internal/logging"
	"github.com/aretw0/swerve/pkg/bus"
	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/observability"
	"github.com/aretw0/swerve/pkg/space"
)

// NodeSpec describes a node to add: its identity, the parent it hangs from
// (empty for the root), its coordinate space, the edge to the parent and
// the body it stands for.
type NodeSpec struct {
	ID     string
	Parent string
	Space  space.Space
	Edge   Edge
	Body   domain.Body
}

// node is an arena entry. Parent and children are keys, never pointers,
// so the arena can be reorganized freely.
type node struct {
	id       string
	parent   string
	space    space.Space
	edge     Edge
	body     domain.Body
	children []string // sorted
	state    domain.NodeState
}

// Graph is the model graph: a single-root tree of bodies joined by
// transform edges.
//
// Mutations are serialized by a write lock and either fully apply or leave
// the graph untouched. Every accepted mutation publishes exactly one event
// while the lock is held, so events arrive in mutation order. Queries hold
// the read lock only while copying edges.
//
// Safe for concurrent use.
type Graph struct {
	mu      sync.RWMutex
	nodes   map[string]*node
	root    string
	retired map[string]struct{}
	spaces  map[string]string // space name -> owning node id
	seq     uint64

	bus     *bus.Bus
	ownsBus bool

	epsilon    float64
	allowReuse bool
	busOpts    []bus.Option
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// Option configures the Graph.
type Option func(*Graph)

// WithLogger configures a logger for mutations and rejections.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		g.logger = logger
	}
}

// WithMetrics records mutations, rejections and query latency. The metrics
// are also handed to the graph's own bus.
func WithMetrics(m *observability.Metrics) Option {
	return func(g *Graph) {
		g.metrics = m
	}
}

// WithEpsilon sets the tolerance used when comparing transforms and when
// deciding whether a fixed edge carries a translation.
func WithEpsilon(eps float64) Option {
	return func(g *Graph) {
		if eps > 0 {
			g.epsilon = eps
		}
	}
}

// WithIdentityReuse lets a removed identity be added again. By default a
// removed identity stays retired, so stale external references cannot alias
// a new body.
func WithIdentityReuse() Option {
	return func(g *Graph) {
		g.allowReuse = true
	}
}

// WithBus publishes events on an existing bus. The graph does not close it.
func WithBus(b *bus.Bus) Option {
	return func(g *Graph) {
		g.bus = b
	}
}

// WithBusCapacity sets the default subscriber queue size of the graph's
// own bus. Ignored together with WithBus.
func WithBusCapacity(n int) Option {
	return func(g *Graph) {
		g.busOpts = append(g.busOpts, bus.WithCapacity(n))
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:   make(map[string]*node),
		retired: make(map[string]struct{}),
		spaces:  make(map[string]string),
		epsilon: space.DefaultEpsilon,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.bus == nil {
		busOpts := append([]bus.Option{bus.WithLogger(g.logger), bus.WithMetrics(g.metrics)}, g.busOpts...)
		g.bus = bus.New(busOpts...)
		g.ownsBus = true
	}
	return g
}

// Build creates a graph from a declarative list of node specs, added in
// order. It fails on the first spec the matching AddNode would reject.
func Build(specs []NodeSpec, opts ...Option) (*Graph, error) {
	g := New(opts...)
	for i, spec := range specs {
		if err := g.AddNode(spec); err != nil {
			g.Close()
			return nil, fmt.Errorf("frame %d (%q): %w", i, spec.ID, err)
		}
	}
	return g, nil
}

// Epsilon returns the comparison tolerance configured for the graph.
func (g *Graph) Epsilon() float64 { return g.epsilon }

// Subscribe registers a change bus subscriber.
func (g *Graph) Subscribe(opts ...bus.SubscribeOption) *bus.Subscription {
	return g.bus.Subscribe(opts...)
}

// Unsubscribe removes a subscriber registered with Subscribe.
func (g *Graph) Unsubscribe(s *bus.Subscription) bool {
	return g.bus.Unsubscribe(s)
}

// Close releases the graph's bus. Subscribers see their channels close.
func (g *Graph) Close() {
	if g.ownsBus {
		g.bus.Close()
	}
}

// Len returns the number of active nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Version returns the sequence number of the last accepted mutation.
func (g *Graph) Version() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.seq
}

// State reports the lifecycle state of an identity.
func (g *Graph) State(id string) (domain.NodeState, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if n, ok := g.nodes[id]; ok {
		return n.state, nil
	}
	if _, ok := g.retired[id]; ok {
		return domain.NodeRemoved, nil
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrUnknownIdentity, id)
}

// AddNode validates spec and inserts it as a new active node.
func (g *Graph) AddNode(spec NodeSpec) error {
	// Proposed: checks that need no graph state run before locking.
	if err := checkSpec(spec); err != nil {
		return g.reject("add_node", spec.ID, err)
	}
	t, err := spec.Edge.Transform()
	if err != nil {
		return g.reject("add_node", spec.ID, err)
	}

	if spec.Space.Name == "" {
		spec.Space.Name = spec.ID
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkPlacement(spec); err != nil {
		return g.reject("add_node", spec.ID, err)
	}

	n := &node{
		id:     spec.ID,
		parent: spec.Parent,
		space:  spec.Space,
		edge:   spec.Edge.classify(g.epsilon),
		body:   spec.Body,
		state:  domain.NodeValidated,
	}
	if n.body.Kind == "" {
		n.body.Kind = domain.BodyGeneric
	}

	g.nodes[n.id] = n
	g.spaces[n.space.Name] = n.id
	if n.parent == "" {
		g.root = n.id
	} else {
		p := g.nodes[n.parent]
		p.children = insertSorted(p.children, n.id)
	}
	delete(g.retired, n.id)
	n.state = domain.NodeActive

	g.publish(domain.ChangeNodeAdded, n.id, n.parent, &t)
	g.metrics.SetNodes(len(g.nodes))
	g.logger.Debug("node added", "id", n.id, "parent", n.parent, "edge", n.edge.Kind())
	return nil
}

func checkSpec(spec NodeSpec) error {
	if strings.TrimSpace(spec.ID) == "" {
		return fmt.Errorf("%w: empty id", domain.ErrInvalidIdentity)
	}
	if spec.Parent == spec.ID {
		return fmt.Errorf("%w: %q cannot be its own parent", domain.ErrUnknownParent, spec.ID)
	}
	if !spec.Space.Dim.Valid() {
		return &domain.DimensionError{Op: "space of " + spec.ID, Want: int(space.Spatial), Got: int(spec.Space.Dim)}
	}
	if err := spec.Edge.validate(); err != nil {
		return err
	}
	return spec.Space.Check(spec.Edge.Base())
}

// checkPlacement runs the checks that depend on current graph state.
// Must hold g.mu.
func (g *Graph) checkPlacement(spec NodeSpec) error {
	if _, ok := g.nodes[spec.ID]; ok {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateIdentity, spec.ID)
	}
	if _, ok := g.retired[spec.ID]; ok && !g.allowReuse {
		return fmt.Errorf("%w: %q was removed and its identity is retired", domain.ErrDuplicateIdentity, spec.ID)
	}
	if owner, ok := g.spaces[spec.Space.Name]; ok {
		return fmt.Errorf("%w: space %q already belongs to %q", domain.ErrDuplicateIdentity, spec.Space.Name, owner)
	}
	if spec.Parent == "" {
		if len(g.nodes) > 0 {
			return fmt.Errorf("%w: %q has no parent but the graph already has root %q", domain.ErrUnknownParent, spec.ID, g.root)
		}
		return nil
	}
	p, ok := g.nodes[spec.Parent]
	if !ok {
		return fmt.Errorf("%w: %q (parent of %q)", domain.ErrUnknownParent, spec.Parent, spec.ID)
	}
	if p.space.Dim != spec.Space.Dim {
		return &domain.DimensionError{Op: fmt.Sprintf("edge %s -> %s", spec.ID, spec.Parent), Want: int(p.space.Dim), Got: int(spec.Space.Dim)}
	}
	return nil
}

// RemoveNode removes a leaf node. Children must be removed first.
func (g *Graph) RemoveNode(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return g.reject("remove_node", id, fmt.Errorf("%w: %q", domain.ErrUnknownIdentity, id))
	}
	if len(n.children) > 0 {
		return g.reject("remove_node", id, fmt.Errorf("%w: %q still has %s", domain.ErrHasChildren, id, strings.Join(n.children, ", ")))
	}

	if n.parent == "" {
		g.root = ""
	} else if p, ok := g.nodes[n.parent]; ok {
		p.children = removeSorted(p.children, id)
	}
	delete(g.nodes, id)
	delete(g.spaces, n.space.Name)
	g.retired[id] = struct{}{}
	n.state = domain.NodeRemoved

	g.publish(domain.ChangeNodeRemoved, id, n.parent, nil)
	g.metrics.SetNodes(len(g.nodes))
	g.logger.Debug("node removed", "id", id)
	return nil
}

// UpdateEdge replaces the fixed transform of a node's edge. A jointed edge
// keeps its joint and current value.
func (g *Graph) UpdateEdge(id string, t space.Transform) error {
	if t.IsZero() {
		return g.reject("update_edge", id, fmt.Errorf("%w: zero transform", domain.ErrInvalidTransform))
	}
	if err := t.Validate(); err != nil {
		return g.reject("update_edge", id, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return g.reject("update_edge", id, fmt.Errorf("%w: %q", domain.ErrUnknownIdentity, id))
	}
	if err := n.space.Check(t); err != nil {
		return g.reject("update_edge", id, err)
	}
	return g.replaceEdge(n, n.edge.withBase(t, g.epsilon))
}

// SetJointValue moves the joint of a jointed edge, e.g. to a new steering
// angle. Revolute values are normalized into [-π, π).
func (g *Graph) SetJointValue(id string, value float64) error {
	if err := checkJointValue(value); err != nil {
		return g.reject("set_joint", id, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return g.reject("set_joint", id, fmt.Errorf("%w: %q", domain.ErrUnknownIdentity, id))
	}
	if n.edge.Kind() != EdgeJoint {
		return g.reject("set_joint", id, fmt.Errorf("%w: %q is %s", domain.ErrNotJointed, id, n.edge.Kind()))
	}
	return g.replaceEdge(n, n.edge.withValue(value))
}

// replaceEdge evaluates e and swaps it in. Must hold g.mu.
func (g *Graph) replaceEdge(n *node, e Edge) error {
	t, err := e.Transform()
	if err != nil {
		return g.reject("update_edge", n.id, err)
	}
	n.edge = e
	g.publish(domain.ChangeEdgeUpdated, n.id, n.parent, &t)
	g.logger.Debug("edge updated", "id", n.id, "edge", e.Kind())
	return nil
}

// publish emits the event for an applied mutation. Must hold g.mu.
func (g *Graph) publish(kind domain.ChangeKind, id, parent string, t *space.Transform) {
	g.seq++
	g.bus.Publish(bus.Event{
		Seq:       g.seq,
		Kind:      kind,
		ID:        id,
		Parent:    parent,
		Transform: t,
		Time:      time.Now(),
	})
	g.metrics.MutationApplied(kind)
}

func (g *Graph) reject(op, id string, err error) error {
	g.metrics.MutationRejected(err)
	g.logger.Debug("operation rejected", "op", op, "id", id, "error", err)
	return err
}

func insertSorted(list []string, id string) []string {
	i := sort.SearchStrings(list, id)
	return slices.Insert(slices.Clone(list), i, id)
}

func removeSorted(list []string, id string) []string {
	i := sort.SearchStrings(list, id)
	if i < len(list) && list[i] == id {
		return slices.Delete(slices.Clone(list), i, i+1)
	}
	return list
}
