package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/swerve/pkg/domain"
)

// CheckInvariants crawls the tree from the root and verifies its structure:
// one root, every node reachable exactly once, parent and child links in
// agreement, matching dimensions across every edge and one space per node. Any finding wraps
// ErrInternalInvariant since mutations are supposed to make them impossible.
func (g *Graph) CheckInvariants() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var problems []string

	if len(g.nodes) == 0 {
		if g.root != "" {
			problems = append(problems, fmt.Sprintf("empty graph names root '%s'", g.root))
		}
		return report(problems)
	}

	if len(g.spaces) != len(g.nodes) {
		problems = append(problems, fmt.Sprintf("%d space names for %d nodes", len(g.spaces), len(g.nodes)))
	}

	roots := 0
	for id, n := range g.nodes {
		if owner := g.spaces[n.space.Name]; owner != id {
			problems = append(problems, fmt.Sprintf("space '%s' of '%s' is owned by '%s'", n.space.Name, id, owner))
		}
		if n.parent == "" {
			roots++
			if id != g.root {
				problems = append(problems, fmt.Sprintf("parentless node '%s' is not the root", id))
			}
			continue
		}
		p, ok := g.nodes[n.parent]
		if !ok {
			problems = append(problems, fmt.Sprintf("'%s' hangs from missing parent '%s'", id, n.parent))
			continue
		}
		if _, found := slices.BinarySearch(p.children, id); !found {
			problems = append(problems, fmt.Sprintf("'%s' is missing from the children of '%s'", id, n.parent))
		}
		if p.space.Dim != n.space.Dim || n.edge.Dim() != n.space.Dim {
			problems = append(problems, fmt.Sprintf("edge '%s' -> '%s' mixes %s, %s and %s", id, n.parent, n.space.Dim, n.edge.Dim(), p.space.Dim))
		}
		if n.state != domain.NodeActive {
			problems = append(problems, fmt.Sprintf("'%s' is %s", id, n.state))
		}
	}
	if roots != 1 {
		problems = append(problems, fmt.Sprintf("%d roots", roots))
	}

	visited := make(map[string]bool, len(g.nodes))
	queue := []string{g.root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if visited[id] {
			problems = append(problems, fmt.Sprintf("'%s' reached twice", id))
			continue
		}
		visited[id] = true

		n, ok := g.nodes[id]
		if !ok {
			problems = append(problems, fmt.Sprintf("missing node '%s'", id))
			continue
		}
		if !slices.IsSorted(n.children) {
			problems = append(problems, fmt.Sprintf("children of '%s' are unsorted", id))
		}
		for _, child := range n.children {
			if c, ok := g.nodes[child]; ok && c.parent != id {
				problems = append(problems, fmt.Sprintf("'%s' lists child '%s' whose parent is '%s'", id, child, c.parent))
				continue
			}
			queue = append(queue, child)
		}
	}
	if len(visited) != len(g.nodes) {
		problems = append(problems, fmt.Sprintf("%d of %d nodes unreachable from root '%s'", len(g.nodes)-len(visited), len(g.nodes), g.root))
	}

	return report(problems)
}

func report(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: found %d errors:\n- %s", domain.ErrInternalInvariant, len(problems), strings.Join(problems, "\n- "))
}
