package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/swerve/pkg/model"
	"github.com/aretw0/swerve/pkg/space"
)

// Describe builds a markdown report of a model: a frame table and the
// position of every wheel in the root frame.
func Describe(name string, snap *model.Snapshot) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", name)
	if snap.Root == "" {
		sb.WriteString("The model has no frames.\n")
		return sb.String(), nil
	}

	wheels := snap.Wheels()
	fmt.Fprintf(&sb, "Version %d. %d frames rooted at `%s`, %d wheels.\n\n",
		snap.Version, snap.Len(), snap.Root, len(wheels))

	sb.WriteString("## Frames\n\n")
	sb.WriteString("| Frame | Parent | Space | Edge | Body | Offset |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, n := range snap.Nodes {
		parent, edge := "-", "-"
		if n.Parent != "" {
			parent = "`" + n.Parent + "`"
			edge = string(n.Edge)
			if n.Joint != nil {
				edge = fmt.Sprintf("%s (%s = %.3f)", n.Edge, n.Joint.Dof, n.Joint.Value)
			}
		}
		body := string(n.Body.Kind)
		if body == "" {
			body = "generic"
		}
		if n.Body.MassKg > 0 {
			body += fmt.Sprintf(", %.3g kg", n.Body.MassKg)
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s %s | %s | %s | %s |\n",
			n.ID, parent, n.Space.Name, n.Space.Dim, edge, body, vector(n.Transform.TranslationVector()))
	}

	if len(wheels) == 0 {
		return sb.String(), nil
	}

	// Pre-order puts every parent before its children.
	inRoot := make(map[string]space.Transform, snap.Len())
	for _, n := range snap.Nodes {
		if n.Parent == "" {
			inRoot[n.ID] = n.Transform
			continue
		}
		t, err := space.Compose(inRoot[n.Parent], n.Transform)
		if err != nil {
			return "", fmt.Errorf("frame %q: %w", n.ID, err)
		}
		inRoot[n.ID] = t
	}

	fmt.Fprintf(&sb, "\n## Wheels\n\nPositions in `%s`.\n\n", snap.Root)
	for _, id := range wheels {
		fmt.Fprintf(&sb, "- `%s` at %s\n", id, vector(inRoot[id].TranslationVector()))
	}
	return sb.String(), nil
}
