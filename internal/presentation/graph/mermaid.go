package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/model"
)

// GraphOverlay contains dynamic data to highlight on the graph.
type GraphOverlay struct {
	PathNodes []string // e.g. the frames a transform query walks through
	Focus     string
}

// GenerateMermaid produces a Mermaid flowchart of the model tree, parents
// above children. It applies semantic styling:
// - Root: ((Circle))
// - Wheel: ([Stadium])
// - Steering: [[Subroutine]]
// - Sensor: [/Parallelogram/]
// - Default: [Rectangle]
// Jointed edges are labelled with their degree of freedom and value;
// pure rotations are dotted.
func GenerateMermaid(snap *model.Snapshot, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range snap.Nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.Parent == "":
			opener, closer = "((", "))"
		case node.Body.Kind == domain.BodyWheel:
			opener, closer = "([", "])"
		case node.Body.Kind == domain.BodySteering:
			opener, closer = "[[", "]]"
		case node.Body.Kind == domain.BodySensor:
			opener, closer = "[/", "/]"
		}

		label := node.ID
		if node.Body.MassKg > 0 {
			label = fmt.Sprintf("%s <br/> %.3g kg", node.ID, node.Body.MassKg)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		if node.Parent == "" {
			continue
		}
		safeParent := sanitizeMermaidID(node.Parent)
		arrow := "-->"
		switch {
		case node.Joint != nil:
			arrow = fmt.Sprintf("-- \"%s %.3f\" -->", node.Joint.Dof, node.Joint.Value)
		case node.Edge == model.EdgeRotation:
			arrow = "-.->"
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", safeParent, arrow, safeID)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// black text keeps contrast on light fills in both themes
		sb.WriteString("    classDef path fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef focus fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.PathNodes {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s path;\n", safeID)
			}
		}
		if overlay.Focus != "" {
			fmt.Fprintf(&sb, "    class %s focus;\n", sanitizeMermaidID(overlay.Focus))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
