package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/model"
	"github.com/muesli/termenv"
)

var kindColors = map[domain.BodyKind]string{
	domain.BodyChassis:    "#f472b6",
	domain.BodySuspension: "#a78bfa",
	domain.BodySteering:   "#38bdf8",
	domain.BodyWheel:      "#4ade80",
	domain.BodySensor:     "#facc15",
}

const dimColor = "#6b7280"

// RenderTree writes the model as an indented tree, one frame per line,
// root first and children in identity order.
//
//	chassis 3D
//	└── module_0 [steering] joint revolute_z 0.000 at (0.300, 0.200, 0.000)
func RenderTree(w io.Writer, snap *model.Snapshot, p termenv.Profile) error {
	if snap.Root == "" {
		_, err := fmt.Fprintln(w, paint(p, "(empty model)", dimColor))
		return err
	}
	var sb strings.Builder
	var walk func(id, prefix string, last, root bool)
	walk = func(id, prefix string, last, root bool) {
		n, ok := snap.Node(id)
		if !ok {
			return
		}
		branch, indent := "", ""
		if !root {
			branch, indent = "├── ", "│   "
			if last {
				branch, indent = "└── ", "    "
			}
		}
		sb.WriteString(paint(p, prefix+branch, dimColor))
		sb.WriteString(nodeLine(p, n))
		sb.WriteByte('\n')

		for i, child := range n.Children {
			walk(child, prefix+indent, i == len(n.Children)-1, false)
		}
	}
	walk(snap.Root, "", true, true)

	_, err := io.WriteString(w, sb.String())
	return err
}

func nodeLine(p termenv.Profile, n model.NodeView) string {
	parts := []string{n.ID}
	if color, ok := kindColors[n.Body.Kind]; ok {
		parts[0] = paint(p, n.ID, color)
		parts = append(parts, paint(p, "["+string(n.Body.Kind)+"]", color))
	}
	if n.Parent == "" {
		parts = append(parts, n.Space.Dim.String())
		return strings.Join(parts, " ")
	}

	switch {
	case n.Joint != nil:
		parts = append(parts, fmt.Sprintf("joint %s %.3f", n.Joint.Dof, n.Joint.Value))
	default:
		parts = append(parts, string(n.Edge))
	}
	if !n.Transform.IsZero() && n.Transform.HasTranslation(0) {
		parts = append(parts, paint(p, "at "+vector(n.Transform.TranslationVector()), dimColor))
	}
	if n.Body.MassKg > 0 {
		parts = append(parts, fmt.Sprintf("%.3g kg", n.Body.MassKg))
	}
	return strings.Join(parts, " ")
}

func vector(v []float64) string {
	s := make([]string, len(v))
	for i, c := range v {
		s[i] = fmt.Sprintf("%.3f", c)
	}
	return "(" + strings.Join(s, ", ") + ")"
}
