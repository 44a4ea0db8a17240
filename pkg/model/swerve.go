package model

import (
	"fmt"
	"strings"

	"github.com/aretw0/swerve/pkg/domain"
)

// MinWheels is the smallest wheel count CheckSwerve accepts.
const MinWheels = 2

// Dof returns the degree of freedom of the edge above id, or "" for a
// static edge or the root.
func (s *Snapshot) Dof(id string) (domain.DofType, error) {
	n, ok := s.Node(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownIdentity, id)
	}
	if n.Joint == nil {
		return "", nil
	}
	return n.Joint.Dof, nil
}

// IsAncestor reports whether ancestor lies on the chain from id up to the
// root. A node is its own ancestor. Unknown identities yield false.
func (s *Snapshot) IsAncestor(id, ancestor string) bool {
	if _, ok := s.index[ancestor]; !ok {
		return false
	}
	for steps := 0; id != "" && steps <= len(s.Nodes); steps++ {
		n, ok := s.Node(id)
		if !ok {
			return false
		}
		if id == ancestor {
			return true
		}
		id = n.Parent
	}
	return false
}

func isSteering(n NodeView) bool {
	return n.Body.Kind == domain.BodySteering || (n.Joint != nil && n.Joint.Dof == domain.DofRevoluteZ)
}

// SteeringFrames returns the frames that steer: either declared as such or
// attached through a joint turning about the Z axis. Pre-order.
func (s *Snapshot) SteeringFrames() []string {
	var frames []string
	for _, n := range s.Nodes {
		if isSteering(n) {
			frames = append(frames, n.ID)
		}
	}
	return frames
}

// steeringChain lists the steering frames strictly above id, nearest first.
func (s *Snapshot) steeringChain(id string) []string {
	var chain []string
	n, _ := s.Node(id)
	for steps := 0; n.Parent != "" && steps <= len(s.Nodes); steps++ {
		p, ok := s.Node(n.Parent)
		if !ok {
			break
		}
		if isSteering(p) {
			chain = append(chain, p.ID)
		}
		n = p
	}
	return chain
}

// SteeringFrame returns the steering frame nearest above a wheel.
func (s *Snapshot) SteeringFrame(wheel string) (string, error) {
	if _, ok := s.Node(wheel); !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownIdentity, wheel)
	}
	chain := s.steeringChain(wheel)
	if len(chain) == 0 {
		return "", fmt.Errorf("%w: above %q", domain.ErrNoSteeringFrame, wheel)
	}
	return chain[0], nil
}

// CheckSwerve verifies that the snapshot describes a swerve drive: at least
// MinWheels wheels, each spinning about Y under exactly one steering frame
// that turns about Z, and every steering frame driving a wheel. All
// problems are reported together, wrapping domain.ErrNotSwerve.
func (s *Snapshot) CheckSwerve() error {
	var problems []string

	wheels := s.Wheels()
	if len(wheels) < MinWheels {
		problems = append(problems, fmt.Sprintf("needs at least %d wheels, found %d", MinWheels, len(wheels)))
	}

	driven := make(map[string]bool)
	for _, w := range wheels {
		dof, _ := s.Dof(w)
		switch dof {
		case domain.DofRevoluteY:
		case "":
			problems = append(problems, fmt.Sprintf("wheel '%s' has no joint, want %s", w, domain.DofRevoluteY))
		default:
			problems = append(problems, fmt.Sprintf("wheel '%s' turns as %s, want %s", w, dof, domain.DofRevoluteY))
		}

		chain := s.steeringChain(w)
		switch len(chain) {
		case 0:
			problems = append(problems, fmt.Sprintf("wheel '%s' has no steering frame", w))
		case 1:
		default:
			problems = append(problems, fmt.Sprintf("wheel '%s' has %d steering frames: %s", w, len(chain), strings.Join(chain, ", ")))
		}
		for _, id := range chain {
			driven[id] = true
		}
	}

	for _, id := range s.SteeringFrames() {
		dof, _ := s.Dof(id)
		if dof != domain.DofRevoluteZ {
			if dof == "" {
				problems = append(problems, fmt.Sprintf("steering frame '%s' has no joint, want %s", id, domain.DofRevoluteZ))
			} else {
				problems = append(problems, fmt.Sprintf("steering frame '%s' turns as %s, want %s", id, dof, domain.DofRevoluteZ))
			}
		}
		if !driven[id] {
			problems = append(problems, fmt.Sprintf("steering frame '%s' is not connected to a wheel", id))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: found %d problems:\n- %s", domain.ErrNotSwerve, len(problems), strings.Join(problems, "\n- "))
}
