package dsl

import (
	"fmt"

	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/model"
	"github.com/aretw0/swerve/pkg/space"
)

// NodeBuilder provides a fluent API for configuring a frame.
// Frames default to 3D with an identity edge.
type NodeBuilder struct {
	id     string
	parent string
	dim    space.Dim
	name   string

	translation      []float64
	roll, pitch, yaw float64
	rotation         *space.Transform

	dof   domain.DofType
	value float64

	body domain.Body
	err  error
}

func newNodeBuilder(id string) *NodeBuilder {
	return &NodeBuilder{id: id, dim: space.Spatial, name: id}
}

// Under attaches the frame to its parent.
func (n *NodeBuilder) Under(parent string) *NodeBuilder {
	n.parent = parent
	return n
}

// Planar makes the frame two-dimensional.
func (n *NodeBuilder) Planar() *NodeBuilder {
	n.dim = space.Planar
	return n
}

// Space names the frame's coordinate space. Defaults to the frame id.
func (n *NodeBuilder) Space(name string) *NodeBuilder {
	n.name = name
	return n
}

// At sets the origin of the frame in its parent.
func (n *NodeBuilder) At(v ...float64) *NodeBuilder {
	n.translation = v
	return n
}

// Rotate sets roll, pitch and yaw in radians. Planar frames only use yaw.
func (n *NodeBuilder) Rotate(roll, pitch, yaw float64) *NodeBuilder {
	n.roll, n.pitch, n.yaw = roll, pitch, yaw
	return n
}

// Yaw sets the rotation about Z in radians.
func (n *NodeBuilder) Yaw(theta float64) *NodeBuilder {
	n.yaw = theta
	return n
}

// Matrix sets the rotation from a row-major matrix, overriding Rotate.
func (n *NodeBuilder) Matrix(rot [][]float64) *NodeBuilder {
	t, err := space.FromRotationTranslation(rot, make([]float64, len(rot)))
	if err != nil {
		n.err = err
		return n
	}
	n.rotation = &t
	return n
}

// Joint makes the edge move along or about one axis, starting at value.
func (n *NodeBuilder) Joint(dof domain.DofType, value float64) *NodeBuilder {
	n.dof = dof
	n.value = value
	return n
}

// Steer is a revolute Z joint, the steering axis of a swerve module.
func (n *NodeBuilder) Steer(angle float64) *NodeBuilder {
	return n.Joint(domain.DofRevoluteZ, angle)
}

// Spin is a revolute Y joint, the rolling axis of a wheel.
func (n *NodeBuilder) Spin(angle float64) *NodeBuilder {
	return n.Joint(domain.DofRevoluteY, angle)
}

// Body sets what the frame stands for.
func (n *NodeBuilder) Body(kind domain.BodyKind) *NodeBuilder {
	n.body.Kind = kind
	return n
}

// Mass sets the mass of the body in kilograms.
func (n *NodeBuilder) Mass(kg float64) *NodeBuilder {
	n.body.MassKg = kg
	return n
}

// Build returns the node spec for the frame.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() (model.NodeSpec, error) {
	if n.err != nil {
		return model.NodeSpec{}, n.err
	}
	return n.spec()
}

func (n *NodeBuilder) spec() (model.NodeSpec, error) {
	base, err := n.base()
	if err != nil {
		return model.NodeSpec{}, err
	}
	edge := model.Static(base)
	if n.dof != "" {
		edge = model.Jointed(base, n.dof, n.value)
	}
	return model.NodeSpec{
		ID:     n.id,
		Parent: n.parent,
		Space:  space.Space{Name: n.name, Dim: n.dim},
		Edge:   edge,
		Body:   n.body,
	}, nil
}

// base assembles the fixed edge: rotate first, then translate.
func (n *NodeBuilder) base() (space.Transform, error) {
	trans := n.translation
	if trans == nil {
		trans = make([]float64, int(n.dim))
	}
	if len(trans) != int(n.dim) {
		return space.Transform{}, &domain.DimensionError{Op: "origin of " + n.id, Want: int(n.dim), Got: len(trans)}
	}
	offset, err := space.Translation(trans...)
	if err != nil {
		return space.Transform{}, err
	}

	var rot space.Transform
	switch {
	case n.rotation != nil:
		rot = *n.rotation
	case n.dim == space.Planar:
		if n.roll != 0 || n.pitch != 0 {
			return space.Transform{}, fmt.Errorf("%w: planar frame %q only rotates about Z", domain.ErrInvalidTransform, n.id)
		}
		rot = space.Rotation2D(n.yaw)
	default:
		rot = space.FromEuler(n.roll, n.pitch, n.yaw, [3]float64{})
	}
	if err := rot.Validate(); err != nil {
		return space.Transform{}, fmt.Errorf("rotation of %s: %w", n.id, err)
	}
	return space.Compose(offset, rot)
}
