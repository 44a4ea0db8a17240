package model

import (
	"fmt"
	"math"

	"github.com/aretw0/swerve/pkg/domain"
	"github.com/aretw0/swerve/pkg/space"
)

// EdgeKind is the closed set of transform edge variants.
type EdgeKind string

const (
	// EdgeRotation is a fixed rotation with no translation.
	EdgeRotation EdgeKind = "rotation"
	// EdgeRigid is a fixed rotation plus translation.
	EdgeRigid EdgeKind = "rigid"
	// EdgeJoint is a fixed base transform followed by a one-axis motion
	// driven by an external value, such as a steering angle.
	EdgeJoint EdgeKind = "joint"
)

// Joint is the moving part of a jointed edge.
type Joint struct {
	Dof   domain.DofType `json:"dof"`
	Value float64        `json:"value"`
}

// ValueSpace returns the space joint values live in: periodic over
// [-π, π) for revolute joints, the real line for prismatic ones.
func (j Joint) ValueSpace() space.ValueSpace {
	if j.Dof.Revolute() {
		return space.Periodic{Start: -math.Pi}
	}
	return space.Linear{}
}

func (j Joint) motion(dim space.Dim) (space.Transform, error) {
	if j.Dof.Revolute() {
		return space.Revolute(dim, j.Dof.Axis(), j.Value)
	}
	return space.Prismatic(dim, j.Dof.Axis(), j.Value)
}

// Edge holds the transform from a child node's space to its parent's.
// Edges are values; updating one means replacing it.
type Edge struct {
	kind  EdgeKind
	base  space.Transform
	joint Joint
}

// Static returns a fixed edge. It is classified as EdgeRotation when the
// transform carries no translation and EdgeRigid otherwise, using
// space.DefaultEpsilon. A graph reclassifies it with its own tolerance.
func Static(t space.Transform) Edge {
	return Edge{base: t}.classify(space.DefaultEpsilon)
}

// classify sets the kind of a fixed edge from its translation. Jointed
// edges are left alone.
func (e Edge) classify(eps float64) Edge {
	if e.kind == EdgeJoint {
		return e
	}
	e.kind = EdgeRigid
	if !e.base.IsZero() && !e.base.HasTranslation(eps) {
		e.kind = EdgeRotation
	}
	return e
}

// Jointed returns an edge whose transform is base followed by a motion of
// value along or about the dof axis. A non-finite value leaves the edge
// invalid and AddNode rejects it.
func Jointed(base space.Transform, dof domain.DofType, value float64) Edge {
	j := Joint{Dof: dof}
	j.Value = j.ValueSpace().Normalize(value)
	return Edge{kind: EdgeJoint, base: base, joint: j}
}

// Kind returns the edge variant.
func (e Edge) Kind() EdgeKind { return e.kind }

// Base returns the fixed part of the edge.
func (e Edge) Base() space.Transform { return e.base }

// Dim returns the dimensionality of the edge.
func (e Edge) Dim() space.Dim { return e.base.Dim() }

// Joint returns the joint of an EdgeJoint edge.
func (e Edge) Joint() (Joint, bool) {
	return e.joint, e.kind == EdgeJoint
}

// Transform evaluates the edge for its current joint value.
func (e Edge) Transform() (space.Transform, error) {
	if e.kind != EdgeJoint {
		return e.base, nil
	}
	m, err := e.joint.motion(e.base.Dim())
	if err != nil {
		return space.Transform{}, err
	}
	return space.Compose(e.base, m)
}

func (e Edge) validate() error {
	if e.base.IsZero() {
		return fmt.Errorf("%w: edge has no transform", domain.ErrInvalidTransform)
	}
	if err := e.base.Validate(); err != nil {
		return err
	}
	if e.kind == EdgeJoint {
		if err := checkJointValue(e.joint.Value); err != nil {
			return err
		}
		if _, err := domain.ParseDof(string(e.joint.Dof)); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidTransform, err)
		}
		if int(e.base.Dim()) < e.joint.Dof.MinDim() {
			return &domain.DimensionError{Op: "joint " + string(e.joint.Dof), Want: e.joint.Dof.MinDim(), Got: int(e.base.Dim())}
		}
	}
	return nil
}

func checkJointValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: joint value %v is not finite", domain.ErrInvalidTransform, v)
	}
	return nil
}

// withBase replaces the fixed part, keeping the joint if there is one.
func (e Edge) withBase(t space.Transform, eps float64) Edge {
	e.base = t
	return e.classify(eps)
}

// withValue moves the joint to v, normalized in the joint's value space.
func (e Edge) withValue(v float64) Edge {
	e.joint.Value = e.joint.ValueSpace().Normalize(v)
	return e
}
