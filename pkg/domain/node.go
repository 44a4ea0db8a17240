package domain

import "fmt"

// BodyKind classifies the rigid body a node stands for.
type BodyKind string

const (
	BodyGeneric    BodyKind = "generic"
	BodyChassis    BodyKind = "chassis"
	BodySuspension BodyKind = "suspension"
	BodySteering   BodyKind = "steering"
	BodyWheel      BodyKind = "wheel"
	BodySensor     BodyKind = "sensor"
)

// ParseBodyKind maps a description string to a BodyKind. Empty means generic.
func ParseBodyKind(s string) (BodyKind, error) {
	switch k := BodyKind(s); k {
	case "":
		return BodyGeneric, nil
	case BodyGeneric, BodyChassis, BodySuspension, BodySteering, BodyWheel, BodySensor:
		return k, nil
	}
	return "", fmt.Errorf("unknown body kind %q", s)
}

// Body carries the physical identity of a node.
type Body struct {
	Kind   BodyKind `json:"kind" yaml:"kind"`
	MassKg float64  `json:"mass_kg,omitempty" yaml:"mass_kg,omitempty"`
}

// NodeState tracks a node through its lifecycle.
// Proposed and Validated exist only inside a single add operation.
type NodeState int

const (
	NodeProposed NodeState = iota
	NodeValidated
	NodeActive
	NodeRemoved
)

func (s NodeState) String() string {
	switch s {
	case NodeProposed:
		return "proposed"
	case NodeValidated:
		return "validated"
	case NodeActive:
		return "active"
	case NodeRemoved:
		return "removed"
	}
	return fmt.Sprintf("NodeState(%d)", int(s))
}

// DofType is the single degree of freedom a jointed edge allows.
type DofType string

const (
	DofRevoluteX  DofType = "revolute_x"
	DofRevoluteY  DofType = "revolute_y"
	DofRevoluteZ  DofType = "revolute_z"
	DofPrismaticX DofType = "prismatic_x"
	DofPrismaticY DofType = "prismatic_y"
	DofPrismaticZ DofType = "prismatic_z"
)

// ParseDof maps a description string to a DofType.
func ParseDof(s string) (DofType, error) {
	switch d := DofType(s); d {
	case DofRevoluteX, DofRevoluteY, DofRevoluteZ, DofPrismaticX, DofPrismaticY, DofPrismaticZ:
		return d, nil
	}
	return "", fmt.Errorf("unknown degree of freedom %q", s)
}

// Revolute reports whether the joint rotates (as opposed to sliding).
func (d DofType) Revolute() bool {
	return d == DofRevoluteX || d == DofRevoluteY || d == DofRevoluteZ
}

// Axis returns the joint axis index: 0 for X, 1 for Y, 2 for Z.
func (d DofType) Axis() int {
	switch d {
	case DofRevoluteX, DofPrismaticX:
		return 0
	case DofRevoluteY, DofPrismaticY:
		return 1
	}
	return 2
}

// MinDim is the smallest space dimensionality that can host the joint.
// A planar frame only rotates about Z and only slides along X or Y.
func (d DofType) MinDim() int {
	switch d {
	case DofRevoluteX, DofRevoluteY, DofPrismaticZ:
		return 3
	}
	return 2
}
