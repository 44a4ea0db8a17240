package domain

import (
	"errors"
	"fmt"
)

// ErrDuplicateIdentity is returned when a node identity is already taken (or retired).
var ErrDuplicateIdentity = errors.New("duplicate identity")

// ErrUnknownIdentity is returned when a node identity is not present in the graph.
var ErrUnknownIdentity = errors.New("unknown identity")

// ErrInvalidIdentity is returned for an empty node identity.
var ErrInvalidIdentity = errors.New("invalid identity")

// ErrUnknownParent is returned when a node names a parent that does not exist.
var ErrUnknownParent = errors.New("unknown parent")

// ErrHasChildren is returned when removing a node that other nodes still hang from.
var ErrHasChildren = errors.New("node has children")

// ErrDimensionMismatch is returned when operands of different dimensionality meet.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// ErrDisconnected is returned when no tree path joins two nodes.
var ErrDisconnected = errors.New("nodes are disconnected")

// ErrOverflow is reported to a subscriber whose queue dropped events.
// Recover by resynchronizing from a snapshot.
var ErrOverflow = errors.New("change bus overflow")

// ErrInternalInvariant signals a broken structural invariant. It indicates a bug,
// never a caller mistake.
var ErrInternalInvariant = errors.New("internal invariant violation")

// ErrNotJointed is returned when a joint value is set on a static edge.
var ErrNotJointed = errors.New("edge has no joint")

// ErrInvalidTransform is returned when a matrix is not a proper rigid transform.
var ErrInvalidTransform = errors.New("invalid transform")

// DimensionError describes which operation saw which dimensions.
type DimensionError struct {
	Op   string // Operation or relationship being checked
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %s: want %dD, got %dD", e.Op, ErrDimensionMismatch, e.Want, e.Got)
}

func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

// ErrSnapshotNotFound is returned by snapshot stores for an unknown name.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrNoSteeringFrame is returned when no steering frame sits between a wheel
// and the root.
var ErrNoSteeringFrame = errors.New("no steering frame in chain")

// ErrNotSwerve is returned when a model does not describe a swerve drive.
var ErrNotSwerve = errors.New("not a swerve drive")
