package space

import (
	"fmt"

	"github.com/aretw0/swerve/pkg/domain"
)

// Dim is the dimensionality of a coordinate frame.
type Dim int

const (
	Planar  Dim = 2
	Spatial Dim = 3
)

// Valid reports whether d is a supported dimensionality.
func (d Dim) Valid() bool {
	return d == Planar || d == Spatial
}

func (d Dim) String() string {
	return fmt.Sprintf("%dD", int(d))
}

// DefaultEpsilon is the tolerance used for approximate comparisons when a
// caller does not configure one.
const DefaultEpsilon = 1e-9

// Space is a named coordinate frame with a fixed dimensionality.
type Space struct {
	Name string `json:"name" yaml:"name"`
	Dim  Dim    `json:"dim" yaml:"dim"`
}

// New returns a Space, rejecting unsupported dimensionalities.
func New(name string, dim Dim) (Space, error) {
	if !dim.Valid() {
		return Space{}, &domain.DimensionError{Op: "space " + name, Want: int(Spatial), Got: int(dim)}
	}
	return Space{Name: name, Dim: dim}, nil
}

// Check verifies that t can map coordinates of s.
func (s Space) Check(t Transform) error {
	if t.Dim() != s.Dim {
		return &domain.DimensionError{Op: "transform for space " + s.Name, Want: int(s.Dim), Got: int(t.Dim())}
	}
	return nil
}
