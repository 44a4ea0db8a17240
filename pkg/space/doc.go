// Package space defines coordinate frames ("number spaces") and the rigid
// transform algebra between them.
//
// A Transform maps coordinates from a child frame into a parent frame. The
// three core operations never pad or truncate: operands of different
// dimensionality fail with domain.ErrDimensionMismatch.
//
//	t, _ := space.Compose(outer, inner) // inner first, then outer
//	back, _ := space.Invert(t)
//	p, _ := space.Apply(t, []float64{1, 0, 0})
//
// The package also provides scalar value spaces used by joints: Linear for
// sliding joints and Periodic for rotating ones, where a value and the same
// value plus a full turn are the same position.
package space
