package space

import "math"

// ValueSpace describes how a scalar joint value behaves at its boundaries.
type ValueSpace interface {
	// Normalize returns the representative of v inside the space.
	Normalize(v float64) float64

	// Distances returns every signed distance from start to end. Unbounded
	// spaces have one; periodic spaces have one per direction of travel.
	Distances(start, end float64) []float64

	// SmallestDistance returns the signed distance with the smallest magnitude.
	SmallestDistance(start, end float64) float64
}

// Linear is the unbounded real line. It never wraps.
type Linear struct{}

func (Linear) Normalize(v float64) float64 { return v }

func (Linear) Distances(start, end float64) []float64 { return []float64{end - start} }

func (Linear) SmallestDistance(start, end float64) float64 { return end - start }

// Periodic is an angular space covering [Start, Start+2π) that wraps around,
// like positions on a circle.
type Periodic struct {
	Start float64
}

const fullTurn = 2 * math.Pi

// Normalize maps v into [Start, Start+2π).
func (p Periodic) Normalize(v float64) float64 {
	m := math.Mod(v-p.Start, fullTurn)
	if m < 0 {
		m += fullTurn
	}
	if m >= fullTurn {
		m = 0
	}
	return p.Start + m
}

// forward returns the distance travelled from start to end in the positive
// direction, in [0, 2π).
func (p Periodic) forward(start, end float64) float64 {
	d := p.Normalize(end) - p.Normalize(start)
	if d < 0 {
		d += fullTurn
	}
	return d
}

// Distances returns the positive and the negative way around, in that order.
func (p Periodic) Distances(start, end float64) []float64 {
	d := p.forward(start, end)
	return []float64{d, d - fullTurn}
}

// SmallestDistance returns the shorter way around. Exactly half a turn
// resolves to the positive direction.
func (p Periodic) SmallestDistance(start, end float64) float64 {
	d := p.forward(start, end)
	if d > math.Pi {
		return d - fullTurn
	}
	return d
}
