// Package planning implements the planner utilities shared by the A* and
// D* Lite planners: bounds/traversability checks, edge costs, the octile
// heuristic, and the corner-cutting policy for diagonal moves.
package planning

import (
	"math"

	"gridwarden/internal/grid"
)

// Neighbor describes one of the eight directions a planner may step.
type Neighbor struct {
	DX, DY   int
	Diagonal bool
}

// Neighbors lists the 8-connected step directions in a fixed order. Order
// only affects heap insertion order for tie-breaking, never correctness.
var Neighbors = [8]Neighbor{
	{DX: 0, DY: -1, Diagonal: false},
	{DX: 1, DY: 0, Diagonal: false},
	{DX: 0, DY: 1, Diagonal: false},
	{DX: -1, DY: 0, Diagonal: false},
	{DX: 1, DY: -1, Diagonal: true},
	{DX: 1, DY: 1, Diagonal: true},
	{DX: -1, DY: 1, Diagonal: true},
	{DX: -1, DY: -1, Diagonal: true},
}

// InBounds reports whether c lies inside g.
func InBounds(g *grid.Grid, c grid.Cell) bool {
	return g.InBounds(c)
}

// Traversable reports whether a planner may occupy c: in bounds, not
// missing data, not an obstacle.
func Traversable(g *grid.Grid, c grid.Cell) bool {
	return g.Traversable(c)
}

// EdgeCost returns the cost of stepping onto cell c, where diagonal
// indicates whether the step was a diagonal move.
//
//	(√2 if diagonal else 1) × (1 + max(value(c), 0))
func EdgeCost(g *grid.Grid, c grid.Cell, diagonal bool) float64 {
	base := 1.0
	if diagonal {
		base = math.Sqrt2
	}
	return base * (1 + g.AdditiveCost(c))
}

// Heuristic returns the octile distance between a and b: admissible and
// consistent on an 8-connected grid with unit orthogonal and √2 diagonal
// edges.
func Heuristic(a, b grid.Cell) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	lo, hi := dx, dy
	if lo > hi {
		lo, hi = hi, lo
	}
	return (hi - lo) + math.Sqrt2*lo
}

// CanStepDiagonal enforces the shared corner-cutting policy: a diagonal
// step from current toward current+(dx,dy) is allowed only if both
// orthogonal neighbors are in bounds and traversable.
func CanStepDiagonal(g *grid.Grid, current grid.Cell, n Neighbor) bool {
	if !n.Diagonal {
		return true
	}
	horiz := grid.Cell{X: current.X + n.DX, Y: current.Y}
	vert := grid.Cell{X: current.X, Y: current.Y + n.DY}
	return Traversable(g, horiz) && Traversable(g, vert)
}

// Step returns the neighbor cell reached by stepping n from current.
func Step(current grid.Cell, n Neighbor) grid.Cell {
	return grid.Cell{X: current.X + n.DX, Y: current.Y + n.DY}
}

// Successor pairs a traversable successor cell with the edge cost of
// stepping from its source onto it.
type Successor struct {
	Cell grid.Cell
	Cost float64
}

// Successors returns every traversable, corner-policy-respecting neighbor
// of cell reachable by a single step, along with the cost of that step.
func Successors(g *grid.Grid, cell grid.Cell) []Successor {
	var out []Successor
	for _, n := range Neighbors {
		if n.Diagonal && !CanStepDiagonal(g, cell, n) {
			continue
		}
		next := Step(cell, n)
		if !Traversable(g, next) {
			continue
		}
		out = append(out, Successor{Cell: next, Cost: EdgeCost(g, next, n.Diagonal)})
	}
	return out
}
