package planning

import (
	"math"

	"gridwarden/internal/grid"
)

// Style identifies how a rendering collaborator should draw a PlannedPath.
type Style string

// StylePolyline is the only style the core planners currently produce.
const StylePolyline Style = "polyline"

// Point is a world-space coordinate, typically a cell center.
type Point struct {
	X, Y float64
}

// PlannedPath is the result of a planner's computePath call.
type PlannedPath struct {
	Style         Style
	Waypoints     []Point
	ExploredCells []grid.Cell
	Success       bool
}

// Failed returns the canonical empty result for a planner that could not
// reach the goal or was given an invalid start/goal.
func Failed() PlannedPath {
	return PlannedPath{Style: StylePolyline, Success: false}
}

// FailedWithExploration returns a failed result that still reports the
// cells touched during the attempt, useful for diagnostics.
func FailedWithExploration(explored []grid.Cell) PlannedPath {
	return PlannedPath{Style: StylePolyline, ExploredCells: explored, Success: false}
}

// Length returns the total Euclidean length of the waypoint polyline.
func (p PlannedPath) Length() float64 {
	total := 0.0
	for i := 1; i < len(p.Waypoints); i++ {
		dx := p.Waypoints[i].X - p.Waypoints[i-1].X
		dy := p.Waypoints[i].Y - p.Waypoints[i-1].Y
		total += math.Hypot(dx, dy)
	}
	return total
}
