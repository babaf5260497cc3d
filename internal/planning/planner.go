package planning

import "gridwarden/internal/grid"

// Planner is the shared surface of AStarPlanner and DStarLitePlanner, so a
// caller can drive either one polymorphically.
type Planner interface {
	SetMap(g *grid.Grid)
	SetStart(c grid.Cell)
	SetGoal(c grid.Cell)
	ComputePath() (PlannedPath, error)
}
