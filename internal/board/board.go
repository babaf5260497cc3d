// Package board holds the runtime grid state a session mutates: obstacle
// sets, start/goal markers, the latest plan, and the stitched travel
// history polyline. It owns no planner and no agent; the discovery
// controller coordinates those against the Board.
package board

import (
	"gridwarden/internal/costmap"
	"gridwarden/internal/grid"
	"gridwarden/internal/planning"
)

// Visibility classifies a dynamic obstacle as hidden (not yet observed, so
// it must not affect planning) or visible (revealed, so it must be treated
// as a hard obstacle).
type Visibility int

const (
	Hidden Visibility = iota
	Visible
)

// Point is a world-space coordinate, used for the stitched travel history.
type Point struct {
	X, Y float64
}

// Board is the runtime state rooted at a session's controller: base and
// mutable cell values, the two dynamic-obstacle sets, start/goal markers,
// the latest plan, and travel history.
type Board struct {
	base    *grid.Grid
	runtime *grid.Grid

	inflationRadius float64
	inflated        *grid.Grid
	inflatedCenters []costmap.Center

	hidden  map[grid.Cell]bool
	visible map[grid.Cell]bool

	startCell grid.Cell
	goalCell  grid.Cell
	haveStart bool
	haveGoal  bool

	latestPath    planning.PlannedPath
	havePath      bool
	travelHistory []Point
}

// New constructs a Board over base, with runtime cells starting as a copy
// of base and the given inflation radius (in cells) applied immediately.
func New(base *grid.Grid, inflationRadiusCells float64) (*Board, error) {
	b := &Board{
		base:            base,
		runtime:         base.Clone(),
		inflationRadius: inflationRadiusCells,
		hidden:          make(map[grid.Cell]bool),
		visible:         make(map[grid.Cell]bool),
	}
	if err := b.reinflate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Board) reinflate() error {
	result, err := costmap.Inflate(b.runtime, b.inflationRadius)
	if err != nil {
		return err
	}
	b.inflated = result.Grid
	b.inflatedCenters = result.InflatedCenters
	return nil
}

// BaseGrid returns the immutable base grid loaded at startup.
func (b *Board) BaseGrid() *grid.Grid { return b.base }

// RuntimeGrid returns the current mutable runtime grid.
func (b *Board) RuntimeGrid() *grid.Grid { return b.runtime }

// InflatedGrid returns the most recently computed inflated grid.
func (b *Board) InflatedGrid() *grid.Grid { return b.inflated }

// InflatedCenters returns the centers of the cells within the inflation
// radius of an obstacle (cells inflation blocked, plus neighboring cells that
// were already obstacles), for the rendering collaborator.
func (b *Board) InflatedCenters() []costmap.Center { return b.inflatedCenters }

// SetInflationRadius updates the inflation radius and re-inflates.
func (b *Board) SetInflationRadius(radiusCells float64) error {
	b.inflationRadius = radiusCells
	return b.reinflate()
}

// StartCell and GoalCell report the current markers, if any.
func (b *Board) StartCell() (grid.Cell, bool) { return b.startCell, b.haveStart }
func (b *Board) GoalCell() (grid.Cell, bool)  { return b.goalCell, b.haveGoal }

// SetStartMarker records the start cell.
func (b *Board) SetStartMarker(c grid.Cell) {
	b.startCell = c
	b.haveStart = true
}

// SetGoalMarker records the goal cell.
func (b *Board) SetGoalMarker(c grid.Cell) {
	b.goalCell = c
	b.haveGoal = true
}

// LatestPath reports the most recently stored plan, if any.
func (b *Board) LatestPath() (planning.PlannedPath, bool) { return b.latestPath, b.havePath }

// SetLatestPath stores a freshly computed plan and stitches travelHistory
// so the rendered trail stays continuous across replans: if the new plan's
// first waypoint does not coincide with the last recorded history point, it
// is appended before the new trail is recorded.
func (b *Board) SetLatestPath(p planning.PlannedPath) {
	b.latestPath = p
	b.havePath = true

	if !p.Success || len(p.Waypoints) == 0 {
		return
	}
	first := Point{X: p.Waypoints[0].X, Y: p.Waypoints[0].Y}
	if len(b.travelHistory) == 0 || b.travelHistory[len(b.travelHistory)-1] != first {
		b.travelHistory = append(b.travelHistory, first)
	}
}

// TravelHistory returns the stitched polyline of points already passed.
func (b *Board) TravelHistory() []Point { return b.travelHistory }

// AppendTravelHistory records a point the agent has just passed, called by
// the controller each tick with the agent's current position. A point equal
// to the last recorded one is not appended again.
func (b *Board) AppendTravelHistory(p Point) {
	if len(b.travelHistory) > 0 && b.travelHistory[len(b.travelHistory)-1] == p {
		return
	}
	b.travelHistory = append(b.travelHistory, p)
}

// IsHidden and IsVisible report a cell's dynamic-obstacle classification.
func (b *Board) IsHidden(c grid.Cell) bool  { return b.hidden[c] }
func (b *Board) IsVisible(c grid.Cell) bool { return b.visible[c] }

// AddDynamicObstacle records a dynamic obstacle at c with the given
// visibility. It refuses to mark the current start or goal cell. A visible
// obstacle is immediately applied to the runtime grid and the board is
// re-inflated; a hidden obstacle only updates the Board's bookkeeping.
func (b *Board) AddDynamicObstacle(c grid.Cell, visibility Visibility) (bool, error) {
	if (b.haveStart && c == b.startCell) || (b.haveGoal && c == b.goalCell) {
		return false, nil
	}

	delete(b.hidden, c)
	delete(b.visible, c)

	switch visibility {
	case Hidden:
		b.hidden[c] = true
	case Visible:
		b.visible[c] = true
		if err := b.setRuntimeObstacle(c); err != nil {
			return false, err
		}
	}
	return true, nil
}

// RevealDynamicObstacle moves a hidden obstacle to visible and applies it
// to the runtime grid, re-inflating. Returns false if c was not hidden.
func (b *Board) RevealDynamicObstacle(c grid.Cell) (bool, error) {
	if !b.hidden[c] {
		return false, nil
	}
	delete(b.hidden, c)
	b.visible[c] = true
	if err := b.setRuntimeObstacle(c); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveDynamicObstacle clears a hidden-or-visible obstacle at c. A visible
// obstacle's runtime cell is restored to its base value and the board is
// re-inflated; a hidden obstacle's removal touches no grid.
func (b *Board) RemoveDynamicObstacle(c grid.Cell) (bool, error) {
	wasVisible := b.visible[c]
	wasHidden := b.hidden[c]
	if !wasVisible && !wasHidden {
		return false, nil
	}
	delete(b.hidden, c)
	delete(b.visible, c)

	if wasVisible {
		if err := b.restoreRuntimeCell(c); err != nil {
			return false, err
		}
	}
	return true, nil
}

// ClearDynamicObstacles removes every hidden and visible obstacle, restoring
// every visible obstacle's runtime cell to its base value.
func (b *Board) ClearDynamicObstacles() error {
	for c := range b.visible {
		if err := b.restoreRuntimeCell(c); err != nil {
			return err
		}
	}
	b.hidden = make(map[grid.Cell]bool)
	b.visible = make(map[grid.Cell]bool)
	return nil
}

func (b *Board) setRuntimeObstacle(c grid.Cell) error {
	cells := b.runtime.Cells()
	cells[b.runtime.Width()*c.Y+c.X] = grid.ObstacleValue
	updated, err := b.runtime.WithCells(cells)
	if err != nil {
		return err
	}
	b.runtime = updated
	return b.reinflate()
}

func (b *Board) restoreRuntimeCell(c grid.Cell) error {
	cells := b.runtime.Cells()
	cells[b.runtime.Width()*c.Y+c.X] = b.base.Value(c)
	updated, err := b.runtime.WithCells(cells)
	if err != nil {
		return err
	}
	b.runtime = updated
	return b.reinflate()
}

// HiddenObstacles returns a snapshot slice of every hidden obstacle cell.
func (b *Board) HiddenObstacles() []grid.Cell {
	out := make([]grid.Cell, 0, len(b.hidden))
	for c := range b.hidden {
		out = append(out, c)
	}
	return out
}

// VisibleObstacles returns a snapshot slice of every visible obstacle cell.
func (b *Board) VisibleObstacles() []grid.Cell {
	out := make([]grid.Cell, 0, len(b.visible))
	for c := range b.visible {
		out = append(out, c)
	}
	return out
}
