package board

import (
	"testing"

	"gridwarden/internal/grid"
	"gridwarden/internal/planning"
)

func flatGrid(t *testing.T, width, height int) *grid.Grid {
	t.Helper()
	g, err := grid.New(width, height, 1.0, make([]float32, width*height))
	if err != nil {
		t.Fatalf("flatGrid: %v", err)
	}
	return g
}

func TestNewBoardInflatesImmediately(t *testing.T) {
	raw := make([]float32, 25)
	raw[2*5+2] = grid.ObstacleValue
	base, err := grid.New(5, 5, 1.0, raw)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}

	b, err := New(base, 1.5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(b.InflatedCenters()) != 8 {
		t.Fatalf("expected 8 inflated centers, got %d", len(b.InflatedCenters()))
	}
}

func TestAddDynamicObstacleRefusesStartAndGoal(t *testing.T) {
	b, err := New(flatGrid(t, 5, 5), 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	start := grid.Cell{X: 0, Y: 0}
	b.SetStartMarker(start)

	ok, err := b.AddDynamicObstacle(start, Hidden)
	if err != nil {
		t.Fatalf("AddDynamicObstacle: %v", err)
	}
	if ok {
		t.Fatalf("expected refusal to mark the start cell as an obstacle")
	}

	goal := grid.Cell{X: 4, Y: 4}
	b.SetGoalMarker(goal)
	ok, err = b.AddDynamicObstacle(goal, Visible)
	if err != nil {
		t.Fatalf("AddDynamicObstacle: %v", err)
	}
	if ok {
		t.Fatalf("expected refusal to mark the goal cell as an obstacle")
	}
}

func TestHiddenObstacleDoesNotMutateRuntime(t *testing.T) {
	b, err := New(flatGrid(t, 5, 5), 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c := grid.Cell{X: 2, Y: 2}
	if _, err := b.AddDynamicObstacle(c, Hidden); err != nil {
		t.Fatalf("AddDynamicObstacle: %v", err)
	}
	if !b.IsHidden(c) {
		t.Fatalf("expected cell to be hidden")
	}
	if b.RuntimeGrid().IsObstacle(c) {
		t.Fatalf("hidden obstacle must not mutate the runtime grid")
	}
}

func TestRevealDynamicObstacleMutatesRuntimeAndReinflates(t *testing.T) {
	b, err := New(flatGrid(t, 5, 5), 1.0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c := grid.Cell{X: 2, Y: 2}
	if _, err := b.AddDynamicObstacle(c, Hidden); err != nil {
		t.Fatalf("AddDynamicObstacle: %v", err)
	}

	revealed, err := b.RevealDynamicObstacle(c)
	if err != nil {
		t.Fatalf("RevealDynamicObstacle: %v", err)
	}
	if !revealed {
		t.Fatalf("expected reveal to succeed")
	}
	if b.IsHidden(c) {
		t.Fatalf("expected cell to no longer be hidden")
	}
	if !b.IsVisible(c) {
		t.Fatalf("expected cell to be visible")
	}
	if !b.RuntimeGrid().IsObstacle(c) {
		t.Fatalf("expected revealed obstacle to mutate the runtime grid")
	}
	if len(b.InflatedCenters()) == 0 {
		t.Fatalf("expected re-inflation to record inflated centers")
	}
}

func TestRemoveVisibleObstacleRestoresBaseValue(t *testing.T) {
	raw := make([]float32, 25)
	raw[2*5+2] = 0.3 // a traversable, costed base cell
	base, err := grid.New(5, 5, 1.0, raw)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	b, err := New(base, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	c := grid.Cell{X: 2, Y: 2}
	if _, err := b.AddDynamicObstacle(c, Visible); err != nil {
		t.Fatalf("AddDynamicObstacle: %v", err)
	}
	if !b.RuntimeGrid().IsObstacle(c) {
		t.Fatalf("expected visible obstacle to mutate runtime grid")
	}

	removed, err := b.RemoveDynamicObstacle(c)
	if err != nil {
		t.Fatalf("RemoveDynamicObstacle: %v", err)
	}
	if !removed {
		t.Fatalf("expected removal to succeed")
	}
	if b.RuntimeGrid().Value(c) != 0.3 {
		t.Fatalf("expected runtime cell restored to base value 0.3, got %v", b.RuntimeGrid().Value(c))
	}
}

func TestClearDynamicObstaclesRestoresAll(t *testing.T) {
	b, err := New(flatGrid(t, 5, 5), 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v := grid.Cell{X: 1, Y: 1}
	h := grid.Cell{X: 3, Y: 3}
	if _, err := b.AddDynamicObstacle(v, Visible); err != nil {
		t.Fatalf("AddDynamicObstacle: %v", err)
	}
	if _, err := b.AddDynamicObstacle(h, Hidden); err != nil {
		t.Fatalf("AddDynamicObstacle: %v", err)
	}

	if err := b.ClearDynamicObstacles(); err != nil {
		t.Fatalf("ClearDynamicObstacles: %v", err)
	}
	if b.IsVisible(v) || b.IsHidden(h) {
		t.Fatalf("expected all dynamic obstacles cleared")
	}
	if b.RuntimeGrid().IsObstacle(v) {
		t.Fatalf("expected visible obstacle's runtime cell restored")
	}
}

func TestSetLatestPathStitchesTravelHistory(t *testing.T) {
	b, err := New(flatGrid(t, 5, 5), 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	b.SetLatestPath(planning.PlannedPath{
		Success:   true,
		Waypoints: []planning.Point{{X: 0.5, Y: 0.5}, {X: 1.5, Y: 0.5}},
	})
	if len(b.TravelHistory()) != 1 {
		t.Fatalf("expected first waypoint appended to travel history")
	}

	// A second plan starting at the same point must not duplicate the entry.
	b.SetLatestPath(planning.PlannedPath{
		Success:   true,
		Waypoints: []planning.Point{{X: 0.5, Y: 0.5}, {X: 2.5, Y: 0.5}},
	})
	if len(b.TravelHistory()) != 1 {
		t.Fatalf("expected no duplicate history entry for a repeated start point")
	}

	// A plan starting elsewhere must append a new history point.
	b.SetLatestPath(planning.PlannedPath{
		Success:   true,
		Waypoints: []planning.Point{{X: 3.5, Y: 0.5}, {X: 4.5, Y: 0.5}},
	})
	if len(b.TravelHistory()) != 2 {
		t.Fatalf("expected a new distinct start point appended, got %v", b.TravelHistory())
	}
}

func TestAutoSelectStartAndGoal(t *testing.T) {
	g := flatGrid(t, 5, 5)
	start, goal, haveStart, haveGoal := AutoSelectStartAndGoal(g)
	if !haveStart || !haveGoal {
		t.Fatalf("expected both markers to be found on an open grid")
	}
	if start == goal {
		t.Fatalf("expected distinct start and goal on a grid with multiple traversable cells")
	}
	if start != (grid.Cell{X: 0, Y: 0}) {
		t.Fatalf("expected start at bottom-left corner, got %v", start)
	}
	if goal != (grid.Cell{X: 4, Y: 4}) {
		t.Fatalf("expected goal at top-right corner, got %v", goal)
	}
}

func TestAutoSelectStartAndGoalSingleCellGrid(t *testing.T) {
	g := flatGrid(t, 1, 1)
	start, goal, haveStart, haveGoal := AutoSelectStartAndGoal(g)
	if !haveStart || !haveGoal {
		t.Fatalf("expected both markers on a single-cell grid")
	}
	if start != goal {
		t.Fatalf("expected start == goal on a single-cell grid")
	}
}
