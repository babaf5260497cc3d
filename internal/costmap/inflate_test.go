package costmap

import (
	"testing"

	"gridwarden/internal/grid"
)

func makeGrid(t *testing.T, width, height int, obstacles map[grid.Cell]bool) *grid.Grid {
	t.Helper()
	cells := make([]float32, width*height)
	for c, isObstacle := range obstacles {
		if isObstacle {
			cells[c.Y*width+c.X] = 1.0
		}
	}
	g, err := grid.New(width, height, 1.0, cells)
	if err != nil {
		t.Fatalf("unexpected error building grid: %v", err)
	}
	return g
}

func TestInflateNoopOnZeroRadius(t *testing.T) {
	base := makeGrid(t, 3, 3, map[grid.Cell]bool{{X: 1, Y: 1}: true})
	result, err := Inflate(base, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.InflatedCenters) != 0 {
		t.Fatalf("expected no inflated centers, got %d", len(result.InflatedCenters))
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			c := grid.Cell{X: x, Y: y}
			if result.Grid.Value(c) != base.Value(c) {
				t.Fatalf("cell %+v changed under zero radius", c)
			}
		}
	}
}

func TestInflateSingleObstacleScenario(t *testing.T) {
	// 5x5 grid, single obstacle at (2,2), r=1.5.
	base := makeGrid(t, 5, 5, map[grid.Cell]bool{{X: 2, Y: 2}: true})
	result, err := Inflate(base, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c := grid.Cell{X: 2 + dx, Y: 2 + dy}
			if !result.Grid.IsObstacle(c) {
				t.Errorf("expected cell %+v to be blocked after inflation", c)
			}
		}
	}

	corners := []grid.Cell{{X: 0, Y: 2}, {X: 4, Y: 2}, {X: 2, Y: 0}, {X: 2, Y: 4}}
	for _, c := range corners {
		if !result.Grid.Traversable(c) {
			t.Errorf("expected cell %+v to remain traversable", c)
		}
	}

	if len(result.InflatedCenters) != 8 {
		t.Fatalf("expected 8 inflated centers, got %d", len(result.InflatedCenters))
	}
	seen := make(map[Center]int)
	for _, c := range result.InflatedCenters {
		seen[c]++
	}
	for _, count := range seen {
		if count != 1 {
			t.Errorf("inflated center recorded more than once: %d", count)
		}
	}
}

func TestInflateSkipsMissingData(t *testing.T) {
	width, height := 3, 1
	cells := []float32{1.0, grid.MissingValue, 0}
	base, err := grid.New(width, height, 1.0, cells)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := Inflate(base, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Grid.IsMissing(grid.Cell{X: 1, Y: 0}) {
		t.Fatalf("missing cell must stay missing after inflation")
	}
}

func TestWithCellsRejectsSizeMismatch(t *testing.T) {
	base := makeGrid(t, 2, 2, nil)
	// Inflate builds its output grid through WithCells; a cell slice whose
	// length does not match the grid must be rejected there.
	_, err := base.WithCells(make([]float32, 1))
	if err == nil {
		t.Fatalf("expected size mismatch error")
	}
}

func TestInflateEveryBlockedCellWithinRadiusOfObstacle(t *testing.T) {
	base := makeGrid(t, 6, 6, map[grid.Cell]bool{{X: 3, Y: 3}: true})
	const r = 2.0
	result, err := Inflate(base, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			c := grid.Cell{X: x, Y: y}
			dx, dy := float64(x-3), float64(y-3)
			dist2 := dx*dx + dy*dy
			within := dist2 <= r*r
			blocked := !result.Grid.Traversable(c)
			if within && !blocked && !result.Grid.IsMissing(c) {
				t.Errorf("cell %+v within radius %v of obstacle should be blocked", c, r)
			}
			if !within && blocked && c != (grid.Cell{X: 3, Y: 3}) {
				// cells outside the radius should remain as they were (traversable)
				t.Errorf("cell %+v outside radius unexpectedly blocked", c)
			}
		}
	}
}
