package board

import "gridwarden/internal/grid"

// AutoSelectStart scans g from the bottom-left corner in row-major order
// and returns the first traversable cell, for sessions that start with no
// user-chosen start marker.
func AutoSelectStart(g *grid.Grid) (grid.Cell, bool) {
	return scanFromCorner(g, false)
}

// AutoSelectGoal scans g from the top-right corner in reverse row-major
// order and returns the first traversable cell.
func AutoSelectGoal(g *grid.Grid) (grid.Cell, bool) {
	return scanFromCorner(g, true)
}

func scanFromCorner(g *grid.Grid, reverse bool) (grid.Cell, bool) {
	width, height := g.Width(), g.Height()
	if width == 0 || height == 0 {
		return grid.Cell{}, false
	}

	if !reverse {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := grid.Cell{X: x, Y: y}
				if g.Traversable(c) {
					return c, true
				}
			}
		}
		return grid.Cell{}, false
	}

	for y := height - 1; y >= 0; y-- {
		for x := width - 1; x >= 0; x-- {
			c := grid.Cell{X: x, Y: y}
			if g.Traversable(c) {
				return c, true
			}
		}
	}
	return grid.Cell{}, false
}

// AutoSelectStartAndGoal selects both markers, falling back to a full
// forward scan for a distinct goal if the corner scans collide on the same
// cell, and finally settling for goal == start if no other traversable
// cell exists.
func AutoSelectStartAndGoal(g *grid.Grid) (start, goal grid.Cell, haveStart, haveGoal bool) {
	start, haveStart = AutoSelectStart(g)
	goal, haveGoal = AutoSelectGoal(g)

	if haveStart && haveGoal && start == goal {
		haveGoal = false
		width, height := g.Width(), g.Height()
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := grid.Cell{X: x, Y: y}
				if c == start {
					continue
				}
				if g.Traversable(c) {
					goal = c
					haveGoal = true
					break
				}
			}
			if haveGoal {
				break
			}
		}
		if !haveGoal {
			goal = start
			haveGoal = haveStart
		}
	}

	return start, goal, haveStart, haveGoal
}
