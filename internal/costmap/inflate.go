// Package costmap turns a base occupancy grid into an inflated costmap: a
// disk-shaped obstacle margin forced onto every traversable cell within the
// configured radius of a base obstacle.
package costmap

import (
	"math"

	"gridwarden/internal/grid"
)

// Center is a world-space cell-center point, reported for every cell within
// the inflation radius of a base obstacle: cells inflation blocked and
// neighboring cells that were already obstacles (used by the rendering
// collaborator).
type Center struct {
	X, Y float64
}

// Result is the output of Inflate.
type Result struct {
	Grid            *grid.Grid
	InflatedCenters []Center
}

// Inflate scans every base obstacle cell and forces every traversable
// neighbor within radius r (in cells) to an obstacle value, leaving missing
// data untouched. Already-obstacle base cells are recorded once as inflated
// centers without modification, matching the legacy viewer's highlight
// behavior for "already blocked" cells near an inflation source.
//
// r == 0, or either grid dimension 0, is a no-op: the output equals the
// input and InflatedCenters is empty.
func Inflate(base *grid.Grid, r float64) (Result, error) {
	width, height := base.Width(), base.Height()
	out := base.Cells()

	if r <= 0 || width == 0 || height == 0 {
		outGrid, err := base.WithCells(out)
		if err != nil {
			return Result{}, err
		}
		return Result{Grid: outGrid}, nil
	}

	blocked := make([]bool, width*height) // dedup bitmap, shape of grid
	var centers []Center

	radiusCeil := int(math.Ceil(r))
	rSquared := r * r

	for by := 0; by < height; by++ {
		for bx := 0; bx < width; bx++ {
			origin := grid.Cell{X: bx, Y: by}
			if !base.IsObstacle(origin) {
				continue
			}
			for dy := -radiusCeil; dy <= radiusCeil; dy++ {
				for dx := -radiusCeil; dx <= radiusCeil; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					if float64(dx*dx+dy*dy) > rSquared {
						continue
					}
					neighbor := grid.Cell{X: bx + dx, Y: by + dy}
					if !base.InBounds(neighbor) {
						continue
					}
					if base.IsMissing(neighbor) {
						continue
					}
					idx := neighbor.Y*width + neighbor.X
					if base.IsObstacle(neighbor) {
						if !blocked[idx] {
							blocked[idx] = true
							cx, cy := neighbor.Center()
							centers = append(centers, Center{X: cx, Y: cy})
						}
						continue
					}
					if blocked[idx] {
						continue
					}
					blocked[idx] = true
					out[idx] = grid.ObstacleValue
					cx, cy := neighbor.Center()
					centers = append(centers, Center{X: cx, Y: cy})
				}
			}
		}
	}

	outGrid, err := base.WithCells(out)
	if err != nil {
		return Result{}, err
	}
	return Result{Grid: outGrid, InflatedCenters: centers}, nil
}
