package discovery

import (
	"math"

	"gridwarden/internal/agent"
	"gridwarden/internal/grid"
)

// cornerEpsilon is the slack applied to the "segment passes near a cell
// center" replan trigger, matching spec's 0.5 + epsilon.
const cornerEpsilon = 1e-6

// diskIntersectsCell reports whether a circle of radius r centered at
// center intersects the unit cell [x, x+1] x [y, y+1]: either the center
// lies inside the cell, or some cell corner lies within r of the center.
func diskIntersectsCell(center agent.Point, radius float64, c grid.Cell) bool {
	x0, y0 := float64(c.X), float64(c.Y)
	x1, y1 := x0+1, y0+1

	if center.X >= x0 && center.X <= x1 && center.Y >= y0 && center.Y <= y1 {
		return true
	}

	corners := [4][2]float64{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}}
	for _, corner := range corners {
		dx := corner[0] - center.X
		dy := corner[1] - center.Y
		if math.Hypot(dx, dy) <= radius {
			return true
		}
	}
	return false
}

// segmentNearCellCenter reports whether the segment a->b passes within
// 0.5+epsilon of the center of cell c.
func segmentNearCellCenter(a, b agent.Point, c grid.Cell) bool {
	cx, cy := float64(c.X)+0.5, float64(c.Y)+0.5
	return pointToSegmentDistance(a, b, cx, cy) <= 0.5+cornerEpsilon
}

func pointToSegmentDistance(a, b agent.Point, px, py float64) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lengthSquared := dx*dx + dy*dy
	if lengthSquared == 0 {
		return math.Hypot(px-a.X, py-a.Y)
	}
	t := ((px-a.X)*dx + (py-a.Y)*dy) / lengthSquared
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	projX := a.X + t*dx
	projY := a.Y + t*dy
	return math.Hypot(px-projX, py-projY)
}
