// Package agent moves a point along a planned polyline at fixed speed and
// derives the footprint/observation radii the discovery controller needs.
package agent

import (
	"math"

	"gridwarden/internal/grid"
	"gridwarden/internal/planning"
)

// State describes the agent's current motion lifecycle.
type State string

const (
	StateIdle    State = "idle"
	StatePlaying State = "playing"
)

const (
	// DefaultAgentDiameterMeters is the default physical diameter of the
	// agent disk used to derive FootprintRadiusCells.
	DefaultAgentDiameterMeters = 0.6
	// DefaultObservationMeters is the default physical observation radius.
	DefaultObservationMeters = 1.0
	// footprintInflationFactor matches the viewer's derivation of the
	// inflation radius from the agent footprint: 1.5x the footprint,
	// floored at one cell.
	footprintInflationFactor = 1.5
	minInflationRadiusCells  = 1.0
)

// Point is a world-space coordinate.
type Point struct {
	X, Y float64
}

// Agent owns a copy of the latest plan's waypoints and walks them at a
// fixed speed in cells/second.
type Agent struct {
	speed                  float64
	diameterMeters         float64
	observationMeters      float64
	resolution             float64
	footprintRadiusCells   float64
	observationRadiusCells float64

	state             State
	waypoints         []Point
	segmentLengths    []float64
	totalLength       float64
	distanceTravelled float64
	position          Point
}

// New constructs an idle agent for the given speed (cells/second),
// physical footprint diameter, and observation radius, deriving cell-space
// radii from resolution (meters per cell).
func New(speed, diameterMeters, observationMeters, resolution float64) *Agent {
	a := &Agent{
		speed:             speed,
		diameterMeters:    diameterMeters,
		observationMeters: observationMeters,
		state:             StateIdle,
	}
	a.SetResolution(resolution)
	return a
}

// SetResolution recomputes FootprintRadiusCells/ObservationRadiusCells from
// the agent's physical dimensions and a grid resolution (meters per cell).
func (a *Agent) SetResolution(resolution float64) {
	if resolution <= 0 {
		resolution = 1.0
	}
	a.resolution = resolution
	radiusMeters := a.diameterMeters / 2
	a.footprintRadiusCells = radiusMeters / resolution
	observed := a.observationMeters
	if radiusMeters > observed {
		observed = radiusMeters
	}
	a.observationRadiusCells = observed / resolution
}

// FootprintRadiusCells reports the agent disk radius in cell units.
func (a *Agent) FootprintRadiusCells() float64 { return a.footprintRadiusCells }

// ObservationRadiusCells reports the fog-of-war reveal radius in cell units.
func (a *Agent) ObservationRadiusCells() float64 { return a.observationRadiusCells }

// InflationRadiusCells derives the costmap inflation radius from the
// agent's footprint, per original_source's viewer-side rule: 1.5x the
// footprint radius, floored at one cell.
func (a *Agent) InflationRadiusCells() float64 {
	r := a.footprintRadiusCells * footprintInflationFactor
	if r < minInflationRadiusCells {
		return minInflationRadiusCells
	}
	return r
}

// Speed reports the agent's travel speed in cells/second.
func (a *Agent) Speed() float64 { return a.speed }

// State reports the agent's current motion lifecycle state.
func (a *Agent) State() State { return a.state }

// Position reports the agent's current world-space position.
func (a *Agent) Position() Point { return a.position }

// CurrentCell returns the grid cell containing the agent's position.
func (a *Agent) CurrentCell() grid.Cell {
	return grid.Cell{X: int(math.Floor(a.position.X)), Y: int(math.Floor(a.position.Y))}
}

// DistanceTravelled reports cumulative distance travelled along the
// current path.
func (a *Agent) DistanceTravelled() float64 { return a.distanceTravelled }

// TotalLength reports the total length of the current path.
func (a *Agent) TotalLength() float64 { return a.totalLength }

// OnNewPath adopts a freshly planned path. A failed or degenerate path
// (fewer than two waypoints) resets the agent instead.
func (a *Agent) OnNewPath(p planning.PlannedPath) {
	if !p.Success || len(p.Waypoints) < 2 {
		a.Reset()
		return
	}

	waypoints := make([]Point, len(p.Waypoints))
	for i, w := range p.Waypoints {
		waypoints[i] = Point{X: w.X, Y: w.Y}
	}
	segments := make([]float64, len(waypoints)-1)
	total := 0.0
	for i := 1; i < len(waypoints); i++ {
		dx := waypoints[i].X - waypoints[i-1].X
		dy := waypoints[i].Y - waypoints[i-1].Y
		length := math.Hypot(dx, dy)
		segments[i-1] = length
		total += length
	}

	a.waypoints = waypoints
	a.segmentLengths = segments
	a.totalLength = total
	a.distanceTravelled = 0
	a.position = waypoints[0]
	a.state = StatePlaying
}

// Update advances the agent along its current path by speed*dt, clamped to
// the path's total length, and recomputes position by walking segments.
// It is a no-op while idle.
func (a *Agent) Update(dt float64) {
	if a.state != StatePlaying || dt <= 0 {
		return
	}

	a.distanceTravelled += a.speed * dt
	if a.distanceTravelled >= a.totalLength {
		a.distanceTravelled = a.totalLength
		a.position = a.waypoints[len(a.waypoints)-1]
		a.state = StateIdle
		return
	}

	remaining := a.distanceTravelled
	for i, segLen := range a.segmentLengths {
		if remaining <= segLen || i == len(a.segmentLengths)-1 {
			t := 0.0
			if segLen > 0 {
				t = remaining / segLen
			}
			from := a.waypoints[i]
			to := a.waypoints[i+1]
			a.position = Point{
				X: from.X + (to.X-from.X)*t,
				Y: from.Y + (to.Y-from.Y)*t,
			}
			return
		}
		remaining -= segLen
	}
}

// Reset clears the agent's path and returns it to idle.
func (a *Agent) Reset() {
	a.waypoints = nil
	a.segmentLengths = nil
	a.totalLength = 0
	a.distanceTravelled = 0
	a.state = StateIdle
}

// TravelledPolyline returns the prefix of waypoints fully passed, followed
// by the current interpolated position.
func (a *Agent) TravelledPolyline() []Point {
	if len(a.waypoints) == 0 {
		return nil
	}

	remaining := a.distanceTravelled
	out := []Point{a.waypoints[0]}
	for i, segLen := range a.segmentLengths {
		if remaining < segLen {
			break
		}
		remaining -= segLen
		out = append(out, a.waypoints[i+1])
	}
	out = append(out, a.position)
	return out
}
