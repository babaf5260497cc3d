// Package discovery drives the per-tick fog-of-war loop: advance the
// agent, reveal hidden obstacles under its observation radius, mutate the
// runtime costmap, and trigger replans when the current plan is
// invalidated.
package discovery

import (
	"context"
	"math"

	"gridwarden/internal/agent"
	"gridwarden/internal/board"
	"gridwarden/internal/grid"
	"gridwarden/internal/planning"
	"gridwarden/logging"
	discoverylog "gridwarden/logging/discovery"
	planninglog "gridwarden/logging/planning"
)

// State is the controller's lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StatePlanning  State = "planning"
	StateFollowing State = "following"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Controller coordinates a Board, an Agent, and a Planner through the
// plan -> traverse -> observe -> update -> replan loop.
type Controller struct {
	board     *board.Board
	agent     *agent.Agent
	planner   planning.Planner
	algorithm Algorithm

	publisher logging.Publisher
	actor     logging.EntityRef
	frame     uint64

	state State
}

// New constructs a Controller over an already-built Board and Agent,
// driving planner with the given algorithm tag (used to select the
// D* Lite-specific replan trigger and start-cell rule, and to label
// replan-start events). Events are
// published to logging.NopPublisher() until SetPublisher is called.
func New(b *board.Board, a *agent.Agent, planner planning.Planner, algorithm Algorithm) *Controller {
	return &Controller{
		board:     b,
		agent:     a,
		planner:   planner,
		algorithm: algorithm,
		publisher: logging.NopPublisher(),
		actor:     logging.EntityRef{ID: "controller", Kind: logging.EntityKindController},
		state:     StateIdle,
	}
}

// SetPublisher wires a logging.Publisher that receives replan and
// discovery events for every subsequent call.
func (c *Controller) SetPublisher(pub logging.Publisher) {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	c.publisher = pub
}

// State reports the controller's current lifecycle state.
func (c *Controller) State() State { return c.state }

// Board exposes the underlying Board for read access by a rendering
// collaborator.
func (c *Controller) Board() *board.Board { return c.board }

// Agent exposes the underlying Agent for read access by a rendering
// collaborator.
func (c *Controller) Agent() *agent.Agent { return c.agent }

// SetStartMarker sets the Board's start marker and triggers a replan.
func (c *Controller) SetStartMarker(cell grid.Cell) error {
	c.board.SetStartMarker(cell)
	return c.replan()
}

// SetGoalMarker sets the Board's goal marker and triggers a replan.
func (c *Controller) SetGoalMarker(cell grid.Cell) error {
	c.board.SetGoalMarker(cell)
	return c.replan()
}

// AddDynamicObstacle records a dynamic obstacle on the Board. A hidden
// obstacle only updates Board bookkeeping, per spec.md §4.6 — it must not
// affect planning until revealed. A visible obstacle mutates the runtime
// grid and triggers a replan.
func (c *Controller) AddDynamicObstacle(cell grid.Cell, visibility board.Visibility) (bool, error) {
	ok, err := c.board.AddDynamicObstacle(cell, visibility)
	if err != nil || !ok {
		return ok, err
	}
	if visibility == board.Visible {
		return ok, c.replan()
	}
	return ok, nil
}

// RevealDynamicObstacle reveals a previously hidden obstacle and replans.
func (c *Controller) RevealDynamicObstacle(cell grid.Cell) (bool, error) {
	ok, err := c.board.RevealDynamicObstacle(cell)
	if err != nil || !ok {
		return ok, err
	}
	return ok, c.replan()
}

// RemoveDynamicObstacle clears a dynamic obstacle and replans.
func (c *Controller) RemoveDynamicObstacle(cell grid.Cell) (bool, error) {
	ok, err := c.board.RemoveDynamicObstacle(cell)
	if err != nil || !ok {
		return ok, err
	}
	return ok, c.replan()
}

// ClearDynamicObstacles removes every dynamic obstacle and replans.
func (c *Controller) ClearDynamicObstacles() error {
	if err := c.board.ClearDynamicObstacles(); err != nil {
		return err
	}
	return c.replan()
}

// Tick advances the simulation by dt: the agent moves, hidden obstacles
// under its observation radius are revealed, and a replan is triggered if
// the revealed obstacles (or resulting inflation) invalidate the current
// plan.
func (c *Controller) Tick(dt float64) error {
	c.frame++
	wasPlaying := c.agent.State() == agent.StatePlaying
	c.agent.Update(dt)

	if c.state == StateFollowing && wasPlaying && c.agent.State() == agent.StateIdle {
		c.transition(StateCompleted)
	}

	pos := c.agent.Position()
	c.board.AppendTravelHistory(board.Point{X: pos.X, Y: pos.Y})

	observationCenter := c.agent.Position()
	observationRadius := c.agent.ObservationRadiusCells()

	var discovered []grid.Cell
	for _, cell := range c.board.HiddenObstacles() {
		if diskIntersectsCell(observationCenter, observationRadius, cell) {
			discovered = append(discovered, cell)
		}
	}

	anyRevealed := false
	for _, cell := range discovered {
		revealed, err := c.board.RevealDynamicObstacle(cell)
		if err != nil {
			return err
		}
		if revealed {
			anyRevealed = true
			discoverylog.ObstacleRevealed(context.Background(), c.publisher, c.frame, c.actor, discoverylog.ObstacleRevealedPayload{
				X: cell.X,
				Y: cell.Y,
			})
		}
	}

	if !anyRevealed {
		return nil
	}

	if c.shouldReplan(discovered) {
		return c.replan()
	}
	return nil
}

func (c *Controller) shouldReplan(discovered []grid.Cell) bool {
	path, havePath := c.board.LatestPath()
	if !havePath {
		return len(discovered) > 0
	}

	currentCell := c.agent.CurrentCell()
	for _, cell := range discovered {
		if currentCell == cell {
			return true
		}
		if planWaypointMatchesCell(path, cell) {
			return true
		}
		if planSegmentNearCell(path, cell) {
			return true
		}
	}

	if c.algorithm == AlgorithmDStarLite && len(discovered) > 0 {
		return true
	}

	if planBlockedByInflation(path, c.board.InflatedGrid()) {
		return true
	}

	return false
}

func planWaypointMatchesCell(path planning.PlannedPath, cell grid.Cell) bool {
	for _, w := range path.Waypoints {
		wc := grid.Cell{X: int(math.Floor(w.X)), Y: int(math.Floor(w.Y))}
		if wc == cell {
			return true
		}
	}
	return false
}

func planSegmentNearCell(path planning.PlannedPath, cell grid.Cell) bool {
	for i := 1; i < len(path.Waypoints); i++ {
		a := agent.Point{X: path.Waypoints[i-1].X, Y: path.Waypoints[i-1].Y}
		b := agent.Point{X: path.Waypoints[i].X, Y: path.Waypoints[i].Y}
		if segmentNearCellCenter(a, b, cell) {
			return true
		}
	}
	return false
}

func planBlockedByInflation(path planning.PlannedPath, inflated *grid.Grid) bool {
	if inflated == nil {
		return false
	}
	for _, w := range path.Waypoints {
		wc := grid.Cell{X: int(math.Floor(w.X)), Y: int(math.Floor(w.Y))}
		if !inflated.Traversable(wc) {
			return true
		}
	}
	return false
}

// replan asks the configured planner for a fresh path from the
// algorithm-appropriate start cell to the Board's goal marker, stores the
// result, and drives the controller's state machine and agent.
func (c *Controller) replan() error {
	goal, haveGoal := c.board.GoalCell()
	if !haveGoal {
		return nil
	}
	startCell, haveStart := c.startCellForReplan()
	if !haveStart {
		return nil
	}

	c.transition(StatePlanning)

	c.planner.SetMap(c.board.InflatedGrid())
	c.planner.SetStart(startCell)
	c.planner.SetGoal(goal)

	planninglog.ReplanStart(context.Background(), c.publisher, c.frame, c.actor, planninglog.ReplanStartPayload{
		Algorithm: c.algorithm.String(),
		StartX:    startCell.X,
		StartY:    startCell.Y,
		GoalX:     goal.X,
		GoalY:     goal.Y,
	})

	path, err := c.planner.ComputePath()
	if err != nil {
		return err
	}

	c.board.SetLatestPath(path)
	c.agent.OnNewPath(path)

	planninglog.ReplanResult(context.Background(), c.publisher, c.frame, c.actor, planninglog.ReplanResultPayload{
		Success:       path.Success,
		WaypointCount: len(path.Waypoints),
		Length:        path.Length(),
	})

	if path.Success {
		c.transition(StateFollowing)
	} else {
		c.transition(StateFailed)
	}
	return nil
}

func (c *Controller) transition(next State) {
	if next == c.state {
		return
	}
	discoverylog.StateTransition(context.Background(), c.publisher, c.frame, c.actor, discoverylog.StateTransitionPayload{
		From: string(c.state),
		To:   string(next),
	})
	c.state = next
}

// startCellForReplan implements spec.md §4.6's start-cell rule: D* Lite
// replans from the agent's current cell while a plan exists and the agent
// is still following it, and otherwise from the user-selected start marker;
// A* always replans from the start marker.
func (c *Controller) startCellForReplan() (grid.Cell, bool) {
	if c.algorithm == AlgorithmDStarLite {
		if _, havePath := c.board.LatestPath(); havePath && c.agent.State() == agent.StatePlaying {
			return c.agent.CurrentCell(), true
		}
	}
	return c.board.StartCell()
}
