package planning

import (
	"container/heap"
	"math"

	"gridwarden/internal/grid"
)

// DStarLitePlanner incrementally maintains shortest paths from every
// visited cell to the goal, so that edge-cost changes and a moving start
// only require re-expanding the region the change actually affects.
type DStarLitePlanner struct {
	grid *grid.Grid

	startCell grid.Cell
	goalCell  grid.Cell
	haveStart bool
	haveGoal  bool

	initialized bool
	lastStart   grid.Cell
	km          float64

	g   map[grid.Cell]float64
	rhs map[grid.Cell]float64

	open         dstarQueue
	openTable    map[grid.Cell]dstarKey
	seq          uint64
	expandedAll  map[grid.Cell]bool // dedup scope: reset at the top of every ComputePath
	lastExpanded []grid.Cell

	pendingUpdates map[grid.Cell]bool
}

// NewDStarLitePlanner constructs an empty planner. SetMap/SetStart/SetGoal
// must be called before ComputePath.
func NewDStarLitePlanner() *DStarLitePlanner {
	return &DStarLitePlanner{
		g:              make(map[grid.Cell]float64),
		rhs:            make(map[grid.Cell]float64),
		openTable:      make(map[grid.Cell]dstarKey),
		expandedAll:    make(map[grid.Cell]bool),
		pendingUpdates: make(map[grid.Cell]bool),
	}
}

// dstarKey is the two-component priority key; comparisons are
// lexicographic on (K1, K2).
type dstarKey struct {
	K1, K2 float64
}

func (a dstarKey) less(b dstarKey) bool {
	if a.K1 != b.K1 {
		return a.K1 < b.K1
	}
	return a.K2 < b.K2
}

func (a dstarKey) greaterOrEqual(b dstarKey) bool {
	return !a.less(b)
}

type dstarEntry struct {
	cell  grid.Cell
	key   dstarKey
	seq   uint64
	index int
}

type dstarQueue []*dstarEntry

func (q dstarQueue) Len() int { return len(q) }
func (q dstarQueue) Less(i, j int) bool {
	if q[i].key != q[j].key {
		return q[i].key.less(q[j].key)
	}
	return q[i].seq < q[j].seq
}
func (q dstarQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}
func (q *dstarQueue) Push(x any) {
	entry := x.(*dstarEntry)
	entry.index = len(*q)
	*q = append(*q, entry)
}
func (q *dstarQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}

func (p *DStarLitePlanner) getG(c grid.Cell) float64 {
	if v, ok := p.g[c]; ok {
		return v
	}
	return math.Inf(1)
}

func (p *DStarLitePlanner) getRhs(c grid.Cell) float64 {
	if v, ok := p.rhs[c]; ok {
		return v
	}
	return math.Inf(1)
}

func minFinite(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// SetMap installs the grid the planner searches over. Adopting a grid with
// unchanged dimensions diffs blocked-status against the previous grid and
// queues the differing cells for incremental re-expansion; any dimension
// change (or the first call) resets all planner state.
func (p *DStarLitePlanner) SetMap(g *grid.Grid) {
	if p.grid == nil || !p.grid.SameShape(g) {
		p.resetState()
		p.grid = g
		return
	}

	old := p.grid
	p.grid = g
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			c := grid.Cell{X: x, Y: y}
			if blockedStatus(old, c) != blockedStatus(g, c) {
				p.pendingUpdates[c] = true
			}
		}
	}
}

func blockedStatus(g *grid.Grid, c grid.Cell) bool {
	return g.IsMissing(c) || g.IsObstacle(c)
}

func (p *DStarLitePlanner) resetState() {
	p.g = make(map[grid.Cell]float64)
	p.rhs = make(map[grid.Cell]float64)
	p.open = nil
	p.openTable = make(map[grid.Cell]dstarKey)
	p.expandedAll = make(map[grid.Cell]bool)
	p.lastExpanded = nil
	p.pendingUpdates = make(map[grid.Cell]bool)
	p.initialized = false
	p.km = 0
}

// SetStart records the start cell. If the planner has already been
// initialized, the key modifier is bumped by the heuristic distance
// travelled since the last recorded start, per the D* Lite key-refresh
// rule for a moving start.
func (p *DStarLitePlanner) SetStart(c grid.Cell) {
	if p.initialized {
		p.km += Heuristic(p.lastStart, c)
	}
	p.startCell = c
	p.haveStart = true
}

// SetGoal records the goal cell and marks the planner uninitialized: a new
// goal requires a fresh backward search from scratch.
func (p *DStarLitePlanner) SetGoal(c grid.Cell) {
	p.goalCell = c
	p.haveGoal = true
	p.initialized = false
}

func (p *DStarLitePlanner) calculateKey(c grid.Cell) dstarKey {
	m := minFinite(p.getG(c), p.getRhs(c))
	return dstarKey{K1: m + Heuristic(p.startCell, c) + p.km, K2: m}
}

func (p *DStarLitePlanner) pushCell(c grid.Cell) {
	key := p.calculateKey(c)
	p.openTable[c] = key
	p.seq++
	heap.Push(&p.open, &dstarEntry{cell: c, key: key, seq: p.seq})
}

// updateVertex recomputes rhs(u) from its successors (or pins rhs(goal)=0)
// and pushes/removes u from the open queue according to local consistency.
func (p *DStarLitePlanner) updateVertex(u grid.Cell) {
	if u != p.goalCell {
		best := math.Inf(1)
		for _, s := range Successors(p.grid, u) {
			candidate := s.Cost + p.getG(s.Cell)
			if candidate < best {
				best = candidate
			}
		}
		if best == math.Inf(1) {
			delete(p.rhs, u)
		} else {
			p.rhs[u] = best
		}
	} else {
		p.rhs[u] = 0
	}

	if p.getG(u) != p.getRhs(u) {
		p.pushCell(u)
	} else {
		delete(p.openTable, u)
	}
}

func (p *DStarLitePlanner) neighborCells(u grid.Cell) []grid.Cell {
	var out []grid.Cell
	for _, n := range Neighbors {
		c := Step(u, n)
		if InBounds(p.grid, c) {
			out = append(out, c)
		}
	}
	return out
}

// recordExpanded appends u to lastExpanded the first time it is popped
// during the current computeShortestPath call. Lazy deletion means a cell
// can be pushed and popped more than once in the same call; expandedAll
// dedups within that call only, so it must be cleared before each call.
func (p *DStarLitePlanner) recordExpanded(u grid.Cell) {
	if p.expandedAll[u] {
		return
	}
	p.expandedAll[u] = true
	p.lastExpanded = append(p.lastExpanded, u)
}

// computeShortestPath drains the open queue until the start cell is
// locally consistent and no pending entry could improve it.
func (p *DStarLitePlanner) computeShortestPath() {
	for len(p.open) > 0 {
		top := p.open[0]
		if currentKey, ok := p.openTable[top.cell]; !ok || currentKey != top.key {
			heap.Pop(&p.open)
			continue
		}

		startKey := p.calculateKey(p.startCell)
		if top.key.greaterOrEqual(startKey) && p.getRhs(p.startCell) == p.getG(p.startCell) {
			return
		}

		entry := heap.Pop(&p.open).(*dstarEntry)
		u := entry.cell
		delete(p.openTable, u)
		p.recordExpanded(u)

		if p.getG(u) > p.getRhs(u) {
			p.g[u] = p.getRhs(u)
			for _, n := range p.neighborCells(u) {
				p.updateVertex(n)
			}
		} else {
			delete(p.g, u)
			p.updateVertex(u)
			for _, n := range p.neighborCells(u) {
				p.updateVertex(n)
			}
		}
	}
}

// applyPendingUpdates re-evaluates every cell touched by a SetMap diff plus
// its 8-neighbors, then clears the pending set.
func (p *DStarLitePlanner) applyPendingUpdates() {
	if len(p.pendingUpdates) == 0 {
		return
	}
	affected := make(map[grid.Cell]bool, len(p.pendingUpdates)*9)
	for c := range p.pendingUpdates {
		affected[c] = true
		for _, n := range Neighbors {
			nb := Step(c, n)
			if InBounds(p.grid, nb) {
				affected[nb] = true
			}
		}
	}
	for c := range affected {
		p.updateVertex(c)
	}
	p.pendingUpdates = make(map[grid.Cell]bool)
}

// ComputePath recomputes (incrementally) the shortest path from the
// current start to the current goal.
func (p *DStarLitePlanner) ComputePath() (PlannedPath, error) {
	p.lastExpanded = nil
	p.expandedAll = make(map[grid.Cell]bool)

	if p.grid == nil {
		return PlannedPath{}, &ConfigurationError{Reason: "no map set"}
	}
	if !p.haveStart {
		return PlannedPath{}, &ConfigurationError{Reason: "no start set"}
	}
	if !p.haveGoal {
		return PlannedPath{}, &ConfigurationError{Reason: "no goal set"}
	}

	if !Traversable(p.grid, p.goalCell) {
		return Failed(), nil
	}
	if p.startCell != p.goalCell && !Traversable(p.grid, p.startCell) {
		return Failed(), nil
	}

	if !p.initialized {
		p.g = make(map[grid.Cell]float64)
		p.rhs = make(map[grid.Cell]float64)
		p.open = nil
		p.openTable = make(map[grid.Cell]dstarKey)
		p.km = 0
		p.rhs[p.goalCell] = 0
		p.pushCell(p.goalCell)
		p.lastStart = p.startCell
		p.initialized = true
	}

	if p.lastStart != p.startCell {
		p.km += Heuristic(p.lastStart, p.startCell)
		p.lastStart = p.startCell
	}

	p.applyPendingUpdates()
	p.updateVertex(p.startCell)
	p.computeShortestPath()

	if math.IsInf(p.getRhs(p.startCell), 1) {
		return FailedWithExploration(p.lastExpanded), nil
	}

	if p.startCell == p.goalCell {
		x, y := p.startCell.Center()
		return PlannedPath{
			Style:         StylePolyline,
			Waypoints:     []Point{{X: x, Y: y}},
			ExploredCells: p.lastExpanded,
			Success:       true,
		}, nil
	}

	cells, ok := p.extractPath()
	if !ok {
		return FailedWithExploration(p.lastExpanded), nil
	}

	waypoints := make([]Point, len(cells))
	for i, c := range cells {
		x, y := c.Center()
		waypoints[i] = Point{X: x, Y: y}
	}
	return PlannedPath{Style: StylePolyline, Waypoints: waypoints, ExploredCells: p.lastExpanded, Success: true}, nil
}

// extractPath performs the greedy descent from start to goal following
// min(edgeCost(cur,n) + g(n)), capped at W*H+1 steps to guarantee
// termination on a malformed g-table.
func (p *DStarLitePlanner) extractPath() ([]grid.Cell, bool) {
	maxSteps := p.grid.Width()*p.grid.Height() + 1
	path := []grid.Cell{p.startCell}
	current := p.startCell

	for i := 0; i < maxSteps; i++ {
		if current == p.goalCell {
			return path, true
		}
		successors := Successors(p.grid, current)
		if len(successors) == 0 {
			return nil, false
		}
		best := current
		bestScore := math.Inf(1)
		for _, s := range successors {
			score := s.Cost + p.getG(s.Cell)
			if score < bestScore {
				bestScore = score
				best = s.Cell
			}
		}
		if best == current || math.IsInf(bestScore, 1) {
			return nil, false
		}
		path = append(path, best)
		current = best
	}
	return nil, false
}

// ExpandedNodes reports the cells popped-and-expanded for the first time
// during the most recent ComputePath call, in expansion order. An
// idempotent replan (no mutation since the last call) reports none.
func (p *DStarLitePlanner) ExpandedNodes() []grid.Cell {
	return p.lastExpanded
}
