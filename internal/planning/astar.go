package planning

import (
	"container/heap"

	"gridwarden/internal/grid"
)

// AStarPlanner computes a one-shot shortest path over a static inflated
// grid. It holds no incremental state between calls — every ComputePath
// call re-runs the search from scratch.
type AStarPlanner struct {
	grid  *grid.Grid
	start grid.Cell
	goal  grid.Cell
	haveStart,
	haveGoal bool
}

// NewAStarPlanner constructs an empty planner. SetMap/SetStart/SetGoal must
// be called before ComputePath.
func NewAStarPlanner() *AStarPlanner {
	return &AStarPlanner{}
}

// SetMap installs the inflated grid the planner searches over.
func (p *AStarPlanner) SetMap(g *grid.Grid) {
	p.grid = g
}

// SetStart records the start cell.
func (p *AStarPlanner) SetStart(c grid.Cell) {
	p.start = c
	p.haveStart = true
}

// SetGoal records the goal cell.
func (p *AStarPlanner) SetGoal(c grid.Cell) {
	p.goal = c
	p.haveGoal = true
}

// ComputePath runs A* from the configured start to the configured goal.
// It returns a ConfigurationError if no map, start, or goal was set;
// otherwise it always returns a PlannedPath, with Success=false on an
// out-of-bounds/non-traversable start or goal or an unreachable goal.
func (p *AStarPlanner) ComputePath() (PlannedPath, error) {
	if p.grid == nil {
		return PlannedPath{}, &ConfigurationError{Reason: "no map set"}
	}
	if !p.haveStart {
		return PlannedPath{}, &ConfigurationError{Reason: "no start set"}
	}
	if !p.haveGoal {
		return PlannedPath{}, &ConfigurationError{Reason: "no goal set"}
	}

	g := p.grid
	start, goal := p.start, p.goal

	if !Traversable(g, start) || !Traversable(g, goal) {
		return Failed(), nil
	}

	if start == goal {
		x, y := start.Center()
		return PlannedPath{
			Style:         StylePolyline,
			Waypoints:     []Point{{X: x, Y: y}},
			ExploredCells: []grid.Cell{start},
			Success:       true,
		}, nil
	}

	nodes, explored, ok := astarSearch(g, start, goal)
	if !ok {
		return FailedWithExploration(explored), nil
	}

	waypoints := make([]Point, len(nodes))
	for i, c := range nodes {
		x, y := c.Center()
		waypoints[i] = Point{X: x, Y: y}
	}
	return PlannedPath{
		Style:         StylePolyline,
		Waypoints:     waypoints,
		ExploredCells: explored,
		Success:       true,
	}, nil
}

// astarNode is a single open-set entry. Index is maintained by heap.Interface
// so the heap can be used as a simple priority queue; lazy deletion (via a
// closed set) takes the place of decrease-key.
type astarNode struct {
	cell   grid.Cell
	g      float64
	f      float64
	index  int
	parent *astarNode
}

type astarQueue []*astarNode

func (q astarQueue) Len() int           { return len(q) }
func (q astarQueue) Less(i, j int) bool { return q[i].f < q[j].f }
func (q astarQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}
func (q *astarQueue) Push(x any) {
	n := len(*q)
	item := x.(*astarNode)
	item.index = n
	*q = append(*q, item)
}
func (q *astarQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}

// astarSearch runs the shared search loop used by AStarPlanner. It returns
// the path as a sequence of cells (start..goal inclusive) and the cells
// popped from the open set in pop order (exploredCells).
func astarSearch(g *grid.Grid, start, goal grid.Cell) ([]grid.Cell, []grid.Cell, bool) {
	open := &astarQueue{}
	heap.Init(open)
	heap.Push(open, &astarNode{cell: start, g: 0, f: Heuristic(start, goal)})

	gScore := map[grid.Cell]float64{start: 0}
	closed := make(map[grid.Cell]bool)
	var explored []grid.Cell

	for open.Len() > 0 {
		current := heap.Pop(open).(*astarNode)
		if closed[current.cell] {
			continue
		}
		closed[current.cell] = true
		explored = append(explored, current.cell)

		if current.cell == goal {
			return reconstructAstarPath(current), explored, true
		}

		for _, s := range Successors(g, current.cell) {
			if closed[s.Cell] {
				continue
			}
			tentativeG := current.g + s.Cost
			if prev, ok := gScore[s.Cell]; ok && tentativeG >= prev {
				continue
			}
			gScore[s.Cell] = tentativeG
			heap.Push(open, &astarNode{
				cell:   s.Cell,
				g:      tentativeG,
				f:      tentativeG + Heuristic(s.Cell, goal),
				parent: current,
			})
		}
	}
	return nil, explored, false
}

func reconstructAstarPath(end *astarNode) []grid.Cell {
	if end == nil {
		return nil
	}
	var path []grid.Cell
	for node := end; node != nil; node = node.parent {
		path = append(path, node.cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
