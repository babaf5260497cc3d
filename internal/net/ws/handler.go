// Package ws is the demo WebSocket transport: a thin JSON command/event
// envelope standing in for the excluded rendering and input-handling
// collaborators. It is the only place outside the logging router where the
// repository uses goroutines or a mutex.
package ws

import (
	"encoding/json"
	"log"
	nethttp "net/http"
	"sync"

	"github.com/gorilla/websocket"

	"gridwarden/internal/board"
	"gridwarden/internal/discovery"
	"gridwarden/internal/grid"
)

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	Logger *log.Logger
}

// Handler upgrades incoming HTTP requests to WebSocket connections and
// drives a shared *discovery.Controller per spec.md §5's worker-thread
// prescription: a single coarse mutex guards every controller call.
type Handler struct {
	controller *discovery.Controller
	mu         *sync.Mutex
	logger     *log.Logger
	upgrader   websocket.Upgrader
}

// NewHandler constructs a Handler over an already-built Controller.
func NewHandler(controller *discovery.Controller, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		controller: controller,
		mu:         &sync.Mutex{},
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *nethttp.Request) bool { return true },
		},
	}
}

// clientCommand is the inbound envelope: {"type": "...", ...}.
type clientCommand struct {
	Type       string  `json:"type"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Hidden     bool    `json:"hidden"`
	DeltaTime  float64 `json:"dt"`
}

// stateEvent is the outbound snapshot pushed after every processed
// command: the latest plan, inflation centers, and agent pose.
type stateEvent struct {
	Type            string          `json:"type"`
	ControllerState string          `json:"controllerState"`
	Success         bool            `json:"success"`
	Waypoints       [][2]float64    `json:"waypoints"`
	ExploredCells   [][2]int        `json:"exploredCells"`
	InflatedCenters [][2]float64    `json:"inflatedCenters"`
	AgentX          float64         `json:"agentX"`
	AgentY          float64         `json:"agentY"`
}

// errorEvent reports a malformed command or a propagated configuration
// error.
type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Handle upgrades the request and runs the read loop for one connection.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if err := h.writeJSON(conn, h.snapshot()); err != nil {
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(payload, &cmd); err != nil {
			h.logger.Printf("discarding malformed command: %v", err)
			if err := h.writeJSON(conn, errorEvent{Type: "error", Message: "malformed command"}); err != nil {
				return
			}
			continue
		}

		if err := h.dispatch(cmd); err != nil {
			if err := h.writeJSON(conn, errorEvent{Type: "error", Message: err.Error()}); err != nil {
				return
			}
			continue
		}

		if err := h.writeJSON(conn, h.snapshot()); err != nil {
			return
		}
	}
}

func (h *Handler) dispatch(cmd clientCommand) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	cell := grid.Cell{X: cmd.X, Y: cmd.Y}
	switch cmd.Type {
	case "setStart":
		return h.controller.SetStartMarker(cell)
	case "setGoal":
		return h.controller.SetGoalMarker(cell)
	case "addObstacle":
		visibility := board.Visible
		if cmd.Hidden {
			visibility = board.Hidden
		}
		_, err := h.controller.AddDynamicObstacle(cell, visibility)
		return err
	case "removeObstacle":
		_, err := h.controller.RemoveDynamicObstacle(cell)
		return err
	case "clearObstacles":
		return h.controller.ClearDynamicObstacles()
	case "tick":
		dt := cmd.DeltaTime
		if dt <= 0 {
			dt = 1.0 / 60.0
		}
		return h.controller.Tick(dt)
	default:
		h.logger.Printf("unknown command type %q", cmd.Type)
		return nil
	}
}

func (h *Handler) snapshot() stateEvent {
	h.mu.Lock()
	defer h.mu.Unlock()

	b := h.controller.Board()
	pos := h.controller.Agent().Position()

	event := stateEvent{
		Type:            "state",
		ControllerState: string(h.controller.State()),
		AgentX:          pos.X,
		AgentY:          pos.Y,
	}

	if path, ok := b.LatestPath(); ok {
		event.Success = path.Success
		event.Waypoints = make([][2]float64, len(path.Waypoints))
		for i, w := range path.Waypoints {
			event.Waypoints[i] = [2]float64{w.X, w.Y}
		}
		event.ExploredCells = make([][2]int, len(path.ExploredCells))
		for i, c := range path.ExploredCells {
			event.ExploredCells[i] = [2]int{c.X, c.Y}
		}
	}

	for _, center := range b.InflatedCenters() {
		event.InflatedCenters = append(event.InflatedCenters, [2]float64{center.X, center.Y})
	}

	return event
}

func (h *Handler) writeJSON(conn *websocket.Conn, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Printf("failed to marshal outbound message: %v", err)
		return nil
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
