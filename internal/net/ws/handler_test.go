package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"gridwarden/internal/agent"
	"gridwarden/internal/board"
	"gridwarden/internal/discovery"
	"gridwarden/internal/grid"
	"gridwarden/internal/planning"
)

func newTestController(t *testing.T) *discovery.Controller {
	t.Helper()

	width, height := 5, 5
	cells := make([]float32, width*height)
	g, err := grid.New(width, height, 1.0, cells)
	if err != nil {
		t.Fatalf("failed to build grid: %v", err)
	}

	b, err := board.New(g, 1.0)
	if err != nil {
		t.Fatalf("failed to build board: %v", err)
	}

	a := agent.New(1.0, 0.6, 1.0, 1.0)
	return discovery.New(b, a, planning.NewAStarPlanner(), discovery.AlgorithmAStar)
}

func dialTestServer(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial test server: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readState(t *testing.T, conn *websocket.Conn) stateEvent {
	t.Helper()
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	var event stateEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("failed to unmarshal state event: %v (payload %s)", err, payload)
	}
	return event
}

func TestHandleSendsInitialStateOnConnect(t *testing.T) {
	controller := newTestController(t)
	handler := NewHandler(controller, HandlerConfig{})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)

	conn := dialTestServer(t, srv)
	event := readState(t, conn)

	if event.Type != "state" {
		t.Fatalf("expected initial state event, got %q", event.Type)
	}
	if event.ControllerState != "idle" {
		t.Fatalf("expected idle controller state, got %q", event.ControllerState)
	}
}

func TestHandleSetStartAndGoalTriggersReplan(t *testing.T) {
	controller := newTestController(t)
	handler := NewHandler(controller, HandlerConfig{})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)

	conn := dialTestServer(t, srv)
	readState(t, conn) // initial snapshot

	if err := conn.WriteJSON(clientCommand{Type: "setStart", X: 0, Y: 0}); err != nil {
		t.Fatalf("failed to send setStart: %v", err)
	}
	readState(t, conn)

	if err := conn.WriteJSON(clientCommand{Type: "setGoal", X: 4, Y: 4}); err != nil {
		t.Fatalf("failed to send setGoal: %v", err)
	}
	event := readState(t, conn)

	if event.ControllerState != "following" {
		t.Fatalf("expected following state after a successful replan, got %q", event.ControllerState)
	}
	if !event.Success {
		t.Fatalf("expected a successful plan on an open grid")
	}
	if len(event.Waypoints) < 2 {
		t.Fatalf("expected at least two waypoints, got %d", len(event.Waypoints))
	}
}

func TestHandleAddObstacleReportsInflatedCenters(t *testing.T) {
	controller := newTestController(t)
	handler := NewHandler(controller, HandlerConfig{})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)

	conn := dialTestServer(t, srv)
	readState(t, conn)

	if err := conn.WriteJSON(clientCommand{Type: "addObstacle", X: 2, Y: 2}); err != nil {
		t.Fatalf("failed to send addObstacle: %v", err)
	}
	event := readState(t, conn)

	if len(event.InflatedCenters) == 0 {
		t.Fatalf("expected a visible obstacle to produce inflated centers")
	}
}

func TestHandleMalformedCommandReturnsError(t *testing.T) {
	controller := newTestController(t)
	handler := NewHandler(controller, HandlerConfig{})
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(srv.Close)

	conn := dialTestServer(t, srv)
	readState(t, conn)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("failed to send malformed command: %v", err)
	}

	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read error response: %v", err)
	}
	var event errorEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("failed to unmarshal error event: %v", err)
	}
	if event.Type != "error" {
		t.Fatalf("expected an error event, got %q", event.Type)
	}
}
