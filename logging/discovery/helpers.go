// Package discovery publishes structured events for the fog-of-war
// discovery loop, mirroring the teacher's per-subsystem logging helper
// packages.
package discovery

import (
	"context"

	"gridwarden/logging"
)

const (
	// EventObstacleRevealed is emitted when a hidden obstacle enters the
	// agent's observation radius and is revealed.
	EventObstacleRevealed logging.EventType = "discovery.obstacle_revealed"
	// EventStateTransition is emitted on every controller state change.
	EventStateTransition logging.EventType = "discovery.state_transition"
)

// ObstacleRevealedPayload captures which cell was revealed.
type ObstacleRevealedPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// StateTransitionPayload captures a controller state change.
type StateTransitionPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ObstacleRevealed publishes an obstacle-revealed event for the given frame.
func ObstacleRevealed(ctx context.Context, pub logging.Publisher, frame uint64, actor logging.EntityRef, payload ObstacleRevealedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventObstacleRevealed,
		Frame:    frame,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDiscovery,
		Payload:  payload,
	})
}

// StateTransition publishes a controller state-transition event.
func StateTransition(ctx context.Context, pub logging.Publisher, frame uint64, actor logging.EntityRef, payload StateTransitionPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStateTransition,
		Frame:    frame,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDiscovery,
		Payload:  payload,
	})
}
