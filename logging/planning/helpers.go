// Package planning publishes structured events for planner invocations,
// mirroring the teacher's per-subsystem logging helper packages.
package planning

import (
	"context"

	"gridwarden/logging"
)

const (
	// EventReplanStart is emitted when a controller invokes a planner.
	EventReplanStart logging.EventType = "planning.replan_start"
	// EventReplanResult is emitted once a planner returns.
	EventReplanResult logging.EventType = "planning.replan_result"
)

// ReplanStartPayload captures which planner and start/goal a replan used.
type ReplanStartPayload struct {
	Algorithm string `json:"algorithm"`
	StartX    int    `json:"startX"`
	StartY    int    `json:"startY"`
	GoalX     int    `json:"goalX"`
	GoalY     int    `json:"goalY"`
}

// ReplanResultPayload captures a replan's outcome.
type ReplanResultPayload struct {
	Success       bool    `json:"success"`
	WaypointCount int     `json:"waypointCount"`
	Length        float64 `json:"length"`
}

// ReplanStart publishes a replan-start event for the given frame.
func ReplanStart(ctx context.Context, pub logging.Publisher, frame uint64, actor logging.EntityRef, payload ReplanStartPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventReplanStart,
		Frame:    frame,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryPlanning,
		Payload:  payload,
	})
}

// ReplanResult publishes a replan-result event for the given frame.
func ReplanResult(ctx context.Context, pub logging.Publisher, frame uint64, actor logging.EntityRef, payload ReplanResultPayload) {
	if pub == nil {
		return
	}
	severity := logging.SeverityInfo
	if !payload.Success {
		severity = logging.SeverityWarn
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventReplanResult,
		Frame:    frame,
		Actor:    actor,
		Severity: severity,
		Category: logging.CategoryPlanning,
		Payload:  payload,
	})
}
