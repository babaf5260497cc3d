package planning

import "fmt"

// ConfigurationError reports a planner invoked without a map, start, or
// goal — a programming bug that propagates to the caller rather than being
// folded into a failed PlannedPath.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("planning: configuration error: %s", e.Reason)
}
