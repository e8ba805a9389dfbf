package push

import "time"

// EventType identifies a progress event on the push channel.
type EventType string

const (
	EventRunningState        EventType = "running_state"
	EventDraftStarted        EventType = "draft_started"
	EventDraftThinking       EventType = "draft_thinking"
	EventDraftCompleted      EventType = "draft_completed"
	EventEvaluationStarted   EventType = "evaluation_started"
	EventEvaluationThinking  EventType = "evaluation_thinking"
	EventEvaluationCompleted EventType = "evaluation_completed"
	EventJobCompleted        EventType = "job_completed"
	EventJobError            EventType = "job_error"
	EventLimitReached        EventType = "limit_reached"
	EventStats               EventType = "stats"
)

// Event is one typed message fanned out to the subscribers of a key.
type Event struct {
	Type    EventType      `json:"type"`
	JobID   string         `json:"job_id,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
	At      time.Time      `json:"at"`
}

// NewEvent stamps a typed event.
func NewEvent(t EventType, jobID string, payload map[string]any) Event {
	return Event{Type: t, JobID: jobID, Payload: payload, At: time.Now().UTC()}
}
