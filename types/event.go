package types

import "time"

const (
	EventExecutionStarted   = "execution:started"
	EventExecutionCompleted = "execution:completed"
	EventExecutionFailed    = "execution:failed"
)

/**
 * Event is a lifecycle notification for external subscribers. Result is
 * set on completed events, Error on failed ones.
 */
type Event struct {
	Name        string
	WorkflowID  string
	ExecutionID string
	TriggeredBy string
	Result      map[string]Data
	Error       string
	Timestamp   time.Time
}

type EventHandler func(event Event)
