package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

/**
 * EstimatedStepDuration is a fixed placeholder carried on every plan
 * step. It is informational only and never feeds scheduling.
 */
const EstimatedStepDuration = time.Second

type WorkflowExecution struct {
	ID          string          `json:",omitempty"`
	WorkflowID  string          `json:",omitempty"`
	Status      ExecutionStatus `json:",omitempty"`
	TriggeredBy string          `json:",omitempty"`
	/**
	 * PartialFailure is set when the execution completed but one or
	 * more node runs failed. Node failures never flip the execution
	 * status by themselves, this flag saves callers from inspecting
	 * every node record to find out.
	 */
	PartialFailure bool            `json:",omitempty"`
	InputData      Data            `json:",omitempty"`
	ResultData     map[string]Data `json:",omitempty"`
	ErrorData      *ExecutionError `json:",omitempty"`
	StartedAt      time.Time       `json:",omitempty"`
	CompletedAt    time.Time       `json:",omitempty"`
}

type ExecutionError struct {
	Message string `json:",omitempty"`
	Stack   string `json:",omitempty"`
}

func NewExecution(workflowID string, input Data, triggeredBy string) *WorkflowExecution {
	return &WorkflowExecution{
		ID:          uuid.NewString(),
		WorkflowID:  workflowID,
		Status:      StatusCreated,
		TriggeredBy: triggeredBy,
		InputData:   input,
		StartedAt:   time.Now(),
	}
}

/**
 * SetStatus applies one forward transition, refusing anything the
 * status machine does not allow.
 */
func (e *WorkflowExecution) SetStatus(status ExecutionStatus) error {
	if !CanTransition(e.Status, status) {
		return errors.Forbiddenf("execution %s: transition %v to %v", e.ID, e.Status, status)
	}
	e.Status = status
	return nil
}

type ExecutionPlan struct {
	WorkflowID string `json:",omitempty"`
	/**
	 * ParallelGroups lists node ids wave by wave: every node in wave k
	 * depends only on nodes in earlier waves, so one wave is safe to
	 * run concurrently.
	 */
	ParallelGroups [][]string       `json:",omitempty"`
	Steps          []*ExecutionStep `json:",omitempty"`
}

type ExecutionStep struct {
	NodeID            string        `json:",omitempty"`
	NodeType          string        `json:",omitempty"`
	Group             int           `json:",omitempty"`
	Dependencies      []string      `json:",omitempty"`
	ParallelEligible  bool          `json:",omitempty"`
	EstimatedDuration time.Duration `json:",omitempty"`
}

/**
 * NodeContext is the view a handler gets of one node run. PreviousNodes
 * holds the outputs of upstream groups and must be treated as read only.
 */
type NodeContext struct {
	WorkflowID    string
	ExecutionID   string
	NodeID        string
	NodeType      string
	Input         Data
	Config        Data
	PreviousNodes map[string]Data
}

type NodeResult struct {
	NodeID      string     `json:",omitempty"`
	NodeType    string     `json:",omitempty"`
	Success     bool       `json:",omitempty"`
	Output      Data       `json:",omitempty"`
	Error       *NodeError `json:",omitempty"`
	LatencyMS   int64      `json:",omitempty"`
	RetryCount  int        `json:",omitempty"`
	CompletedAt time.Time  `json:",omitempty"`
}

func (r *NodeResult) Status() NodeStatus {
	if r.Success {
		return NodeStatusSuccess
	}
	return NodeStatusFailed
}

/**
 * NodeRunRecord is the append-only log entry written once per node run,
 * success or failure.
 */
type NodeRunRecord struct {
	ExecutionID string     `json:",omitempty"`
	NodeID      string     `json:",omitempty"`
	NodeKey     string     `json:",omitempty"`
	NodeType    string     `json:",omitempty"`
	Status      NodeStatus `json:",omitempty"`
	Output      Data       `json:",omitempty"`
	Error       *NodeError `json:",omitempty"`
	LatencyMS   int64      `json:",omitempty"`
	CompletedAt time.Time  `json:",omitempty"`
}

type NodeHandler func(ctx Context, node *NodeContext) (Data, error)
