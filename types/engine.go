package types

import "context"

type Engine interface {
	/**
	 * RegisterHandler binds a node type to its handler. Node types
	 * without a handler still execute: they resolve to a built in
	 * placeholder that reports "not implemented" output.
	 */
	RegisterHandler(nodeType string, handler NodeHandler) error

	// Subscribe adds a lifecycle event subscriber. Handlers run synchronously.
	Subscribe(handler EventHandler)

	SaveWorkflow(ctx context.Context, workflow *Workflow) error
	GetWorkflow(ctx context.Context, workflowID string) (*Workflow, error)
	ListWorkflowIDs(ctx context.Context) ([]string, error)
	RemoveWorkflow(ctx context.Context, workflowID string) error

	ValidateWorkflow(ctx context.Context, workflowID string) (*ValidationResult, error)
	PlanWorkflow(ctx context.Context, workflowID string) (*ExecutionPlan, error)

	/**
	 * ExecuteWorkflow runs one workflow to completion and returns the
	 * terminal execution. Load and validation failures return before
	 * any record is created; orchestration faults persist a failed
	 * record and return the error, the record stays readable through
	 * GetExecution.
	 */
	ExecuteWorkflow(ctx context.Context, workflowID string, input Data, triggeredBy string) (*WorkflowExecution, error)

	GetExecution(ctx context.Context, executionID string) (*WorkflowExecution, error)
	GetNodeRecords(ctx context.Context, executionID string) (map[string]*NodeRunRecord, error)

	/**
	 * RenderWorkflow returns the DOT string generated from the stored
	 * definition. RenderExecution overlays node run status onto it.
	 */
	RenderWorkflow(ctx context.Context, workflowID string) (string, error)
	RenderExecution(ctx context.Context, executionID string) (string, error)

	Close(ctx context.Context) error
}
