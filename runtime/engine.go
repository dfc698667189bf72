package runtime

import (
	"context"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/juju/errors"
	"github.com/warriorguo/dagflow/store"
	"github.com/warriorguo/dagflow/types"
)

var (
	_ types.Engine = &engine{}
)

// NewEngine wires a workflow engine onto the given store.
func NewEngine(store store.Store, opts *types.Options) types.Engine {
	if opts == nil {
		opts = types.NewOptions()
	}

	parent := opts.Ctx
	if parent == nil {
		parent = context.Background()
	}

	e := &engine{}
	e.ctx, e.cancel = context.WithCancel(parent)
	e.store = store
	e.wp = workerpool.New(opts.MaxNodeConcurrency)
	e.registry = newHandlerRegistry()
	e.emitter = newEventEmitter()
	e.runner = newNodeRunner(store, e.registry)
	e.running = true
	return e
}

type engine struct {
	mu      sync.Mutex
	running bool

	ctx    context.Context
	cancel context.CancelFunc

	store store.Store
	wp    *workerpool.WorkerPool

	registry *handlerRegistry
	emitter  *eventEmitter
	runner   *nodeRunner
}

func (e *engine) isRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *engine) RegisterHandler(nodeType string, handler types.NodeHandler) error {
	return errors.Trace(e.registry.register(nodeType, handler))
}

func (e *engine) Subscribe(handler types.EventHandler) {
	e.emitter.subscribe(handler)
}

func (e *engine) SaveWorkflow(ctx context.Context, workflow *types.Workflow) error {
	if workflow == nil || workflow.ID == "" {
		return errors.BadRequestf("workflow id is empty")
	}
	return errors.Trace(e.saveWorkflow(ctx, workflow))
}

func (e *engine) GetWorkflow(ctx context.Context, workflowID string) (*types.Workflow, error) {
	return e.loadWorkflow(ctx, workflowID)
}

func (e *engine) ListWorkflowIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	err := e.store.List(ctx, WorkflowPath, func(key string) bool {
		ids = append(ids, key)
		return true
	})
	return ids, errors.Trace(err)
}

func (e *engine) RemoveWorkflow(ctx context.Context, workflowID string) error {
	return errors.Trace(e.store.Remove(ctx, WorkflowPath, workflowID))
}

func (e *engine) ValidateWorkflow(ctx context.Context, workflowID string) (*types.ValidationResult, error) {
	workflow, err := e.loadWorkflow(ctx, workflowID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return validateWorkflow(workflow), nil
}

// PlanWorkflow builds the stratified plan without executing anything.
func (e *engine) PlanWorkflow(ctx context.Context, workflowID string) (*types.ExecutionPlan, error) {
	workflow, err := e.loadWorkflow(ctx, workflowID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := checkValid(workflowID, validateWorkflow(workflow)); err != nil {
		return nil, errors.Trace(err)
	}

	plan, err := buildExecutionPlan(workflow)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return plan, nil
}

func (e *engine) GetExecution(ctx context.Context, executionID string) (*types.WorkflowExecution, error) {
	return e.loadExecution(ctx, executionID)
}

func (e *engine) GetNodeRecords(ctx context.Context, executionID string) (map[string]*types.NodeRunRecord, error) {
	return e.loadNodeRecords(ctx, executionID)
}

func (e *engine) RenderWorkflow(ctx context.Context, workflowID string) (string, error) {
	workflow, err := e.loadWorkflow(ctx, workflowID)
	if err != nil {
		return "", errors.Trace(err)
	}
	return renderDOT(workflow, nil), nil
}

// RenderExecution overlays node run status onto the workflow graph.
func (e *engine) RenderExecution(ctx context.Context, executionID string) (string, error) {
	execution, err := e.loadExecution(ctx, executionID)
	if err != nil {
		return "", errors.Trace(err)
	}
	workflow, err := e.loadWorkflow(ctx, execution.WorkflowID)
	if err != nil {
		return "", errors.Trace(err)
	}
	records, err := e.loadNodeRecords(ctx, executionID)
	if err != nil {
		return "", errors.Trace(err)
	}
	return renderDOT(workflow, records), nil
}

func (e *engine) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return nil
	}
	e.running = false
	e.cancel()
	e.wp.StopWait()
	return nil
}
