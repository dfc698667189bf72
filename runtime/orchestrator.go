package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/dagflow/types"
)

/**
 * ExecuteWorkflow drives one run end to end: load, validate, persist a
 * running execution, execute the plan group by group, persist the
 * terminal record. Load and validation failures return before any
 * record exists. Node failures stay inside their node results, only
 * orchestration faults flip the execution to failed and propagate.
 */
func (e *engine) ExecuteWorkflow(ctx context.Context, workflowID string, input types.Data, triggeredBy string) (*types.WorkflowExecution, error) {
	if !e.isRunning() {
		return nil, errors.MethodNotAllowedf("engine is closed")
	}

	workflow, err := e.loadWorkflow(ctx, workflowID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := checkValid(workflowID, validateWorkflow(workflow)); err != nil {
		return nil, errors.Trace(err)
	}

	execution := types.NewExecution(workflowID, input, triggeredBy)
	if err := execution.SetStatus(types.StatusRunning); err != nil {
		return nil, errors.Trace(err)
	}
	if err := e.saveExecution(ctx, execution); err != nil {
		return nil, errors.Trace(err)
	}
	e.emitter.emit(types.Event{
		Name:        types.EventExecutionStarted,
		WorkflowID:  workflowID,
		ExecutionID: execution.ID,
		TriggeredBy: triggeredBy,
	})

	if err := e.executePlan(ctx, workflow, execution); err != nil {
		return nil, errors.Trace(e.failExecution(execution, err))
	}

	execution.CompletedAt = time.Now()
	if err := execution.SetStatus(types.StatusCompleted); err != nil {
		return nil, errors.Trace(e.failExecution(execution, err))
	}
	if err := e.saveExecution(ctx, execution); err != nil {
		log.Errorf("%s failed to save completed execution: %v", execution.ID, err)
	}
	e.emitter.emit(types.Event{
		Name:        types.EventExecutionCompleted,
		WorkflowID:  workflowID,
		ExecutionID: execution.ID,
		TriggeredBy: triggeredBy,
		Result:      execution.ResultData,
	})
	recordExecution(execution.Status.String(), time.Since(execution.StartedAt))
	return execution, nil
}

/**
 * executePlan runs the stratified groups in order. One group fans out
 * on the shared worker pool and joins before the next group starts, so
 * every input read happens after its upstream write without locking.
 * Successful outputs merge into the result map only at the join
 * barrier; the map is scoped to this one execution.
 */
func (e *engine) executePlan(ctx context.Context, workflow *types.Workflow, execution *types.WorkflowExecution) (retErr error) {
	defer func() {
		if r := recover(); r != nil {
			retErr = errors.Errorf("orchestration panic: %v", r)
		}
	}()

	plan, err := buildExecutionPlan(workflow)
	if err != nil {
		return errors.Trace(err)
	}

	results := make(map[string]types.Data, len(workflow.Definition.Nodes))

	for groupIdx, group := range plan.ParallelGroups {
		// cancellation is checked between groups, never inside one
		if err := ctx.Err(); err != nil {
			return errors.Annotatef(err, "cancelled before group %d", groupIdx)
		}
		if err := e.ctx.Err(); err != nil {
			return errors.Annotatef(err, "engine closed before group %d", groupIdx)
		}

		groupResults := make([]*types.NodeResult, len(group))
		var wg sync.WaitGroup
		for i, nodeID := range group {
			node := workflow.GetNode(nodeID)
			wg.Add(1)
			e.wp.Submit(func() {
				defer wg.Done()
				groupResults[i] = e.runner.runNode(ctx, workflow, execution, node, results)
			})
		}
		wg.Wait()

		for _, result := range groupResults {
			if !result.Success {
				log.Errorf("%s node %s failed: %v", execution.ID, result.NodeID, result.Error)
				execution.PartialFailure = true
				continue
			}
			results[result.NodeID] = result.Output
		}
	}

	execution.ResultData = results
	return nil
}

/**
 * failExecution is the orchestration fault path: mark failed, persist,
 * emit and hand the cause back to the caller. Store writes here use a
 * fresh context, the fault may well be the caller's context dying.
 */
func (e *engine) failExecution(execution *types.WorkflowExecution, cause error) error {
	execution.ErrorData = types.NewExecutionError(cause)
	execution.CompletedAt = time.Now()
	if err := execution.SetStatus(types.StatusFailed); err != nil {
		log.Errorf("%s failed to mark failed: %v", execution.ID, err)
	}
	if err := e.saveExecution(context.Background(), execution); err != nil {
		log.Errorf("%s failed to save failed execution: %v", execution.ID, err)
	}
	e.emitter.emit(types.Event{
		Name:        types.EventExecutionFailed,
		WorkflowID:  execution.WorkflowID,
		ExecutionID: execution.ID,
		TriggeredBy: execution.TriggeredBy,
		Error:       cause.Error(),
	})
	recordExecution(execution.Status.String(), time.Since(execution.StartedAt))
	return errors.Annotatef(cause, "execution %s failed", execution.ID)
}
