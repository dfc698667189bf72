package runtime

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/dagflow/store"
	"github.com/warriorguo/dagflow/types"
	"github.com/warriorguo/dagflow/utils"
)

const (
	NodeRecordPath = "/node_record/"
)

var (
	_ types.Context = &execContext{}
)

/**
 * execContext is the types.Context handed to node handlers. It rides on
 * the orchestrator's context, handler IO gets cancelled together with
 * the execution.
 */
type execContext struct {
	context.Context

	workflowID  string
	executionID string
}

func newExecContext(ctx context.Context, workflowID, executionID string) *execContext {
	return &execContext{Context: ctx, workflowID: workflowID, executionID: executionID}
}

func (c *execContext) GetWorkflowID() string {
	return c.workflowID
}

func (c *execContext) GetExecutionID() string {
	return c.executionID
}

func recordSavePath(executionID string) string {
	return NodeRecordPath + executionID
}

func newNodeRunner(store store.Store, registry *handlerRegistry) *nodeRunner {
	return &nodeRunner{store: store, registry: registry}
}

type nodeRunner struct {
	store    store.Store
	registry *handlerRegistry
}

/**
 * runNode performs one node run: wires the input, dispatches the
 * handler, measures wall clock latency and appends exactly one run
 * record. Handler errors and panics land inside the result, never in
 * the return path, a failing node must not take its group down.
 */
func (r *nodeRunner) runNode(ctx context.Context, workflow *types.Workflow,
	execution *types.WorkflowExecution, node *types.Node, results map[string]types.Data) *types.NodeResult {

	log.Debugf("%s running node %s (%s)", execution.ID, node.ID, node.Type)
	startTime := time.Now()

	nodeCtx := &types.NodeContext{
		WorkflowID:    workflow.ID,
		ExecutionID:   execution.ID,
		NodeID:        node.ID,
		NodeType:      node.Type,
		Input:         wireInput(workflow, node, execution.InputData, results),
		Config:        node.Config,
		PreviousNodes: results,
	}

	ec := newExecContext(ctx, workflow.ID, execution.ID)
	output, nodeErr := r.invokeHandler(ec, node, nodeCtx)

	result := &types.NodeResult{
		NodeID:      node.ID,
		NodeType:    node.Type,
		Success:     nodeErr == nil,
		Output:      output,
		Error:       nodeErr,
		LatencyMS:   time.Since(startTime).Milliseconds(),
		CompletedAt: time.Now(),
	}

	recordNodeRun(node.Type, result.Status().String(), time.Since(startTime))
	r.saveRecord(ctx, execution.ID, node, result)
	return result
}

/**
 * wireInput assembles the handler input: every incoming edge whose
 * source already produced an output contributes that output under the
 * edge's target port, later edges win a contested port. A node no edge
 * contributed to falls back to its own copy of the workflow input.
 */
func wireInput(workflow *types.Workflow, node *types.Node, workflowInput types.Data, results map[string]types.Data) types.Data {
	input := types.Data{}
	wired := false
	for _, edge := range workflow.Definition.Edges {
		if edge.TargetNodeID != node.ID {
			continue
		}
		output, exists := results[edge.SourceNodeID]
		if !exists {
			continue
		}
		input.Set(edge.InputKey(), output)
		wired = true
	}
	if !wired {
		return workflowInput.Clone()
	}
	return input
}

func (r *nodeRunner) invokeHandler(ctx types.Context, node *types.Node, nodeCtx *types.NodeContext) (output types.Data, nodeErr *types.NodeError) {
	defer func() {
		if rec := recover(); rec != nil {
			output = nil
			nodeErr = types.NodePanicError(node.ID, rec)
		}
	}()

	handler := r.registry.resolve(node.Type)
	out, err := handler(ctx, nodeCtx)
	if err != nil {
		return nil, types.NewNodeError(err)
	}
	return out, nil
}

// saveRecord appends the run record; a store failure only logs.
func (r *nodeRunner) saveRecord(ctx context.Context, executionID string, node *types.Node, result *types.NodeResult) {
	record := &types.NodeRunRecord{
		ExecutionID: executionID,
		NodeID:      node.ID,
		NodeKey:     node.Key(),
		NodeType:    node.Type,
		Status:      result.Status(),
		Output:      result.Output,
		Error:       result.Error,
		LatencyMS:   result.LatencyMS,
		CompletedAt: result.CompletedAt,
	}

	b, err := utils.Serialize(record)
	if err != nil {
		log.Errorf("%s failed to serialize record of %s: %v", executionID, node.ID, err)
		return
	}
	if err := r.store.Set(ctx, recordSavePath(executionID), node.ID, b); err != nil {
		log.Errorf("%s failed to save record of %s: %v", executionID, node.ID, err)
	}
}
