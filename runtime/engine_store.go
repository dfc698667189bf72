package runtime

import (
	"context"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/dagflow/types"
	"github.com/warriorguo/dagflow/utils"
)

const (
	WorkflowPath  = "/workflow/"
	ExecutionPath = "/execution/"
)

func (e *engine) saveWorkflow(ctx context.Context, workflow *types.Workflow) error {
	b, err := utils.Serialize(workflow)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(e.store.Set(ctx, WorkflowPath, workflow.ID, b))
}

func (e *engine) loadWorkflow(ctx context.Context, workflowID string) (*types.Workflow, error) {
	b, err := e.store.Get(ctx, WorkflowPath, workflowID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if b == nil {
		return nil, errors.NotFoundf("workflow: %s", workflowID)
	}

	workflow := &types.Workflow{}
	if err := utils.Unserialize(b, workflow); err != nil {
		return nil, errors.Trace(err)
	}
	return workflow, nil
}

func (e *engine) saveExecution(ctx context.Context, execution *types.WorkflowExecution) error {
	b, err := utils.Serialize(execution)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(e.store.Set(ctx, ExecutionPath, execution.ID, b))
}

func (e *engine) loadExecution(ctx context.Context, executionID string) (*types.WorkflowExecution, error) {
	b, err := e.store.Get(ctx, ExecutionPath, executionID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if b == nil {
		return nil, errors.NotFoundf("execution: %s", executionID)
	}

	execution := &types.WorkflowExecution{}
	if err := utils.Unserialize(b, execution); err != nil {
		return nil, errors.Trace(err)
	}
	return execution, nil
}

// loadNodeRecords collects the run log of one execution; unreadable
// entries are logged and skipped.
func (e *engine) loadNodeRecords(ctx context.Context, executionID string) (map[string]*types.NodeRunRecord, error) {
	records := make(map[string]*types.NodeRunRecord)
	recordPath := recordSavePath(executionID)
	err := e.store.List(ctx, recordPath, func(nodeID string) bool {
		b, err := e.store.Get(ctx, recordPath, nodeID)
		if err != nil {
			log.Errorf("load %s %s from store failed: %v", recordPath, nodeID, err)
			return true
		}
		record := &types.NodeRunRecord{}
		if err := utils.Unserialize(b, record); err != nil {
			log.Errorf("unserialize %s %s from store:%s failed: %v", recordPath, nodeID, string(b), err)
			return true
		}
		records[nodeID] = record
		return true
	})
	return records, errors.Trace(err)
}
