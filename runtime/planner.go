package runtime

import (
	"github.com/juju/errors"
	"github.com/warriorguo/dagflow/types"
	"github.com/warriorguo/dagflow/utils"
)

/**
 * buildExecutionPlan stratifies the definition into waves with Kahn's
 * algorithm: group 0 is every node with no incoming edge, each later
 * group is whatever the previous group released. Every node in group k
 * depends only on nodes in earlier groups, which is what makes a group
 * safe to run concurrently.
 *
 * Nodes and edges are walked in definition order, the same workflow
 * always yields the same plan. The input is expected to have passed
 * validation already; leftover nodes are returned as an error instead
 * of being dropped.
 */
func buildExecutionPlan(workflow *types.Workflow) (*types.ExecutionPlan, error) {
	g := buildGraph(&workflow.Definition)
	degrees := g.indegrees()

	plan := &types.ExecutionPlan{WorkflowID: workflow.ID}

	group := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if degrees[node.ID] == 0 {
			group = append(group, node.ID)
		}
	}

	assigned := 0
	for groupIdx := 0; len(group) > 0; groupIdx++ {
		plan.ParallelGroups = append(plan.ParallelGroups, group)
		assigned += len(group)

		for _, nodeID := range group {
			node := g.nodesByID[nodeID]
			plan.Steps = append(plan.Steps, &types.ExecutionStep{
				NodeID:            nodeID,
				NodeType:          node.Type,
				Group:             groupIdx,
				Dependencies:      g.predecessors(nodeID),
				ParallelEligible:  len(group) > 1,
				EstimatedDuration: types.EstimatedStepDuration,
			})
		}

		next := make([]string, 0)
		for _, nodeID := range group {
			for _, edge := range g.outgoing[nodeID] {
				if !g.hasNode(edge.TargetNodeID) {
					continue
				}
				if degrees[edge.TargetNodeID]--; degrees[edge.TargetNodeID] == 0 {
					next = append(next, edge.TargetNodeID)
				}
			}
		}
		group = utils.UniqueSlice(next)
	}

	if assigned != len(g.nodes) {
		return nil, errors.BadRequestf("workflow %s has %d nodes stuck in a cycle",
			workflow.ID, len(g.nodes)-assigned)
	}
	return plan, nil
}
