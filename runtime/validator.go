package runtime

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/warriorguo/dagflow/types"
)

/**
 * validateWorkflow runs the structural checks: node set shape, edge
 * referential integrity, acyclicity and trigger reachability. Cycles
 * and shape violations are errors, unreachable nodes only warn.
 */
func validateWorkflow(workflow *types.Workflow) *types.ValidationResult {
	result := &types.ValidationResult{}

	def := &workflow.Definition
	if len(def.Nodes) == 0 {
		result.Errors = append(result.Errors, "workflow must have at least one node")
		return result
	}

	g := buildGraph(def)

	seen := make(map[string]bool, len(def.Nodes))
	for _, node := range def.Nodes {
		if node.ID == "" {
			result.Errors = append(result.Errors, "node id is empty")
			continue
		}
		if seen[node.ID] {
			result.Errors = append(result.Errors, fmt.Sprintf("duplicate node id: %s", node.ID))
		}
		seen[node.ID] = true
	}

	for _, edge := range def.Edges {
		if !g.hasNode(edge.SourceNodeID) {
			result.Errors = append(result.Errors, fmt.Sprintf("edge references unknown source node: %s", edge.SourceNodeID))
		}
		if !g.hasNode(edge.TargetNodeID) {
			result.Errors = append(result.Errors, fmt.Sprintf("edge references unknown target node: %s", edge.TargetNodeID))
		}
	}

	for _, cycle := range findCycles(g) {
		result.Cycles = append(result.Cycles, cycle)
		result.Errors = append(result.Errors, fmt.Sprintf("cycle detected: %s", strings.Join(cycle, " -> ")))
	}

	result.Unreachable = findUnreachable(g)
	for _, nodeID := range result.Unreachable {
		result.Warnings = append(result.Warnings, fmt.Sprintf("node %s is not reachable from any trigger", nodeID))
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// checkValid folds an invalid result into one BadRequest error.
func checkValid(workflowID string, result *types.ValidationResult) error {
	if result.Valid {
		return nil
	}
	return errors.BadRequestf("workflow %s is invalid: %s", workflowID, strings.Join(result.Errors, "; "))
}

const (
	colorWhite = 0
	colorGray  = 1
	colorBlack = 2
)

/**
 * findCycles walks the graph depth first keeping the recursion stack.
 * Revisiting a gray node closes a cycle: the reported path is the
 * stack slice from that node's first occurrence up to the revisit.
 * The search from one start node stops at its first cycle, later
 * start nodes still get their own report.
 */
func findCycles(g *graph) [][]string {
	colors := make(map[string]int, len(g.nodes))
	cycles := make([][]string, 0)
	path := make([]string, 0, len(g.nodes))

	var visit func(nodeID string) bool
	visit = func(nodeID string) bool {
		colors[nodeID] = colorGray
		path = append(path, nodeID)

		found := false
		for _, next := range g.successors(nodeID) {
			switch colors[next] {
			case colorGray:
				for i, id := range path {
					if id == next {
						cycles = append(cycles, append([]string{}, path[i:]...))
						break
					}
				}
				found = true

			case colorWhite:
				found = visit(next)
			}
			if found {
				break
			}
		}

		path = path[:len(path)-1]
		colors[nodeID] = colorBlack
		return found
	}

	for _, node := range g.nodes {
		if colors[node.ID] == colorWhite {
			visit(node.ID)
		}
	}
	return cycles
}

/**
 * findUnreachable runs a breadth first sweep from every trigger node
 * and returns the nodes the sweep never touched. Without trigger nodes
 * reachability is undefined and nothing is reported.
 */
func findUnreachable(g *graph) []string {
	triggers := g.triggers()
	if len(triggers) == 0 {
		return nil
	}

	reached := make(map[string]bool, len(g.nodes))
	queue := make([]string, 0, len(g.nodes))
	for _, nodeID := range triggers {
		reached[nodeID] = true
		queue = append(queue, nodeID)
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range g.successors(current) {
			if reached[next] {
				continue
			}
			reached[next] = true
			queue = append(queue, next)
		}
	}

	unreachable := make([]string, 0)
	for _, node := range g.nodes {
		if !reached[node.ID] {
			unreachable = append(unreachable, node.ID)
		}
	}
	return unreachable
}
