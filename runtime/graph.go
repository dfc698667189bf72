package runtime

import (
	"github.com/warriorguo/dagflow/types"
	"github.com/warriorguo/dagflow/utils"
)

/**
 * graph is the adjacency index built once per workflow definition.
 * Slices keep definition order so every traversal over the same
 * definition is deterministic.
 */
type graph struct {
	nodes []*types.Node
	edges []*types.Edge

	nodesByID map[string]*types.Node
	outgoing  map[string][]*types.Edge
	incoming  map[string][]*types.Edge
}

func buildGraph(def *types.Definition) *graph {
	g := &graph{
		nodes:     def.Nodes,
		edges:     def.Edges,
		nodesByID: make(map[string]*types.Node, len(def.Nodes)),
		outgoing:  make(map[string][]*types.Edge),
		incoming:  make(map[string][]*types.Edge),
	}
	for _, node := range def.Nodes {
		if _, exists := g.nodesByID[node.ID]; exists {
			// duplicate ids surface as validation errors, keep the first
			continue
		}
		g.nodesByID[node.ID] = node
	}
	for _, edge := range def.Edges {
		g.outgoing[edge.SourceNodeID] = append(g.outgoing[edge.SourceNodeID], edge)
		g.incoming[edge.TargetNodeID] = append(g.incoming[edge.TargetNodeID], edge)
	}
	return g
}

func (g *graph) hasNode(nodeID string) bool {
	_, exists := g.nodesByID[nodeID]
	return exists
}

// successors returns the target ids of well formed outgoing edges, deduplicated.
func (g *graph) successors(nodeID string) []string {
	ids := make([]string, 0, len(g.outgoing[nodeID]))
	for _, edge := range g.outgoing[nodeID] {
		if g.hasNode(edge.TargetNodeID) {
			ids = append(ids, edge.TargetNodeID)
		}
	}
	return utils.UniqueSlice(ids)
}

// predecessors returns the source ids of well formed incoming edges, deduplicated.
func (g *graph) predecessors(nodeID string) []string {
	ids := make([]string, 0, len(g.incoming[nodeID]))
	for _, edge := range g.incoming[nodeID] {
		if g.hasNode(edge.SourceNodeID) {
			ids = append(ids, edge.SourceNodeID)
		}
	}
	return utils.UniqueSlice(ids)
}

/**
 * indegrees counts incoming edges per node. Parallel edges count
 * separately here and the planner decrements once per edge, the two
 * stay consistent.
 */
func (g *graph) indegrees() map[string]int {
	degrees := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		degrees[node.ID] = 0
	}
	for _, edge := range g.edges {
		if g.hasNode(edge.SourceNodeID) && g.hasNode(edge.TargetNodeID) {
			degrees[edge.TargetNodeID]++
		}
	}
	return degrees
}

func (g *graph) triggers() []string {
	ids := make([]string, 0)
	for _, node := range g.nodes {
		if node.IsTrigger() {
			ids = append(ids, node.ID)
		}
	}
	return ids
}
