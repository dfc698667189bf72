package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warriorguo/dagflow/store"
	"github.com/warriorguo/dagflow/types"
)

func newTestOptions() *types.Options {
	opts := types.NewOptions()
	opts.MaxNodeConcurrency = 8
	return opts
}

func newTestEngine(s store.Store) types.Engine {
	return NewEngine(s, newTestOptions())
}

func newNode(id, nodeType string) *types.Node {
	return &types.Node{ID: id, Type: nodeType}
}

func newTrigger(id, nodeType string) *types.Node {
	return &types.Node{ID: id, Type: nodeType, Category: types.CategoryTrigger}
}

func newEdge(source, target string) *types.Edge {
	return &types.Edge{SourceNodeID: source, TargetNodeID: target}
}

func newPortEdge(source, target, port string) *types.Edge {
	return &types.Edge{SourceNodeID: source, TargetNodeID: target, TargetPort: port}
}

func buildWorkflow(t *testing.T, id string, nodes []*types.Node, edges []*types.Edge) *types.Workflow {
	workflow := types.NewWorkflow(id, id)
	for _, node := range nodes {
		assert.Nil(t, workflow.AddNode(node))
	}
	for _, edge := range edges {
		assert.Nil(t, workflow.AddEdge(edge))
	}
	return workflow
}

// diamondWorkflow is A fanning out to B and C, both joining into D.
func diamondWorkflow(t *testing.T) *types.Workflow {
	return buildWorkflow(t, "diamond",
		[]*types.Node{
			newTrigger("A", "start"),
			newNode("B", "left"),
			newNode("C", "right"),
			newNode("D", "join"),
		},
		[]*types.Edge{
			newEdge("A", "B"),
			newEdge("A", "C"),
			newEdge("B", "D"),
			newEdge("C", "D"),
		})
}

/**
 * orderPipeline is the standard execution fixture: an order ingest
 * trigger fanning out to enrichment and risk scoring, merged into one
 * report. Each handler counts its runs and asserts the wiring it sees.
 */
type orderPipeline struct {
	t *testing.T

	ingestTrigger int
	enrichTrigger int
	scoreTrigger  int
	mergeTrigger  int
}

func (p *orderPipeline) ingest(ctx types.Context, node *types.NodeContext) (types.Data, error) {
	assert.True(p.t, len(ctx.GetExecutionID()) > 0)
	assert.Equal(p.t, "orders", ctx.GetWorkflowID())

	amount, _ := node.Input.GetInt("amount")
	assert.Equal(p.t, 250, amount)
	p.ingestTrigger++

	output := types.Data{}
	output.Set("order_id", "ord-1001")
	output.Set("amount", amount)
	return output, nil
}

func (p *orderPipeline) enrich(ctx types.Context, node *types.NodeContext) (types.Data, error) {
	order, exists := node.Input.GetData(types.PortMain)
	assert.True(p.t, exists)
	orderID, _ := order.GetString("order_id")
	assert.Equal(p.t, "ord-1001", orderID)
	p.enrichTrigger++

	output := types.Data{}
	output.Set("customer", "ACME")
	return output, nil
}

func (p *orderPipeline) score(ctx types.Context, node *types.NodeContext) (types.Data, error) {
	_, exists := node.Input.GetData(types.PortMain)
	assert.True(p.t, exists)
	p.scoreTrigger++

	output := types.Data{}
	output.Set("risk", 0.25)
	return output, nil
}

func (p *orderPipeline) merge(ctx types.Context, node *types.NodeContext) (types.Data, error) {
	enriched, exists := node.Input.GetData("enriched")
	assert.True(p.t, exists)
	scored, exists := node.Input.GetData("scored")
	assert.True(p.t, exists)

	customer, _ := enriched.GetString("customer")
	risk, _ := scored.GetFloat64("risk")
	assert.Equal(p.t, "ACME", customer)
	assert.Equal(p.t, 0.25, risk)
	p.mergeTrigger++

	output := types.Data{}
	output.Set("report", customer)
	output.Set("risk", risk)
	return output, nil
}

func (p *orderPipeline) register(engine types.Engine) {
	assert.Nil(p.t, engine.RegisterHandler("ingest_order", p.ingest))
	assert.Nil(p.t, engine.RegisterHandler("enrich_customer", p.enrich))
	assert.Nil(p.t, engine.RegisterHandler("score_risk", p.score))
	assert.Nil(p.t, engine.RegisterHandler("merge_report", p.merge))
}

func (p *orderPipeline) workflow() *types.Workflow {
	return buildWorkflow(p.t, "orders",
		[]*types.Node{
			newTrigger("ingest", "ingest_order"),
			newNode("enrich", "enrich_customer"),
			newNode("score", "score_risk"),
			newNode("merge", "merge_report"),
		},
		[]*types.Edge{
			newEdge("ingest", "enrich"),
			newEdge("ingest", "score"),
			newPortEdge("enrich", "merge", "enriched"),
			newPortEdge("score", "merge", "scored"),
		})
}

func orderInput() types.Data {
	input := types.Data{}
	input.Set("amount", 250)
	return input
}

func countKeys(t *testing.T, s store.Store, prefix string) int {
	count := 0
	assert.Nil(t, s.List(context.Background(), prefix, func(key string) bool {
		count++
		return true
	}))
	return count
}
