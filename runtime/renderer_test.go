package runtime

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/warriorguo/dagflow/store/mem"
	"github.com/warriorguo/dagflow/types"
)

func TestRenderWorkflowDOT(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(mem.NewMemStore())
	defer engine.Close(ctx)

	assert.Nil(t, engine.SaveWorkflow(ctx, diamondWorkflow(t)))

	dot, err := engine.RenderWorkflow(ctx, "diamond")
	assert.Nil(t, err)
	fmt.Printf("%s\n", dot)

	assert.True(t, strings.HasPrefix(dot, "digraph D {"))
	assert.Contains(t, dot, `A [label="A" shape="diamond"]`)
	assert.Contains(t, dot, `B [label="B" shape="record"]`)
	assert.Contains(t, dot, "A -> B")
	assert.Contains(t, dot, "A -> C")
	assert.Contains(t, dot, "B -> D")
	assert.Contains(t, dot, "C -> D")
	assert.Contains(t, dot, `label="diamond"`)
	assert.NotContains(t, dot, "color=")
}

func TestRenderWorkflowPortLabels(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(mem.NewMemStore())
	defer engine.Close(ctx)

	pipeline := &orderPipeline{t: t}
	assert.Nil(t, engine.SaveWorkflow(ctx, pipeline.workflow()))

	dot, err := engine.RenderWorkflow(ctx, "orders")
	assert.Nil(t, err)

	assert.Contains(t, dot, `ingest [label="ingest" shape="diamond"]`)
	// main edges draw bare, named ports carry a label
	assert.Contains(t, dot, "ingest -> enrich\n")
	assert.Contains(t, dot, `enrich -> merge [label="enriched"]`)
	assert.Contains(t, dot, `score -> merge [label="scored"]`)
}

func TestRenderExecutionColors(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(mem.NewMemStore())
	defer engine.Close(ctx)

	workflow := buildWorkflow(t, "mixed",
		[]*types.Node{
			newTrigger("in", "start"),
			newNode("bad", "shaky"),
		},
		[]*types.Edge{
			newEdge("in", "bad"),
		})
	assert.Nil(t, engine.SaveWorkflow(ctx, workflow))

	assert.Nil(t, engine.RegisterHandler("start", func(ctx types.Context, node *types.NodeContext) (types.Data, error) {
		return types.Data{}, nil
	}))
	assert.Nil(t, engine.RegisterHandler("shaky", func(ctx types.Context, node *types.NodeContext) (types.Data, error) {
		return nil, fmt.Errorf("flaked out")
	}))

	execution, err := engine.ExecuteWorkflow(ctx, "mixed", types.Data{}, "manual")
	assert.Nil(t, err)

	dot, err := engine.RenderExecution(ctx, execution.ID)
	assert.Nil(t, err)
	fmt.Printf("%s\n", dot)

	assert.Contains(t, dot, `color="green"`)
	assert.Contains(t, dot, `color="red"`)
	assert.Contains(t, dot, `style="filled"`)
	assert.Contains(t, dot, "comment=")
}

func TestRenderPendingNodeIsYellow(t *testing.T) {
	workflow := buildWorkflow(t, "pending",
		[]*types.Node{newNode("A", "step")}, nil)

	records := map[string]*types.NodeRunRecord{
		"A": {NodeID: "A", Status: types.NodeStatusSuccess},
	}

	dot := renderDOT(workflow, records)
	assert.Contains(t, dot, `color="yellow"`)
}

func TestRenderSanitizesNodeIDs(t *testing.T) {
	workflow := buildWorkflow(t, "odd",
		[]*types.Node{newNode("my node", "step")}, nil)

	dot := renderDOT(workflow, nil)
	assert.Contains(t, dot, `my_node [label="my node" shape="record"]`)
}

func TestRenderNotFound(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(mem.NewMemStore())
	defer engine.Close(ctx)

	_, err := engine.RenderWorkflow(ctx, "ghost")
	assert.True(t, errors.IsNotFound(err))

	_, err = engine.RenderExecution(ctx, "ghost")
	assert.True(t, errors.IsNotFound(err))
}
