package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warriorguo/dagflow/types"
)

func TestWorkflowBuild(t *testing.T) {
	w := types.NewWorkflow("wf1", "build test")

	assert.Nil(t, w.AddNode(&types.Node{ID: "start", Type: "webhook", Category: types.CategoryTrigger}))
	assert.Nil(t, w.AddNode(&types.Node{ID: "work", Type: "transform"}))

	// duplicate id
	assert.NotNil(t, w.AddNode(&types.Node{ID: "start", Type: "webhook"}))
	// empty id
	assert.NotNil(t, w.AddNode(&types.Node{}))

	assert.Nil(t, w.AddEdge(&types.Edge{SourceNodeID: "start", TargetNodeID: "work"}))
	// unknown endpoints
	assert.NotNil(t, w.AddEdge(&types.Edge{SourceNodeID: "start", TargetNodeID: "missing"}))
	assert.NotNil(t, w.AddEdge(&types.Edge{SourceNodeID: "missing", TargetNodeID: "work"}))
	// self loop
	assert.NotNil(t, w.AddEdge(&types.Edge{SourceNodeID: "work", TargetNodeID: "work"}))

	assert.Equal(t, 2, len(w.Definition.Nodes))
	assert.Equal(t, 1, len(w.Definition.Edges))

	start := w.GetNode("start")
	assert.NotNil(t, start)
	assert.True(t, start.IsTrigger())
	assert.False(t, w.GetNode("work").IsTrigger())
	assert.Nil(t, w.GetNode("missing"))
}

func TestNodeKey(t *testing.T) {
	n := &types.Node{ID: "n1"}
	assert.Equal(t, "n1", n.Key())
	n.Name = "Fetch Orders"
	assert.Equal(t, "Fetch Orders", n.Key())
}

func TestEdgeInputKey(t *testing.T) {
	e := &types.Edge{SourceNodeID: "a", TargetNodeID: "b"}
	assert.Equal(t, types.PortMain, e.InputKey())
	e.TargetPort = "orders"
	assert.Equal(t, "orders", e.InputKey())
}

func TestParseWorkflowYAML(t *testing.T) {
	doc := []byte(`
id: etl
name: nightly ETL
definition:
  nodes:
    - id: pull
      type: http_request
      category: trigger
      config:
        url: https://example.com/orders
    - id: clean
      type: transform
  edges:
    - source_node_id: pull
      target_node_id: clean
      target_port: rows
`)
	w, err := types.ParseWorkflowYAML(doc)
	assert.Nil(t, err)
	assert.Equal(t, "etl", w.ID)
	assert.Equal(t, "nightly ETL", w.Name)
	assert.Equal(t, 2, len(w.Definition.Nodes))
	assert.Equal(t, 1, len(w.Definition.Edges))
	assert.Equal(t, "rows", w.Definition.Edges[0].InputKey())

	url, exists := w.Definition.Nodes[0].Config.GetString("url")
	assert.True(t, exists)
	assert.Equal(t, "https://example.com/orders", url)

	_, err = types.ParseWorkflowYAML([]byte("name: no id"))
	assert.NotNil(t, err)

	_, err = types.ParseWorkflowYAML([]byte("\t(not yaml"))
	assert.NotNil(t, err)
}
