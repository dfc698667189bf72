package types

import (
	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

const (
	// CategoryTrigger marks a node as a DAG root for reachability checks.
	CategoryTrigger = "trigger"
	// PortMain is the default port when an edge leaves one out.
	PortMain = "main"
)

type Workflow struct {
	ID         string     `json:",omitempty" yaml:"id"`
	Name       string     `json:",omitempty" yaml:"name"`
	Definition Definition `yaml:"definition"`
}

type Definition struct {
	Nodes []*Node `json:",omitempty" yaml:"nodes"`
	Edges []*Edge `json:",omitempty" yaml:"edges"`
}

type Node struct {
	ID       string `json:",omitempty" yaml:"id"`
	Name     string `json:",omitempty" yaml:"name"`
	Type     string `json:",omitempty" yaml:"type"`
	Category string `json:",omitempty" yaml:"category"`
	Config   Data   `json:",omitempty" yaml:"config"`
}

/**
 * Key is the human readable handle of the node: its name when set,
 * its id otherwise. Node run records carry both.
 */
func (n *Node) Key() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

func (n *Node) IsTrigger() bool {
	return n.Category == CategoryTrigger
}

type Edge struct {
	SourceNodeID string `json:",omitempty" yaml:"source_node_id"`
	TargetNodeID string `json:",omitempty" yaml:"target_node_id"`
	SourcePort   string `json:",omitempty" yaml:"source_port"`
	TargetPort   string `json:",omitempty" yaml:"target_port"`
}

/**
 * InputKey is the key a target node reads the upstream output under.
 * Empty target ports normalize to PortMain.
 */
func (e *Edge) InputKey() string {
	if e.TargetPort == "" {
		return PortMain
	}
	return e.TargetPort
}

func NewWorkflow(id, name string) *Workflow {
	return &Workflow{ID: id, Name: name}
}

func (w *Workflow) GetNode(nodeID string) *Node {
	for _, n := range w.Definition.Nodes {
		if n.ID == nodeID {
			return n
		}
	}
	return nil
}

/**
 * AddNode appends a node to the definition. Node ids are unique per
 * workflow, duplicates are rejected here so a built workflow never
 * trips the same validator error later.
 */
func (w *Workflow) AddNode(node *Node) error {
	if node == nil || node.ID == "" {
		return errors.BadRequestf("node id is empty")
	}
	if w.GetNode(node.ID) != nil {
		return errors.AlreadyExistsf("node: %s", node.ID)
	}
	w.Definition.Nodes = append(w.Definition.Nodes, node)
	return nil
}

/**
 * AddEdge appends an edge between two existing nodes. Both endpoints
 * must already be added; self loops are rejected.
 */
func (w *Workflow) AddEdge(edge *Edge) error {
	if edge == nil {
		return errors.BadRequestf("edge is nil")
	}
	if w.GetNode(edge.SourceNodeID) == nil {
		return errors.NotFoundf("source node: %s", edge.SourceNodeID)
	}
	if w.GetNode(edge.TargetNodeID) == nil {
		return errors.NotFoundf("target node: %s", edge.TargetNodeID)
	}
	if edge.SourceNodeID == edge.TargetNodeID {
		return errors.Forbiddenf("self edge on %s", edge.SourceNodeID)
	}
	w.Definition.Edges = append(w.Definition.Edges, edge)
	return nil
}

/**
 * ParseWorkflowYAML decodes a workflow definition file. The same
 * structure the store keeps as JSON, authored by hand as YAML.
 */
func ParseWorkflowYAML(b []byte) (*Workflow, error) {
	w := &Workflow{}
	if err := yaml.Unmarshal(b, w); err != nil {
		return nil, errors.Annotatef(err, "parse workflow yaml")
	}
	if w.ID == "" {
		return nil, errors.BadRequestf("workflow id is empty")
	}
	return w, nil
}

type ValidationResult struct {
	Valid    bool
	Errors   []string `json:",omitempty"`
	Warnings []string `json:",omitempty"`
	/**
	 * Cycles holds one node path per detected cycle, sliced from the
	 * first occurrence of the revisited node to the point of revisit.
	 * Detection stops at the first cycle per search branch.
	 */
	Cycles      [][]string `json:",omitempty"`
	Unreachable []string   `json:",omitempty"`
}
