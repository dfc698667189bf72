package runtime

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/warriorguo/dagflow/types"
)

/**
 * renderDOT draws the workflow as a Graphviz digraph. With records the
 * nodes are colored by run status and carry the packed record as a
 * comment attribute, without records it is the bare topology.
 */
func renderDOT(workflow *types.Workflow, records map[string]*types.NodeRunRecord) string {
	renderer := newDAGRenderer()
	return renderer.generateDOT(workflow, records)
}

func newDAGRenderer() *dagRenderer {
	return &dagRenderer{nil, &strings.Builder{}}
}

type dagRenderer struct {
	records map[string]*types.NodeRunRecord
	sb      *strings.Builder
}

func (d *dagRenderer) setRecords(records map[string]*types.NodeRunRecord) {
	if records == nil {
		records = make(map[string]*types.NodeRunRecord)
	}
	d.records = records
}

func (d *dagRenderer) generateDOT(workflow *types.Workflow, records map[string]*types.NodeRunRecord) string {
	d.setRecords(records)

	d.write("digraph D {")
	for _, node := range workflow.Definition.Nodes {
		d.drawNode(node)
	}
	d.drawEdges(workflow)
	d.write("label=%s", quoteString(workflow.Name))
	d.write("}")
	return d.sb.String()
}

func packToComment(r *types.NodeRunRecord) string {
	s, _ := json.Marshal(r)
	return formatNL(addSlashes(string(s)))
}

func (d *dagRenderer) calcAttr(nodeID string) string {
	record, exists := d.records[nodeID]
	if !exists {
		return ""
	}

	color := ""
	switch {
	case record.CompletedAt.IsZero():
		color = "yellow"
	case record.Status == types.NodeStatusFailed:
		color = "red"
	default:
		color = "green"
	}
	return fmt.Sprintf(" style=\"filled\" color=\"%s\" comment=\"%s\"", color, packToComment(record))
}

func (d *dagRenderer) drawNode(node *types.Node) {
	shape := "record"
	if node.IsTrigger() {
		shape = "diamond"
	}
	attr := d.calcAttr(node.ID)
	d.write("%s [label=%s shape=\"%s\"%s]", idString(node.ID), quoteString(node.Key()), shape, attr)
}

func (d *dagRenderer) drawEdges(workflow *types.Workflow) {
	for _, edge := range workflow.Definition.Edges {
		if edge.TargetPort == "" || edge.TargetPort == types.PortMain {
			d.write("%s -> %s", idString(edge.SourceNodeID), idString(edge.TargetNodeID))
			continue
		}
		d.write("%s -> %s [label=%s]", idString(edge.SourceNodeID), idString(edge.TargetNodeID), quoteString(edge.TargetPort))
	}
}

func (d *dagRenderer) write(format string, s ...any) {
	d.sb.WriteString(fmt.Sprintf(format+"\n", s...))
}

var (
	slashesToken = []string{"\\", "\"", "'", " "}
)

func addSlashes(s string) string {
	for _, token := range slashesToken {
		s = strings.ReplaceAll(s, token, "\\"+token)
	}
	return s
}

func formatNL(s string) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func quoteString(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}

var idleChars = []string{" ", "'", "\"", "(", ")", "*", "&", "^", "%", "$", "#", "@", "!", "?", "<", ">", "[", "]", "{", "}", "."}

func idString(s string) string {
	for _, ch := range idleChars {
		s = strings.ReplaceAll(s, ch, "_")
	}
	return s
}
