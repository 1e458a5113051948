package engine

import (
	"fmt"
	"strings"

	"github.com/quarrydata/taskpipe/types"
)

// RenderDOT draws the graph in graphviz DOT form, one node per task colored
// by its current status, one edge per dependency.
func RenderDOT(g *Graph) string {
	r := &dagRenderer{sb: &strings.Builder{}}
	return r.generateDOT(g)
}

type dagRenderer struct {
	sb *strings.Builder
}

func (d *dagRenderer) generateDOT(g *Graph) string {
	d.write("digraph tasks {")
	d.write("rankdir=LR")
	for _, name := range g.Names() {
		t, _ := g.Task(name)
		d.drawTask(t)
	}
	for _, name := range g.Names() {
		t, _ := g.Task(name)
		for _, dep := range t.Dependencies() {
			d.write("%s -> %s", idString(dep), idString(name))
		}
	}
	d.write("}")
	return d.sb.String()
}

func (d *dagRenderer) drawTask(t *Task) {
	label := t.Name()
	if t.Description() != "" {
		label = fmt.Sprintf("%s\\n%s", t.Name(), t.Description())
	}
	d.write("%s [label=%s shape=\"record\" style=\"filled\" color=\"%s\"]",
		idString(t.Name()), quoteString(label), statusColor(t.Status()))
}

func statusColor(status types.StatusType) string {
	switch status {
	case types.Running:
		return "yellow"
	case types.Success:
		return "green"
	case types.Failed:
		return "red"
	case types.Skipped:
		return "grey"
	}
	return "white"
}

func (d *dagRenderer) write(format string, s ...any) {
	d.sb.WriteString(fmt.Sprintf(format+"\n", s...))
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
