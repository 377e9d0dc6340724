package tools

import (
	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/pierr"
)

// ToolSet holds an ordered, immutable collection of named tools. Unlike a
// plain registry, construction itself fails if two tools share a name —
// there is no later "last one wins" registration step.
type ToolSet struct {
	order []string
	byName map[string]Tool
}

// NewToolSet builds a ToolSet from tools in the given order. Fails with
// Invalid if any two tools share a Spec().Name.
func NewToolSet(toolsIn ...Tool) (*ToolSet, error) {
	ts := &ToolSet{byName: make(map[string]Tool, len(toolsIn))}
	for _, t := range toolsIn {
		name := t.Spec().Name.String()
		if _, exists := ts.byName[name]; exists {
			return nil, pierr.InvalidError("duplicate tool name %q", name)
		}
		ts.byName[name] = t
		ts.order = append(ts.order, name)
	}
	return ts, nil
}

// Specs returns the current tool specs in insertion order.
func (ts *ToolSet) Specs() []chatmodel.ToolSpec {
	specs := make([]chatmodel.ToolSpec, 0, len(ts.order))
	for _, name := range ts.order {
		specs = append(specs, ts.byName[name].Spec())
	}
	return specs
}

// Get returns the tool registered under name, if any.
func (ts *ToolSet) Get(name string) (Tool, bool) {
	t, ok := ts.byName[name]
	return t, ok
}
