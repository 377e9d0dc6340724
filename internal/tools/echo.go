package tools

import (
	"context"
	"encoding/json"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/pierr"
)

// Echo is the minimal representative tool used across this module's agent
// loop tests: it returns its "text" argument unchanged.
type Echo struct{}

var echoSchema = json.RawMessage(`{
	"type": "object",
	"properties": {"text": {"type": "string"}},
	"required": ["text"]
}`)

func (Echo) Spec() chatmodel.ToolSpec {
	return chatmodel.ToolSpec{
		Name:        chatmodel.MustNonEmptyString("echo"),
		Description: "Returns the given text unchanged.",
		Parameters:  echoSchema,
	}
}

func (Echo) Execute(_ context.Context, args any, _ ToolContext) (ToolResult, error) {
	m, ok := args.(map[string]any)
	if !ok {
		return ToolResult{}, pierr.ToolError("echo: arguments must be an object")
	}
	text, _ := m["text"].(string)
	return ToolResult{Content: text}, nil
}
