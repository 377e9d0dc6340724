// Package tools defines the Tool contract, the ToolSet registry, and a
// handful of representative tool implementations used to exercise the
// agent loop in tests.
package tools

import (
	"context"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
)

// ToolContext is passed by value to every tool invocation within a turn.
// Tools within one turn may observe each other's side effects through it.
type ToolContext struct {
	// Cwd is the working directory a filesystem-flavored tool should
	// operate relative to. The concrete filesystem tool itself is an
	// external collaborator; this field only carries the convention.
	Cwd string
}

// ToolResult is what a tool execution hands back to the agent loop.
type ToolResult struct {
	// Content is what the model will see appended as a Tool message.
	Content string
	// Details is optional structured data alongside Content, not shown
	// to the model directly.
	Details any
}

// Tool is the contract every agent tool implements.
type Tool interface {
	// Spec returns this tool's name, description, and JSON-Schema
	// parameter shape. Pure and idempotent.
	Spec() chatmodel.ToolSpec

	// Execute runs the tool against args, validated by the caller against
	// Spec().Parameters before this is called.
	Execute(ctx context.Context, args any, toolCtx ToolContext) (ToolResult, error)
}
