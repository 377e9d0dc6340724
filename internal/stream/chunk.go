package stream

import "github.com/haasonsaas/pi-agent-core/internal/chatmodel"

// Chunk is the provider-agnostic shape a provider adapter normalizes its own
// wire chunks into before handing them to an Assembler. It mirrors the
// index-addressed tool-call-delta shape common to OpenAI- and
// Anthropic-style streaming APIs.
type Chunk struct {
	Usage   *chatmodel.TokenUsage
	Choices []Choice
}

// Choice holds one chunk's delta. Only the first choice in a Chunk is ever
// consulted by the assembler; further choices are ignored.
type Choice struct {
	Delta Delta
}

// Delta is the incremental content of one Choice.
type Delta struct {
	Content   string
	ToolCalls []ToolCallDelta
}

// ToolCallDelta is one fragment of one tool call, addressed by Index. ID and
// Name may each arrive at most once, typically on the first fragment for
// that index; Arguments fragments accumulate across many deltas.
type ToolCallDelta struct {
	Index    int
	ID       string
	Type     string // "function" if present; empty means unspecified
	Function FunctionDelta
}

// FunctionDelta carries the function-call portion of a ToolCallDelta.
type FunctionDelta struct {
	Name      string
	Arguments string
}
