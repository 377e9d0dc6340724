// Package stream folds provider-specific streaming chunks into a normalized
// event sequence plus a terminal ChatResponse promise.
package stream

import "github.com/haasonsaas/pi-agent-core/internal/chatmodel"

// EventType discriminates ChatStreamEvent's variants.
type EventType string

const (
	EventTextDelta     EventType = "text_delta"
	EventToolCallDelta EventType = "tool_call_delta"
	EventUsage         EventType = "usage"
	EventDone          EventType = "done"
	EventError         EventType = "error"
)

// ErrorReason classifies why a stream ended in Error.
type ErrorReason string

const (
	ReasonAborted  ErrorReason = "aborted"
	ReasonProvider ErrorReason = "provider"
	ReasonDecode   ErrorReason = "decode"
)

// ToolCallDeltaPayload is the per-emission payload of an EventToolCallDelta
// event. ParsedArguments is nil until acc.args parses as a complete JSON
// value.
type ToolCallDeltaPayload struct {
	Index           int
	ID              chatmodel.ToolCallId
	Name            chatmodel.ToolName
	ArgumentsDelta  string
	ParsedArguments any
}

// Event is the ChatStreamEvent tagged union. Only the field matching Type is
// meaningful; the rest are left zero-valued.
type Event struct {
	Type EventType

	TextDelta string
	ToolCall  ToolCallDeltaPayload
	Usage     chatmodel.TokenUsage

	ErrorReason  ErrorReason
	ErrorMessage string
}
