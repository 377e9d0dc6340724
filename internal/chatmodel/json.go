package chatmodel

import (
	"encoding/json"

	"github.com/haasonsaas/pi-agent-core/internal/pierr"
)

// wireMessage is the on-wire shape of a ChatMessage: a role discriminator
// plus role-specific optional fields, per spec §6. tool_calls is omitted
// entirely when empty rather than encoded as `[]` or `null`; tool_call_id is
// omitted when unset (omitzero, since ToolCallId is a struct).
type wireMessage struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID ToolCallId `json:"tool_call_id,omitzero"`
}

// MarshalJSON encodes m using the role discriminator and omits fields the
// role does not carry.
func (m ChatMessage) MarshalJSON() ([]byte, error) {
	w := wireMessage{Role: m.Role, Content: m.Content}
	switch m.Role {
	case RoleAssistant:
		if len(m.ToolCalls) > 0 {
			w.ToolCalls = m.ToolCalls
		}
	case RoleTool:
		w.ToolCallID = m.ToolCallID
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a wire message and validates the role-specific
// shape invariants before returning.
func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return pierr.Wrap(pierr.Json, err, "decode ChatMessage")
	}
	decoded := ChatMessage{
		Role:       w.Role,
		Content:    w.Content,
		ToolCalls:  w.ToolCalls,
		ToolCallID: w.ToolCallID,
	}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*m = decoded
	return nil
}

// wireToolCall is ToolCall's on-wire shape: id and name use NonEmptyString's
// transparent string encoding, arguments is an arbitrary JSON value.
type wireToolCall struct {
	ID        ToolCallId `json:"id"`
	Name      ToolName   `json:"name"`
	Arguments any        `json:"arguments"`
}

func (c ToolCall) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireToolCall{ID: c.ID, Name: c.Name, Arguments: c.Arguments})
}

func (c *ToolCall) UnmarshalJSON(data []byte) error {
	var w wireToolCall
	if err := json.Unmarshal(data, &w); err != nil {
		return pierr.Wrap(pierr.Json, err, "decode ToolCall")
	}
	c.ID = w.ID
	c.Name = w.Name
	c.Arguments = w.Arguments
	return nil
}
