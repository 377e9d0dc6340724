package chatmodel

import "github.com/haasonsaas/pi-agent-core/internal/pierr"

// Role discriminates the four ChatMessage variants.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is an assistant's request to execute one named tool.
type ToolCall struct {
	ID        ToolCallId
	Name      ToolName
	Arguments any // JSON value, semantically an object
}

// ChatMessage is a tagged union over the four transcript roles. Role-specific
// fields are zero-valued on variants that do not carry them: System and User
// only ever populate Content; Assistant may populate Content and/or
// ToolCalls; Tool always populates ToolCallID and Content. Construct via the
// New*Message functions rather than a struct literal so the invariants in
// spec §3 hold by construction.
type ChatMessage struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolCallID ToolCallId
}

// NewSystemMessage builds a System{content} message.
func NewSystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

// NewUserMessage builds a User{content} message.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// NewAssistantMessage builds an Assistant{content, tool_calls} message.
// toolCalls may be nil or empty; content may be empty when toolCalls is not.
func NewAssistantMessage(content string, toolCalls []ToolCall) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content, ToolCalls: toolCalls}
}

// NewToolMessage builds a Tool{tool_call_id, content} message.
func NewToolMessage(toolCallID ToolCallId, content string) ChatMessage {
	return ChatMessage{Role: RoleTool, Content: content, ToolCallID: toolCallID}
}

// IsAssistant reports whether m is the Assistant variant.
func (m ChatMessage) IsAssistant() bool { return m.Role == RoleAssistant }

// Validate re-checks the per-role shape invariants from spec §3. Messages
// built via the New*Message constructors already satisfy these; Validate
// exists for messages decoded off the wire.
func (m ChatMessage) Validate() error {
	switch m.Role {
	case RoleSystem, RoleUser:
		if len(m.ToolCalls) != 0 {
			return pierr.InvalidError("%s message must not carry tool_calls", m.Role)
		}
		if m.ToolCallID.String() != "" {
			return pierr.InvalidError("%s message must not carry tool_call_id", m.Role)
		}
	case RoleAssistant:
		if m.ToolCallID.String() != "" {
			return pierr.InvalidError("assistant message must not carry tool_call_id")
		}
	case RoleTool:
		if m.ToolCallID.String() == "" {
			return pierr.InvalidError("tool message must carry a non-empty tool_call_id")
		}
		if len(m.ToolCalls) != 0 {
			return pierr.InvalidError("tool message must not carry tool_calls")
		}
	default:
		return pierr.InvalidError("unknown role %q", m.Role)
	}
	return nil
}
