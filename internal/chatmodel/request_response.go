package chatmodel

// ChatRequest is the normalized request every provider adapter accepts.
type ChatRequest struct {
	Model       ModelId
	Messages    []ChatMessage
	Tools       []ToolSpec
	Temperature *float64
	MaxTokens   *int
}

// ChatResponse is the normalized, non-streaming result of a chat call.
// Invariant: Assistant.Role == RoleAssistant.
type ChatResponse struct {
	Assistant ChatMessage
	Usage     *TokenUsage
	Cost      *CostBreakdown
}
