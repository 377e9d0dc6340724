package agent

import (
	"context"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/stream"
)

// Provider is the non-streaming provider port the agent loop drives.
type Provider interface {
	Chat(ctx context.Context, req chatmodel.ChatRequest) (chatmodel.ChatResponse, error)
}

// StreamingProvider is the streaming counterpart. Non-streaming and
// streaming are kept as distinct capabilities rather than conflated into
// one interface; an adapter wanting both implements both.
type StreamingProvider interface {
	ChatStream(ctx context.Context, req chatmodel.ChatRequest) (stream.ChatStream, error)
}
