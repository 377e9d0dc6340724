package providerhub

import (
	"context"
	"testing"

	"github.com/haasonsaas/pi-agent-core/internal/backoff"
	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/pierr"
	"github.com/haasonsaas/pi-agent-core/internal/stream"
)

type scriptedChatProvider struct {
	errs  []error
	calls int
}

func (s *scriptedChatProvider) Chat(ctx context.Context, req chatmodel.ChatRequest) (chatmodel.ChatResponse, error) {
	err := s.errs[s.calls]
	s.calls++
	if err != nil {
		return chatmodel.ChatResponse{}, err
	}
	return chatmodel.ChatResponse{Assistant: chatmodel.NewAssistantMessage("ok", nil)}, nil
}

func (s *scriptedChatProvider) ChatStream(ctx context.Context, req chatmodel.ChatRequest) (stream.ChatStream, error) {
	return stream.ChatStream{}, nil
}

func fastPolicy() backoff.BackoffPolicy {
	return backoff.BackoffPolicy{InitialMs: 1, MaxMs: 2, Factor: 1, Jitter: 0}
}

func TestWithRetryRetriesRetryableErrors(t *testing.T) {
	inner := &scriptedChatProvider{errs: []error{pierr.TimeoutError("slow"), nil}}
	wrapped := WithRetry(inner, fastPolicy(), 3)

	resp, err := wrapped.Chat(context.Background(), chatmodel.ChatRequest{})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("calls = %d, want 2", inner.calls)
	}
	if resp.Assistant.Content != "ok" {
		t.Fatalf("Content = %q, want ok", resp.Assistant.Content)
	}
}

func TestWithRetryDoesNotRetryNonRetryableErrors(t *testing.T) {
	inner := &scriptedChatProvider{errs: []error{pierr.InvalidError("bad request"), nil}}
	wrapped := WithRetry(inner, fastPolicy(), 3)

	_, err := wrapped.Chat(context.Background(), chatmodel.ChatRequest{})
	if err == nil {
		t.Fatal("expected the non-retryable error to surface immediately")
	}
	if inner.calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retry)", inner.calls)
	}
}

func TestWithRetryStopsAtMaxAttempts(t *testing.T) {
	inner := &scriptedChatProvider{errs: []error{
		pierr.TimeoutError("slow"), pierr.TimeoutError("slow"), pierr.TimeoutError("slow"),
	}}
	wrapped := WithRetry(inner, fastPolicy(), 3)

	_, err := wrapped.Chat(context.Background(), chatmodel.ChatRequest{})
	if err == nil {
		t.Fatal("expected an error once attempts are exhausted")
	}
	if inner.calls != 3 {
		t.Fatalf("calls = %d, want 3", inner.calls)
	}
}
