package aiclient

import (
	"context"
	"testing"

	"github.com/haasonsaas/pi-agent-core/internal/catalog"
	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/providerhub"
	"github.com/haasonsaas/pi-agent-core/internal/stream"
)

type fakeChatProvider struct {
	resp chatmodel.ChatResponse
	err  error
}

func (f fakeChatProvider) Chat(ctx context.Context, req chatmodel.ChatRequest) (chatmodel.ChatResponse, error) {
	return f.resp, f.err
}

func (f fakeChatProvider) ChatStream(ctx context.Context, req chatmodel.ChatRequest) (stream.ChatStream, error) {
	events := make(chan stream.Event)
	close(events)
	result := stream.NewResult()
	result.Succeed(f.resp)
	return stream.ChatStream{Events: events, Result: result}, f.err
}

func testModel(provider string) chatmodel.Model {
	return chatmodel.Model{
		ID:       chatmodel.MustNonEmptyString("test-model"),
		Provider: chatmodel.MustNonEmptyString(provider),
		Cost:     chatmodel.TokenCost{Input: 1, Output: 1},
	}
}

// S3-shaped scenario: rate input=1,output=1 × usage 1M/1M/2M → cost.total=2.0.
func TestCompleteInjectsCostWhenAbsent(t *testing.T) {
	model := testModel("anthropic")
	hub := providerhub.New()
	hub.Insert(model.Provider, fakeChatProvider{resp: chatmodel.ChatResponse{
		Assistant: chatmodel.NewAssistantMessage("hi", nil),
		Usage:     &chatmodel.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 1_000_000, TotalTokens: 2_000_000},
	}})

	client := New(catalog.New(model), hub)
	resp, err := client.Complete(context.Background(), model, []chatmodel.ChatMessage{chatmodel.NewUserMessage("hi")}, nil, nil, nil)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Cost == nil {
		t.Fatal("expected cost to be injected")
	}
	if resp.Cost.Total != 2.0 {
		t.Fatalf("Cost.Total = %v, want 2.0", resp.Cost.Total)
	}
}

func TestCompletePreservesExistingCost(t *testing.T) {
	model := testModel("anthropic")
	preset := chatmodel.CostBreakdown{Total: 99, Currency: "USD"}
	hub := providerhub.New()
	hub.Insert(model.Provider, fakeChatProvider{resp: chatmodel.ChatResponse{
		Assistant: chatmodel.NewAssistantMessage("hi", nil),
		Usage:     &chatmodel.TokenUsage{TotalTokens: 10},
		Cost:      &preset,
	}})

	client := New(catalog.New(model), hub)
	resp, err := client.Complete(context.Background(), model, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Cost.Total != 99 {
		t.Fatalf("Cost.Total = %v, want 99 (preserved)", resp.Cost.Total)
	}
}

func TestCompleteFailsOnUnresolvedProvider(t *testing.T) {
	model := testModel("anthropic")
	hub := providerhub.New()
	client := New(catalog.New(model), hub)

	_, err := client.Complete(context.Background(), model, nil, nil, nil, nil)
	if err == nil {
		t.Fatal("expected an error when the provider is not registered")
	}
}

func TestStreamAppliesCostToTerminalResult(t *testing.T) {
	model := testModel("anthropic")
	hub := providerhub.New()
	hub.Insert(model.Provider, fakeChatProvider{resp: chatmodel.ChatResponse{
		Assistant: chatmodel.NewAssistantMessage("hi", nil),
		Usage:     &chatmodel.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 1_000_000, TotalTokens: 2_000_000},
	}})

	client := New(catalog.New(model), hub)
	chatStream, err := client.Stream(context.Background(), model, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	resp, err := chatStream.Result.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if resp.Cost == nil || resp.Cost.Total != 2.0 {
		t.Fatalf("Cost = %+v, want Total 2.0", resp.Cost)
	}
}
