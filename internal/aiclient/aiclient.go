// Package aiclient ties the model catalog and provider hub into a single
// façade: resolve a model, dispatch to its provider, and enrich the result
// with a cost estimate the provider itself did not compute.
package aiclient

import (
	"context"

	"github.com/haasonsaas/pi-agent-core/internal/catalog"
	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/providerhub"
	"github.com/haasonsaas/pi-agent-core/internal/stream"
)

// AiClient resolves models against a Catalog and dispatches chat calls
// through a Hub, injecting a cost estimate onto responses that carry usage
// but no cost.
type AiClient struct {
	catalog *catalog.Catalog
	hub     *providerhub.Hub
}

// New ties catalog and hub together.
func New(cat *catalog.Catalog, hub *providerhub.Hub) *AiClient {
	return &AiClient{catalog: cat, hub: hub}
}

// Model resolves (provider, id) to a Model, or an Invalid error if unknown.
func (c *AiClient) Model(provider chatmodel.ProviderId, id chatmodel.ModelId) (chatmodel.Model, error) {
	return c.catalog.Get(provider, id)
}

// Complete resolves model's provider, builds a ChatRequest from the given
// transcript, tools, temperature, and max_tokens, and injects a cost
// estimate onto the response when the provider left one absent.
func (c *AiClient) Complete(ctx context.Context, model chatmodel.Model, messages []chatmodel.ChatMessage, tools []chatmodel.ToolSpec, temperature *float64, maxTokens *int) (chatmodel.ChatResponse, error) {
	provider, err := c.hub.Resolve(model.Provider)
	if err != nil {
		return chatmodel.ChatResponse{}, err
	}

	req := chatmodel.ChatRequest{
		Model:       model.ID,
		Messages:    cloneMessages(messages),
		Tools:       tools,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	resp, err := provider.Chat(ctx, req)
	if err != nil {
		return chatmodel.ChatResponse{}, err
	}
	return withCost(resp, model), nil
}

// Stream mirrors Complete, returning a ChatStream whose terminal Result is
// wrapped so the same cost enrichment applies once the response is final.
// Event-stream deltas flow through unchanged.
func (c *AiClient) Stream(ctx context.Context, model chatmodel.Model, messages []chatmodel.ChatMessage, tools []chatmodel.ToolSpec, temperature *float64, maxTokens *int) (stream.ChatStream, error) {
	provider, err := c.hub.Resolve(model.Provider)
	if err != nil {
		return stream.ChatStream{}, err
	}

	req := chatmodel.ChatRequest{
		Model:       model.ID,
		Messages:    cloneMessages(messages),
		Tools:       tools,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	chatStream, err := provider.ChatStream(ctx, req)
	if err != nil {
		return stream.ChatStream{}, err
	}

	result := stream.NewResult()
	go func() {
		resp, waitErr := chatStream.Result.Wait(ctx)
		if waitErr != nil {
			result.Fail(waitErr)
			return
		}
		result.Succeed(withCost(resp, model))
	}()

	return stream.ChatStream{Events: chatStream.Events, Result: result}, nil
}

func withCost(resp chatmodel.ChatResponse, model chatmodel.Model) chatmodel.ChatResponse {
	if resp.Usage != nil && resp.Cost == nil {
		cost := model.Cost.EstimateUSD(*resp.Usage)
		resp.Cost = &cost
	}
	return resp
}

func cloneMessages(messages []chatmodel.ChatMessage) []chatmodel.ChatMessage {
	out := make([]chatmodel.ChatMessage, len(messages))
	copy(out, messages)
	return out
}
