// Package openai adapts github.com/sashabaranov/go-openai to this module's
// agent.Provider and agent.StreamingProvider ports.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	sdk "github.com/sashabaranov/go-openai"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/obslog"
	"github.com/haasonsaas/pi-agent-core/internal/pierr"
	"github.com/haasonsaas/pi-agent-core/internal/providers"
	"github.com/haasonsaas/pi-agent-core/internal/stream"
)

// Config holds the OpenAI-specific construction parameters.
type Config struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
}

// FromEnv builds a Config from OPENAI_API_KEY and OPENAI_BASE_URL. ok is
// false when no API key is present.
func FromEnv() (Config, bool) {
	key := os.Getenv("OPENAI_API_KEY")
	if strings.TrimSpace(key) == "" {
		return Config{}, false
	}
	return Config{
		APIKey:       key,
		BaseURL:      os.Getenv("OPENAI_BASE_URL"),
		DefaultModel: "gpt-4o",
	}, true
}

// Provider implements agent.Provider and agent.StreamingProvider against
// the OpenAI chat completions API.
type Provider struct {
	client       *sdk.Client
	defaultModel string
	logger       *obslog.Logger
}

// New constructs a Provider from cfg. logger may be nil.
func New(cfg Config, logger *obslog.Logger) *Provider {
	clientCfg := sdk.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if logger == nil {
		logger = obslog.Nop()
	}
	return &Provider{
		client:       sdk.NewClientWithConfig(clientCfg),
		defaultModel: cfg.DefaultModel,
		logger:       logger,
	}
}

func (p *Provider) model(req chatmodel.ChatRequest) string {
	if req.Model.String() != "" {
		return req.Model.String()
	}
	return p.defaultModel
}

// Chat sends req as a single, non-streaming CreateChatCompletion call.
func (p *Provider) Chat(ctx context.Context, req chatmodel.ChatRequest) (chatmodel.ChatResponse, error) {
	chatReq, err := p.buildRequest(req)
	if err != nil {
		return chatmodel.ChatResponse{}, err
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return chatmodel.ChatResponse{}, providers.Classify("openai", p.model(req), err)
	}
	return toChatResponse(resp)
}

// ChatStream sends req via CreateChatCompletionStream, which already yields
// chunks shaped like the assembler's native input (index-addressed
// tool-call deltas), so they are folded in almost unchanged.
func (p *Provider) ChatStream(ctx context.Context, req chatmodel.ChatRequest) (stream.ChatStream, error) {
	chatReq, err := p.buildRequest(req)
	if err != nil {
		return stream.ChatStream{}, err
	}
	chatReq.Stream = true
	chatReq.StreamOptions = &sdk.StreamOptions{IncludeUsage: true}

	sdkStream, err := p.client.CreateChatCompletionStream(ctx, chatReq)
	if err != nil {
		return stream.ChatStream{}, providers.Classify("openai", p.model(req), err)
	}

	asm := stream.NewAssembler(32)
	go p.pump(ctx, asm, sdkStream, p.model(req))

	return stream.ChatStream{Events: asm.Events(), Result: asm.Result()}, nil
}

func (p *Provider) pump(ctx context.Context, asm *stream.Assembler, sdkStream *sdk.ChatCompletionStream, model string) {
	defer sdkStream.Close()

	for {
		chunk, err := sdkStream.Recv()
		if errors.Is(err, io.EOF) {
			_, _ = asm.Finish(ctx)
			return
		}
		if err != nil {
			_ = asm.Abort(ctx, stream.ReasonProvider, providers.Classify("openai", model, err).Error())
			return
		}
		if feedErr := asm.Feed(ctx, toChunk(chunk)); feedErr != nil {
			return
		}
	}
}

func toChunk(resp sdk.ChatCompletionStreamResponse) stream.Chunk {
	out := stream.Chunk{}
	if resp.Usage != nil {
		out.Usage = &chatmodel.TokenUsage{
			PromptTokens:     uint64(resp.Usage.PromptTokens),
			CompletionTokens: uint64(resp.Usage.CompletionTokens),
			TotalTokens:      uint64(resp.Usage.TotalTokens),
		}
	}
	if len(resp.Choices) == 0 {
		return out
	}
	delta := resp.Choices[0].Delta

	var toolCalls []stream.ToolCallDelta
	for _, tc := range delta.ToolCalls {
		index := 0
		if tc.Index != nil {
			index = *tc.Index
		}
		toolCalls = append(toolCalls, stream.ToolCallDelta{
			Index:    index,
			ID:       tc.ID,
			Type:     string(tc.Type),
			Function: stream.FunctionDelta{Name: tc.Function.Name, Arguments: tc.Function.Arguments},
		})
	}

	out.Choices = []stream.Choice{{Delta: stream.Delta{
		Content:   delta.Content,
		ToolCalls: toolCalls,
	}}}
	return out
}

func (p *Provider) buildRequest(req chatmodel.ChatRequest) (sdk.ChatCompletionRequest, error) {
	messages, err := convertMessages(req.Messages)
	if err != nil {
		return sdk.ChatCompletionRequest{}, err
	}

	chatReq := sdk.ChatCompletionRequest{
		Model:    p.model(req),
		Messages: messages,
	}
	if req.MaxTokens != nil {
		chatReq.MaxTokens = *req.MaxTokens
	}
	if req.Temperature != nil {
		chatReq.Temperature = float32(*req.Temperature)
	}
	if len(req.Tools) > 0 {
		tools, err := convertTools(req.Tools)
		if err != nil {
			return sdk.ChatCompletionRequest{}, err
		}
		chatReq.Tools = tools
	}
	return chatReq, nil
}

func convertMessages(messages []chatmodel.ChatMessage) ([]sdk.ChatCompletionMessage, error) {
	out := make([]sdk.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case chatmodel.RoleSystem:
			out = append(out, sdk.ChatCompletionMessage{Role: sdk.ChatMessageRoleSystem, Content: msg.Content})
		case chatmodel.RoleUser:
			out = append(out, sdk.ChatCompletionMessage{Role: sdk.ChatMessageRoleUser, Content: msg.Content})
		case chatmodel.RoleTool:
			out = append(out, sdk.ChatCompletionMessage{
				Role:       sdk.ChatMessageRoleTool,
				Content:    msg.Content,
				ToolCallID: msg.ToolCallID.String(),
			})
		case chatmodel.RoleAssistant:
			oaiMsg := sdk.ChatCompletionMessage{Role: sdk.ChatMessageRoleAssistant, Content: msg.Content}
			for _, call := range msg.ToolCalls {
				args, err := marshalArguments(call.Arguments)
				if err != nil {
					return nil, err
				}
				oaiMsg.ToolCalls = append(oaiMsg.ToolCalls, sdk.ToolCall{
					ID:   call.ID.String(),
					Type: sdk.ToolTypeFunction,
					Function: sdk.FunctionCall{
						Name:      call.Name.String(),
						Arguments: args,
					},
				})
			}
			out = append(out, oaiMsg)
		}
	}
	return out, nil
}

func marshalArguments(args any) (string, error) {
	if raw, ok := args.(json.RawMessage); ok {
		return string(raw), nil
	}
	b, err := json.Marshal(args)
	if err != nil {
		return "", pierr.Wrap(pierr.Json, err, "openai: encode tool_call arguments")
	}
	return string(b), nil
}

func convertTools(tools []chatmodel.ToolSpec) ([]sdk.Tool, error) {
	out := make([]sdk.Tool, 0, len(tools))
	for _, t := range tools {
		schema := map[string]any{"type": "object", "properties": map[string]any{}}
		if len(t.Parameters) > 0 {
			if err := json.Unmarshal(t.Parameters, &schema); err != nil {
				return nil, pierr.Wrap(pierr.Json, err, "openai: decode tool %s schema", t.Name.String())
			}
		}
		out = append(out, sdk.Tool{
			Type: sdk.ToolTypeFunction,
			Function: &sdk.FunctionDefinition{
				Name:        t.Name.String(),
				Description: t.Description,
				Parameters:  schema,
			},
		})
	}
	return out, nil
}

func toChatResponse(resp sdk.ChatCompletionResponse) (chatmodel.ChatResponse, error) {
	if len(resp.Choices) == 0 {
		return chatmodel.ChatResponse{}, pierr.ProviderError("openai: response carried no choices")
	}
	msg := resp.Choices[0].Message

	var toolCalls []chatmodel.ToolCall
	for _, tc := range msg.ToolCalls {
		var args any
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return chatmodel.ChatResponse{}, pierr.Wrap(pierr.Json, err, "openai: decode tool_call arguments")
		}
		toolCalls = append(toolCalls, chatmodel.ToolCall{
			ID:        chatmodel.MustNonEmptyString(tc.ID),
			Name:      chatmodel.MustNonEmptyString(tc.Function.Name),
			Arguments: args,
		})
	}

	usage := chatmodel.TokenUsage{
		PromptTokens:     uint64(resp.Usage.PromptTokens),
		CompletionTokens: uint64(resp.Usage.CompletionTokens),
		TotalTokens:      uint64(resp.Usage.TotalTokens),
	}

	return chatmodel.ChatResponse{
		Assistant: chatmodel.NewAssistantMessage(msg.Content, toolCalls),
		Usage:     &usage,
	}, nil
}
