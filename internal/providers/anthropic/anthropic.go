// Package anthropic adapts github.com/anthropics/anthropic-sdk-go to this
// module's agent.Provider and agent.StreamingProvider ports.
package anthropic

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/obslog"
	"github.com/haasonsaas/pi-agent-core/internal/pierr"
	"github.com/haasonsaas/pi-agent-core/internal/providers"
	"github.com/haasonsaas/pi-agent-core/internal/stream"
)

// Config holds the Anthropic-specific construction parameters.
type Config struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
}

// FromEnv builds a Config from ANTHROPIC_API_KEY and ANTHROPIC_BASE_URL. ok
// is false when no API key is present, meaning this provider should be
// skipped rather than constructed.
func FromEnv() (Config, bool) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if strings.TrimSpace(key) == "" {
		return Config{}, false
	}
	return Config{
		APIKey:       key,
		BaseURL:      os.Getenv("ANTHROPIC_BASE_URL"),
		DefaultModel: "claude-3-5-sonnet-latest",
	}, true
}

// Provider implements agent.Provider and agent.StreamingProvider against
// the Anthropic Messages API.
type Provider struct {
	client       sdk.Client
	defaultModel string
	logger       *obslog.Logger
}

// New constructs a Provider from cfg. logger may be nil.
func New(cfg Config, logger *obslog.Logger) *Provider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if logger == nil {
		logger = obslog.Nop()
	}
	return &Provider{
		client:       sdk.NewClient(opts...),
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

func (p *Provider) maxTokens(req chatmodel.ChatRequest) int64 {
	if req.MaxTokens != nil && *req.MaxTokens > 0 {
		return int64(*req.MaxTokens)
	}
	return 4096
}

// Chat sends req as a single, non-streaming Messages.New call.
func (p *Provider) Chat(ctx context.Context, req chatmodel.ChatRequest) (chatmodel.ChatResponse, error) {
	params, err := p.buildParams(req)
	if err != nil {
		return chatmodel.ChatResponse{}, err
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return chatmodel.ChatResponse{}, providers.Classify("anthropic", p.model(req), err)
	}

	return p.toChatResponse(msg), nil
}

// ChatStream sends req via Messages.NewStreaming, folding Anthropic's
// content_block_start/content_block_delta/message_delta events into this
// module's stream.Event sequence through a shared stream.Assembler.
func (p *Provider) ChatStream(ctx context.Context, req chatmodel.ChatRequest) (stream.ChatStream, error) {
	params, err := p.buildParams(req)
	if err != nil {
		return stream.ChatStream{}, err
	}

	sdkStream := p.client.Messages.NewStreaming(ctx, params)
	asm := stream.NewAssembler(32)

	go p.pump(ctx, asm, sdkStream, p.model(req))

	return stream.ChatStream{Events: asm.Events(), Result: asm.Result()}, nil
}

func (p *Provider) pump(ctx context.Context, asm *stream.Assembler, sdkStream *ssestream.Stream[sdk.MessageStreamEventUnion], model string) {
	for sdkStream.Next() {
		event := sdkStream.Current()
		chunk, ok := toChunk(event)
		if !ok {
			continue
		}
		if err := asm.Feed(ctx, chunk); err != nil {
			return
		}
	}

	if err := sdkStream.Err(); err != nil {
		_ = asm.Abort(ctx, stream.ReasonProvider, providers.Classify("anthropic", model, err).Error())
		return
	}
	_, _ = asm.Finish(ctx)
}

// toChunk maps one Anthropic stream event onto the assembler's
// provider-agnostic Chunk shape. Anthropic's content-block index plays the
// role of the assembler's tool-call index.
func toChunk(event sdk.MessageStreamEventUnion) (stream.Chunk, bool) {
	switch variant := event.AsAny().(type) {
	case sdk.ContentBlockStartEvent:
		if toolUse, ok := variant.ContentBlock.AsAny().(sdk.ToolUseBlock); ok {
			return stream.Chunk{Choices: []stream.Choice{{Delta: stream.Delta{
				ToolCalls: []stream.ToolCallDelta{{
					Index:    int(variant.Index),
					ID:       toolUse.ID,
					Type:     "function",
					Function: stream.FunctionDelta{Name: toolUse.Name},
				}},
			}}}}, true
		}
		return stream.Chunk{}, false
	case sdk.ContentBlockDeltaEvent:
		switch delta := variant.Delta.AsAny().(type) {
		case sdk.TextDelta:
			return stream.Chunk{Choices: []stream.Choice{{Delta: stream.Delta{Content: delta.Text}}}}, true
		case sdk.InputJSONDelta:
			return stream.Chunk{Choices: []stream.Choice{{Delta: stream.Delta{
				ToolCalls: []stream.ToolCallDelta{{
					Index:    int(variant.Index),
					Function: stream.FunctionDelta{Arguments: delta.PartialJSON},
				}},
			}}}}, true
		}
		return stream.Chunk{}, false
	case sdk.MessageDeltaEvent:
		usage := chatmodel.TokenUsage{
			CompletionTokens: uint64(variant.Usage.OutputTokens),
		}
		return stream.Chunk{Usage: &usage}, true
	default:
		return stream.Chunk{}, false
	}
}

func (p *Provider) buildParams(req chatmodel.ChatRequest) (sdk.MessageNewParams, error) {
	messages, system, err := convertMessages(req.Messages)
	if err != nil {
		return sdk.MessageNewParams{}, err
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(p.model(req)),
		Messages:  messages,
		MaxTokens: p.maxTokens(req),
	}
	if system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}
	if len(req.Tools) > 0 {
		tools, err := convertTools(req.Tools)
		if err != nil {
			return sdk.MessageNewParams{}, err
		}
		params.Tools = tools
	}
	return params, nil
}

func convertMessages(messages []chatmodel.ChatMessage) (out []sdk.MessageParam, system string, err error) {
	for _, msg := range messages {
		switch msg.Role {
		case chatmodel.RoleSystem:
			system = msg.Content
			continue
		case chatmodel.RoleTool:
			out = append(out, sdk.NewUserMessage(sdk.NewToolResultBlock(msg.ToolCallID.String(), msg.Content, false)))
			continue
		}

		var blocks []sdk.ContentBlockParamUnion
		if msg.Content != "" {
			blocks = append(blocks, sdk.NewTextBlock(msg.Content))
		}
		for _, call := range msg.ToolCalls {
			var input map[string]any
			if raw, ok := call.Arguments.(json.RawMessage); ok {
				if jsonErr := json.Unmarshal(raw, &input); jsonErr != nil {
					return nil, "", pierr.Wrap(pierr.Json, jsonErr, "anthropic: decode tool_call arguments")
				}
			} else if m, ok := call.Arguments.(map[string]any); ok {
				input = m
			}
			blocks = append(blocks, sdk.NewToolUseBlock(call.ID.String(), input, call.Name.String()))
		}

		if msg.Role == chatmodel.RoleAssistant {
			out = append(out, sdk.NewAssistantMessage(blocks...))
		} else {
			out = append(out, sdk.NewUserMessage(blocks...))
		}
	}
	return out, system, nil
}

func convertTools(tools []chatmodel.ToolSpec) ([]sdk.ToolUnionParam, error) {
	out := make([]sdk.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		var schema sdk.ToolInputSchemaParam
		if len(t.Parameters) > 0 {
			if err := json.Unmarshal(t.Parameters, &schema); err != nil {
				return nil, pierr.Wrap(pierr.Json, err, "anthropic: decode tool %s schema", t.Name.String())
			}
		}
		toolParam := sdk.ToolUnionParamOfTool(schema, t.Name.String())
		if toolParam.OfTool != nil {
			toolParam.OfTool.Description = sdk.String(t.Description)
		}
		out = append(out, toolParam)
	}
	return out, nil
}

func (p *Provider) toChatResponse(msg *sdk.Message) chatmodel.ChatResponse {
	var content string
	var toolCalls []chatmodel.ToolCall
	for _, block := range msg.Content {
		switch variant := block.AsAny().(type) {
		case sdk.TextBlock:
			content += variant.Text
		case sdk.ToolUseBlock:
			toolCalls = append(toolCalls, chatmodel.ToolCall{
				ID:        chatmodel.MustNonEmptyString(variant.ID),
				Name:      chatmodel.MustNonEmptyString(variant.Name),
				Arguments: variant.Input,
			})
		}
	}

	usage := chatmodel.TokenUsage{
		PromptTokens:     uint64(msg.Usage.InputTokens),
		CompletionTokens: uint64(msg.Usage.OutputTokens),
		CacheReadTokens:  uint64(msg.Usage.CacheReadInputTokens),
		CacheWriteTokens: uint64(msg.Usage.CacheCreationInputTokens),
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens

	return chatmodel.ChatResponse{
		Assistant: chatmodel.NewAssistantMessage(content, toolCalls),
		Usage:     &usage,
	}
}
