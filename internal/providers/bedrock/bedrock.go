// Package bedrock adapts github.com/aws/aws-sdk-go-v2/service/bedrockruntime
// to this module's agent.Provider and agent.StreamingProvider ports,
// targeting Anthropic-family models hosted on Bedrock.
package bedrock

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/obslog"
	"github.com/haasonsaas/pi-agent-core/internal/pierr"
	"github.com/haasonsaas/pi-agent-core/internal/providers"
	"github.com/haasonsaas/pi-agent-core/internal/stream"
)

// Config holds the Bedrock-specific construction parameters.
type Config struct {
	Region       string
	DefaultModel string
}

// FromEnv builds a Config from AWS_REGION when AWS credentials appear to be
// configured (AWS_ACCESS_KEY_ID or a profile via AWS_PROFILE). ok is false
// otherwise, meaning this provider should be skipped.
func FromEnv() (Config, bool) {
	hasCreds := os.Getenv("AWS_ACCESS_KEY_ID") != "" || os.Getenv("AWS_PROFILE") != "" || os.Getenv("AWS_ROLE_ARN") != ""
	if !hasCreds {
		return Config{}, false
	}
	region := os.Getenv("AWS_REGION")
	if strings.TrimSpace(region) == "" {
		region = "us-east-1"
	}
	return Config{Region: region, DefaultModel: "anthropic.claude-3-5-sonnet-20241022-v2:0"}, true
}

// Provider implements agent.Provider and agent.StreamingProvider against
// the Bedrock Converse and ConverseStream APIs.
type Provider struct {
	client       *bedrockruntime.Client
	defaultModel string
	logger       *obslog.Logger
}

// New constructs a Provider from cfg, resolving AWS credentials via the
// default chain. ctx is used only to load the config; it is not retained.
func New(ctx context.Context, cfg Config, logger *obslog.Logger) (*Provider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, pierr.Wrap(pierr.Adapter, err, "bedrock: failed to load AWS config")
	}
	if logger == nil {
		logger = obslog.Nop()
	}
	return &Provider{
		client:       bedrockruntime.NewFromConfig(awsCfg),
		defaultModel: cfg.DefaultModel,
		logger:       logger,
	}, nil
}

func (p *Provider) model(req chatmodel.ChatRequest) string {
	if req.Model.String() != "" {
		return req.Model.String()
	}
	return p.defaultModel
}

// Chat sends req via the Converse API.
func (p *Provider) Chat(ctx context.Context, req chatmodel.ChatRequest) (chatmodel.ChatResponse, error) {
	input, err := p.buildConverseInput(req)
	if err != nil {
		return chatmodel.ChatResponse{}, err
	}

	out, err := p.client.Converse(ctx, input)
	if err != nil {
		return chatmodel.ChatResponse{}, providers.Classify("bedrock", p.model(req), err)
	}
	return toChatResponse(out)
}

// ChatStream sends req via ConverseStream, folding Bedrock's
// content-block-start/delta/stop events into this module's event sequence.
func (p *Provider) ChatStream(ctx context.Context, req chatmodel.ChatRequest) (stream.ChatStream, error) {
	streamInput, err := p.buildConverseStreamInput(req)
	if err != nil {
		return stream.ChatStream{}, err
	}

	out, err := p.client.ConverseStream(ctx, streamInput)
	if err != nil {
		return stream.ChatStream{}, providers.Classify("bedrock", p.model(req), err)
	}

	asm := stream.NewAssembler(32)
	go p.pump(ctx, asm, out, p.model(req))

	return stream.ChatStream{Events: asm.Events(), Result: asm.Result()}, nil
}

func (p *Provider) pump(ctx context.Context, asm *stream.Assembler, out *bedrockruntime.ConverseStreamOutput, model string) {
	eventStream := out.GetStream()
	defer eventStream.Close()

	toolIndex := -1
	for event := range eventStream.Events() {
		switch ev := event.(type) {
		case *types.ConverseStreamOutputMemberContentBlockStart:
			if toolUse, ok := ev.Value.Start.(*types.ContentBlockStartMemberToolUse); ok {
				toolIndex++
				chunk := stream.Chunk{Choices: []stream.Choice{{Delta: stream.Delta{
					ToolCalls: []stream.ToolCallDelta{{
						Index:    toolIndex,
						ID:       aws.ToString(toolUse.Value.ToolUseId),
						Type:     "function",
						Function: stream.FunctionDelta{Name: aws.ToString(toolUse.Value.Name)},
					}},
				}}}}
				if feedErr := asm.Feed(ctx, chunk); feedErr != nil {
					return
				}
			}
		case *types.ConverseStreamOutputMemberContentBlockDelta:
			switch delta := ev.Value.Delta.(type) {
			case *types.ContentBlockDeltaMemberText:
				if feedErr := asm.Feed(ctx, stream.Chunk{Choices: []stream.Choice{{Delta: stream.Delta{Content: delta.Value}}}}); feedErr != nil {
					return
				}
			case *types.ContentBlockDeltaMemberToolUse:
				if delta.Value.Input == nil {
					continue
				}
				chunk := stream.Chunk{Choices: []stream.Choice{{Delta: stream.Delta{
					ToolCalls: []stream.ToolCallDelta{{Index: toolIndex, Function: stream.FunctionDelta{Arguments: *delta.Value.Input}}},
				}}}}
				if feedErr := asm.Feed(ctx, chunk); feedErr != nil {
					return
				}
			}
		case *types.ConverseStreamOutputMemberMetadata:
			if ev.Value.Usage != nil {
				usage := chatmodel.TokenUsage{
					PromptTokens:     uint64(aws.ToInt32(ev.Value.Usage.InputTokens)),
					CompletionTokens: uint64(aws.ToInt32(ev.Value.Usage.OutputTokens)),
					TotalTokens:      uint64(aws.ToInt32(ev.Value.Usage.TotalTokens)),
				}
				if feedErr := asm.Feed(ctx, stream.Chunk{Usage: &usage}); feedErr != nil {
					return
				}
			}
		case *types.ConverseStreamOutputMemberMessageStop:
			_, _ = asm.Finish(ctx)
			return
		}
	}

	if err := eventStream.Err(); err != nil {
		_ = asm.Abort(ctx, stream.ReasonProvider, providers.Classify("bedrock", model, err).Error())
		return
	}
	_, _ = asm.Finish(ctx)
}

func (p *Provider) buildConverseInput(req chatmodel.ChatRequest) (*bedrockruntime.ConverseInput, error) {
	messages, system, err := convertMessages(req.Messages)
	if err != nil {
		return nil, err
	}
	input := &bedrockruntime.ConverseInput{
		ModelId:  aws.String(p.model(req)),
		Messages: messages,
	}
	if system != "" {
		input.System = []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: system}}
	}
	if req.MaxTokens != nil {
		input.InferenceConfig = &types.InferenceConfiguration{MaxTokens: aws.Int32(int32(*req.MaxTokens))}
	}
	if len(req.Tools) > 0 {
		toolConfig, err := convertTools(req.Tools)
		if err != nil {
			return nil, err
		}
		input.ToolConfig = toolConfig
	}
	return input, nil
}

func (p *Provider) buildConverseStreamInput(req chatmodel.ChatRequest) (*bedrockruntime.ConverseStreamInput, error) {
	converse, err := p.buildConverseInput(req)
	if err != nil {
		return nil, err
	}
	return &bedrockruntime.ConverseStreamInput{
		ModelId:         converse.ModelId,
		Messages:        converse.Messages,
		System:          converse.System,
		InferenceConfig: converse.InferenceConfig,
		ToolConfig:      converse.ToolConfig,
	}, nil
}

func convertMessages(messages []chatmodel.ChatMessage) (out []types.Message, system string, err error) {
	for _, msg := range messages {
		if msg.Role == chatmodel.RoleSystem {
			system = msg.Content
			continue
		}

		var content []types.ContentBlock
		if msg.Content != "" {
			content = append(content, &types.ContentBlockMemberText{Value: msg.Content})
		}
		if msg.Role == chatmodel.RoleTool {
			content = append(content, &types.ContentBlockMemberToolResult{
				Value: types.ToolResultBlock{
					ToolUseId: aws.String(msg.ToolCallID.String()),
					Content:   []types.ToolResultContentBlock{&types.ToolResultContentBlockMemberText{Value: msg.Content}},
				},
			})
		}
		for _, call := range msg.ToolCalls {
			input, decodeErr := toDocument(call.Arguments)
			if decodeErr != nil {
				return nil, "", decodeErr
			}
			content = append(content, &types.ContentBlockMemberToolUse{
				Value: types.ToolUseBlock{
					ToolUseId: aws.String(call.ID.String()),
					Name:      aws.String(call.Name.String()),
					Input:     input,
				},
			})
		}

		role := types.ConversationRoleUser
		if msg.Role == chatmodel.RoleAssistant {
			role = types.ConversationRoleAssistant
		}
		if len(content) > 0 {
			out = append(out, types.Message{Role: role, Content: content})
		}
	}
	return out, system, nil
}

func toDocument(args any) (document.Interface, error) {
	if m, ok := args.(map[string]any); ok {
		return document.NewLazyDocument(m), nil
	}
	raw, ok := args.(json.RawMessage)
	if !ok {
		return document.NewLazyDocument(map[string]any{}), nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, pierr.Wrap(pierr.Json, err, "bedrock: decode tool_call arguments")
	}
	return document.NewLazyDocument(m), nil
}

func convertTools(tools []chatmodel.ToolSpec) (*types.ToolConfiguration, error) {
	specs := make([]types.Tool, 0, len(tools))
	for _, t := range tools {
		var schema map[string]any
		if len(t.Parameters) > 0 {
			if err := json.Unmarshal(t.Parameters, &schema); err != nil {
				return nil, pierr.Wrap(pierr.Json, err, "bedrock: decode tool %s schema", t.Name.String())
			}
		}
		specs = append(specs, &types.ToolMemberToolSpec{
			Value: types.ToolSpecification{
				Name:        aws.String(t.Name.String()),
				Description: aws.String(t.Description),
				InputSchema: &types.ToolInputSchemaMemberJson{Value: document.NewLazyDocument(schema)},
			},
		})
	}
	return &types.ToolConfiguration{Tools: specs}, nil
}

func toChatResponse(out *bedrockruntime.ConverseOutput) (chatmodel.ChatResponse, error) {
	msgOutput, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return chatmodel.ChatResponse{}, pierr.ProviderError("bedrock: response carried no message output")
	}

	var content string
	var toolCalls []chatmodel.ToolCall
	for _, block := range msgOutput.Value.Content {
		switch variant := block.(type) {
		case *types.ContentBlockMemberText:
			content += variant.Value
		case *types.ContentBlockMemberToolUse:
			var args any
			if variant.Value.Input != nil {
				_ = variant.Value.Input.UnmarshalSmithyDocument(&args)
			}
			toolCalls = append(toolCalls, chatmodel.ToolCall{
				ID:        chatmodel.MustNonEmptyString(aws.ToString(variant.Value.ToolUseId)),
				Name:      chatmodel.MustNonEmptyString(aws.ToString(variant.Value.Name)),
				Arguments: args,
			})
		}
	}

	var usage *chatmodel.TokenUsage
	if out.Usage != nil {
		usage = &chatmodel.TokenUsage{
			PromptTokens:     uint64(aws.ToInt32(out.Usage.InputTokens)),
			CompletionTokens: uint64(aws.ToInt32(out.Usage.OutputTokens)),
			TotalTokens:      uint64(aws.ToInt32(out.Usage.TotalTokens)),
		}
	}

	return chatmodel.ChatResponse{
		Assistant: chatmodel.NewAssistantMessage(content, toolCalls),
		Usage:     usage,
	}, nil
}
