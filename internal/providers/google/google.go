// Package google adapts google.golang.org/genai to this module's
// agent.Provider and agent.StreamingProvider ports.
package google

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/obslog"
	"github.com/haasonsaas/pi-agent-core/internal/pierr"
	"github.com/haasonsaas/pi-agent-core/internal/providers"
	"github.com/haasonsaas/pi-agent-core/internal/stream"
)

// Config holds the Google-specific construction parameters.
type Config struct {
	APIKey       string
	DefaultModel string
}

// FromEnv builds a Config from GOOGLE_API_KEY (or GOOGLE_GENAI_API_KEY). ok
// is false when no API key is present.
func FromEnv() (Config, bool) {
	key := os.Getenv("GOOGLE_API_KEY")
	if strings.TrimSpace(key) == "" {
		key = os.Getenv("GOOGLE_GENAI_API_KEY")
	}
	if strings.TrimSpace(key) == "" {
		return Config{}, false
	}
	return Config{APIKey: key, DefaultModel: "gemini-1.5-pro-latest"}, true
}

// Provider implements agent.Provider and agent.StreamingProvider against
// the Gemini GenerateContent API.
type Provider struct {
	client       *genai.Client
	defaultModel string
	logger       *obslog.Logger
}

// New constructs a Provider from cfg. logger may be nil. ctx is used only
// to establish the underlying client; it is not retained.
func New(ctx context.Context, cfg Config, logger *obslog.Logger) (*Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, pierr.Wrap(pierr.Adapter, err, "google: failed to create client")
	}
	if logger == nil {
		logger = obslog.Nop()
	}
	return &Provider{client: client, defaultModel: cfg.DefaultModel, logger: logger}, nil
}

func (p *Provider) model(req chatmodel.ChatRequest) string {
	if req.Model.String() != "" {
		return req.Model.String()
	}
	return p.defaultModel
}

// Chat sends req as a single, non-streaming GenerateContent call.
func (p *Provider) Chat(ctx context.Context, req chatmodel.ChatRequest) (chatmodel.ChatResponse, error) {
	contents, config, err := p.buildRequest(req)
	if err != nil {
		return chatmodel.ChatResponse{}, err
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model(req), contents, config)
	if err != nil {
		return chatmodel.ChatResponse{}, providers.Classify("google", p.model(req), err)
	}
	return toChatResponse(resp)
}

// ChatStream wraps GenerateContentStream. Gemini's function-call parts
// arrive whole rather than fragment-by-fragment, so each is folded into the
// assembler as a single-shot ToolCallDelta at a synthesized index.
func (p *Provider) ChatStream(ctx context.Context, req chatmodel.ChatRequest) (stream.ChatStream, error) {
	contents, config, err := p.buildRequest(req)
	if err != nil {
		return stream.ChatStream{}, err
	}

	asm := stream.NewAssembler(32)
	go p.pump(ctx, asm, contents, config, p.model(req))

	return stream.ChatStream{Events: asm.Events(), Result: asm.Result()}, nil
}

func (p *Provider) pump(ctx context.Context, asm *stream.Assembler, contents []*genai.Content, config *genai.GenerateContentConfig, model string) {
	index := 0
	for resp, err := range p.client.Models.GenerateContentStream(ctx, model, contents, config) {
		if err != nil {
			_ = asm.Abort(ctx, stream.ReasonProvider, providers.Classify("google", model, err).Error())
			return
		}
		chunk, nextIndex := toChunk(resp, index)
		index = nextIndex
		if feedErr := asm.Feed(ctx, chunk); feedErr != nil {
			return
		}
	}
	_, _ = asm.Finish(ctx)
}

// toChunk folds one GenerateContentResponse into the assembler's Chunk
// shape. Each function call is emitted whole: the synthesized index is
// bumped so that multiple function calls in one response don't collide.
func toChunk(resp *genai.GenerateContentResponse, nextIndex int) (stream.Chunk, int) {
	var out stream.Chunk
	if resp.UsageMetadata != nil {
		out.Usage = &chatmodel.TokenUsage{
			PromptTokens:     uint64(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: uint64(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      uint64(resp.UsageMetadata.TotalTokenCount),
		}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return out, nextIndex
	}

	var delta stream.Delta
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			delta.Content += part.Text
		}
		if part.FunctionCall != nil {
			args, _ := json.Marshal(part.FunctionCall.Args)
			delta.ToolCalls = append(delta.ToolCalls, stream.ToolCallDelta{
				Index:    nextIndex,
				ID:       syntheticCallID(nextIndex),
				Type:     "function",
				Function: stream.FunctionDelta{Name: part.FunctionCall.Name, Arguments: string(args)},
			})
			nextIndex++
		}
	}
	out.Choices = []stream.Choice{{Delta: delta}}
	return out, nextIndex
}

func syntheticCallID(index int) string {
	return "google_call_" + itoa(index)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func (p *Provider) buildRequest(req chatmodel.ChatRequest) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	contents, system, err := convertMessages(req.Messages)
	if err != nil {
		return nil, nil, err
	}

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	if req.MaxTokens != nil {
		config.MaxOutputTokens = int32(*req.MaxTokens)
	}
	if req.Temperature != nil {
		t := float32(*req.Temperature)
		config.Temperature = &t
	}
	if len(req.Tools) > 0 {
		tools, err := convertTools(req.Tools)
		if err != nil {
			return nil, nil, err
		}
		config.Tools = tools
	}
	return contents, config, nil
}

func convertMessages(messages []chatmodel.ChatMessage) (out []*genai.Content, system string, err error) {
	for _, msg := range messages {
		if msg.Role == chatmodel.RoleSystem {
			system = msg.Content
			continue
		}

		content := &genai.Content{}
		switch msg.Role {
		case chatmodel.RoleAssistant:
			content.Role = genai.RoleModel
		default:
			content.Role = genai.RoleUser
		}

		if msg.Content != "" {
			content.Parts = append(content.Parts, &genai.Part{Text: msg.Content})
		}
		for _, call := range msg.ToolCalls {
			args, decodeErr := toArgsMap(call.Arguments)
			if decodeErr != nil {
				return nil, "", decodeErr
			}
			content.Parts = append(content.Parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{Name: call.Name.String(), Args: args},
			})
		}
		if msg.Role == chatmodel.RoleTool {
			var response map[string]any
			if json.Unmarshal([]byte(msg.Content), &response) != nil {
				response = map[string]any{"result": msg.Content}
			}
			content.Parts = append(content.Parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{Name: msg.ToolCallID.String(), Response: response},
			})
		}
		if len(content.Parts) > 0 {
			out = append(out, content)
		}
	}
	return out, system, nil
}

func toArgsMap(args any) (map[string]any, error) {
	if m, ok := args.(map[string]any); ok {
		return m, nil
	}
	raw, ok := args.(json.RawMessage)
	if !ok {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, pierr.Wrap(pierr.Json, err, "google: decode tool_call arguments")
	}
	return m, nil
}

func convertTools(tools []chatmodel.ToolSpec) ([]*genai.Tool, error) {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		var schema *genai.Schema
		if len(t.Parameters) > 0 {
			if err := json.Unmarshal(t.Parameters, &schema); err != nil {
				return nil, pierr.Wrap(pierr.Json, err, "google: decode tool %s schema", t.Name.String())
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name.String(),
			Description: t.Description,
			Parameters:  schema,
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}, nil
}

func toChatResponse(resp *genai.GenerateContentResponse) (chatmodel.ChatResponse, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return chatmodel.ChatResponse{}, pierr.ProviderError("google: response carried no candidates")
	}

	var content string
	var toolCalls []chatmodel.ToolCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			content += part.Text
		}
		if part.FunctionCall != nil {
			toolCalls = append(toolCalls, chatmodel.ToolCall{
				ID:        chatmodel.MustNonEmptyString(syntheticCallID(len(toolCalls))),
				Name:      chatmodel.MustNonEmptyString(part.FunctionCall.Name),
				Arguments: part.FunctionCall.Args,
			})
		}
	}

	var usage *chatmodel.TokenUsage
	if resp.UsageMetadata != nil {
		usage = &chatmodel.TokenUsage{
			PromptTokens:     uint64(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: uint64(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      uint64(resp.UsageMetadata.TotalTokenCount),
		}
	}

	return chatmodel.ChatResponse{
		Assistant: chatmodel.NewAssistantMessage(content, toolCalls),
		Usage:     usage,
	}, nil
}
