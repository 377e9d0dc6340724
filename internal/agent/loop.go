// Package agent implements the bounded agent loop: the turn-based state
// machine that alternates provider calls and sequential tool executions
// over a growing transcript.
package agent

import (
	"context"
	"time"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/obslog"
	"github.com/haasonsaas/pi-agent-core/internal/pierr"
	"github.com/haasonsaas/pi-agent-core/internal/tools"
)

// Config holds the per-run configuration for a Loop.
type Config struct {
	Model        chatmodel.ModelId
	SystemPrompt string // empty means no system prompt is injected
	MaxSteps     int
	Temperature  *float64
	MaxTokens    *int
}

// DefaultMaxSteps bounds a run when Config.MaxSteps is left at zero.
const DefaultMaxSteps = 32

// Loop drives a Provider and a ToolSet to quiescence over a caller-owned
// transcript. A Loop is reusable across runs; it holds no per-run state of
// its own.
type Loop struct {
	provider Provider
	toolset  *tools.ToolSet
	cfg      Config
	logger   *obslog.Logger
}

// New builds a Loop. logger may be nil, in which case logging is a no-op.
func New(provider Provider, toolset *tools.ToolSet, cfg Config, logger *obslog.Logger) *Loop {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if logger == nil {
		logger = obslog.Nop()
	}
	return &Loop{provider: provider, toolset: toolset, cfg: cfg, logger: logger}
}

// Run drives one user input to quiescence, mutating transcript by appending
// only. See spec §4.3 for the exact ordering and error semantics.
func (l *Loop) Run(ctx context.Context, transcript *[]chatmodel.ChatMessage, userInput string, toolCtx tools.ToolContext) error {
	if len(*transcript) == 0 && l.cfg.SystemPrompt != "" {
		*transcript = append(*transcript, chatmodel.NewSystemMessage(l.cfg.SystemPrompt))
	}
	*transcript = append(*transcript, chatmodel.NewUserMessage(userInput))

	for step := 0; step < l.cfg.MaxSteps; step++ {
		l.logger.Debug(ctx, "agent turn", "state", StateAwaitingAssistant, "step", step)

		req := chatmodel.ChatRequest{
			Model:       l.cfg.Model,
			Messages:    append([]chatmodel.ChatMessage(nil), (*transcript)...),
			Tools:       l.toolset.Specs(),
			Temperature: l.cfg.Temperature,
			MaxTokens:   l.cfg.MaxTokens,
		}

		resp, err := l.provider.Chat(ctx, req)
		if err != nil {
			return err
		}
		if !resp.Assistant.IsAssistant() {
			return pierr.ProviderError("provider returned non-assistant message")
		}

		*transcript = append(*transcript, resp.Assistant)

		if len(resp.Assistant.ToolCalls) == 0 {
			l.logger.Debug(ctx, "agent turn", "state", StateDone, "step", step)
			return nil
		}

		l.logger.Debug(ctx, "agent turn", "state", StateExecutingTools, "step", step, "tool_calls", len(resp.Assistant.ToolCalls))
		if err := l.executeToolsSequentially(ctx, transcript, resp.Assistant.ToolCalls, toolCtx); err != nil {
			return err
		}
	}

	return pierr.ProviderError("max_steps reached")
}

// executeToolsSequentially runs each tool call in order, appending a Tool
// message after each one. No parallelism: later calls may observe earlier
// calls' side effects through toolCtx.
func (l *Loop) executeToolsSequentially(ctx context.Context, transcript *[]chatmodel.ChatMessage, calls []chatmodel.ToolCall, toolCtx tools.ToolContext) error {
	for _, call := range calls {
		tool, ok := l.toolset.Get(call.Name.String())
		if !ok {
			return pierr.ToolError("unknown tool: %s", call.Name.String())
		}

		if err := tools.ValidateArgs(tool.Spec(), call.Arguments); err != nil {
			return err
		}

		start := time.Now()
		result, err := tool.Execute(ctx, call.Arguments, toolCtx)
		durationMs := time.Since(start).Milliseconds()
		if err != nil {
			l.logger.Debug(ctx, "tool call failed", "tool", call.Name.String(), "duration_ms", durationMs, "is_error", true)
			return err
		}
		l.logger.Debug(ctx, "tool call completed", "tool", call.Name.String(), "duration_ms", durationMs, "is_error", false)

		*transcript = append(*transcript, chatmodel.NewToolMessage(call.ID, result.Content))
	}
	return nil
}
