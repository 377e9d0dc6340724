package catalog

import "github.com/haasonsaas/pi-agent-core/internal/chatmodel"

// Default returns a Catalog pre-populated with one representative Model per
// wired provider adapter, with realistic context-window, max-token, and
// per-million cost figures.
func Default() *Catalog {
	return New(
		chatmodel.Model{
			ID:            chatmodel.MustNonEmptyString("claude-3-5-sonnet-latest"),
			Name:          "Claude 3.5 Sonnet",
			Api:           chatmodel.ApiAnthropicMessages,
			Provider:      chatmodel.MustNonEmptyString("anthropic"),
			Reasoning:     false,
			Input:         []chatmodel.InputModality{chatmodel.InputText, chatmodel.InputImage},
			Cost:          chatmodel.TokenCost{Input: 3.0, Output: 15.0, CacheRead: 0.3, CacheWrite: 3.75},
			ContextWindow: 200_000,
			MaxTokens:     8_192,
		},
		chatmodel.Model{
			ID:            chatmodel.MustNonEmptyString("gpt-4o"),
			Name:          "GPT-4o",
			Api:           chatmodel.ApiOpenAiCompletions,
			Provider:      chatmodel.MustNonEmptyString("openai"),
			Reasoning:     false,
			Input:         []chatmodel.InputModality{chatmodel.InputText, chatmodel.InputImage, chatmodel.InputAudio},
			Cost:          chatmodel.TokenCost{Input: 2.5, Output: 10.0},
			ContextWindow: 128_000,
			MaxTokens:     16_384,
		},
		chatmodel.Model{
			ID:            chatmodel.MustNonEmptyString("gemini-1.5-pro-latest"),
			Name:          "Gemini 1.5 Pro",
			Api:           chatmodel.ApiGoogleGenerativeAi,
			Provider:      chatmodel.MustNonEmptyString("google"),
			Reasoning:     false,
			Input:         []chatmodel.InputModality{chatmodel.InputText, chatmodel.InputImage, chatmodel.InputAudio},
			Cost:          chatmodel.TokenCost{Input: 1.25, Output: 5.0},
			ContextWindow: 2_097_152,
			MaxTokens:     8_192,
		},
		chatmodel.Model{
			ID:            chatmodel.MustNonEmptyString("anthropic.claude-3-5-sonnet-20241022-v2:0"),
			Name:          "Claude 3.5 Sonnet (Bedrock)",
			Api:           chatmodel.ApiAnthropicMessages,
			Provider:      chatmodel.MustNonEmptyString("bedrock"),
			Reasoning:     false,
			Input:         []chatmodel.InputModality{chatmodel.InputText, chatmodel.InputImage},
			Cost:          chatmodel.TokenCost{Input: 3.0, Output: 15.0},
			ContextWindow: 200_000,
			MaxTokens:     8_192,
		},
	)
}
