package google

import (
	"encoding/json"
	"testing"

	"google.golang.org/genai"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
)

func TestConvertMessagesExtractsSystemAndMapsRoles(t *testing.T) {
	in := []chatmodel.ChatMessage{
		chatmodel.NewSystemMessage("be terse"),
		chatmodel.NewUserMessage("hi"),
		chatmodel.NewAssistantMessage("hello", nil),
	}

	out, system, err := convertMessages(in)
	if err != nil {
		t.Fatalf("convertMessages() error = %v", err)
	}
	if system != "be terse" {
		t.Fatalf("system = %q, want %q", system, "be terse")
	}
	if len(out) != 2 {
		t.Fatalf("got %d contents, want 2", len(out))
	}
	if out[1].Role != genai.RoleModel {
		t.Fatalf("assistant role = %q, want %q", out[1].Role, genai.RoleModel)
	}
}

func TestConvertMessagesToolCallCarriesArgsMap(t *testing.T) {
	in := []chatmodel.ChatMessage{
		chatmodel.NewAssistantMessage("", []chatmodel.ToolCall{
			{ID: chatmodel.MustNonEmptyString("call_1"), Name: chatmodel.MustNonEmptyString("echo"), Arguments: json.RawMessage(`{"text":"hi"}`)},
		}),
	}

	out, _, err := convertMessages(in)
	if err != nil {
		t.Fatalf("convertMessages() error = %v", err)
	}
	if len(out[0].Parts) != 1 || out[0].Parts[0].FunctionCall == nil {
		t.Fatal("expected a single FunctionCall part")
	}
	if out[0].Parts[0].FunctionCall.Args["text"] != "hi" {
		t.Fatalf("Args[text] = %v, want hi", out[0].Parts[0].FunctionCall.Args["text"])
	}
}

func TestConvertToolsBuildsFunctionDeclarations(t *testing.T) {
	tools := []chatmodel.ToolSpec{
		{Name: chatmodel.MustNonEmptyString("echo"), Description: "echoes input"},
	}

	got, err := convertTools(tools)
	if err != nil {
		t.Fatalf("convertTools() error = %v", err)
	}
	if len(got) != 1 || len(got[0].FunctionDeclarations) != 1 {
		t.Fatal("expected one tool with one function declaration")
	}
	if got[0].FunctionDeclarations[0].Name != "echo" {
		t.Fatalf("Name = %q, want echo", got[0].FunctionDeclarations[0].Name)
	}
}

func TestToChatResponseSynthesizesToolCallIDs(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{FunctionCall: &genai.FunctionCall{Name: "echo", Args: map[string]any{"text": "hi"}}},
			}},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount: 10, CandidatesTokenCount: 5, TotalTokenCount: 15,
		},
	}

	got, err := toChatResponse(resp)
	if err != nil {
		t.Fatalf("toChatResponse() error = %v", err)
	}
	if len(got.Assistant.ToolCalls) != 1 {
		t.Fatalf("got %d tool calls, want 1", len(got.Assistant.ToolCalls))
	}
	if got.Assistant.ToolCalls[0].ID.String() == "" {
		t.Fatal("expected a synthesized, non-empty tool call ID")
	}
	if got.Usage.TotalTokens != 15 {
		t.Fatalf("TotalTokens = %d, want 15", got.Usage.TotalTokens)
	}
}

func TestItoaMatchesDecimalRepresentation(t *testing.T) {
	tests := map[int]string{0: "0", 1: "1", 9: "9", 10: "10", 42: "42", 100: "100"}
	for n, want := range tests {
		if got := itoa(n); got != want {
			t.Errorf("itoa(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFromEnvFallsBackToGenAIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_GENAI_API_KEY", "")
	if _, ok := FromEnv(); ok {
		t.Fatal("FromEnv() ok = true without any API key")
	}

	t.Setenv("GOOGLE_GENAI_API_KEY", "test-key")
	cfg, ok := FromEnv()
	if !ok {
		t.Fatal("FromEnv() ok = false with GOOGLE_GENAI_API_KEY present")
	}
	if cfg.APIKey != "test-key" {
		t.Fatalf("APIKey = %q, want test-key", cfg.APIKey)
	}
}
