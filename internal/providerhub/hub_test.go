package providerhub

import (
	"context"
	"testing"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/stream"
)

type stubProvider struct{}

func (stubProvider) Chat(ctx context.Context, req chatmodel.ChatRequest) (chatmodel.ChatResponse, error) {
	return chatmodel.ChatResponse{Assistant: chatmodel.NewAssistantMessage("ok", nil)}, nil
}

func (stubProvider) ChatStream(ctx context.Context, req chatmodel.ChatRequest) (stream.ChatStream, error) {
	return stream.ChatStream{}, nil
}

func TestInsertOverwritesByKey(t *testing.T) {
	h := New()
	id := chatmodel.MustNonEmptyString("anthropic")

	h.Insert(id, stubProvider{})
	first, ok := h.Get(id)
	if !ok {
		t.Fatal("Get() ok = false after Insert")
	}

	replacement := &scriptedChatProvider{}
	h.Insert(id, replacement)
	second, ok := h.Get(id)
	if !ok {
		t.Fatal("Get() ok = false after second Insert")
	}
	if first == nil || second == nil {
		t.Fatal("expected non-nil providers")
	}
	if second != ChatProvider(replacement) {
		t.Fatal("second Insert did not overwrite the first provider")
	}
}

func TestGetReportsMissingProvider(t *testing.T) {
	h := New()
	if _, ok := h.Get(chatmodel.MustNonEmptyString("nope")); ok {
		t.Fatal("Get() ok = true for unregistered provider")
	}
}

func TestResolveReturnsInvalidOnMiss(t *testing.T) {
	h := New()
	_, err := h.Resolve(chatmodel.MustNonEmptyString("nope"))
	if err == nil {
		t.Fatal("expected an error resolving an unregistered provider")
	}
}

func TestFromEnvSkipsUnconfiguredProviders(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_GENAI_API_KEY", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_ROLE_ARN", "")

	h := FromEnv(context.Background(), nil)
	if _, ok := h.Get(chatmodel.MustNonEmptyString("anthropic")); ok {
		t.Fatal("expected anthropic to be skipped without ANTHROPIC_API_KEY")
	}
}

func TestFromEnvRegistersConfiguredProviders(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GOOGLE_GENAI_API_KEY", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_ROLE_ARN", "")

	h := FromEnv(context.Background(), nil)
	if _, ok := h.Get(chatmodel.MustNonEmptyString("anthropic")); !ok {
		t.Fatal("expected anthropic to be registered with ANTHROPIC_API_KEY set")
	}
}
