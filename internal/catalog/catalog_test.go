package catalog

import (
	"testing"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
)

func TestFindReturnsExactProviderAndIDMatch(t *testing.T) {
	c := Default()
	m, ok := c.Find(chatmodel.MustNonEmptyString("openai"), chatmodel.MustNonEmptyString("gpt-4o"))
	if !ok {
		t.Fatal("Find: expected a match for openai:gpt-4o")
	}
	if m.Name != "GPT-4o" {
		t.Fatalf("Name = %q, want GPT-4o", m.Name)
	}
}

func TestGetReturnsInvalidOnMiss(t *testing.T) {
	c := Default()
	_, err := c.Get(chatmodel.MustNonEmptyString("nope"), chatmodel.MustNonEmptyString("x"))
	if err == nil {
		t.Fatal("expected Invalid error for an unknown provider:model pair")
	}
}

func TestExtendAppendsWithoutDeduplicating(t *testing.T) {
	c := New()
	model := chatmodel.Model{ID: chatmodel.MustNonEmptyString("m"), Provider: chatmodel.MustNonEmptyString("p")}
	c.Extend([]chatmodel.Model{model, model})
	if len(c.All()) != 2 {
		t.Fatalf("All() length = %d, want 2 (no dedup)", len(c.All()))
	}
}

func TestAllReturnsACopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].Name = "mutated"
	again, _ := c.Find(all[0].Provider, all[0].ID)
	if again.Name == "mutated" {
		t.Fatal("All() must return a defensive copy, not the internal slice")
	}
}
