package tools

import (
	"context"
	"testing"
)

func TestEchoReturnsTextArgument(t *testing.T) {
	result, err := Echo{}.Execute(context.Background(), map[string]any{"text": "hi"}, ToolContext{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Content != "hi" {
		t.Fatalf("Content = %q, want hi", result.Content)
	}
}

func TestEchoRejectsNonObjectArgs(t *testing.T) {
	if _, err := (Echo{}).Execute(context.Background(), "not an object", ToolContext{}); err == nil {
		t.Fatal("expected error for non-object arguments")
	}
}

func TestValidateArgsRejectsMissingRequiredField(t *testing.T) {
	spec := Echo{}.Spec()
	if err := ValidateArgs(spec, map[string]any{}); err == nil {
		t.Fatal("expected validation error for missing required field \"text\"")
	}
}

func TestValidateArgsAcceptsWellFormedArgs(t *testing.T) {
	spec := Echo{}.Spec()
	if err := ValidateArgs(spec, map[string]any{"text": "hi"}); err != nil {
		t.Fatalf("ValidateArgs: %v", err)
	}
}
