package obslog

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{name: "json format", config: Config{Level: "info", Format: "json"}},
		{name: "text format", config: Config{Level: "debug", Format: "text"}},
		{name: "defaults", config: Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.config)
			if l == nil || l.logger == nil {
				t.Fatal("New() returned an incomplete logger")
			}
		})
	}
}

func TestRedactsApiKeyFromMessage(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: "json", Output: &buf})

	l.Info(context.Background(), "provider request", "api_key", "sk-ant-"+strings.Repeat("a", 100))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if got, _ := record["api_key"].(string); !strings.Contains(got, "[REDACTED]") {
		t.Fatalf("expected api_key to be redacted, got %q", got)
	}
}

func TestContextCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Format: "json", Output: &buf})

	ctx := context.WithValue(context.Background(), SessionIDKey, "sess-123")
	l.Info(ctx, "turn started")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if record["session_id"] != "sess-123" {
		t.Fatalf("expected session_id=sess-123, got %v", record["session_id"])
	}
}

func TestNopDiscardsOutput(t *testing.T) {
	l := Nop()
	l.Error(context.Background(), "should not panic", "err", "boom")
}
