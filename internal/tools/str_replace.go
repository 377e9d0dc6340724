package tools

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/pierr"
)

// StrReplace is a representative edit tool exercising testable property 9:
// a find/replace only applies when find occurs in the file exactly once.
// It operates on an in-memory file map rather than the real filesystem —
// the concrete filesystem tool is an external collaborator out of scope
// for this module.
type StrReplace struct {
	mu    sync.Mutex
	files map[string]string
}

// NewStrReplace seeds the tool with an initial set of file contents.
func NewStrReplace(files map[string]string) *StrReplace {
	seeded := make(map[string]string, len(files))
	for k, v := range files {
		seeded[k] = v
	}
	return &StrReplace{files: seeded}
}

var strReplaceSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"path": {"type": "string"},
		"find": {"type": "string"},
		"replace": {"type": "string"}
	},
	"required": ["path", "find", "replace"]
}`)

func (t *StrReplace) Spec() chatmodel.ToolSpec {
	return chatmodel.ToolSpec{
		Name:        chatmodel.MustNonEmptyString("str_replace"),
		Description: "Replaces a unique substring in a file. Fails if find is not found exactly once.",
		Parameters:  strReplaceSchema,
	}
}

func (t *StrReplace) Execute(_ context.Context, args any, _ ToolContext) (ToolResult, error) {
	m, ok := args.(map[string]any)
	if !ok {
		return ToolResult{}, pierr.ToolError("str_replace: arguments must be an object")
	}
	path, _ := m["path"].(string)
	find, _ := m["find"].(string)
	replace, _ := m["replace"].(string)

	t.mu.Lock()
	defer t.mu.Unlock()

	content, ok := t.files[path]
	if !ok {
		return ToolResult{}, pierr.ToolError("str_replace: unknown file %q", path)
	}

	n := strings.Count(content, find)
	if n != 1 {
		return ToolResult{}, pierr.ToolError("str_replace: find string occurs %d times in %q, want exactly 1", n, path)
	}

	t.files[path] = strings.Replace(content, find, replace, 1)
	return ToolResult{Content: "replaced 1 occurrence in " + path}, nil
}

// File returns the current contents of path, for test assertions.
func (t *StrReplace) File(path string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.files[path]
	return v, ok
}
