package tools

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/pierr"
)

// ValidateArgs validates args against spec.Parameters, a JSON-Schema object,
// using santhosh-tekuri/jsonschema/v5. A failure is a Tool error so the
// agent loop can end the turn exactly as it would for an unknown tool name.
func ValidateArgs(spec chatmodel.ToolSpec, args any) error {
	if len(spec.Parameters) == 0 {
		return nil
	}
	schema, err := compileSchema(spec.Name.String(), spec.Parameters)
	if err != nil {
		return pierr.Wrap(pierr.Invalid, err, "compile schema for tool %s", spec.Name.String())
	}
	if err := schema.Validate(args); err != nil {
		return pierr.Wrap(pierr.Tool, err, "invalid arguments for tool %s", spec.Name.String())
	}
	return nil
}

var (
	schemaCacheMu sync.Mutex
	schemaCache   = map[string]*jsonschema.Schema{}
)

// compileSchema compiles and caches one schema per tool name. Tool specs
// are immutable after construction, so the compiled schema never goes
// stale for the lifetime of a ToolSet.
func compileSchema(toolName string, raw json.RawMessage) (*jsonschema.Schema, error) {
	schemaCacheMu.Lock()
	defer schemaCacheMu.Unlock()

	if s, ok := schemaCache[toolName]; ok {
		return s, nil
	}

	resourceURL := fmt.Sprintf("mem://tools/%s.json", toolName)
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceURL, strings.NewReader(string(raw))); err != nil {
		return nil, err
	}
	schema, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, err
	}
	schemaCache[toolName] = schema
	return schema, nil
}
