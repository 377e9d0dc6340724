package chatmodel

import "encoding/json"

// ToolSpec describes a tool's name, purpose, and JSON-Schema parameter
// shape to a provider. ToolSpecs are immutable after construction.
type ToolSpec struct {
	Name        ToolName
	Description string
	Parameters  json.RawMessage // JSON-Schema object
}
