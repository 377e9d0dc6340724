package chatmodel

import (
	"encoding/json"
	"strings"

	"github.com/haasonsaas/pi-agent-core/internal/pierr"
)

// NonEmptyString wraps a string that is guaranteed, at construction time, to
// contain at least one non-whitespace character. It is used for ModelId,
// ProviderId, ToolName, and ToolCallId throughout this module.
type NonEmptyString struct {
	value string
}

// NewNonEmptyString validates s and returns a NonEmptyString, or an Invalid
// error if s is empty after trimming.
func NewNonEmptyString(s string) (NonEmptyString, error) {
	if strings.TrimSpace(s) == "" {
		return NonEmptyString{}, pierr.InvalidError("value must not be empty")
	}
	return NonEmptyString{value: s}, nil
}

// MustNonEmptyString is NewNonEmptyString for callers (tests, static
// literals) that already know s is non-empty; it panics otherwise.
func MustNonEmptyString(s string) NonEmptyString {
	v, err := NewNonEmptyString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the wrapped value.
func (n NonEmptyString) String() string { return n.value }

// MarshalJSON serializes transparently as the inner string.
func (n NonEmptyString) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.value)
}

// UnmarshalJSON decodes the inner string and re-validates the invariant.
func (n *NonEmptyString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return pierr.Wrap(pierr.Json, err, "decode NonEmptyString")
	}
	v, err := NewNonEmptyString(s)
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// ModelId, ProviderId, ToolName, and ToolCallId are aliases of NonEmptyString
// so call sites read naturally; they share NonEmptyString's single
// construction invariant rather than each needing their own.
type (
	ModelId    = NonEmptyString
	ProviderId = NonEmptyString
	ToolName   = NonEmptyString
	ToolCallId = NonEmptyString
)
