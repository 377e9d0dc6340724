package chatmodel

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/haasonsaas/pi-agent-core/internal/pierr"
)

// SessionId is an opaque 128-bit session identifier with a textual form.
type SessionId struct {
	id uuid.UUID
}

// NewSessionId generates a fresh random (v4) SessionId.
func NewSessionId() SessionId {
	return SessionId{id: uuid.New()}
}

// ParseSessionId parses s (expected to be a UUID string) into a SessionId.
func ParseSessionId(s string) (SessionId, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return SessionId{}, pierr.Wrap(pierr.Invalid, err, "parse session id %q", s)
	}
	return SessionId{id: id}, nil
}

// String returns the textual UUID form.
func (s SessionId) String() string { return s.id.String() }

func (s SessionId) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.id.String())
}

func (s *SessionId) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return pierr.Wrap(pierr.Json, err, "decode SessionId")
	}
	parsed, err := ParseSessionId(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
