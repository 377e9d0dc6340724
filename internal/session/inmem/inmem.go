// Package inmem provides a sync.RWMutex-guarded, in-process session.Store
// implementation.
package inmem

import (
	"sync"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/session"
)

// Store is a map-backed session.Store. Save deep-copies the transcript in;
// Load deep-copies it out, so callers never alias the store's internal
// slice.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]session.Transcript
}

// New returns an empty Store.
func New() *Store {
	return &Store{sessions: make(map[string]session.Transcript)}
}

// Load returns the transcript for id, or ok=false if id is unknown.
func (s *Store) Load(id chatmodel.SessionId) (session.Transcript, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.sessions[id.String()]
	if !ok {
		return session.Transcript{}, false, nil
	}
	return cloneTranscript(t), true, nil
}

// Save replaces the transcript stored under id.
func (s *Store) Save(id chatmodel.SessionId, transcript session.Transcript) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id.String()] = cloneTranscript(transcript)
	return nil
}

func cloneTranscript(t session.Transcript) session.Transcript {
	out := make([]chatmodel.ChatMessage, len(t.Messages))
	for i, msg := range t.Messages {
		clone := msg
		if len(msg.ToolCalls) > 0 {
			clone.ToolCalls = append([]chatmodel.ToolCall{}, msg.ToolCalls...)
		}
		out[i] = clone
	}
	return session.Transcript{Messages: out}
}
