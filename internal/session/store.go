// Package session defines the SessionStore port and the Transcript it
// persists; concrete implementations live in session/inmem and
// session/sqlstore.
package session

import "github.com/haasonsaas/pi-agent-core/internal/chatmodel"

// Transcript is the persisted unit: the ordered message history for one
// session.
type Transcript struct {
	Messages []chatmodel.ChatMessage
}

// Store is the session-persistence port. Load returns ok=false for an
// unknown id without an error. Save must be atomic against concurrent
// readers: a reader never observes a partially written transcript.
type Store interface {
	Load(id chatmodel.SessionId) (Transcript, bool, error)
	Save(id chatmodel.SessionId, transcript Transcript) error
}
