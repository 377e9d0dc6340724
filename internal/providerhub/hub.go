// Package providerhub maps ProviderId to a concrete provider implementation,
// and constructs the set of adapters this module ships from the process
// environment.
package providerhub

import (
	"context"
	"sync"

	"github.com/haasonsaas/pi-agent-core/internal/agent"
	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/obslog"
	"github.com/haasonsaas/pi-agent-core/internal/pierr"
	"github.com/haasonsaas/pi-agent-core/internal/providers/anthropic"
	"github.com/haasonsaas/pi-agent-core/internal/providers/bedrock"
	"github.com/haasonsaas/pi-agent-core/internal/providers/google"
	"github.com/haasonsaas/pi-agent-core/internal/providers/openai"
)

// ChatProvider is the capability a hub entry must support: non-streaming and
// streaming chat, the union this module's four adapters all implement.
type ChatProvider interface {
	agent.Provider
	agent.StreamingProvider
}

// Hub is a mapping from ProviderId to a shared ChatProvider reference.
// Insert overwrites by key; Get returns a shared reference or none.
type Hub struct {
	mu        sync.RWMutex
	providers map[string]ChatProvider
}

// New returns an empty Hub.
func New() *Hub {
	return &Hub{providers: make(map[string]ChatProvider)}
}

// Insert registers provider under id, overwriting any existing entry.
func (h *Hub) Insert(id chatmodel.ProviderId, provider ChatProvider) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.providers[id.String()] = provider
}

// Get returns the provider registered under id, or ok=false if none is.
func (h *Hub) Get(id chatmodel.ProviderId) (ChatProvider, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.providers[id.String()]
	return p, ok
}

// FromEnv constructs a Hub and registers every adapter whose required
// environment variables are present, skipping the rest and logging which
// providers were registered. This generalizes each adapter's own FromEnv
// into a single hub-builder, per this module's provider-hub construction
// convention.
func FromEnv(ctx context.Context, logger *obslog.Logger) *Hub {
	if logger == nil {
		logger = obslog.Nop()
	}
	hub := New()

	if cfg, ok := anthropic.FromEnv(); ok {
		hub.Insert(chatmodel.MustNonEmptyString("anthropic"), anthropic.New(cfg, logger))
		logger.Debug(ctx, "providerhub: registered provider", "provider", "anthropic")
	}
	if cfg, ok := openai.FromEnv(); ok {
		hub.Insert(chatmodel.MustNonEmptyString("openai"), openai.New(cfg, logger))
		logger.Debug(ctx, "providerhub: registered provider", "provider", "openai")
	}
	if cfg, ok := google.FromEnv(); ok {
		if p, err := google.New(ctx, cfg, logger); err != nil {
			logger.Error(ctx, "providerhub: failed to construct google provider", "error", err)
		} else {
			hub.Insert(chatmodel.MustNonEmptyString("google"), p)
			logger.Debug(ctx, "providerhub: registered provider", "provider", "google")
		}
	}
	if cfg, ok := bedrock.FromEnv(); ok {
		if p, err := bedrock.New(ctx, cfg, logger); err != nil {
			logger.Error(ctx, "providerhub: failed to construct bedrock provider", "error", err)
		} else {
			hub.Insert(chatmodel.MustNonEmptyString("bedrock"), p)
			logger.Debug(ctx, "providerhub: registered provider", "provider", "bedrock")
		}
	}

	return hub
}

// Resolve is a convenience wrapper returning an Invalid error with the
// conventional message shape when id is unregistered.
func (h *Hub) Resolve(id chatmodel.ProviderId) (ChatProvider, error) {
	p, ok := h.Get(id)
	if !ok {
		return nil, pierr.InvalidError("unknown provider %s", id.String())
	}
	return p, nil
}
