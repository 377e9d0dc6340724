// Package catalog holds the immutable collection of Model descriptors the
// core resolves provider/model pairs against.
package catalog

import (
	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/pierr"
)

// Catalog is a linear collection of Model descriptors. Lookup is O(n);
// callers needing scale should index externally.
type Catalog struct {
	models []chatmodel.Model
}

// New builds a Catalog seeded with the given models, in order.
func New(models ...chatmodel.Model) *Catalog {
	c := &Catalog{}
	c.models = append(c.models, models...)
	return c
}

// All returns every model currently in the catalog, in insertion order.
func (c *Catalog) All() []chatmodel.Model {
	out := make([]chatmodel.Model, len(c.models))
	copy(out, c.models)
	return out
}

// Find returns the first model matching provider and id exactly.
func (c *Catalog) Find(provider chatmodel.ProviderId, id chatmodel.ModelId) (chatmodel.Model, bool) {
	for _, m := range c.models {
		if m.Provider == provider && m.ID == id {
			return m, true
		}
	}
	return chatmodel.Model{}, false
}

// Get is Find but returns an Invalid error instead of a zero value on miss.
func (c *Catalog) Get(provider chatmodel.ProviderId, id chatmodel.ModelId) (chatmodel.Model, error) {
	m, ok := c.Find(provider, id)
	if !ok {
		return chatmodel.Model{}, pierr.InvalidError("unknown model %s:%s", provider.String(), id.String())
	}
	return m, nil
}

// Extend appends models to the catalog without deduplicating against what's
// already present.
func (c *Catalog) Extend(models []chatmodel.Model) {
	c.models = append(c.models, models...)
}
