package source

import (
	"context"
	"fmt"
	"time"

	"journalwatch/internal/domain"
)

// Request carries all parameters required to fetch one source.
type Request struct {
	// Now is the ingestion instant; items published before Now-Lookback
	// are out of window.
	Now      time.Time
	Name     string
	ISSN     string
	URL      string
	Lookback time.Duration
}

// Adapter is a single source-type strategy (CrossRef API, RSS feed).
// Implementations are pure fetch-and-normalize: no persistence, and no
// partial failures. An adapter either returns articles or an error for the
// whole source.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, req Request) ([]domain.Article, error)
}

// Registry keeps a mapping from source-type tags to their adapters.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: map[string]Adapter{}}
}

// Register adds or replaces an adapter implementation.
func (r *Registry) Register(adapter Adapter) {
	if r.adapters == nil {
		r.adapters = map[string]Adapter{}
	}
	r.adapters[adapter.Name()] = adapter
}

// Resolve returns an adapter by type tag or an error if it is absent.
func (r *Registry) Resolve(name string) (Adapter, error) {
	if adapter, ok := r.adapters[name]; ok {
		return adapter, nil
	}
	return nil, fmt.Errorf("source type %q is not registered", name)
}
