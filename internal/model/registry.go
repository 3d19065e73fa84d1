package model

import (
	"fmt"
	"sort"

	"visioai/internal/domain"
)

// Registry holds the generators for the providers that were configured at
// startup. Selecting an unconfigured provider is a configuration error
// surfaced on first use, not a silent no-op.
type Registry struct {
	generators map[domain.Provider]Generator
}

func NewRegistry() *Registry {
	return &Registry{generators: make(map[domain.Provider]Generator)}
}

// Register binds a generator to a provider. A nil generator is ignored so
// callers can register conditionally on the presence of an API key.
func (r *Registry) Register(p domain.Provider, g Generator) {
	if g == nil {
		return
	}
	r.generators[p] = g
}

// Generator returns the generator for p, or a wrapped
// domain.ErrProviderNotConfigured if no API key was supplied for it.
func (r *Registry) Generator(p domain.Provider) (Generator, error) {
	g, ok := r.generators[p]
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, domain.ErrProviderNotConfigured)
	}
	return g, nil
}

// Providers lists the configured providers in stable (alphabetical) order.
func (r *Registry) Providers() []domain.Provider {
	ps := make([]domain.Provider, 0, len(r.generators))
	for p := range r.generators {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })
	return ps
}

// Empty reports whether no provider at all is configured. main treats this
// as a startup error.
func (r *Registry) Empty() bool {
	return len(r.generators) == 0
}
