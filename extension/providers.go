package extension

import (
	"sync"

	"github.com/viant/deskly/model/types"
)

// DataTypeIniter lets a provider register the typed views its ability
// results decode onto.
type DataTypeIniter interface {
	InitTypes(types *Types)
}

// Providers is the registry of ability providers; read-only after setup
// apart from explicit Register calls.
type Providers struct {
	types     *Types
	providers map[string]types.Provider
	mux       sync.RWMutex
}

func (p *Providers) Types() *Types {
	return p.types
}

// Lookup returns a provider by identifier, nil when absent
func (p *Providers) Lookup(name string) types.Provider {
	p.mux.RLock()
	defer p.mux.RUnlock()
	return p.providers[name]
}

// Names returns the registered provider identifiers
func (p *Providers) Names() []string {
	p.mux.RLock()
	defer p.mux.RUnlock()
	names := make([]string, 0, len(p.providers))
	for name := range p.providers {
		names = append(names, name)
	}
	return names
}

// Register adds or replaces a provider
func (p *Providers) Register(provider types.Provider) {
	p.mux.Lock()
	defer p.mux.Unlock()

	if typer, ok := provider.(DataTypeIniter); ok {
		typer.InitTypes(p.types)
	}
	p.providers[provider.Name()] = provider
}

// NewProviders creates a provider registry
func NewProviders(options ...Option) *Providers {
	ret := &Providers{
		types:     NewTypes(),
		providers: make(map[string]types.Provider),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
