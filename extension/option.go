package extension

import (
	"github.com/viant/deskly/model/types"
	"github.com/viant/x"
)

type Option func(*Providers)

// WithViewTypes seeds the result view type registry
func WithViewTypes(goTypes ...*x.Type) Option {
	return func(p *Providers) {
		for _, t := range goTypes {
			if t != nil {
				p.types.Register(t)
			}
		}
	}
}

// WithProvider registers a provider at construction time
func WithProvider(provider types.Provider) Option {
	return func(p *Providers) {
		if provider != nil {
			p.Register(provider)
		}
	}
}

// WithProxy wraps every subsequently registered provider
func WithProxy(proxy types.Proxy) Option {
	return func(p *Providers) {
		if proxy == nil {
			return
		}
		for name, provider := range p.providers {
			p.providers[name] = proxy(provider)
		}
	}
}
