package run

import (
	"context"
	"github.com/viant/deskly/extension"
	"github.com/viant/deskly/service/event"
	"reflect"
)

// Context carries the per-run wiring (run record, provider registry, event
// service) across every stage and ability call of a case.
type Context struct {
	run       *Run
	providers *extension.Providers
	events    *event.Service
	context.Context
}

var RunKey = KeyOf[*Run]()
var providersKey = KeyOf[*extension.Providers]()
var EventKey = KeyOf[*event.Service]()
var ContextKey = KeyOf[*Context]()

// RunContext returns a context bound to the provided run
func (c *Context) RunContext(run *Run) *Context {
	clone := *c
	clone.run = run
	return &clone
}

func (c *Context) Value(key any) any {
	switch key {
	case RunKey:
		return c.run
	case providersKey:
		return c.providers
	case EventKey:
		return c.events
	case ContextKey:
		return c
	}
	return c.Context.Value(key)
}

// ContextValue returns the value of the provided type from the context
func ContextValue[T any](ctx context.Context) T {
	key := KeyOf[T]()
	if value := ctx.Value(key); value != nil {
		return value.(T)
	}
	var t T
	return t
}

// KeyOf returns the reflect.Type of the provided type
func KeyOf[T any]() reflect.Type {
	var a T
	return reflect.TypeOf(a)
}

func NewContext(ctx context.Context, providers *extension.Providers, service *event.Service) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		Context:   ctx,
		providers: providers,
		events:    service,
	}
}
