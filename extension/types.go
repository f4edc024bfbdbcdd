package extension

import (
	"reflect"

	"github.com/viant/x"
)

// Types registers the typed views ability results decode onto, keyed by
// ability name. Remote providers expose name-only signatures, so the view
// type for their results comes from this registry.
type Types struct {
	x.Registry
}

// Register adds a view type to the registry
func (t *Types) Register(dataType *x.Type) {
	t.Registry.Register(dataType)
}

// Lookup returns a view type by ability name, nil when unregistered
func (t *Types) Lookup(ability string) *x.Type {
	return t.Registry.Lookup(ability)
}

// ViewFor returns the Go type an ability result decodes onto, nil when none
// is registered.
func (t *Types) ViewFor(ability string) reflect.Type {
	registered := t.Registry.Lookup(ability)
	if registered == nil {
		return nil
	}
	return registered.Type
}

// RegisterView associates an ability name with a result view type
func (t *Types) RegisterView(ability string, view interface{}) {
	rType := reflect.TypeOf(view)
	for rType != nil && rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	if rType == nil {
		return
	}
	t.Registry.Register(x.NewType(rType, x.WithName(ability)))
}

// NewTypes creates a view type registry
func NewTypes(options ...x.RegistryOption) *Types {
	result := &Types{
		Registry: *x.NewRegistry(options...),
	}
	return result
}
