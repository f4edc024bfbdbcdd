package dao

import (
	"context"
)

// Service abstracts run persistence so drivers can swap memory, filesystem or
// database backed stores without touching the engine.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
