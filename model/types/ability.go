package types

import (
	"context"
	"reflect"

	"github.com/viant/toolbox"
)

// Args is the argument mapping sent with one ability invocation
type Args map[string]interface{}

// Result is the structured mapping an ability returns
type Result map[string]interface{}

type Signatures []Signature

func (s Signatures) Lookup(name string) *Signature {
	for i := range s {
		sig := &s[i]
		if sig.Name == name {
			return sig
		}
	}
	return nil
}

// Signature	ability signature
type Signature struct {
	Name        string
	Description string
	Output      reflect.Type
}

// Executable performs a single ability call
type Executable func(ctx context.Context, args Args) (Result, error)

// Clone returns a shallow copy of the arguments
func (a Args) Clone() Args {
	cloned := make(Args, len(a))
	for k, v := range a {
		cloned[k] = v
	}
	return cloned
}

// Int returns a key coerced to int, with ok reporting presence
func (r Result) Int(key string) (int, bool) {
	value, ok := r[key]
	if !ok || value == nil {
		return 0, false
	}
	return toolbox.AsInt(value), true
}

// Float returns a key coerced to float64, with ok reporting presence
func (r Result) Float(key string) (float64, bool) {
	value, ok := r[key]
	if !ok || value == nil {
		return 0, false
	}
	return toolbox.AsFloat(value), true
}

// String returns a key coerced to string, with ok reporting presence
func (r Result) String(key string) (string, bool) {
	value, ok := r[key]
	if !ok || value == nil {
		return "", false
	}
	return toolbox.AsString(value), true
}

// Bool returns a key coerced to bool, with ok reporting presence
func (r Result) Bool(key string) (bool, bool) {
	value, ok := r[key]
	if !ok || value == nil {
		return false, false
	}
	return toolbox.AsBoolean(value), true
}

// Strings returns a key coerced to a string slice
func (r Result) Strings(key string) []string {
	value, ok := r[key]
	if !ok || value == nil {
		return nil
	}
	switch actual := value.(type) {
	case []string:
		return actual
	case []interface{}:
		items := make([]string, 0, len(actual))
		for _, item := range actual {
			items = append(items, toolbox.AsString(item))
		}
		return items
	}
	return []string{toolbox.AsString(value)}
}
