// Package store maintains a registry of Store factories,
// allowing backends to be constructed from configuration maps.
package store

import (
	"context"
	"fmt"

	"github.com/flowkern/cas"
)

// Factory builds a Store from a configuration map.
type Factory func(context.Context, map[string]interface{}) (cas.Store, error)

var registry = make(map[string]Factory)

// Register associates a factory with a type key.
// Store packages call this from init().
func Register(key string, f Factory) {
	registry[key] = f
}

// Create builds a Store of the registered type named by key.
func Create(ctx context.Context, key string, conf map[string]interface{}) (cas.Store, error) {
	f, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("key %s not found in registry", key)
	}
	return f(ctx, conf)
}

// CreateNested builds the Store described by the "nested" entry of
// conf. Wrapper backends share this to construct what they wrap.
func CreateNested(ctx context.Context, conf map[string]interface{}) (cas.Store, error) {
	nested, ok := conf["nested"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf(`missing "nested" parameter`)
	}
	nestedType, ok := nested["type"].(string)
	if !ok {
		return nil, fmt.Errorf(`"nested" parameter missing "type"`)
	}
	return Create(ctx, nestedType, nested)
}
