// Package bounded implements a store that enforces a capacity limit
// on a nested store.
package bounded

import (
	"context"

	"github.com/pkg/errors"

	"github.com/flowkern/cas"
	"github.com/flowkern/cas/store"
)

var _ cas.Store = &Store{}

// ErrCapacityExceeded is the error returned by Put
// when the nested store is full.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// Store wraps a nested store, refusing new artifacts once the nested
// store holds max entries. Overwrites of existing keys are always
// allowed: they do not grow the store.
type Store struct {
	s   cas.Store
	max int
}

// New produces a new Store wrapping `s` with the given capacity.
func New(s cas.Store, max int) *Store {
	return &Store{s: s, max: max}
}

// Get implements cas.Getter.
func (s *Store) Get(ctx context.Context, ref cas.Hash) (cas.Artifact, error) {
	return s.s.Get(ctx, ref)
}

// Contains implements cas.Getter.
func (s *Store) Contains(ctx context.Context, ref cas.Hash) (bool, error) {
	return s.s.Contains(ctx, ref)
}

// Len implements cas.Getter.
func (s *Store) Len(ctx context.Context) (int, error) {
	return s.s.Len(ctx)
}

// Put adds an artifact to the nested store
// unless doing so would exceed the capacity,
// in which case it returns ErrCapacityExceeded.
func (s *Store) Put(ctx context.Context, a cas.Artifact) (cas.Hash, bool, error) {
	ref := a.Ref()

	ok, err := s.s.Contains(ctx, ref)
	if err != nil {
		return cas.Zero, false, errors.Wrap(err, "checking for existing artifact")
	}
	if !ok {
		n, err := s.s.Len(ctx)
		if err != nil {
			return cas.Zero, false, errors.Wrap(err, "checking store size")
		}
		if n >= s.max {
			return cas.Zero, false, ErrCapacityExceeded
		}
	}

	return s.s.Put(ctx, a)
}

// ListHashes implements cas.Getter.
func (s *Store) ListHashes(ctx context.Context, start cas.Hash, f func(cas.Hash) error) error {
	return s.s.ListHashes(ctx, start, f)
}

func init() {
	store.Register("bounded", func(ctx context.Context, conf map[string]interface{}) (cas.Store, error) {
		max, ok := conf["max"].(int)
		if !ok {
			return nil, errors.New(`missing "max" parameter`)
		}
		nested, err := store.CreateNested(ctx, conf)
		if err != nil {
			return nil, errors.Wrap(err, "creating nested store")
		}
		return New(nested, max), nil
	})
}
