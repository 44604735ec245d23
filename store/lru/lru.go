// Package lru implements an artifact store that acts as a
// least-recently-used cache for a nested store.
package lru

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/flowkern/cas"
	"github.com/flowkern/cas/store"
)

var _ cas.Store = &Store{}

// Store implements a memory-based least-recently-used cache for an
// artifact store. Writes pass through to the nested store.
type Store struct {
	c *lru.Cache // Hash -> Artifact
	s cas.Store
}

// New produces a new Store backed by `s` and caching up to `size` artifacts.
func New(s cas.Store, size int) (*Store, error) {
	c, err := lru.New(size)
	return &Store{s: s, c: c}, err
}

// Get gets the artifact with hash `ref`,
// consulting the cache first.
func (s *Store) Get(ctx context.Context, ref cas.Hash) (cas.Artifact, error) {
	if got, ok := s.c.Get(ref); ok {
		return got.(cas.Artifact), nil
	}
	a, err := s.s.Get(ctx, ref)
	if err != nil {
		return cas.Artifact{}, err
	}
	s.c.Add(ref, a)
	return a, nil
}

// Contains consults the cache, then the nested store.
func (s *Store) Contains(ctx context.Context, ref cas.Hash) (bool, error) {
	if s.c.Contains(ref) {
		return true, nil
	}
	return s.s.Contains(ctx, ref)
}

// Len reports the size of the nested store, not of the cache.
func (s *Store) Len(ctx context.Context) (int, error) {
	return s.s.Len(ctx)
}

// Put adds an artifact to the nested store and caches it.
func (s *Store) Put(ctx context.Context, a cas.Artifact) (cas.Hash, bool, error) {
	ref, added, err := s.s.Put(ctx, a)
	if err != nil {
		return ref, added, err
	}
	s.c.Add(ref, a)
	return ref, added, nil
}

// ListHashes produces all artifact hashes in the nested store, in lexicographic order.
func (s *Store) ListHashes(ctx context.Context, start cas.Hash, f func(cas.Hash) error) error {
	return s.s.ListHashes(ctx, start, f)
}

func init() {
	store.Register("lru", func(ctx context.Context, conf map[string]interface{}) (cas.Store, error) {
		size, ok := conf["size"].(int)
		if !ok {
			return nil, errors.New(`missing "size" parameter`)
		}
		nested, err := store.CreateNested(ctx, conf)
		if err != nil {
			return nil, errors.Wrap(err, "creating nested store")
		}
		return New(nested, size)
	})
}
