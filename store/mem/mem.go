// Package mem implements an in-memory artifact store.
package mem

import (
	"context"
	"sort"
	"sync"

	"github.com/flowkern/cas"
	"github.com/flowkern/cas/store"
)

var _ cas.Store = &Store{}

// Store is a memory-based implementation of an artifact store.
// It lives for the life of the process; nothing is persisted.
type Store struct {
	mu        sync.Mutex
	artifacts map[cas.Hash]cas.Artifact
}

// New produces a new Store.
func New() *Store {
	return &Store{
		artifacts: make(map[cas.Hash]cas.Artifact),
	}
}

// Get gets the artifact with hash `ref`.
func (s *Store) Get(_ context.Context, ref cas.Hash) (cas.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.artifacts[ref]; ok {
		return a, nil
	}
	return cas.Artifact{}, cas.ErrNotFound
}

// Contains tells whether an artifact is stored under `ref`.
func (s *Store) Contains(_ context.Context, ref cas.Hash) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.artifacts[ref]
	return ok, nil
}

// Len returns the number of stored artifacts.
func (s *Store) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.artifacts), nil
}

// Put adds an artifact to the store, keyed by its hash.
// A duplicate key overwrites: last write wins.
func (s *Store) Put(_ context.Context, a cas.Artifact) (cas.Hash, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := a.Ref()
	_, ok := s.artifacts[ref]
	s.artifacts[ref] = a
	return ref, !ok, nil
}

// ListHashes produces all artifact hashes in the store, in lexicographic order.
func (s *Store) ListHashes(_ context.Context, start cas.Hash, f func(cas.Hash) error) error {
	s.mu.Lock()
	refs := make([]cas.Hash, 0, len(s.artifacts))
	for ref := range s.artifacts {
		refs = append(refs, ref)
	}
	s.mu.Unlock()

	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
	index := sort.Search(len(refs), func(n int) bool {
		return start.Less(refs[n])
	})

	for i := index; i < len(refs); i++ {
		err := f(refs[i])
		if err != nil {
			return err
		}
	}
	return nil
}

func init() {
	store.Register("mem", func(context.Context, map[string]interface{}) (cas.Store, error) {
		return New(), nil
	})
}
