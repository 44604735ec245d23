// Package logging implements a store that delegates everything to a nested store,
// logging operations as they happen.
package logging

import (
	"context"
	"log"

	"github.com/pkg/errors"

	"github.com/flowkern/cas"
	"github.com/flowkern/cas/store"
)

var _ cas.Store = &Store{}

// Store wraps a nested store, logging each operation.
type Store struct {
	s cas.Store
}

// New produces a new Store wrapping `s`.
func New(s cas.Store) *Store {
	return &Store{s: s}
}

// Get implements cas.Getter.
func (s *Store) Get(ctx context.Context, ref cas.Hash) (cas.Artifact, error) {
	a, err := s.s.Get(ctx, ref)
	if err != nil {
		log.Printf("ERROR Get %s: %s", ref, err)
	} else {
		log.Printf("Get %s", ref)
	}
	return a, err
}

// Contains implements cas.Getter.
func (s *Store) Contains(ctx context.Context, ref cas.Hash) (bool, error) {
	ok, err := s.s.Contains(ctx, ref)
	if err != nil {
		log.Printf("ERROR Contains %s: %s", ref, err)
	} else {
		log.Printf("Contains %s: %v", ref, ok)
	}
	return ok, err
}

// Len implements cas.Getter.
func (s *Store) Len(ctx context.Context) (int, error) {
	n, err := s.s.Len(ctx)
	if err != nil {
		log.Printf("ERROR Len: %s", err)
	} else {
		log.Printf("Len: %d", n)
	}
	return n, err
}

// Put implements cas.Store.
func (s *Store) Put(ctx context.Context, a cas.Artifact) (cas.Hash, bool, error) {
	ref, added, err := s.s.Put(ctx, a)
	if err != nil {
		log.Printf("ERROR in Put: %s", err)
	} else {
		log.Printf("Put %s, added=%v", ref, added)
	}
	return ref, added, err
}

// ListHashes implements cas.Getter.
func (s *Store) ListHashes(ctx context.Context, start cas.Hash, f func(cas.Hash) error) error {
	log.Printf("ListHashes, start=%s", start)
	return s.s.ListHashes(ctx, start, func(ref cas.Hash) error {
		err := f(ref)
		if err != nil {
			log.Printf("  ERROR in ListHashes: %s: %s", ref, err)
		} else {
			log.Printf("  ListHashes: %s", ref)
		}
		return err
	})
}

func init() {
	store.Register("logging", func(ctx context.Context, conf map[string]interface{}) (cas.Store, error) {
		nested, err := store.CreateNested(ctx, conf)
		if err != nil {
			return nil, errors.Wrap(err, "creating nested store")
		}
		return New(nested), nil
	})
}
