package cas

import (
	"context"

	"github.com/pkg/errors"
)

// Getter is a read-only Store (qv).
type Getter interface {
	// Get gets an artifact by its hash.
	// It returns ErrNotFound if no artifact is stored under the hash.
	Get(context.Context, Hash) (Artifact, error)

	// Contains tells whether an artifact is stored under the hash.
	Contains(context.Context, Hash) (bool, error)

	// Len returns the number of artifacts in the store.
	Len(context.Context) (int, error)

	// ListHashes calls a function for each artifact hash in the store
	// in lexicographic order,
	// beginning with the first hash _after_ the specified one.
	//
	// The calls reflect at least the set of hashes
	// known at the moment ListHashes was called.
	// It is unspecified whether later changes are reflected.
	//
	// If the callback function returns an error,
	// ListHashes exits with that error.
	ListHashes(context.Context, Hash, func(Hash) error) error
}

// Store is an artifact store.
// Each artifact is keyed by its own hash,
// so identical content lands on the same key
// and a duplicate Put is a no-op overwrite.
// Distinct content colliding under a weak Hasher
// overwrites too; see ChecksumHasher.
type Store interface {
	Getter

	// Put adds a to the store, keyed by a.Ref().
	// It returns the hash and a boolean that is true iff
	// no artifact was previously stored under that hash.
	Put(ctx context.Context, a Artifact) (ref Hash, added bool, err error)
}

// ErrNotFound is the error returned
// when a Getter tries to access a non-existent hash.
var ErrNotFound = errors.New("not found")
