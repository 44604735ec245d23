package cas

import (
	"context"

	"github.com/pkg/errors"
)

// CycleLen is the period of a Kernel's operation cycle.
const CycleLen = 42

// Kernel ties a Hasher and a Store together.
// Every mutating operation (storing an artifact, replacing a
// component) advances a cycle counter by one, modulo CycleLen.
// Reads never advance the cycle.
//
// A Kernel exclusively owns its Hasher and Store; the only way to
// change them is ReplaceHasher and ReplaceStore. It performs no
// internal locking: callers that share a Kernel across goroutines
// must serialize access themselves.
type Kernel struct {
	hasher Hasher
	store  Store
	step   uint
}

// NewKernel produces a Kernel using the given Hasher and Store,
// starting at cycle step 0.
func NewKernel(h Hasher, s Store) *Kernel {
	return &Kernel{hasher: h, store: s}
}

// StoreArtifact hashes content with the kernel's current Hasher,
// stores the resulting artifact, advances the cycle,
// and returns the artifact's hash.
// The content is retrievable via the returned hash
// as soon as StoreArtifact returns.
func (k *Kernel) StoreArtifact(ctx context.Context, content []byte) (Hash, error) {
	a := NewArtifact(content, k.hasher)
	ref, _, err := k.store.Put(ctx, a)
	if err != nil {
		return Zero, errors.Wrap(err, "storing artifact")
	}
	k.AdvanceCycle(1)
	return ref, nil
}

// GetArtifact retrieves an artifact by hash.
// It is a pure read: the cycle does not advance.
func (k *Kernel) GetArtifact(ctx context.Context, ref Hash) (Artifact, error) {
	return k.store.Get(ctx, ref)
}

// HasArtifact tells whether an artifact is stored under the hash.
func (k *Kernel) HasArtifact(ctx context.Context, ref Hash) (bool, error) {
	return k.store.Contains(ctx, ref)
}

// ArtifactCount returns the number of stored artifacts.
func (k *Kernel) ArtifactCount(ctx context.Context) (int, error) {
	return k.store.Len(ctx)
}

// CycleStep returns the current cycle step, in [0, CycleLen).
func (k *Kernel) CycleStep() uint { return k.step }

// AdvanceCycle advances the cycle counter by n steps with no
// storage write. Wrappers that need to equalize two kernels'
// counters use this instead of inserting throwaway artifacts.
func (k *Kernel) AdvanceCycle(n uint) {
	k.step = (k.step + n) % CycleLen
}

// ReplaceHasher swaps in a new Hasher and advances the cycle.
//
// Existing artifacts are not rehashed: their hashes remain those
// computed under the old Hasher. Callers that replace the hasher and
// later rely on recomputation equality (for example pair.Hasher
// verification) must account for this.
func (k *Kernel) ReplaceHasher(h Hasher) {
	k.hasher = h
	k.AdvanceCycle(1)
}

// ReplaceStore swaps in a new Store and advances the cycle.
// Artifacts in the old store are not migrated.
func (k *Kernel) ReplaceStore(s Store) {
	k.store = s
	k.AdvanceCycle(1)
}

// Hasher returns the kernel's current Hasher.
func (k *Kernel) Hasher() Hasher { return k.hasher }

// Store returns the kernel's current Store.
func (k *Kernel) Store() Store { return k.store }
