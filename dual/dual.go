// Package dual composes two independent kernels into one system
// that mirrors every write across both
// and alternates which side serves reads.
package dual

import (
	"context"

	"github.com/pkg/errors"

	"github.com/flowkern/cas"
)

// Phase tells which kernel serves the next plain Retrieve call.
type Phase int

const (
	// PhasePrimary routes reads to the primary kernel.
	PhasePrimary Phase = iota

	// PhaseDual routes reads to the dual kernel.
	PhaseDual
)

func (p Phase) String() string {
	if p == PhaseDual {
		return "dual"
	}
	return "primary"
}

// OpKind labels an entry in a Kernel's operation history.
type OpKind int

const (
	// OpStore records a mirrored write.
	OpStore OpKind = iota

	// OpRetrieve records a phase-gated read.
	OpRetrieve

	// OpTransition records a phase flip.
	OpTransition
)

// Op is one entry in a Kernel's operation history.
type Op struct {
	Kind    OpKind
	Content []byte   // set for OpStore
	Ref     cas.Hash // set for OpRetrieve
	From    Phase    // set for OpTransition
	To      Phase    // set for OpTransition
}

// Ref holds the two hashes produced by one mirrored write.
// The two are equal only when both kernels happen to share the same
// Hasher semantics, which is the usual configuration but is not
// enforced.
type Ref struct {
	Primary cas.Hash
	Dual    cas.Hash
}

// Kernel holds two independent cas.Kernels side by side.
// Every Store is mirrored into both; plain Retrieve consults only
// the side selected by the current phase, which flips after each
// mirrored write.
//
// Callers holding a hash from the other side must use the Primary
// or Dual accessors to disambiguate: Retrieve does not search both
// sides.
type Kernel struct {
	primary *cas.Kernel
	dual    *cas.Kernel
	phase   Phase
	history []Op
}

// New produces a Kernel from two cas.Kernels,
// starting in the primary phase.
func New(primary, dual *cas.Kernel) *Kernel {
	return &Kernel{primary: primary, dual: dual}
}

// Store stores content into both kernels,
// records the operation, and flips the phase.
// Each kernel computes its own hash for the content.
//
// If the dual-side write fails, the primary write and its cycle
// advance are not rolled back; the phase and history are left
// unchanged.
func (k *Kernel) Store(ctx context.Context, content []byte) (Ref, error) {
	pref, err := k.primary.StoreArtifact(ctx, content)
	if err != nil {
		return Ref{}, errors.Wrap(err, "storing in primary kernel")
	}
	dref, err := k.dual.StoreArtifact(ctx, content)
	if err != nil {
		return Ref{}, errors.Wrap(err, "storing in dual kernel")
	}

	c := make([]byte, len(content))
	copy(c, content)
	k.history = append(k.history, Op{Kind: OpStore, Content: c})

	k.advancePhase()
	return Ref{Primary: pref, Dual: dref}, nil
}

// Retrieve looks up a hash in whichever kernel the current phase
// selects and records the read in the history.
// The phase does not flip and no cycle advances.
func (k *Kernel) Retrieve(ctx context.Context, ref cas.Hash) (cas.Artifact, error) {
	k.history = append(k.history, Op{Kind: OpRetrieve, Ref: ref})
	if k.phase == PhaseDual {
		return k.dual.GetArtifact(ctx, ref)
	}
	return k.primary.GetArtifact(ctx, ref)
}

// Phase returns the current phase.
func (k *Kernel) Phase() Phase { return k.phase }

// Primary returns the primary kernel.
func (k *Kernel) Primary() *cas.Kernel { return k.primary }

// Dual returns the dual kernel.
func (k *Kernel) Dual() *cas.Kernel { return k.dual }

// History returns the recorded operations.
func (k *Kernel) History() []Op { return k.history }

// CombinedCycle returns the sum of both kernels' cycle steps.
// Diagnostic only; nothing routes on it.
func (k *Kernel) CombinedCycle() uint {
	return k.primary.CycleStep() + k.dual.CycleStep()
}

// IsSynchronized tells whether both kernels are at the same cycle step.
func (k *Kernel) IsSynchronized() bool {
	return k.primary.CycleStep() == k.dual.CycleStep()
}

// Synchronize advances whichever kernel is behind until both cycle
// steps match. The counter is advanced directly; no artifacts are
// written.
func (k *Kernel) Synchronize() {
	ps, ds := k.primary.CycleStep(), k.dual.CycleStep()
	switch {
	case ps < ds:
		k.primary.AdvanceCycle(ds - ps)
	case ds < ps:
		k.dual.AdvanceCycle(ps - ds)
	}
}

func (k *Kernel) advancePhase() {
	from := k.phase
	if k.phase == PhasePrimary {
		k.phase = PhaseDual
	} else {
		k.phase = PhasePrimary
	}
	k.history = append(k.history, Op{Kind: OpTransition, From: from, To: k.phase})
}
