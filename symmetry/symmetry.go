// Package symmetry generalizes the dual pair into a single 84-step
// cycle: steps 0-41 are the primary phase, steps 42-83 the dual phase.
package symmetry

import (
	"context"

	"github.com/pkg/errors"

	"github.com/flowkern/cas"
)

// Steps per phase and per full cycle.
const (
	PhaseLen = cas.CycleLen
	Period   = 2 * PhaseLen
)

// Cycle is a counter in [0, Period) whose phase is derived from the
// step: step/PhaseLen selects the phase, step%PhaseLen the position
// within it. The zero value is a fresh cycle.
type Cycle struct {
	step uint
}

// Advance moves the cycle one step forward, wrapping at Period.
func (c *Cycle) Advance() {
	c.step = (c.step + 1) % Period
}

// Step returns the current step, in [0, Period).
func (c Cycle) Step() uint { return c.step }

// Phase returns 0 for the primary phase, 1 for the dual phase.
func (c Cycle) Phase() uint { return c.step / PhaseLen }

// PhaseStep returns the position within the current phase, in [0, PhaseLen).
func (c Cycle) PhaseStep() uint { return c.step % PhaseLen }

// IsPrimary tells whether the cycle is in the primary phase.
func (c Cycle) IsPrimary() bool { return c.Phase() == 0 }

// IsDual tells whether the cycle is in the dual phase.
func (c Cycle) IsDual() bool { return c.Phase() == 1 }

// Ratio returns the fraction of steps spent in the primary phase.
// It is a two-term snapshot, not a running average: the current
// phase contributes its elapsed steps, a completed primary phase
// contributes a full PhaseLen, and a fresh cycle reports 0.5 by
// convention.
func (c Cycle) Ratio() float64 {
	if c.step == 0 {
		return 0.5
	}
	var primary, dual uint
	if c.IsPrimary() {
		primary = c.PhaseStep()
	} else {
		primary = PhaseLen
		dual = c.PhaseStep()
	}
	return float64(primary) / float64(primary+dual)
}

// OpKind labels an entry in a Kernel's operation history.
type OpKind int

const (
	// OpStore records a write routed to one phase.
	OpStore OpKind = iota

	// OpBalance records a balance operation.
	OpBalance
)

// Op is one entry in a Kernel's operation history.
type Op struct {
	Kind    OpKind
	Content []byte  // set for OpStore
	Phase   uint    // set for OpStore
	Ratio   float64 // set for OpBalance
}

// Kernel routes operations across two cas.Kernels according to a
// shared 84-step Cycle.
type Kernel struct {
	primary *cas.Kernel
	dual    *cas.Kernel
	cycle   Cycle
	history []Op
}

// NewKernel produces a Kernel from two cas.Kernels with a fresh cycle.
func NewKernel(primary, dual *cas.Kernel) *Kernel {
	return &Kernel{primary: primary, dual: dual}
}

// Store stores content into the kernel selected by the current
// phase, records the operation, and advances the cycle.
func (k *Kernel) Store(ctx context.Context, content []byte) (cas.Hash, error) {
	phase := k.cycle.Phase()
	target := k.primary
	if phase == 1 {
		target = k.dual
	}

	ref, err := target.StoreArtifact(ctx, content)
	if err != nil {
		return cas.Zero, errors.Wrapf(err, "storing in phase-%d kernel", phase)
	}

	c := make([]byte, len(content))
	copy(c, content)
	k.history = append(k.history, Op{Kind: OpStore, Content: c, Phase: phase})
	k.cycle.Advance()
	return ref, nil
}

// Retrieve looks up a hash in the kernel selected by the current
// phase. The cycle does not advance.
func (k *Kernel) Retrieve(ctx context.Context, ref cas.Hash) (cas.Artifact, error) {
	if k.cycle.IsDual() {
		return k.dual.GetArtifact(ctx, ref)
	}
	return k.primary.GetArtifact(ctx, ref)
}

// DualStore stores content into both kernels,
// records an operation for each phase,
// and advances the cycle once.
//
// If the dual-side write fails, the primary write and its cycle
// advance are not rolled back; the history and shared cycle are left
// unchanged.
func (k *Kernel) DualStore(ctx context.Context, content []byte) (cas.Hash, cas.Hash, error) {
	pref, err := k.primary.StoreArtifact(ctx, content)
	if err != nil {
		return cas.Zero, cas.Zero, errors.Wrap(err, "storing in primary kernel")
	}
	dref, err := k.dual.StoreArtifact(ctx, content)
	if err != nil {
		return cas.Zero, cas.Zero, errors.Wrap(err, "storing in dual kernel")
	}

	c := make([]byte, len(content))
	copy(c, content)
	k.history = append(k.history,
		Op{Kind: OpStore, Content: c, Phase: 0},
		Op{Kind: OpStore, Content: c, Phase: 1},
	)
	k.cycle.Advance()
	return pref, dref, nil
}

// Cycle returns the current cycle value.
func (k *Kernel) Cycle() Cycle { return k.cycle }

// Ratio returns the cycle's primary-phase ratio.
func (k *Kernel) Ratio() float64 { return k.cycle.Ratio() }

// History returns the recorded operations.
func (k *Kernel) History() []Op { return k.history }

// Primary returns the primary kernel.
func (k *Kernel) Primary() *cas.Kernel { return k.primary }

// Dual returns the dual kernel.
func (k *Kernel) Dual() *cas.Kernel { return k.dual }

// IsBalanced tells whether the ratio is within 0.1 of perfect balance.
func (k *Kernel) IsBalanced() bool {
	r := k.Ratio() - 0.5
	return r > -0.1 && r < 0.1
}

// Balance equalizes the two kernels' cycle steps by advancing
// whichever is behind. Counters are advanced directly; no artifacts
// are written. The resulting ratio is recorded in the history.
func (k *Kernel) Balance() {
	ps, ds := k.primary.CycleStep(), k.dual.CycleStep()
	switch {
	case ps < ds:
		k.primary.AdvanceCycle(ds - ps)
	case ds < ps:
		k.dual.AdvanceCycle(ps - ds)
	}
	k.history = append(k.history, Op{Kind: OpBalance, Ratio: k.Ratio()})
}

// Stats summarizes a Kernel's recorded activity.
type Stats struct {
	TotalOps   int
	PrimaryOps int
	DualOps    int
	Balances   int
	Ratio      float64
	Balanced   bool
}

// Stats computes summary statistics from the history and cycle.
func (k *Kernel) Stats() Stats {
	s := Stats{
		TotalOps: len(k.history),
		Ratio:    k.Ratio(),
		Balanced: k.IsBalanced(),
	}
	for _, op := range k.history {
		switch op.Kind {
		case OpStore:
			if op.Phase == 0 {
				s.PrimaryOps++
			} else {
				s.DualOps++
			}
		case OpBalance:
			s.Balances++
		}
	}
	return s
}
