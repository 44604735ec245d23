package symmetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/flowkern/cas"
	"github.com/flowkern/cas/store/mem"
)

func TestCyclePhases(t *testing.T) {
	var c Cycle
	if c.Step() != 0 || c.Phase() != 0 || !c.IsPrimary() || c.IsDual() {
		t.Fatal("fresh cycle not in primary phase at step 0")
	}

	// Step 41 is still primary.
	for i := 0; i < PhaseLen-1; i++ {
		c.Advance()
	}
	if c.PhaseStep() != PhaseLen-1 || !c.IsPrimary() {
		t.Errorf("step %d: phase %d, phase step %d", c.Step(), c.Phase(), c.PhaseStep())
	}

	// Step 42 enters the dual phase.
	c.Advance()
	if c.Phase() != 1 || !c.IsDual() || c.PhaseStep() != 0 {
		t.Errorf("step %d: phase %d, phase step %d, want dual phase at 0", c.Step(), c.Phase(), c.PhaseStep())
	}

	// Step 84 wraps to a fresh primary cycle.
	for i := 0; i < PhaseLen; i++ {
		c.Advance()
	}
	if c.Step() != 0 || c.Phase() != 0 {
		t.Errorf("after %d advances: step %d, phase %d, want 0/0", Period, c.Step(), c.Phase())
	}
}

func TestCycleRatio(t *testing.T) {
	var c Cycle
	if got := c.Ratio(); got != 0.5 {
		t.Errorf("fresh cycle ratio %v, want 0.5", got)
	}

	// Mid-primary: all elapsed steps are primary.
	c.Advance()
	if got := c.Ratio(); got != 1.0 {
		t.Errorf("step 1 ratio %v, want 1.0", got)
	}

	// At the midpoint of the dual phase the snapshot is 42/(42+21).
	for c.Step() != PhaseLen+21 {
		c.Advance()
	}
	want := float64(PhaseLen) / float64(PhaseLen+21)
	if got := c.Ratio(); got != want {
		t.Errorf("step %d ratio %v, want %v", c.Step(), got, want)
	}
}

func newTestKernel() *Kernel {
	return NewKernel(
		cas.NewKernel(cas.ChecksumHasher{}, mem.New()),
		cas.NewKernel(cas.ChecksumHasher{}, mem.New()),
	)
}

func TestKernelPhaseRouting(t *testing.T) {
	ctx := context.Background()
	k := newTestKernel()

	// First store lands in the primary kernel.
	ref, err := k.Store(ctx, []byte("primary phase"))
	if err != nil {
		t.Fatal(err)
	}
	if k.Cycle().Step() != 1 || !k.Cycle().IsPrimary() {
		t.Errorf("unexpected cycle state: step %d", k.Cycle().Step())
	}
	if _, err = k.Primary().GetArtifact(ctx, ref); err != nil {
		t.Errorf("store did not land in primary kernel: %v", err)
	}
	if _, err = k.Retrieve(ctx, ref); err != nil {
		t.Errorf("phase-routed retrieve: %v", err)
	}

	// Push the cycle into the dual phase; stores now land in the dual kernel.
	for k.Cycle().IsPrimary() {
		if _, err = k.Store(ctx, []byte{byte(k.Cycle().Step())}); err != nil {
			t.Fatal(err)
		}
	}
	ref, err = k.Store(ctx, []byte("dual phase"))
	if err != nil {
		t.Fatal(err)
	}
	a, err := k.Dual().GetArtifact(ctx, ref)
	if err != nil {
		t.Fatalf("store did not land in dual kernel: %v", err)
	}
	if !bytes.Equal(a.Content(), []byte("dual phase")) {
		t.Errorf("got content %q, want %q", a.Content(), "dual phase")
	}
}

func TestKernelDualStore(t *testing.T) {
	ctx := context.Background()
	k := newTestKernel()

	pref, dref, err := k.DualStore(ctx, []byte("both sides"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err = k.Primary().GetArtifact(ctx, pref); err != nil {
		t.Errorf("primary side: %v", err)
	}
	if _, err = k.Dual().GetArtifact(ctx, dref); err != nil {
		t.Errorf("dual side: %v", err)
	}
	if got := k.Cycle().Step(); got != 1 {
		t.Errorf("DualStore advanced cycle to %d, want 1", got)
	}
}

func TestBalance(t *testing.T) {
	ctx := context.Background()
	k := newTestKernel()

	// Skew the primary kernel's counter.
	if _, err := k.Primary().StoreArtifact(ctx, []byte("skew")); err != nil {
		t.Fatal(err)
	}
	if k.Primary().CycleStep() == k.Dual().CycleStep() {
		t.Fatal("expected skewed counters")
	}

	dualCount, err := k.Dual().ArtifactCount(ctx)
	if err != nil {
		t.Fatal(err)
	}

	k.Balance()
	if k.Primary().CycleStep() != k.Dual().CycleStep() {
		t.Error("Balance left counters unequal")
	}

	// Balancing advances counters only; no artifacts are written.
	n, err := k.Dual().ArtifactCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != dualCount {
		t.Errorf("Balance stored %d artifacts", n-dualCount)
	}

	h := k.History()
	if len(h) == 0 || h[len(h)-1].Kind != OpBalance {
		t.Error("Balance not recorded in history")
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	k := newTestKernel()

	if _, err := k.Store(ctx, []byte("one")); err != nil {
		t.Fatal(err)
	}
	if _, err := k.Store(ctx, []byte("two")); err != nil {
		t.Fatal(err)
	}
	if _, _, err := k.DualStore(ctx, []byte("three")); err != nil {
		t.Fatal(err)
	}
	k.Balance()

	got := k.Stats()
	want := Stats{
		TotalOps:   5, // 2 phase stores + 2 dual-store entries + 1 balance
		PrimaryOps: 3,
		DualOps:    1,
		Balances:   1,
		Ratio:      k.Ratio(),
		Balanced:   k.IsBalanced(),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}
