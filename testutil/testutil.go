// Package testutil has routines for exercising Store implementations
// in tests.
package testutil

import (
	"bytes"
	"context"
	"testing"

	"github.com/flowkern/cas"
)

// Exercise puts a handful of artifacts into s and checks that the
// Store contract holds: retrieval by hash, Contains, Len,
// last-write-wins overwrite, and ordered ListHashes.
func Exercise(ctx context.Context, t *testing.T, s cas.Store) {
	t.Helper()

	var hasher cas.FNVHasher

	contents := [][]byte{
		[]byte("alpha"),
		[]byte("bravo"),
		[]byte("charlie"),
		[]byte("delta"),
	}

	var refs []cas.Hash
	for _, c := range contents {
		a := cas.NewArtifact(c, hasher)
		ref, added, err := s.Put(ctx, a)
		if err != nil {
			t.Fatal(err)
		}
		if !added {
			t.Errorf("Put %q: added=false, want true", c)
		}
		if ref != a.Ref() {
			t.Errorf("Put %q: got ref %s, want %s", c, ref, a.Ref())
		}
		refs = append(refs, ref)
	}

	n, err := s.Len(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(contents) {
		t.Errorf("got Len %d, want %d", n, len(contents))
	}

	for i, ref := range refs {
		got, err := s.Get(ctx, ref)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got.Content(), contents[i]) {
			t.Errorf("Get %s: got %q, want %q", ref, got.Content(), contents[i])
		}

		ok, err := s.Contains(ctx, ref)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Errorf("Contains %s: got false, want true", ref)
		}
	}

	// Re-putting existing content must report added=false and not grow the store.
	_, added, err := s.Put(ctx, cas.NewArtifact(contents[0], hasher))
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Error("re-Put: added=true, want false")
	}
	n, err = s.Len(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(contents) {
		t.Errorf("after re-Put: got Len %d, want %d", n, len(contents))
	}

	// Absent hash behavior.
	var absent cas.Hash
	absent[cas.HashLen-1] = 0xff
	if _, err := s.Get(ctx, absent); err != cas.ErrNotFound {
		t.Errorf("Get absent: got %v, want ErrNotFound", err)
	}
	ok, err := s.Contains(ctx, absent)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Contains absent: got true, want false")
	}

	// ListHashes must cover every ref in ascending order.
	var (
		listed []cas.Hash
		prev   cas.Hash
	)
	err = s.ListHashes(ctx, cas.Zero, func(ref cas.Hash) error {
		if !prev.Less(ref) && prev != cas.Zero {
			t.Errorf("ListHashes out of order: %s after %s", ref, prev)
		}
		prev = ref
		listed = append(listed, ref)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != len(contents) {
		t.Errorf("ListHashes produced %d refs, want %d", len(listed), len(contents))
	}
}
