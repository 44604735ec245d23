package mem

import (
	"bytes"
	"context"
	"testing"

	"github.com/flowkern/cas"
	"github.com/flowkern/cas/testutil"
)

func TestStore(t *testing.T) {
	testutil.Exercise(context.Background(), t, New())
}

// With the checksum hasher, "abc" and "cba" share a hash,
// so storing the second overwrites the first: last write wins.
func TestOverwriteOnCollision(t *testing.T) {
	ctx := context.Background()
	s := New()

	var hasher cas.ChecksumHasher
	a := cas.NewArtifact([]byte("abc"), hasher)
	b := cas.NewArtifact([]byte("cba"), hasher)
	if a.Ref() != b.Ref() {
		t.Fatal("expected colliding hashes")
	}

	if _, _, err := s.Put(ctx, a); err != nil {
		t.Fatal(err)
	}
	_, added, err := s.Put(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Error("overwrite reported added=true")
	}

	got, err := s.Get(ctx, a.Ref())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Content(), []byte("cba")) {
		t.Errorf("got content %q, want %q", got.Content(), "cba")
	}

	n, err := s.Len(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("got Len %d, want 1", n)
	}
}

func TestListHashesStart(t *testing.T) {
	ctx := context.Background()
	s := New()

	var hasher cas.FNVHasher
	for _, c := range []string{"one", "two", "three", "four", "five"} {
		if _, _, err := s.Put(ctx, cas.NewArtifact([]byte(c), hasher)); err != nil {
			t.Fatal(err)
		}
	}

	var all []cas.Hash
	err := s.ListHashes(ctx, cas.Zero, func(ref cas.Hash) error {
		all = append(all, ref)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Fatalf("got %d refs, want 5", len(all))
	}

	// Starting after the second ref yields only the remainder.
	var rest []cas.Hash
	err = s.ListHashes(ctx, all[1], func(ref cas.Hash) error {
		rest = append(rest, ref)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 3 {
		t.Errorf("got %d refs after start, want 3", len(rest))
	}
	for i, ref := range rest {
		if ref != all[i+2] {
			t.Errorf("ref %d: got %s, want %s", i, ref, all[i+2])
		}
	}
}
