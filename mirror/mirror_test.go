package mirror

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/flowkern/cas"
)

var hasher cas.ChecksumHasher

func TestPerfectMirror(t *testing.T) {
	original := cas.NewArtifact([]byte("test"), hasher)
	m := NewPerfect(original, hasher)

	if !m.IsPerfect() {
		t.Error("identity mirror not perfect")
	}
	if got := m.Strength(); got != 1.0 {
		t.Errorf("got strength %v, want 1.0", got)
	}
	if !bytes.Equal(m.Original().Content(), m.Mirror().Content()) {
		t.Error("perfect mirror content differs from original")
	}
}

func TestByteReversedMirror(t *testing.T) {
	original := cas.NewArtifact([]byte("hello"), hasher)
	m := NewByteReversed(original, hasher)

	if m.IsPerfect() {
		t.Error("byte-reversed mirror reported perfect")
	}
	if got := m.Strength(); got != 0.5 {
		t.Errorf("got strength %v, want 0.5", got)
	}
	if !bytes.Equal(m.Mirror().Content(), []byte("olleh")) {
		t.Errorf("got mirror content %q, want %q", m.Mirror().Content(), "olleh")
	}
}

func TestInvolutions(t *testing.T) {
	content := []byte{0x00, 0x01, 0x7f, 0x80, 0xff}
	for _, x := range []Transform{ByteReverse{}, BitComplement{}} {
		if got := x.Apply(x.Apply(content)); !bytes.Equal(got, content) {
			t.Errorf("%s applied twice: got %v, want %v", x.Kind(), got, content)
		}
	}
}

func TestBitComplement(t *testing.T) {
	original := cas.NewArtifact([]byte{0x0f, 0xf0}, hasher)
	m := NewBitComplemented(original, hasher)
	if want := []byte{0xf0, 0x0f}; !bytes.Equal(m.Mirror().Content(), want) {
		t.Errorf("got %v, want %v", m.Mirror().Content(), want)
	}
}

func TestCustomTransform(t *testing.T) {
	double := NewCustom("double", func(c []byte) []byte {
		return append(append([]byte{}, c...), c...)
	})

	original := cas.NewArtifact([]byte("ab"), hasher)
	m := Derive(original, double, hasher)

	if got := m.Kind(); got != CustomKind("double") {
		t.Errorf("got kind %q, want %q", got, CustomKind("double"))
	}
	if !bytes.Equal(m.Mirror().Content(), []byte("abab")) {
		t.Errorf("got %q, want %q", m.Mirror().Content(), "abab")
	}
}

// A mirror whose transform changes the bytes but not the checksum
// (byte sums are order-insensitive) is still imperfect: perfection is
// judged on content, and the two equal hashes collapse the pairing
// onto a single key in any content-addressed index.
func TestReversalCollidesUnderChecksum(t *testing.T) {
	original := cas.NewArtifact([]byte("abc"), hasher)
	m := NewByteReversed(original, hasher)

	oref, mref := m.Hashes()
	if oref != mref {
		t.Fatal("expected byte reversal to preserve the checksum")
	}
	if m.IsPerfect() {
		t.Error("distinct content reported as perfect mirror")
	}
}

func TestStoreBidirectionalLookup(t *testing.T) {
	s := NewStore()
	original := cas.NewArtifact([]byte("hello"), hasher)
	m := NewByteReversed(original, hasher)
	s.Put(m)

	oref, mref := m.Hashes()
	for _, ref := range []cas.Hash{oref, mref} {
		got, ok := s.Get(ref)
		if !ok {
			t.Fatalf("lookup by %s failed", ref)
		}
		go1, gm1 := got.Hashes()
		if go1 != oref || gm1 != mref {
			t.Errorf("lookup by %s returned the wrong pairing", ref)
		}
	}

	if got, ok := s.MirrorHash(oref); !ok || got != mref {
		t.Errorf("MirrorHash(original): got %s, want %s", got, mref)
	}
	if got, ok := s.MirrorHash(mref); !ok || got != oref {
		t.Errorf("MirrorHash(mirror): got %s, want %s", got, oref)
	}

	if !s.Has(oref) || !s.Has(mref) {
		t.Error("Has failed for a stored pairing")
	}
	var absent cas.Hash
	absent[0] = 0xee
	if s.Has(absent) {
		t.Error("Has reported an absent hash")
	}
}

func TestStoreStats(t *testing.T) {
	s := NewStore()

	blake := cas.Blake3Hasher{}
	s.Put(NewPerfect(cas.NewArtifact([]byte("one"), blake), blake))
	s.Put(NewByteReversed(cas.NewArtifact([]byte("two"), blake), blake))
	s.Put(NewBitComplemented(cas.NewArtifact([]byte("three"), blake), blake))
	s.Put(Derive(cas.NewArtifact([]byte("four"), blake), NewCustom("noop", Identity{}.Apply), blake))

	got := s.Stats()
	want := Stats{Total: 4, Perfect: 1, ByteReversed: 1, BitComplemented: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	if n := len(s.ByKind(ByteReversed)); n != 1 {
		t.Errorf("ByKind(ByteReversed): got %d, want 1", n)
	}

	var count int
	if err := s.All(func(Artifact) error { count++; return nil }); err != nil {
		t.Fatal(err)
	}
	if count != 4 {
		t.Errorf("All visited %d pairings, want 4", count)
	}
}
