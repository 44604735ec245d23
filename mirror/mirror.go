package mirror

import (
	"bytes"

	"github.com/flowkern/cas"
)

// Relationship strengths. A perfect mirror scores 1.0;
// any other pairing scores the fixed partial value.
const (
	perfectStrength = 1.0
	partialStrength = 0.5
)

// Artifact pairs an original artifact with a derived mirror.
type Artifact struct {
	original cas.Artifact
	mirror   cas.Artifact
	kind     Kind
	perfect  bool
	strength float64
}

// New pairs an original with an already-built mirror.
// Whether the pairing is perfect is judged by content equality,
// not by the declared kind.
func New(original, mirror cas.Artifact, kind Kind) Artifact {
	perfect := bytes.Equal(original.Content(), mirror.Content())
	strength := partialStrength
	if perfect {
		strength = perfectStrength
	}
	return Artifact{
		original: original,
		mirror:   mirror,
		kind:     kind,
		perfect:  perfect,
		strength: strength,
	}
}

// Derive builds the mirror by applying a transform to the original's
// content and hashing the result with h.
func Derive(original cas.Artifact, t Transform, h cas.Hasher) Artifact {
	m := cas.NewArtifact(t.Apply(original.Content()), h)
	return New(original, m, t.Kind())
}

// NewPerfect derives an identity mirror.
func NewPerfect(original cas.Artifact, h cas.Hasher) Artifact {
	return Derive(original, Identity{}, h)
}

// NewByteReversed derives a byte-reversed mirror.
func NewByteReversed(original cas.Artifact, h cas.Hasher) Artifact {
	return Derive(original, ByteReverse{}, h)
}

// NewBitComplemented derives a bit-complemented mirror.
func NewBitComplemented(original cas.Artifact, h cas.Hasher) Artifact {
	return Derive(original, BitComplement{}, h)
}

// Original returns the original artifact.
func (a Artifact) Original() cas.Artifact { return a.original }

// Mirror returns the derived artifact.
func (a Artifact) Mirror() cas.Artifact { return a.mirror }

// Kind returns the transform kind the pairing was built with.
func (a Artifact) Kind() Kind { return a.kind }

// IsPerfect tells whether original and mirror content are identical.
func (a Artifact) IsPerfect() bool { return a.perfect }

// Strength returns the relationship strength:
// 1.0 for a perfect mirror, 0.5 otherwise.
func (a Artifact) Strength() float64 { return a.strength }

// Hashes returns the original and mirror hashes.
func (a Artifact) Hashes() (original, mirror cas.Hash) {
	return a.original.Ref(), a.mirror.Ref()
}

// Stats counts stored pairings per transform kind.
// Custom kinds contribute to Total only.
type Stats struct {
	Total           int
	Perfect         int
	ByteReversed    int
	BitComplemented int
}

// Store indexes mirror pairings in both directions:
// by original hash and by mirror hash.
type Store struct {
	pairs   map[cas.Hash]Artifact // original hash -> pairing
	reverse map[cas.Hash]cas.Hash // mirror hash -> original hash
	stats   Stats
}

// NewStore produces an empty Store.
func NewStore() *Store {
	return &Store{
		pairs:   make(map[cas.Hash]Artifact),
		reverse: make(map[cas.Hash]cas.Hash),
	}
}

// Put stores a pairing, indexed by both of its hashes.
func (s *Store) Put(a Artifact) {
	oref, mref := a.Hashes()
	s.pairs[oref] = a
	s.reverse[mref] = oref

	s.stats.Total++
	switch a.Kind() {
	case Perfect:
		s.stats.Perfect++
	case ByteReversed:
		s.stats.ByteReversed++
	case BitComplemented:
		s.stats.BitComplemented++
	}
}

// Get looks up a pairing by either of its hashes.
func (s *Store) Get(ref cas.Hash) (Artifact, bool) {
	if a, ok := s.pairs[ref]; ok {
		return a, true
	}
	if oref, ok := s.reverse[ref]; ok {
		a, ok := s.pairs[oref]
		return a, ok
	}
	return Artifact{}, false
}

// MirrorHash returns the hash on the other side of the pairing:
// the mirror hash for an original hash, the original hash for a
// mirror hash.
func (s *Store) MirrorHash(ref cas.Hash) (cas.Hash, bool) {
	if a, ok := s.pairs[ref]; ok {
		return a.Mirror().Ref(), true
	}
	if oref, ok := s.reverse[ref]; ok {
		return oref, true
	}
	return cas.Zero, false
}

// Has tells whether ref appears on either side of a stored pairing.
func (s *Store) Has(ref cas.Hash) bool {
	if _, ok := s.pairs[ref]; ok {
		return true
	}
	_, ok := s.reverse[ref]
	return ok
}

// Len returns the number of stored pairings.
func (s *Store) Len() int { return len(s.pairs) }

// Stats returns per-kind counts.
func (s *Store) Stats() Stats { return s.stats }

// ByKind returns all stored pairings of the given kind.
func (s *Store) ByKind(kind Kind) []Artifact {
	var out []Artifact
	for _, a := range s.pairs {
		if a.Kind() == kind {
			out = append(out, a)
		}
	}
	return out
}

// All calls f for every stored pairing.
// If f returns an error, All exits with that error.
func (s *Store) All(f func(Artifact) error) error {
	for _, a := range s.pairs {
		if err := f(a); err != nil {
			return err
		}
	}
	return nil
}
