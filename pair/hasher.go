// Package pair cross-verifies two independent hashers or stores
// over the same content.
package pair

import "github.com/flowkern/cas"

// Hasher wraps two cas.Hashers and computes both digests over the
// same input.
type Hasher struct {
	primary   cas.Hasher
	secondary cas.Hasher
}

// NewHasher produces a Hasher from two cas.Hashers.
func NewHasher(primary, secondary cas.Hasher) *Hasher {
	return &Hasher{primary: primary, secondary: secondary}
}

// DualHash computes both hashes for data.
func (h *Hasher) DualHash(data []byte) (cas.Hash, cas.Hash) {
	return h.primary.Hash(data), h.secondary.Hash(data)
}

// VerifyDual recomputes both hashes for data and reports whether
// they match the previously recorded pair.
func (h *Hasher) VerifyDual(data []byte, primary, secondary cas.Hash) bool {
	p, s := h.DualHash(data)
	return p == primary && s == secondary
}

// Primary returns the primary hasher.
func (h *Hasher) Primary() cas.Hasher { return h.primary }

// Secondary returns the secondary hasher.
func (h *Hasher) Secondary() cas.Hasher { return h.secondary }

// Artifact is one artifact plus the hashes computed over its content
// by two different hashers. Verified is true iff the two hashes are
// bytewise equal, which distinct algorithms generally will not be.
type Artifact struct {
	artifact  cas.Artifact
	primary   cas.Hash
	secondary cas.Hash
	verified  bool
}

// NewArtifact pairs an artifact with two hashes.
func NewArtifact(a cas.Artifact, primary, secondary cas.Hash) Artifact {
	return Artifact{
		artifact:  a,
		primary:   primary,
		secondary: secondary,
		verified:  primary == secondary,
	}
}

// Artifact returns the underlying artifact.
func (a Artifact) Artifact() cas.Artifact { return a.artifact }

// PrimaryHash returns the primary hash.
func (a Artifact) PrimaryHash() cas.Hash { return a.primary }

// SecondaryHash returns the secondary hash.
func (a Artifact) SecondaryHash() cas.Hash { return a.secondary }

// Verified tells whether the two hashes are equal.
func (a Artifact) Verified() bool { return a.verified }

// Hashes returns both hashes.
func (a Artifact) Hashes() (cas.Hash, cas.Hash) { return a.primary, a.secondary }
