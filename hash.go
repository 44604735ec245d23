package cas

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/zeebo/blake3"
)

// Hasher converts content into its Hash.
// Implementations must be deterministic: the same bytes always
// produce the same Hash.
//
// A Hash does not record which algorithm produced it.
// Callers that mix Hashers are responsible for tracking provenance
// themselves, or for using the paired form in package pair.
type Hasher interface {
	// Hash computes the digest of data.
	Hash(data []byte) Hash

	// Algorithm returns a stable identifier for the algorithm.
	Algorithm() string
}

// ChecksumHasher is the bootstrap-grade default Hasher:
// a wrapping sum of byte values serialized big-endian into the
// first eight bytes of the Hash.
//
// The sum is order-insensitive, so permutations of the same bytes
// collide. That is accepted: this is a stage-0 checksum, not a
// cryptographic digest, and nothing in this module assumes otherwise.
type ChecksumHasher struct{}

var _ Hasher = ChecksumHasher{}

// Hash implements Hasher.
func (ChecksumHasher) Hash(data []byte) Hash {
	var sum uint64
	for _, b := range data {
		sum += uint64(b)
	}
	var out Hash
	binary.BigEndian.PutUint64(out[:8], sum)
	return out
}

// Algorithm implements Hasher.
func (ChecksumHasher) Algorithm() string { return "checksum" }

// FNVHasher hashes content with 64-bit FNV-1a,
// serialized big-endian into the first eight bytes of the Hash.
// Cheap and order-sensitive, but still not cryptographic.
type FNVHasher struct{}

var _ Hasher = FNVHasher{}

// Hash implements Hasher.
func (FNVHasher) Hash(data []byte) Hash {
	h := fnv.New64a()
	h.Write(data)
	var out Hash
	binary.BigEndian.PutUint64(out[:8], h.Sum64())
	return out
}

// Algorithm implements Hasher.
func (FNVHasher) Algorithm() string { return "fnv1a-64" }

// Blake3Hasher hashes content with BLAKE3,
// filling the full width of the Hash.
type Blake3Hasher struct{}

var _ Hasher = Blake3Hasher{}

// Hash implements Hasher.
func (Blake3Hasher) Hash(data []byte) Hash {
	return Hash(blake3.Sum256(data))
}

// Algorithm implements Hasher.
func (Blake3Hasher) Algorithm() string { return "blake3" }
