// Package cas describes a content-addressable artifact store
// built around a 42-step operation cycle.
package cas

import (
	"bytes"
	"encoding/hex"

	"github.com/pkg/errors"
)

// HashLen is the width of a Hash in bytes.
// Algorithms producing narrower digests are left-aligned and zero-padded.
const HashLen = 32

// Hash is the identifier of an artifact: a fixed-width digest of its content.
type Hash [HashLen]byte

// Zero is the zero value of a Hash.
var Zero Hash

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Less tells whether h sorts lexicographically before other.
func (h Hash) Less(other Hash) bool {
	return bytes.Compare(h[:], other[:]) < 0
}

// FromHex parses a hex string into h.
func (h *Hash) FromHex(s string) error {
	if len(s) != 2*HashLen {
		return errors.New("wrong length")
	}
	_, err := hex.Decode(h[:], []byte(s))
	return err
}

// HashFromBytes copies up to HashLen bytes of b into a Hash.
func HashFromBytes(b []byte) Hash {
	var out Hash
	copy(out[:], b)
	return out
}

// HashFromHex parses a hex string into a new Hash.
func HashFromHex(s string) (Hash, error) {
	var out Hash
	err := out.FromHex(s)
	return out, err
}
