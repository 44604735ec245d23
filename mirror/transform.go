// Package mirror derives artifacts from other artifacts through
// deterministic content transforms and indexes the resulting pairs
// in both directions.
package mirror

// Kind names a transform.
type Kind string

const (
	// Perfect is the identity transform: content unchanged.
	Perfect Kind = "perfect"

	// ByteReversed reverses the order of the content bytes.
	ByteReversed Kind = "byte-reversed"

	// BitComplemented complements every byte.
	BitComplemented Kind = "bit-complemented"
)

// CustomKind names a caller-defined transform.
func CustomKind(name string) Kind {
	return Kind("custom:" + name)
}

// Transform is a pure, deterministic content transform.
type Transform interface {
	// Apply produces the transformed content.
	// It must not modify its input.
	Apply(content []byte) []byte

	// Kind names the transform.
	Kind() Kind
}

// Identity is the transform behind Perfect mirrors.
type Identity struct{}

// Apply implements Transform.
func (Identity) Apply(content []byte) []byte {
	out := make([]byte, len(content))
	copy(out, content)
	return out
}

// Kind implements Transform.
func (Identity) Kind() Kind { return Perfect }

// ByteReverse reverses content byte order.
// Applying it twice restores the original content.
type ByteReverse struct{}

// Apply implements Transform.
func (ByteReverse) Apply(content []byte) []byte {
	out := make([]byte, len(content))
	for i, b := range content {
		out[len(content)-1-i] = b
	}
	return out
}

// Kind implements Transform.
func (ByteReverse) Kind() Kind { return ByteReversed }

// BitComplement complements every content byte.
// Like ByteReverse it is an involution.
type BitComplement struct{}

// Apply implements Transform.
func (BitComplement) Apply(content []byte) []byte {
	out := make([]byte, len(content))
	for i, b := range content {
		out[i] = ^b
	}
	return out
}

// Kind implements Transform.
func (BitComplement) Kind() Kind { return BitComplemented }

// Custom is a named caller-defined transform, opaque to this package.
type Custom struct {
	name string
	fn   func([]byte) []byte
}

// NewCustom produces a Custom transform. fn must be pure and
// deterministic and must not modify its input.
func NewCustom(name string, fn func([]byte) []byte) Custom {
	return Custom{name: name, fn: fn}
}

// Apply implements Transform.
func (c Custom) Apply(content []byte) []byte { return c.fn(content) }

// Kind implements Transform.
func (c Custom) Kind() Kind { return CustomKind(c.name) }
