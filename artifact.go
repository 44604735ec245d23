package cas

// Artifact is an immutable pairing of content with its Hash.
// The hash is computed exactly once, at construction,
// by the Hasher supplied to NewArtifact.
type Artifact struct {
	content []byte
	hash    Hash
	alg     string
}

// NewArtifact builds an Artifact from content.
// The content is copied, so later changes to the input slice
// do not affect the artifact.
func NewArtifact(content []byte, h Hasher) Artifact {
	c := make([]byte, len(content))
	copy(c, content)
	return Artifact{
		content: c,
		hash:    h.Hash(c),
		alg:     h.Algorithm(),
	}
}

// Content returns the artifact's content.
// The returned slice must not be modified.
func (a Artifact) Content() []byte { return a.content }

// Ref returns the artifact's Hash.
func (a Artifact) Ref() Hash { return a.hash }

// Size returns the length of the content in bytes.
func (a Artifact) Size() int { return len(a.content) }

// Algorithm returns the identifier of the Hasher that produced the
// artifact's Hash.
func (a Artifact) Algorithm() string { return a.alg }
