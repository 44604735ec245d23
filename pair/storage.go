package pair

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/flowkern/cas"
)

// VerificationMode governs how Storage reconciles disagreement
// between its two backends.
type VerificationMode int

const (
	// Strict requires both backends to yield identical results.
	Strict VerificationMode = iota

	// Lenient accepts whichever backend has the data.
	Lenient

	// PrimaryWithVerification treats the primary as authoritative
	// but still reports any mismatch from the secondary as an error.
	PrimaryWithVerification
)

func (m VerificationMode) String() string {
	switch m {
	case Lenient:
		return "lenient"
	case PrimaryWithVerification:
		return "primary-with-verification"
	default:
		return "strict"
	}
}

// Verification failures. All are local and recoverable:
// the caller decides whether to re-store, alert, or ignore.
var (
	// ErrMismatch is returned when the two backends yield different
	// hashes for the same write.
	ErrMismatch = errors.New("hash mismatch between backends")

	// ErrInconsistent is returned when both backends hold an artifact
	// under the same hash but with different content.
	ErrInconsistent = errors.New("backends disagree on content")

	// ErrMissingPrimary is returned when only the secondary backend
	// holds the artifact and the mode is not Lenient.
	ErrMissingPrimary = errors.New("primary backend missing artifact")

	// ErrMissingSecondary is returned when only the primary backend
	// holds the artifact and the mode is not Lenient.
	ErrMissingSecondary = errors.New("secondary backend missing artifact")
)

// Storage wraps two store backends,
// writing every artifact to both
// and cross-checking reads according to a VerificationMode.
type Storage struct {
	primary   cas.Store
	secondary cas.Store
	mode      VerificationMode
}

// NewStorage produces a Storage over two backends in Strict mode.
func NewStorage(primary, secondary cas.Store) *Storage {
	return &Storage{primary: primary, secondary: secondary, mode: Strict}
}

// SetVerificationMode changes the verification mode.
func (s *Storage) SetVerificationMode(m VerificationMode) {
	s.mode = m
}

// Mode returns the current verification mode.
func (s *Storage) Mode() VerificationMode { return s.mode }

// DualStore writes the artifact to both backends concurrently and
// returns both resulting hashes. In Strict and
// PrimaryWithVerification modes a disagreement between the two
// hashes is reported as ErrMismatch; the writes themselves are not
// rolled back.
func (s *Storage) DualStore(ctx context.Context, a cas.Artifact) (cas.Hash, cas.Hash, error) {
	var prim, sec cas.Hash

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ref, _, err := s.primary.Put(ctx, a)
		prim = ref
		return errors.Wrap(err, "putting in primary backend")
	})
	g.Go(func() error {
		ref, _, err := s.secondary.Put(ctx, a)
		sec = ref
		return errors.Wrap(err, "putting in secondary backend")
	})
	if err := g.Wait(); err != nil {
		return cas.Zero, cas.Zero, err
	}

	if s.mode != Lenient && prim != sec {
		return prim, sec, ErrMismatch
	}
	return prim, sec, nil
}

// GetPrimary reads from the primary backend only.
func (s *Storage) GetPrimary(ctx context.Context, ref cas.Hash) (cas.Artifact, error) {
	return s.primary.Get(ctx, ref)
}

// GetSecondary reads from the secondary backend only.
func (s *Storage) GetSecondary(ctx context.Context, ref cas.Hash) (cas.Artifact, error) {
	return s.secondary.Get(ctx, ref)
}

// GetVerified reads from both backends and reconciles the results.
// If both hold the artifact, their content must agree or
// ErrInconsistent is returned. If only one holds it, Lenient mode
// accepts that copy; other modes report the missing side. If neither
// holds it, the result is cas.ErrNotFound.
func (s *Storage) GetVerified(ctx context.Context, ref cas.Hash) (cas.Artifact, error) {
	prim, perr := s.primary.Get(ctx, ref)
	if perr != nil && !errors.Is(perr, cas.ErrNotFound) {
		return cas.Artifact{}, errors.Wrap(perr, "reading primary backend")
	}
	sec, serr := s.secondary.Get(ctx, ref)
	if serr != nil && !errors.Is(serr, cas.ErrNotFound) {
		return cas.Artifact{}, errors.Wrap(serr, "reading secondary backend")
	}

	switch {
	case perr == nil && serr == nil:
		if !bytes.Equal(prim.Content(), sec.Content()) {
			return cas.Artifact{}, ErrInconsistent
		}
		return prim, nil

	case perr == nil:
		if s.mode == Lenient {
			return prim, nil
		}
		return cas.Artifact{}, ErrMissingSecondary

	case serr == nil:
		if s.mode == Lenient {
			return sec, nil
		}
		return cas.Artifact{}, ErrMissingPrimary

	default:
		return cas.Artifact{}, cas.ErrNotFound
	}
}

// IsConsistent tells whether the two backends hold the same number
// of artifacts. A count match does not prove the contents match;
// it is the cheap check used for telemetry.
func (s *Storage) IsConsistent(ctx context.Context) (bool, error) {
	np, err := s.primary.Len(ctx)
	if err != nil {
		return false, errors.Wrap(err, "sizing primary backend")
	}
	ns, err := s.secondary.Len(ctx)
	if err != nil {
		return false, errors.Wrap(err, "sizing secondary backend")
	}
	return np == ns, nil
}

// Stats describes the state of a Storage.
type Stats struct {
	PrimaryCount   int
	SecondaryCount int
	Mode           VerificationMode
	Consistent     bool
}

// Stats reports counts and consistency for both backends.
func (s *Storage) Stats(ctx context.Context) (Stats, error) {
	np, err := s.primary.Len(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "sizing primary backend")
	}
	ns, err := s.secondary.Len(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "sizing secondary backend")
	}
	return Stats{
		PrimaryCount:   np,
		SecondaryCount: ns,
		Mode:           s.mode,
		Consistent:     np == ns,
	}, nil
}
