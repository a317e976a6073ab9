package frost

import (
	"io"

	"github.com/pkg/errors"

	"github.com/f3rmion/frostkit/group"
)

// PublicKeyPackage is the group-wide public data produced by a split.
type PublicKeyPackage struct {
	// VerifyingShares maps group.Key(id) to the participant's public share.
	VerifyingShares map[string]group.Point
	// Participants lists every identifier in canonical order.
	Participants []group.Scalar
	GroupKey     group.Point
	MinSigners   int
}

// VerifyingShare returns the public share of id, or nil if id was not
// part of the split.
func (p *PublicKeyPackage) VerifyingShare(id group.Scalar) group.Point {
	return p.VerifyingShares[group.Key(id)]
}

// Split runs trusted-dealer key generation. It shares secret (a fresh
// random secret when nil) among maxSigners participants so that any
// minSigners of them can sign. When ids is nil the identifiers 1..n are
// used.
//
// The returned shares are the only copies; the polynomial is cleared
// before Split returns.
func (f *FROST) Split(
	r io.Reader,
	secret group.Scalar,
	minSigners, maxSigners int,
	ids []group.Scalar,
) ([]*SecretShare, *PublicKeyPackage, error) {
	if minSigners < 2 {
		return nil, nil, errors.Wrapf(ErrInvalidMinSigners, "min signers %d below 2", minSigners)
	}
	if maxSigners < 2 {
		return nil, nil, errors.Wrapf(ErrInvalidMaxSigners, "max signers %d below 2", maxSigners)
	}
	if minSigners > maxSigners {
		return nil, nil, errors.Wrapf(ErrInvalidMinSigners, "min signers %d above max signers %d", minSigners, maxSigners)
	}

	if ids == nil {
		ids = f.DefaultIdentifiers(maxSigners)
	}
	if len(ids) != maxSigners {
		return nil, nil, errors.Wrapf(ErrInvalidMaxSigners, "expected %d identifiers, got %d", maxSigners, len(ids))
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == nil || id.IsZero() {
			return nil, nil, ErrInvalidIdentifier
		}
		if seen[group.Key(id)] {
			return nil, nil, errors.Wrapf(ErrDuplicateIdentifier, "identifier %x", id.Bytes())
		}
		seen[group.Key(id)] = true
	}

	if secret == nil {
		s, err := f.randomNonzeroScalar(r)
		if err != nil {
			return nil, nil, err
		}
		secret = s
	} else if secret.IsZero() {
		return nil, nil, errors.Wrap(ErrInvalidSecret, "secret is zero")
	}

	coeffs, err := f.randomPolynomial(r, secret, minSigners)
	if err != nil {
		return nil, nil, err
	}
	defer clearScalars(f.group, coeffs)

	commitment := f.commitPolynomial(coeffs)

	pub := &PublicKeyPackage{
		VerifyingShares: make(map[string]group.Point, maxSigners),
		GroupKey:        commitment[0],
		MinSigners:      minSigners,
	}
	shares := make([]*SecretShare, len(ids))
	for i, id := range ids {
		value := f.evalPolynomial(coeffs, id)
		shares[i] = &SecretShare{
			ID:         f.group.NewScalar().Set(id),
			Value:      value,
			Commitment: commitment,
		}
		pub.VerifyingShares[group.Key(id)] = f.group.NewPoint().ScalarMult(value, f.group.Generator())
		pub.Participants = append(pub.Participants, f.group.NewScalar().Set(id))
	}
	group.SortScalars(pub.Participants)

	log.Debugw("dealer split complete", "suite", f.Name(), "min", minSigners, "max", maxSigners)
	return shares, pub, nil
}

func (f *FROST) randomNonzeroScalar(r io.Reader) (group.Scalar, error) {
	for {
		s, err := f.group.RandomScalar(r)
		if err != nil {
			return nil, err
		}
		if !s.IsZero() {
			return s, nil
		}
	}
}

// clearScalars overwrites secret scalars with zero. Go gives no hard
// guarantee that no other copy survives in memory.
func clearScalars(g group.Group, scalars []group.Scalar) {
	zero := g.NewScalar()
	for _, s := range scalars {
		if s != nil {
			s.Set(zero)
		}
	}
}
