package frost

import (
	"io"

	"github.com/pkg/errors"

	"github.com/f3rmion/frostkit/group"
)

// SecretShare is the dealer's output for one participant: its share of
// the secret and the Feldman commitment to the dealer's polynomial,
// which lets the recipient verify the share on its own.
type SecretShare struct {
	ID         group.Scalar  // participant identifier
	Value      group.Scalar  // polynomial evaluated at ID
	Commitment []group.Point // commitments to polynomial coefficients
}

// randomPolynomial returns t coefficients whose constant term is secret.
func (f *FROST) randomPolynomial(r io.Reader, secret group.Scalar, t int) ([]group.Scalar, error) {
	coeffs := make([]group.Scalar, t)
	coeffs[0] = f.group.NewScalar().Set(secret)
	for i := 1; i < t; i++ {
		c, err := f.group.RandomScalar(r)
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}
	return coeffs, nil
}

// commitPolynomial computes C_i = coeffs[i] * G.
func (f *FROST) commitPolynomial(coeffs []group.Scalar) []group.Point {
	commits := make([]group.Point, len(coeffs))
	for i, c := range coeffs {
		commits[i] = f.group.NewPoint().ScalarMult(c, f.group.Generator())
	}
	return commits
}

// evalCommitment computes sum(C_i * x^i), the public image of the
// polynomial at x.
func (f *FROST) evalCommitment(commitment []group.Point, x group.Scalar) group.Point {
	rhs := f.group.NewPoint()
	xPower := f.scalarFromInt(1)

	for _, commit := range commitment {
		term := f.group.NewPoint().ScalarMult(xPower, commit)
		rhs = f.group.NewPoint().Add(rhs, term)
		xPower = f.group.NewScalar().Mul(xPower, x)
	}
	return rhs
}

// VerifySecretShare checks a share against its commitment and derives
// the participant's [KeyShare]. A share received over an untrusted
// channel must pass this check before it is used for signing.
func (f *FROST) VerifySecretShare(share *SecretShare) (*KeyShare, error) {
	if share == nil || share.ID == nil || share.Value == nil {
		return nil, errors.Wrap(ErrInvalidSecretShare, "incomplete share")
	}
	if share.ID.IsZero() {
		return nil, ErrInvalidIdentifier
	}
	if len(share.Commitment) < 2 {
		return nil, errors.Wrap(ErrInvalidSecretShare, "commitment shorter than minimum threshold")
	}
	if share.Commitment[0].IsIdentity() {
		return nil, errors.Wrap(ErrInvalidSecretShare, "group key is the identity")
	}

	// Verify: share * G == sum(commitments[i] * ID^i)
	lhs := f.group.NewPoint().ScalarMult(share.Value, f.group.Generator())
	if !lhs.Equal(f.evalCommitment(share.Commitment, share.ID)) {
		return nil, ErrInvalidSecretShare
	}

	return &KeyShare{
		ID:         f.group.NewScalar().Set(share.ID),
		SecretKey:  f.group.NewScalar().Set(share.Value),
		PublicKey:  lhs,
		GroupKey:   f.group.NewPoint().Set(share.Commitment[0]),
		MinSigners: len(share.Commitment),
	}, nil
}
