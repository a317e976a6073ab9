package frost

import (
	"io"
	"slices"

	"github.com/pkg/errors"

	"github.com/f3rmion/frostkit/group"
)

// SigningNonce holds a participant's nonce pair for signing.
// It must be used for exactly one call to [FROST.SignRound2].
type SigningNonce struct {
	ID group.Scalar
	D  group.Scalar // hiding nonce
	E  group.Scalar // binding nonce
}

// Clear zeroes the nonce scalars.
func (n *SigningNonce) Clear(g group.Group) {
	clearScalars(g, []group.Scalar{n.D, n.E})
}

// SigningCommitment is broadcast in round 1 of signing.
type SigningCommitment struct {
	ID           group.Scalar
	HidingPoint  group.Point // D * G
	BindingPoint group.Point // E * G
}

// SignatureShare is a participant's share of the signature.
type SignatureShare struct {
	ID group.Scalar
	Z  group.Scalar
}

// SigningPackage is the message together with the commitments of every
// signer of one session, in canonical identifier order.
type SigningPackage struct {
	Message     []byte
	Commitments []*SigningCommitment
}

// Commitment returns the commitment of id, or nil.
func (p *SigningPackage) Commitment(id group.Scalar) *SigningCommitment {
	for _, c := range p.Commitments {
		if c.ID.Equal(id) {
			return c
		}
	}
	return nil
}

// SignRound1 generates nonces and commitment for signing.
//
// Nonces are hedged: each is derived from fresh randomness and the
// secret share, so a weak random source alone does not expose the key.
func (f *FROST) SignRound1(r io.Reader, share *KeyShare) (*SigningNonce, *SigningCommitment, error) {
	d, err := f.nonceGenerate(r, share.SecretKey)
	if err != nil {
		return nil, nil, err
	}
	e, err := f.nonceGenerate(r, share.SecretKey)
	if err != nil {
		return nil, nil, err
	}

	nonce := &SigningNonce{
		ID: share.ID,
		D:  d,
		E:  e,
	}

	commitment := &SigningCommitment{
		ID:           share.ID,
		HidingPoint:  f.group.NewPoint().ScalarMult(d, f.group.Generator()),
		BindingPoint: f.group.NewPoint().ScalarMult(e, f.group.Generator()),
	}

	return nonce, commitment, nil
}

func (f *FROST) nonceGenerate(r io.Reader, secret group.Scalar) (group.Scalar, error) {
	var seed [32]byte
	if _, err := io.ReadFull(r, seed[:]); err != nil {
		return nil, errors.Wrap(err, "reading nonce randomness")
	}
	return f.hasher.H3(f.group, seed[:], secret.Bytes(), nil), nil
}

// NewSigningPackage bundles message and commitments. Commitments are
// sorted into canonical identifier order; duplicates are rejected.
func (f *FROST) NewSigningPackage(message []byte, commitments []*SigningCommitment) (*SigningPackage, error) {
	seen := make(map[string]bool, len(commitments))
	sorted := make([]*SigningCommitment, 0, len(commitments))
	for _, c := range commitments {
		if c == nil || c.ID == nil || c.HidingPoint == nil || c.BindingPoint == nil {
			return nil, errors.Wrap(ErrMalformed, "incomplete commitment")
		}
		if c.HidingPoint.IsIdentity() || c.BindingPoint.IsIdentity() {
			return nil, errors.Wrapf(ErrMalformed, "identity commitment from %x", c.ID.Bytes())
		}
		if seen[group.Key(c.ID)] {
			return nil, errors.Wrapf(ErrDuplicateIdentifier, "commitment from %x", c.ID.Bytes())
		}
		seen[group.Key(c.ID)] = true
		sorted = append(sorted, c)
	}
	slices.SortFunc(sorted, func(a, b *SigningCommitment) int { return a.ID.Cmp(b.ID) })

	return &SigningPackage{
		Message:     slices.Clone(message),
		Commitments: sorted,
	}, nil
}

// SignRound2 generates a signature share.
//
// The nonce must be the one generated together with this participant's
// commitment in pkg. The caller must discard it afterwards.
func (f *FROST) SignRound2(share *KeyShare, nonce *SigningNonce, pkg *SigningPackage) (*SignatureShare, error) {
	if len(pkg.Commitments) < share.MinSigners {
		return nil, errors.Wrapf(ErrInsufficientSigners, "package has %d commitments, need %d", len(pkg.Commitments), share.MinSigners)
	}
	own := pkg.Commitment(share.ID)
	if own == nil {
		return nil, errors.Wrapf(ErrUnknownIdentifier, "own commitment %x not in signing package", share.ID.Bytes())
	}
	if !nonce.ID.Equal(share.ID) {
		return nil, errors.Wrap(ErrIncorrectCommitment, "nonce belongs to another participant")
	}
	hiding := f.group.NewPoint().ScalarMult(nonce.D, f.group.Generator())
	binding := f.group.NewPoint().ScalarMult(nonce.E, f.group.Generator())
	if !hiding.Equal(own.HidingPoint) || !binding.Equal(own.BindingPoint) {
		return nil, ErrIncorrectCommitment
	}

	// Compute binding factors for each signer
	bindingFactors := f.computeBindingFactors(share.GroupKey, pkg)

	// Compute group commitment R = sum(D_i + rho_i * E_i)
	R := f.groupCommitment(pkg, bindingFactors)

	// Compute challenge c = H(R, GroupKey, message)
	c := f.hasher.H2(f.group, R.Bytes(), share.GroupKey.Bytes(), pkg.Message)

	// Compute Lagrange coefficient for this signer
	lambda, err := f.lagrangeCoefficient(share.ID, pkg.Commitments)
	if err != nil {
		return nil, err
	}

	// Compute signature share: z_i = d + rho * e + lambda * s * c
	myRho := bindingFactors[group.Key(share.ID)]

	z := f.group.NewScalar().Mul(myRho, nonce.E)                // rho * e
	z = f.group.NewScalar().Add(nonce.D, z)                     // d + rho * e
	lambdaS := f.group.NewScalar().Mul(lambda, share.SecretKey) // lambda * s
	lambdaSC := f.group.NewScalar().Mul(lambdaS, c)             // lambda * s * c
	z = f.group.NewScalar().Add(z, lambdaSC)                    // d + rho*e + lambda*s*c

	return &SignatureShare{
		ID: f.group.NewScalar().Set(share.ID),
		Z:  z,
	}, nil
}

// VerifySignatureShare checks one signature share against the signer's
// verifying share: z_i * G == D_i + rho_i * E_i + lambda_i * c * Y_i.
func (f *FROST) VerifySignatureShare(
	share *SignatureShare,
	verifyingShare group.Point,
	groupKey group.Point,
	pkg *SigningPackage,
) error {
	comm := pkg.Commitment(share.ID)
	if comm == nil {
		return errors.Wrapf(ErrUnknownIdentifier, "signer %x not in signing package", share.ID.Bytes())
	}
	bindingFactors := f.computeBindingFactors(groupKey, pkg)
	R := f.groupCommitment(pkg, bindingFactors)
	c := f.hasher.H2(f.group, R.Bytes(), groupKey.Bytes(), pkg.Message)
	return f.verifyShare(share, comm, verifyingShare, bindingFactors, c, pkg)
}

func (f *FROST) verifyShare(
	share *SignatureShare,
	comm *SigningCommitment,
	verifyingShare group.Point,
	bindingFactors map[string]group.Scalar,
	c group.Scalar,
	pkg *SigningPackage,
) error {
	lambda, err := f.lagrangeCoefficient(share.ID, pkg.Commitments)
	if err != nil {
		return err
	}
	rho := bindingFactors[group.Key(share.ID)]
	Ri := f.group.NewPoint().Add(comm.HidingPoint, f.group.NewPoint().ScalarMult(rho, comm.BindingPoint))
	lc := f.group.NewScalar().Mul(lambda, c)
	rhs := f.group.NewPoint().Add(Ri, f.group.NewPoint().ScalarMult(lc, verifyingShare))
	lhs := f.group.NewPoint().ScalarMult(share.Z, f.group.Generator())
	if !lhs.Equal(rhs) {
		return ErrInvalidShare
	}
	return nil
}

// Aggregate combines signature shares into a final signature.
//
// Every share is verified against its signer's verifying share first.
// A single bad share fails the whole aggregation with an
// [InvalidShareError] naming all culprits; shares are never dropped.
// The aggregated signature is verified against the group key before it
// is returned.
func (f *FROST) Aggregate(
	pkg *SigningPackage,
	shares []*SignatureShare,
	pub *PublicKeyPackage,
) (*Signature, error) {
	byID := make(map[string]*SignatureShare, len(shares))
	for _, s := range shares {
		if s == nil || s.ID == nil || s.Z == nil {
			return nil, errors.Wrap(ErrMalformed, "incomplete signature share")
		}
		if _, ok := byID[group.Key(s.ID)]; ok {
			return nil, errors.Wrapf(ErrDuplicateIdentifier, "signature share from %x", s.ID.Bytes())
		}
		if pkg.Commitment(s.ID) == nil {
			return nil, errors.Wrapf(ErrUnknownIdentifier, "signer %x not in signing package", s.ID.Bytes())
		}
		byID[group.Key(s.ID)] = s
	}
	if len(byID) < len(pkg.Commitments) || len(byID) < pub.MinSigners {
		need := max(len(pkg.Commitments), pub.MinSigners)
		return nil, errors.Wrapf(ErrInsufficientShares, "have %d shares, need %d", len(byID), need)
	}

	// Recompute R
	bindingFactors := f.computeBindingFactors(pub.GroupKey, pkg)
	R := f.groupCommitment(pkg, bindingFactors)
	c := f.hasher.H2(f.group, R.Bytes(), pub.GroupKey.Bytes(), pkg.Message)

	var culprits []group.Scalar
	for _, comm := range pkg.Commitments {
		s := byID[group.Key(comm.ID)]
		verifyingShare := pub.VerifyingShare(comm.ID)
		if verifyingShare == nil {
			return nil, errors.Wrapf(ErrUnknownIdentifier, "no verifying share for %x", comm.ID.Bytes())
		}
		if err := f.verifyShare(s, comm, verifyingShare, bindingFactors, c, pkg); err != nil {
			if !errors.Is(err, ErrInvalidShare) {
				return nil, err
			}
			culprits = append(culprits, comm.ID)
		}
	}
	if len(culprits) > 0 {
		log.Warnw("rejecting aggregation", "invalid_shares", len(culprits))
		return nil, &InvalidShareError{Culprits: culprits}
	}

	// Sum all z shares
	z := f.group.NewScalar()
	for _, comm := range pkg.Commitments {
		z = f.group.NewScalar().Add(z, byID[group.Key(comm.ID)].Z)
	}

	sig := &Signature{R: R, Z: z}
	if !f.Verify(pkg.Message, sig, pub.GroupKey) {
		return nil, ErrInvalidSignature
	}
	return sig, nil
}

// Verify checks a FROST signature.
func (f *FROST) Verify(message []byte, sig *Signature, groupKey group.Point) bool {
	if sig == nil || sig.R == nil || sig.Z == nil || groupKey == nil {
		return false
	}

	// c = H(R, GroupKey, message)
	c := f.hasher.H2(f.group, sig.R.Bytes(), groupKey.Bytes(), message)

	// Check: z*G == R + c*Y
	lhs := f.group.NewPoint().ScalarMult(sig.Z, f.group.Generator())

	cY := f.group.NewPoint().ScalarMult(c, groupKey)
	rhs := f.group.NewPoint().Add(sig.R, cY)

	return lhs.Equal(rhs)
}

// computeBindingFactors derives rho_i = H1(Y || H4(m) || H5(list) || id_i)
// for every signer in pkg.
func (f *FROST) computeBindingFactors(groupKey group.Point, pkg *SigningPackage) map[string]group.Scalar {
	factors := make(map[string]group.Scalar, len(pkg.Commitments))

	// Build commitment list bytes for hashing
	var commBytes []byte
	for _, c := range pkg.Commitments {
		commBytes = append(commBytes, c.ID.Bytes()...)
		commBytes = append(commBytes, c.HidingPoint.Bytes()...)
		commBytes = append(commBytes, c.BindingPoint.Bytes()...)
	}

	prefix := append(slices.Clone(groupKey.Bytes()), f.hasher.H4(f.group, pkg.Message)...)
	listDigest := f.hasher.H5(f.group, commBytes)

	for _, c := range pkg.Commitments {
		factors[group.Key(c.ID)] = f.hasher.H1(f.group, prefix, listDigest, c.ID.Bytes())
	}

	return factors
}

func (f *FROST) groupCommitment(pkg *SigningPackage, bindingFactors map[string]group.Scalar) group.Point {
	R := f.group.NewPoint()
	for _, comm := range pkg.Commitments {
		rho := bindingFactors[group.Key(comm.ID)]
		rhoE := f.group.NewPoint().ScalarMult(rho, comm.BindingPoint)
		term := f.group.NewPoint().Add(comm.HidingPoint, rhoE)
		R = f.group.NewPoint().Add(R, term)
	}
	return R
}

func (f *FROST) lagrangeCoefficient(id group.Scalar, commitments []*SigningCommitment) (group.Scalar, error) {
	num := f.scalarFromInt(1)
	den := f.scalarFromInt(1)

	for _, c := range commitments {
		if c.ID.Equal(id) {
			continue
		}
		// num *= c.ID
		num = f.group.NewScalar().Mul(num, c.ID)
		// den *= (c.ID - id)
		diff := f.group.NewScalar().Sub(c.ID, id)
		den = f.group.NewScalar().Mul(den, diff)
	}

	denInv, err := f.group.NewScalar().Invert(den)
	if err != nil {
		return nil, errors.Wrap(ErrDuplicateIdentifier, "lagrange denominator is zero")
	}
	return f.group.NewScalar().Mul(num, denInv), nil
}
