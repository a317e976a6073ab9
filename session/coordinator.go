package session

import (
	"errors"

	"github.com/hashicorp/go-multierror"

	"github.com/f3rmion/frostkit/frost"
)

// NewSigningPackage assembles the commitments of at least minSigners
// participants and the message into a SigningPackage. The coordinator
// only handles public values, so any participant or a neutral relay can
// play this role.
func NewSigningPackage(e Engine, minSigners uint16, message []byte, commitments []*SigningCommitments) (*SigningPackage, error) {
	if minSigners < 2 {
		return nil, newError(StageAssemble, InvalidMinSigners, nil).withReason("min signers %d below 2", minSigners)
	}
	if len(commitments) < int(minSigners) {
		return nil, newError(StageAssemble, InsufficientCommitments, nil).
			withReason("have %d commitments, need %d", len(commitments), minSigners)
	}

	seen := make(map[Identifier]bool, len(commitments))
	decoded := make([]*frost.SigningCommitment, 0, len(commitments))
	for _, c := range commitments {
		if c == nil {
			return nil, newError(StageAssemble, DeserializationError, nil).withReason("nil commitment")
		}
		if seen[c.Identifier] {
			return nil, newError(StageAssemble, DuplicateIdentifier, nil).withIdentifier(c.Identifier)
		}
		seen[c.Identifier] = true

		comm, err := e.DecodeSigningCommitment(c.Data)
		if err != nil {
			return nil, newError(StageAssemble, DeserializationError, err).withIdentifier(c.Identifier)
		}
		embedded, err := identifierFromScalar(comm.ID)
		if err != nil {
			return nil, err
		}
		if embedded != c.Identifier {
			return nil, newError(StageAssemble, UnknownIdentifier, nil).withIdentifier(c.Identifier).
				withReason("commitment belongs to %s", embedded)
		}
		decoded = append(decoded, comm)
	}

	pkg, err := e.NewSigningPackage(message, decoded)
	if err != nil {
		return nil, fromEngine(StageAssemble, err)
	}
	data, err := e.EncodeSigningPackage(pkg)
	if err != nil {
		return nil, newError(StageAssemble, SerializationError, err)
	}
	log.Debugw("signing package assembled", "signers", len(decoded))
	return &SigningPackage{Data: data}, nil
}

// Aggregate verifies every signature share against its signer's
// verifying share and combines them into the group signature. A single
// invalid share fails the whole aggregation with InvalidShare listing
// every culprit; shares are never dropped to salvage a smaller set. The
// result is verified against the group key before it is returned.
func Aggregate(e Engine, pkg *SigningPackage, shares []*SignatureShare, pub *PublicKeyPackage) (*Signature, error) {
	if pkg == nil {
		return nil, newError(StageAggregate, SigningPackageDeserializationError, nil).withReason("missing signing package")
	}
	p, err := e.DecodeSigningPackage(pkg.Data)
	if err != nil {
		return nil, newError(StageAggregate, SigningPackageDeserializationError, err)
	}
	enginePub, err := pub.engine(e, StageAggregate)
	if err != nil {
		return nil, err
	}

	seen := make(map[Identifier]bool, len(shares))
	for _, s := range shares {
		if s == nil {
			return nil, newError(StageAggregate, DeserializationError, nil).withReason("nil signature share")
		}
		if seen[s.Identifier] {
			return nil, newError(StageAggregate, DuplicateIdentifier, nil).withIdentifier(s.Identifier)
		}
		seen[s.Identifier] = true
		id, err := s.Identifier.scalar(e)
		if err != nil || p.Commitment(id) == nil {
			return nil, newError(StageAggregate, UnknownIdentifier, nil).withIdentifier(s.Identifier).
				withReason("signer not in signing package")
		}
	}
	need := max(len(p.Commitments), int(pub.MinSigners))
	if len(shares) < need {
		return nil, newError(StageAggregate, InsufficientShares, nil).
			withReason("have %d shares, need %d", len(shares), need)
	}

	decoded := make([]*frost.SignatureShare, 0, len(shares))
	for _, s := range shares {
		share, err := e.DecodeSignatureShare(s.Data)
		if err != nil {
			return nil, newError(StageAggregate, DeserializationError, err).withIdentifier(s.Identifier)
		}
		embedded, err := identifierFromScalar(share.ID)
		if err != nil {
			return nil, err
		}
		if embedded != s.Identifier {
			return nil, newError(StageAggregate, UnknownIdentifier, nil).withIdentifier(s.Identifier).
				withReason("share belongs to %s", embedded)
		}
		decoded = append(decoded, share)
	}

	sig, err := e.Aggregate(p, decoded, enginePub)
	if err != nil {
		return nil, aggregateError(err)
	}
	log.Infow("signature aggregated", "signers", len(decoded))
	return &Signature{Data: e.EncodeSignature(sig)}, nil
}

func aggregateError(err error) error {
	var shareErr *frost.InvalidShareError
	if errors.As(err, &shareErr) {
		out := newError(StageAggregate, InvalidShare, nil)
		var all *multierror.Error
		for _, c := range shareErr.Culprits {
			id, idErr := identifierFromScalar(c)
			if idErr != nil {
				return idErr
			}
			out.Culprits = append(out.Culprits, id)
			all = multierror.Append(all, newError(StageAggregate, InvalidShare, nil).withIdentifier(id))
		}
		out.Err = all.ErrorOrNil()
		log.Warnw("aggregation rejected invalid signature shares", "culprits", len(out.Culprits))
		return out
	}
	if errors.Is(err, frost.ErrInvalidSignature) {
		return newError(StageAggregate, SigningFailed, ErrInvalidSignature).
			withReason("aggregated signature does not verify")
	}
	return fromEngine(StageAggregate, err)
}

// Verify checks sig over message against the group verifying key. A
// signature that does not verify gives (false, nil); an error means an
// input did not decode.
func Verify(e Engine, pub *PublicKeyPackage, message []byte, sig *Signature) (bool, error) {
	if pub == nil {
		return false, newError(StageVerify, DeserializationError, nil).withReason("missing public key package")
	}
	key, err := pub.groupKey(e, StageVerify)
	if err != nil {
		return false, err
	}
	if sig == nil {
		return false, newError(StageVerify, DeserializationError, nil).withReason("missing signature")
	}
	s, err := e.DecodeSignature(sig.Data)
	if err != nil {
		return false, newError(StageVerify, DeserializationError, err)
	}
	return e.Verify(message, s, key), nil
}
