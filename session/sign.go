package session

import (
	"errors"
	"io"
	"slices"
	"sync"

	"github.com/f3rmion/frostkit/frost"
)

// SigningNonces is the secret output of round 1. It must be consumed by
// exactly one round-2 call and never persisted.
type SigningNonces struct {
	Data []byte `json:"data"`
}

// Clear overwrites the encoded nonces.
func (n *SigningNonces) Clear() {
	clear(n.Data)
	n.Data = nil
}

// SigningCommitments is the public output of round 1, sent to the
// coordinator.
type SigningCommitments struct {
	Identifier Identifier `json:"identifier"`
	Data       []byte     `json:"data"`
}

// SigningPackage is the message together with the commitments of every
// signer of the session, assembled by the coordinator.
type SigningPackage struct {
	Data []byte `json:"data"`
}

func (p *SigningPackage) clone() *SigningPackage {
	if p == nil {
		return nil
	}
	return &SigningPackage{Data: slices.Clone(p.Data)}
}

// SignatureShare is a participant's round-2 output. It is only valid
// against the SigningPackage it was produced from.
type SignatureShare struct {
	Identifier Identifier `json:"identifier"`
	Data       []byte     `json:"data"`
}

// Signature is the aggregated Schnorr signature, R || z.
type Signature struct {
	Data []byte `json:"data"`
}

func commit(e Engine, rng io.Reader, id Identifier, ks *frost.KeyShare) (*SigningNonces, *SigningCommitments, error) {
	nonce, comm, err := e.SignRound1(rng, ks)
	if err != nil {
		return nil, nil, newError(StageCommit, UnknownError, err).withIdentifier(id).withReason("drawing nonces")
	}
	defer nonce.Clear(e.Group())

	nonceData, err := e.EncodeSigningNonce(nonce)
	if err != nil {
		return nil, nil, newError(StageCommit, NonceSerializationError, err).withIdentifier(id)
	}
	commData, err := e.EncodeSigningCommitment(comm)
	if err != nil {
		clear(nonceData)
		return nil, nil, newError(StageCommit, CommitmentSerializationError, err).withIdentifier(id)
	}
	return &SigningNonces{Data: nonceData}, &SigningCommitments{Identifier: id, Data: commData}, nil
}

// Sign runs signing round 2: it produces the signature share of kp's
// owner over pkg. nonces must be the value returned by the round-1 call
// whose commitment is in pkg. The caller must discard nonces afterwards;
// [SigningSession] and [NonceStore] enforce that.
func Sign(e Engine, pkg *SigningPackage, nonces *SigningNonces, kp *KeyPackage) (*SignatureShare, error) {
	if pkg == nil {
		return nil, newError(StageSign, SigningPackageDeserializationError, nil).withReason("missing signing package")
	}
	p, err := e.DecodeSigningPackage(pkg.Data)
	if err != nil {
		return nil, newError(StageSign, SigningPackageDeserializationError, err)
	}
	if nonces == nil {
		return nil, newError(StageSign, NonceSerializationError, nil).withReason("missing nonces")
	}
	nonce, err := e.DecodeSigningNonce(nonces.Data)
	if err != nil {
		return nil, newError(StageSign, NonceSerializationError, err)
	}
	defer nonce.Clear(e.Group())

	ks, id, err := kp.keyShare(e, StageSign)
	if err != nil {
		return nil, err
	}
	if !nonce.ID.Equal(ks.ID) {
		return nil, newError(StageSign, SigningFailed, nil).withIdentifier(id).
			withReason("nonces belong to another participant")
	}

	share, err := e.SignRound2(ks, nonce, p)
	if err != nil {
		failure := newError(StageSign, SigningFailed, err).withIdentifier(id)
		switch {
		case errors.Is(err, frost.ErrUnknownIdentifier):
			failure.Reason = "identifier not in signing package"
		case errors.Is(err, frost.ErrIncorrectCommitment):
			failure.Reason = "nonces do not match the published commitment"
		case errors.Is(err, frost.ErrInsufficientSigners):
			failure.Reason = "signing package below threshold"
		}
		return nil, failure
	}

	data, err := e.EncodeSignatureShare(share)
	if err != nil {
		return nil, newError(StageSign, SerializationError, err).withIdentifier(id)
	}
	log.Debugw("signature share produced", "identifier", id.String())
	return &SignatureShare{Identifier: id, Data: data}, nil
}

// SigningSession manages a single signing operation with built-in nonce safety.
// Each session can only be used once; attempting to sign twice returns an error.
//
// Create sessions using [Participant.NewSigningSession].
type SigningSession struct {
	mu          sync.Mutex
	participant *Participant
	nonces      *SigningNonces
	commitments *SigningCommitments
	consumed    bool
}

// NewSigningSession runs round 1 and keeps the nonces inside the
// session. The session must be used exactly once.
func (p *Participant) NewSigningSession(rng io.Reader) (*SigningSession, error) {
	nonces, commitments, err := p.Commit(rng)
	if err != nil {
		return nil, err
	}
	return &SigningSession{
		participant: p,
		nonces:      nonces,
		commitments: commitments,
	}, nil
}

// Commitments returns the public commitment to send to the coordinator.
func (s *SigningSession) Commitments() *SigningCommitments {
	return &SigningCommitments{
		Identifier: s.commitments.Identifier,
		Data:       slices.Clone(s.commitments.Data),
	}
}

// Sign produces a signature share for this session.
//
// This method consumes the session. Calling Sign a second time returns
// NonceConsumed, even if the first call failed, since the nonces may
// already have been combined with a package.
func (s *SigningSession) Sign(pkg *SigningPackage) (*SignatureShare, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.consumed {
		return nil, newError(StageSign, NonceConsumed, nil).withIdentifier(s.participant.id)
	}

	// Mark as consumed immediately, before any operations that might fail
	s.consumed = true
	defer func() {
		s.nonces.Clear()
		s.nonces = nil
	}()

	return s.participant.Sign(pkg, s.nonces)
}

// IsConsumed returns true if this session has already been used for signing.
func (s *SigningSession) IsConsumed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consumed
}

// QuickSign performs a complete signing ceremony when all key packages
// are local, for tests and single-machine setups. Distributed signers
// use [SigningSession] and a [Coordinator] instead.
func QuickSign(
	e Engine,
	rng io.Reader,
	keyPackages []*KeyPackage,
	pub *PublicKeyPackage,
	message []byte,
) (*Signature, error) {
	coordinator, err := NewCoordinator(e, pub, message)
	if err != nil {
		return nil, err
	}

	sessions := make([]*SigningSession, len(keyPackages))
	for i, kp := range keyPackages {
		p, err := NewParticipant(e, kp)
		if err != nil {
			return nil, err
		}
		if sessions[i], err = p.NewSigningSession(rng); err != nil {
			return nil, err
		}
		if err := coordinator.ReceiveCommitment(sessions[i].Commitments()); err != nil {
			return nil, err
		}
	}

	pkg, err := coordinator.CreateSigningPackage()
	if err != nil {
		return nil, err
	}
	for _, sess := range sessions {
		share, err := sess.Sign(pkg)
		if err != nil {
			return nil, err
		}
		if err := coordinator.ReceiveSignatureShare(share); err != nil {
			return nil, err
		}
	}
	return coordinator.Aggregate()
}
