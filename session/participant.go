package session

import (
	"io"
)

// VerifyAndGetKeyPackage runs the engine's VSS check on a share received
// from the dealer and derives the participant's KeyPackage. A share that
// arrived over an untrusted channel must pass here before it is used.
func VerifyAndGetKeyPackage(e Engine, share *SecretShare) (*KeyPackage, error) {
	s, err := share.decode(e, StageKeyPackage)
	if err != nil {
		return nil, newError(StageKeyPackage, InvalidSecretKey, err).withIdentifier(share.Identifier)
	}
	ks, err := e.VerifySecretShare(s)
	if err != nil {
		return nil, newError(StageKeyPackage, InvalidSecretKey, err).withIdentifier(share.Identifier)
	}
	data, err := e.EncodeKeyShare(ks)
	if err != nil {
		return nil, newError(StageKeyPackage, SerializationError, err).withIdentifier(share.Identifier)
	}
	log.Debugw("key package derived", "identifier", share.Identifier.String())
	return &KeyPackage{Identifier: share.Identifier.String(), Data: data}, nil
}

// Commit runs signing round 1 for the owner of share: it draws fresh
// hedged nonces and returns them with the public commitment. The nonces
// are secret and must be passed to exactly one [Sign] call.
func Commit(e Engine, rng io.Reader, share *SecretShare) (*SigningNonces, *SigningCommitments, error) {
	s, err := share.decode(e, StageCommit)
	if err != nil {
		return nil, nil, newError(StageCommit, InvalidKeyPackage, err).withIdentifier(share.Identifier)
	}
	ks, err := e.VerifySecretShare(s)
	if err != nil {
		return nil, nil, newError(StageCommit, InvalidKeyPackage, err).withIdentifier(share.Identifier)
	}
	return commit(e, rng, share.Identifier, ks)
}

// Participant is one share holder. It wraps a verified KeyPackage and
// hands out single-use signing sessions.
type Participant struct {
	engine     Engine
	id         Identifier
	keyPackage *KeyPackage
}

// NewParticipant checks kp and binds it to e.
func NewParticipant(e Engine, kp *KeyPackage) (*Participant, error) {
	_, id, err := kp.keyShare(e, StageKeyPackage)
	if err != nil {
		return nil, err
	}
	return &Participant{engine: e, id: id, keyPackage: kp}, nil
}

// ID returns this participant's identifier.
func (p *Participant) ID() Identifier {
	return p.id
}

// KeyPackage returns the participant's signing credential.
func (p *Participant) KeyPackage() *KeyPackage {
	return p.keyPackage
}

// Commit runs round 1 from the KeyPackage. Prefer [NewSigningSession],
// which keeps the nonces out of the caller's hands.
func (p *Participant) Commit(rng io.Reader) (*SigningNonces, *SigningCommitments, error) {
	ks, _, err := p.keyPackage.keyShare(p.engine, StageCommit)
	if err != nil {
		return nil, nil, err
	}
	return commit(p.engine, rng, p.id, ks)
}

// Sign runs round 2 with nonces from [Participant.Commit].
func (p *Participant) Sign(pkg *SigningPackage, nonces *SigningNonces) (*SignatureShare, error) {
	return Sign(p.engine, pkg, nonces, p.keyPackage)
}
