package session

import (
	"encoding/hex"

	"github.com/f3rmion/frostkit/frost"
	"github.com/f3rmion/frostkit/group"
)

// SecretShare is one participant's private output of the dealer. Data is
// the engine encoding of the share together with the dealer's VSS
// commitment.
type SecretShare struct {
	Identifier Identifier `json:"identifier"`
	Data       []byte     `json:"data"`
}

// KeyPackage is a participant's signing credential. Identifier is the
// hex label of the owner; Data is a self-describing versioned JSON
// record holding the signing share, the verifying share and the group
// verifying key.
type KeyPackage struct {
	Identifier string `json:"identifier"`
	Data       []byte `json:"data"`
}

// PublicKeyPackage is the group's public verification data.
type PublicKeyPackage struct {
	// VerifyingShares maps each participant to its hex verifying share.
	VerifyingShares map[Identifier]string `json:"verifying_shares"`
	// VerifyingKey is the hex group verifying key.
	VerifyingKey string `json:"verifying_key"`
	// MinSigners is the threshold the key was split with.
	MinSigners uint16 `json:"min_signers"`
}

// KeyGeneration is the dealer's output: one share per participant and
// the public package. The dealer keeps no copy.
type KeyGeneration struct {
	SecretShares     map[Identifier]*SecretShare `json:"secret_shares"`
	PublicKeyPackage *PublicKeyPackage           `json:"public_key_package"`
}

// Validate checks that the share decodes and that the identifier inside
// its bytes is the declared one. It does not run the VSS check; see
// [VerifyAndGetKeyPackage].
func (s *SecretShare) Validate(e Engine) error {
	_, err := s.decode(e, StageKeyPackage)
	return err
}

func (s *SecretShare) decode(e Engine, stage Stage) (*frost.SecretShare, error) {
	share, err := e.DecodeSecretShare(s.Data)
	if err != nil {
		return nil, newError(stage, DeserializationError, err).withIdentifier(s.Identifier)
	}
	embedded, err := identifierFromScalar(share.ID)
	if err != nil {
		return nil, err
	}
	if embedded != s.Identifier {
		return nil, newError(stage, UnknownIdentifier, nil).withIdentifier(s.Identifier).
			withReason("share belongs to %s", embedded)
	}
	return share, nil
}

// keyShare decodes the package and checks that it matches its label.
func (k *KeyPackage) keyShare(e Engine, stage Stage) (*frost.KeyShare, Identifier, error) {
	var label Identifier
	if err := label.UnmarshalText([]byte(k.Identifier)); err != nil {
		return nil, label, newError(stage, InvalidKeyPackage, err)
	}
	ks, err := e.DecodeKeyShare(k.Data)
	if err != nil {
		return nil, label, newError(stage, InvalidKeyPackage, err).withIdentifier(label)
	}
	embedded, err := identifierFromScalar(ks.ID)
	if err != nil {
		return nil, label, err
	}
	if embedded != label {
		return nil, label, newError(stage, InvalidKeyPackage, nil).withIdentifier(label).
			withReason("package belongs to %s", embedded)
	}
	return ks, label, nil
}

// ID returns the owner of the package.
func (k *KeyPackage) ID() (Identifier, error) {
	var id Identifier
	if err := id.UnmarshalText([]byte(k.Identifier)); err != nil {
		return id, newError(StageKeyPackage, InvalidKeyPackage, err)
	}
	return id, nil
}

// Identifiers returns the participants of the split in canonical order.
func (p *PublicKeyPackage) Identifiers(e Engine) []Identifier {
	ids := make([]Identifier, 0, len(p.VerifyingShares))
	for id := range p.VerifyingShares {
		ids = append(ids, id)
	}
	SortIdentifiers(e, ids)
	return ids
}

// groupKey decodes the group verifying key.
func (p *PublicKeyPackage) groupKey(e Engine, stage Stage) (group.Point, error) {
	raw, err := hex.DecodeString(p.VerifyingKey)
	if err != nil {
		return nil, newError(stage, DeserializationError, err).withReason("verifying key is not hex")
	}
	key, err := e.DecodePoint(raw)
	if err != nil {
		return nil, newError(stage, DeserializationError, err).withReason("verifying key")
	}
	return key, nil
}

// engine converts the record into the engine's form.
func (p *PublicKeyPackage) engine(e Engine, stage Stage) (*frost.PublicKeyPackage, error) {
	if p == nil {
		return nil, newError(stage, DeserializationError, nil).withReason("missing public key package")
	}
	if p.MinSigners < 2 {
		return nil, newError(stage, InvalidMinSigners, nil).withReason("public key package min signers %d", p.MinSigners)
	}
	key, err := p.groupKey(e, stage)
	if err != nil {
		return nil, err
	}
	ids := make([]group.Scalar, 0, len(p.VerifyingShares))
	shares := make([]group.Point, 0, len(p.VerifyingShares))
	for id, h := range p.VerifyingShares {
		s, err := id.scalar(e)
		if err != nil {
			return nil, newError(stage, DeserializationError, err).withIdentifier(id)
		}
		raw, err := hex.DecodeString(h)
		if err != nil {
			return nil, newError(stage, DeserializationError, err).withIdentifier(id).withReason("verifying share is not hex")
		}
		point, err := e.DecodePoint(raw)
		if err != nil {
			return nil, newError(stage, DeserializationError, err).withIdentifier(id)
		}
		ids = append(ids, s)
		shares = append(shares, point)
	}
	pub, err := e.NewPublicKeyPackage(ids, shares, key, int(p.MinSigners))
	if err != nil {
		return nil, fromEngine(stage, err)
	}
	return pub, nil
}
