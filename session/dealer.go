package session

import (
	"encoding/hex"
	"io"

	"github.com/f3rmion/frostkit/group"
)

// GenerateKeys runs trusted-dealer key generation with the sequential
// identifiers 1..MaxSigners.
func GenerateKeys(e Engine, rng io.Reader, cfg *Configuration) (*KeyGeneration, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return generate(e, rng, cfg, nil)
}

// GenerateKeysWithIdentifiers runs trusted-dealer key generation for an
// explicit identifier set, for example identifiers derived from device
// public keys.
func GenerateKeysWithIdentifiers(e Engine, rng io.Reader, cfg *Configuration, ids []Identifier) (*KeyGeneration, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(ids) != int(cfg.MaxSigners) {
		return nil, newError(StageDealer, InvalidMaxSigners, nil).
			withReason("got %d identifiers for %d signers", len(ids), cfg.MaxSigners)
	}
	scalars := make([]group.Scalar, len(ids))
	seen := make(map[Identifier]bool, len(ids))
	for i, id := range ids {
		s, err := id.scalar(e)
		if err != nil {
			return nil, newError(StageDealer, InvalidIdentifier, err).withIdentifier(id)
		}
		if seen[id] {
			return nil, newError(StageDealer, InvalidIdentifier, nil).withIdentifier(id).withReason("listed twice")
		}
		seen[id] = true
		scalars[i] = s
	}
	return generate(e, rng, cfg, scalars)
}

func generate(e Engine, rng io.Reader, cfg *Configuration, ids []group.Scalar) (*KeyGeneration, error) {
	if cfg.Ciphersuite != "" {
		named, err := NewEngine(cfg.Ciphersuite)
		if err != nil {
			return nil, err
		}
		if named.Name() != e.Name() {
			return nil, newError(StageDealer, UnknownError, nil).
				withReason("configuration names %s, engine is %s", named.Name(), e.Name())
		}
	}
	var secret group.Scalar
	if len(cfg.Secret) > 0 {
		s, err := e.DecodeScalar(cfg.Secret)
		if err != nil || s.IsZero() {
			return nil, newError(StageDealer, UnknownError, nil).withReason("secret is not a valid nonzero scalar")
		}
		secret = s
		defer secret.Set(e.Group().NewScalar())
	}

	shares, pub, err := e.Split(rng, secret, int(cfg.MinSigners), int(cfg.MaxSigners), ids)
	if err != nil {
		return nil, fromEngine(StageDealer, err)
	}
	defer func() {
		zero := e.Group().NewScalar()
		for _, s := range shares {
			s.Value.Set(zero)
		}
	}()

	out := &KeyGeneration{
		SecretShares: make(map[Identifier]*SecretShare, len(shares)),
		PublicKeyPackage: &PublicKeyPackage{
			VerifyingShares: make(map[Identifier]string, len(shares)),
			VerifyingKey:    hex.EncodeToString(e.EncodePoint(pub.GroupKey)),
			MinSigners:      cfg.MinSigners,
		},
	}
	for _, s := range shares {
		id, err := identifierFromScalar(s.ID)
		if err != nil {
			return nil, err
		}
		data, err := e.EncodeSecretShare(s)
		if err != nil {
			return nil, newError(StageDealer, SerializationError, err).withIdentifier(id)
		}
		out.SecretShares[id] = &SecretShare{Identifier: id, Data: data}
		out.PublicKeyPackage.VerifyingShares[id] = hex.EncodeToString(e.EncodePoint(pub.VerifyingShare(s.ID)))
	}

	log.Infow("key generation complete",
		"ciphersuite", e.Name(),
		"min_signers", cfg.MinSigners,
		"max_signers", cfg.MaxSigners,
	)
	return out, nil
}
