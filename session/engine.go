package session

import (
	"io"

	"github.com/f3rmion/frostkit/bjj"
	"github.com/f3rmion/frostkit/ed25519"
	"github.com/f3rmion/frostkit/frost"
	"github.com/f3rmion/frostkit/group"
)

// Engine is the signature engine the protocol layer drives. It owns all
// group arithmetic and every byte layout; this package only moves its
// encodings between roles and never looks inside them.
type Engine interface {
	// Name identifies the ciphersuite.
	Name() string
	Group() group.Group

	DecodeIdentifier(b []byte) (group.Scalar, error)
	DefaultIdentifiers(n int) []group.Scalar
	DeriveIdentifier(data []byte) (group.Scalar, error)

	Split(r io.Reader, secret group.Scalar, minSigners, maxSigners int, ids []group.Scalar) ([]*frost.SecretShare, *frost.PublicKeyPackage, error)
	VerifySecretShare(share *frost.SecretShare) (*frost.KeyShare, error)

	SignRound1(r io.Reader, share *frost.KeyShare) (*frost.SigningNonce, *frost.SigningCommitment, error)
	NewSigningPackage(message []byte, commitments []*frost.SigningCommitment) (*frost.SigningPackage, error)
	SignRound2(share *frost.KeyShare, nonce *frost.SigningNonce, pkg *frost.SigningPackage) (*frost.SignatureShare, error)
	VerifySignatureShare(share *frost.SignatureShare, verifyingShare, groupKey group.Point, pkg *frost.SigningPackage) error
	Aggregate(pkg *frost.SigningPackage, shares []*frost.SignatureShare, pub *frost.PublicKeyPackage) (*frost.Signature, error)
	Verify(message []byte, sig *frost.Signature, groupKey group.Point) bool

	DecodeScalar(b []byte) (group.Scalar, error)
	EncodePoint(p group.Point) []byte
	DecodePoint(b []byte) (group.Point, error)
	NewPublicKeyPackage(ids []group.Scalar, shares []group.Point, groupKey group.Point, minSigners int) (*frost.PublicKeyPackage, error)

	EncodeSecretShare(s *frost.SecretShare) ([]byte, error)
	DecodeSecretShare(b []byte) (*frost.SecretShare, error)
	EncodeKeyShare(k *frost.KeyShare) ([]byte, error)
	DecodeKeyShare(b []byte) (*frost.KeyShare, error)
	EncodeSigningNonce(n *frost.SigningNonce) ([]byte, error)
	DecodeSigningNonce(b []byte) (*frost.SigningNonce, error)
	EncodeSigningCommitment(c *frost.SigningCommitment) ([]byte, error)
	DecodeSigningCommitment(b []byte) (*frost.SigningCommitment, error)
	EncodeSigningPackage(p *frost.SigningPackage) ([]byte, error)
	DecodeSigningPackage(b []byte) (*frost.SigningPackage, error)
	EncodeSignatureShare(s *frost.SignatureShare) ([]byte, error)
	DecodeSignatureShare(b []byte) (*frost.SignatureShare, error)
	EncodeSignature(sig *frost.Signature) []byte
	DecodeSignature(b []byte) (*frost.Signature, error)
}

var _ Engine = (*frost.FROST)(nil)

// Ciphersuite names accepted by [NewEngine].
const (
	Ed25519    = "ed25519"
	BabyJubjub = "bjj"

	DefaultCiphersuite = Ed25519
)

// Ciphersuites lists the names [NewEngine] accepts.
func Ciphersuites() []string {
	return []string{Ed25519, BabyJubjub}
}

// NewEngine binds a ciphersuite name to a concrete engine. An empty name
// selects [DefaultCiphersuite].
//
//   - "ed25519": FROST(Ed25519, SHA-512); signatures verify as RFC 8032
//   - "bjj": FROST over Baby Jubjub with Blake2b-512, Ledger/iden3 compatible
func NewEngine(ciphersuite string) (Engine, error) {
	switch ciphersuite {
	case "", Ed25519:
		return frost.NewWithHasher(ed25519.Group{}, &frost.SHA512Hasher{}), nil
	case BabyJubjub:
		return frost.NewWithHasher(&bjj.BJJ{}, frost.NewBlake2bHasher()), nil
	}
	return nil, newError(StageConfig, UnknownError, nil).withReason("unknown ciphersuite %q", ciphersuite)
}
