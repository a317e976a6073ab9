package frost

import (
	"fmt"
	"strings"

	logging "github.com/ipfs/go-log"

	"github.com/f3rmion/frostkit/group"
)

var log = logging.Logger("frost")

// FROST is a signature engine: a group paired with a hash suite. It is
// stateless and safe for concurrent use; threshold parameters travel
// with the key material rather than the engine.
type FROST struct {
	group  group.Group
	hasher Hasher
}

// KeyShare is a participant's signing credential, derived from a
// verified [SecretShare].
type KeyShare struct {
	ID         group.Scalar // participant identifier
	SecretKey  group.Scalar // secret key share
	PublicKey  group.Point  // verifying share, SecretKey * G
	GroupKey   group.Point  // combined group public key
	MinSigners int          // threshold t the share was split with
}

// Signature is a Schnorr signature.
type Signature struct {
	R group.Point
	Z group.Scalar
}

// New creates an engine over g using the default [SHA256Hasher].
func New(g group.Group) *FROST {
	return NewWithHasher(g, &SHA256Hasher{})
}

// NewWithHasher creates an engine over g with a custom hash suite.
// Use [NewBlake2bHasher] for Ledger/iden3 compatibility or
// [SHA512Hasher] with the ed25519 group for RFC 8032 signatures.
func NewWithHasher(g group.Group, h Hasher) *FROST {
	return &FROST{
		group:  g,
		hasher: h,
	}
}

// Group returns the group the engine operates in.
func (f *FROST) Group() group.Group {
	return f.group
}

// Name returns the ciphersuite identifier, for example
// "FROST-ED25519-SHA512-v1". It is written into every encoded value so
// that bytes from a different suite are rejected on decode.
func (f *FROST) Name() string {
	return fmt.Sprintf("FROST-%s-%s-v1", strings.ToUpper(f.group.Name()), f.hasher.Name())
}

func (f *FROST) scalarFromInt(n int) group.Scalar {
	return f.group.NewScalar().SetUint64(uint64(n))
}

func (f *FROST) evalPolynomial(coeffs []group.Scalar, x group.Scalar) group.Scalar {
	result := f.group.NewScalar().Set(coeffs[len(coeffs)-1])
	for i := len(coeffs) - 2; i >= 0; i-- {
		result = f.group.NewScalar().Mul(result, x)
		result = f.group.NewScalar().Add(result, coeffs[i])
	}
	return result
}

// DefaultIdentifiers returns the identifiers 1..n.
func (f *FROST) DefaultIdentifiers(n int) []group.Scalar {
	ids := make([]group.Scalar, n)
	for i := range ids {
		ids[i] = f.scalarFromInt(i + 1)
	}
	return ids
}

// DecodeIdentifier strictly decodes a participant identifier. Zero is
// never a valid identifier since the share at zero is the secret.
func (f *FROST) DecodeIdentifier(b []byte) (group.Scalar, error) {
	id, err := f.group.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return nil, wrapMalformed(err, "identifier")
	}
	if id.IsZero() {
		return nil, ErrInvalidIdentifier
	}
	return id, nil
}

// DeriveIdentifier maps arbitrary external data, such as a device
// public key, to an identifier.
func (f *FROST) DeriveIdentifier(data []byte) (group.Scalar, error) {
	if len(data) == 0 {
		return nil, ErrInvalidIdentifier
	}
	id := f.hasher.HID(f.group, data)
	if id.IsZero() {
		return nil, ErrInvalidIdentifier
	}
	return id, nil
}
