package frost

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"go.dedis.ch/protobuf"

	"github.com/f3rmion/frostkit/group"
)

// encodingVersion is written into every encoded value. Decoders reject
// any other version instead of guessing at the layout.
const encodingVersion = 1

// Wire records. Every record starts with the encoding version and the
// ciphersuite name.

type elementRecord struct {
	Data []byte
}

type secretShareRecord struct {
	Version    uint32
	Suite      string
	ID         []byte
	Value      []byte
	Commitment []*elementRecord
}

type nonceRecord struct {
	Version uint32
	Suite   string
	ID      []byte
	Hiding  []byte
	Binding []byte
}

type commitmentRecord struct {
	Version uint32
	Suite   string
	ID      []byte
	Hiding  []byte
	Binding []byte
}

type signatureShareRecord struct {
	Version uint32
	Suite   string
	ID      []byte
	Z       []byte
}

type packageCommitment struct {
	ID      []byte
	Hiding  []byte
	Binding []byte
}

type signingPackageRecord struct {
	Version     uint32
	Suite       string
	Message     []byte
	Commitments []*packageCommitment
}

// keyShareRecord is the self-describing JSON form of a [KeyShare].
type keyShareRecord struct {
	Version        int    `json:"version"`
	Ciphersuite    string `json:"ciphersuite"`
	Identifier     string `json:"identifier"`
	SigningShare   string `json:"signing_share"`
	VerifyingShare string `json:"verifying_share"`
	VerifyingKey   string `json:"verifying_key"`
	MinSigners     int    `json:"min_signers"`
}

func (f *FROST) encode(rec interface{}) ([]byte, error) {
	b, err := protobuf.Encode(rec)
	if err != nil {
		return nil, errors.Wrap(err, "frost: encoding")
	}
	return b, nil
}

// decode unmarshals b into rec. The protobuf decoder is reflective and
// may panic on adversarial input, so panics are turned into errors.
func (f *FROST) decode(b []byte, rec interface{}, what string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = wrapMalformed(fmt.Errorf("%v", r), what)
		}
	}()
	if len(b) == 0 {
		return wrapMalformed(errors.New("empty input"), what)
	}
	if err := protobuf.Decode(b, rec); err != nil {
		return wrapMalformed(err, what)
	}
	return nil
}

func (f *FROST) checkHeader(version uint32, suite string) error {
	if version != encodingVersion {
		return errors.Wrapf(ErrMalformed, "unsupported encoding version %d", version)
	}
	if suite != f.Name() {
		return errors.Wrapf(ErrCiphersuiteMismatch, "got %q, want %q", suite, f.Name())
	}
	return nil
}

// DecodeScalar strictly decodes a scalar.
func (f *FROST) DecodeScalar(b []byte) (group.Scalar, error) {
	s, err := f.group.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return nil, wrapMalformed(err, "scalar")
	}
	return s, nil
}

// EncodePoint returns the canonical encoding of p.
func (f *FROST) EncodePoint(p group.Point) []byte {
	return p.Bytes()
}

// DecodePoint decodes a point and rejects the identity element, which
// is never a valid key or commitment.
func (f *FROST) DecodePoint(b []byte) (group.Point, error) {
	p, err := f.group.NewPoint().SetBytes(b)
	if err != nil {
		return nil, wrapMalformed(err, "point")
	}
	if p.IsIdentity() {
		return nil, errors.Wrap(ErrMalformed, "point is the identity")
	}
	return p, nil
}

// EncodeSecretShare serializes a share with its commitment.
func (f *FROST) EncodeSecretShare(s *SecretShare) ([]byte, error) {
	rec := &secretShareRecord{
		Version: encodingVersion,
		Suite:   f.Name(),
		ID:      s.ID.Bytes(),
		Value:   s.Value.Bytes(),
	}
	for _, c := range s.Commitment {
		rec.Commitment = append(rec.Commitment, &elementRecord{Data: c.Bytes()})
	}
	return f.encode(rec)
}

// DecodeSecretShare parses a share. It does not verify it; see
// [FROST.VerifySecretShare].
func (f *FROST) DecodeSecretShare(b []byte) (*SecretShare, error) {
	var rec secretShareRecord
	if err := f.decode(b, &rec, "secret share"); err != nil {
		return nil, err
	}
	if err := f.checkHeader(rec.Version, rec.Suite); err != nil {
		return nil, err
	}
	id, err := f.DecodeIdentifier(rec.ID)
	if err != nil {
		return nil, err
	}
	value, err := f.DecodeScalar(rec.Value)
	if err != nil {
		return nil, err
	}
	share := &SecretShare{ID: id, Value: value}
	for _, c := range rec.Commitment {
		if c == nil {
			return nil, errors.Wrap(ErrMalformed, "empty commitment element")
		}
		p, err := f.DecodePoint(c.Data)
		if err != nil {
			return nil, err
		}
		share.Commitment = append(share.Commitment, p)
	}
	return share, nil
}

// EncodeSigningNonce serializes a nonce pair. The result is secret and
// must stay in memory for the lifetime of one signing session.
func (f *FROST) EncodeSigningNonce(n *SigningNonce) ([]byte, error) {
	return f.encode(&nonceRecord{
		Version: encodingVersion,
		Suite:   f.Name(),
		ID:      n.ID.Bytes(),
		Hiding:  n.D.Bytes(),
		Binding: n.E.Bytes(),
	})
}

// DecodeSigningNonce parses a nonce pair.
func (f *FROST) DecodeSigningNonce(b []byte) (*SigningNonce, error) {
	var rec nonceRecord
	if err := f.decode(b, &rec, "signing nonce"); err != nil {
		return nil, err
	}
	if err := f.checkHeader(rec.Version, rec.Suite); err != nil {
		return nil, err
	}
	id, err := f.DecodeIdentifier(rec.ID)
	if err != nil {
		return nil, err
	}
	d, err := f.DecodeScalar(rec.Hiding)
	if err != nil {
		return nil, err
	}
	e, err := f.DecodeScalar(rec.Binding)
	if err != nil {
		return nil, err
	}
	if d.IsZero() || e.IsZero() {
		return nil, errors.Wrap(ErrMalformed, "zero nonce")
	}
	return &SigningNonce{ID: id, D: d, E: e}, nil
}

// EncodeSigningCommitment serializes a round-1 commitment.
func (f *FROST) EncodeSigningCommitment(c *SigningCommitment) ([]byte, error) {
	return f.encode(&commitmentRecord{
		Version: encodingVersion,
		Suite:   f.Name(),
		ID:      c.ID.Bytes(),
		Hiding:  c.HidingPoint.Bytes(),
		Binding: c.BindingPoint.Bytes(),
	})
}

// DecodeSigningCommitment parses a round-1 commitment.
func (f *FROST) DecodeSigningCommitment(b []byte) (*SigningCommitment, error) {
	var rec commitmentRecord
	if err := f.decode(b, &rec, "signing commitment"); err != nil {
		return nil, err
	}
	if err := f.checkHeader(rec.Version, rec.Suite); err != nil {
		return nil, err
	}
	return f.decodeCommitment(rec.ID, rec.Hiding, rec.Binding)
}

func (f *FROST) decodeCommitment(idb, hb, bb []byte) (*SigningCommitment, error) {
	id, err := f.DecodeIdentifier(idb)
	if err != nil {
		return nil, err
	}
	hiding, err := f.DecodePoint(hb)
	if err != nil {
		return nil, err
	}
	binding, err := f.DecodePoint(bb)
	if err != nil {
		return nil, err
	}
	return &SigningCommitment{ID: id, HidingPoint: hiding, BindingPoint: binding}, nil
}

// EncodeSignatureShare serializes a round-2 signature share.
func (f *FROST) EncodeSignatureShare(s *SignatureShare) ([]byte, error) {
	return f.encode(&signatureShareRecord{
		Version: encodingVersion,
		Suite:   f.Name(),
		ID:      s.ID.Bytes(),
		Z:       s.Z.Bytes(),
	})
}

// DecodeSignatureShare parses a round-2 signature share.
func (f *FROST) DecodeSignatureShare(b []byte) (*SignatureShare, error) {
	var rec signatureShareRecord
	if err := f.decode(b, &rec, "signature share"); err != nil {
		return nil, err
	}
	if err := f.checkHeader(rec.Version, rec.Suite); err != nil {
		return nil, err
	}
	id, err := f.DecodeIdentifier(rec.ID)
	if err != nil {
		return nil, err
	}
	z, err := f.DecodeScalar(rec.Z)
	if err != nil {
		return nil, err
	}
	return &SignatureShare{ID: id, Z: z}, nil
}

// EncodeSigningPackage serializes a signing package. Commitments are
// already in canonical order, so equal packages encode identically.
func (f *FROST) EncodeSigningPackage(p *SigningPackage) ([]byte, error) {
	rec := &signingPackageRecord{
		Version: encodingVersion,
		Suite:   f.Name(),
		Message: p.Message,
	}
	for _, c := range p.Commitments {
		rec.Commitments = append(rec.Commitments, &packageCommitment{
			ID:      c.ID.Bytes(),
			Hiding:  c.HidingPoint.Bytes(),
			Binding: c.BindingPoint.Bytes(),
		})
	}
	return f.encode(rec)
}

// DecodeSigningPackage parses a signing package and re-applies the
// checks of [FROST.NewSigningPackage].
func (f *FROST) DecodeSigningPackage(b []byte) (*SigningPackage, error) {
	var rec signingPackageRecord
	if err := f.decode(b, &rec, "signing package"); err != nil {
		return nil, err
	}
	if err := f.checkHeader(rec.Version, rec.Suite); err != nil {
		return nil, err
	}
	commitments := make([]*SigningCommitment, 0, len(rec.Commitments))
	for _, c := range rec.Commitments {
		if c == nil {
			return nil, errors.Wrap(ErrMalformed, "empty package commitment")
		}
		comm, err := f.decodeCommitment(c.ID, c.Hiding, c.Binding)
		if err != nil {
			return nil, err
		}
		commitments = append(commitments, comm)
	}
	return f.NewSigningPackage(rec.Message, commitments)
}

// EncodeSignature returns R || z, the usual fixed-size Schnorr layout.
func (f *FROST) EncodeSignature(sig *Signature) []byte {
	return append(sig.R.Bytes(), sig.Z.Bytes()...)
}

// DecodeSignature splits R || z.
func (f *FROST) DecodeSignature(b []byte) (*Signature, error) {
	pointLen := len(f.group.Generator().Bytes())
	scalarLen := len(f.group.NewScalar().Bytes())
	if len(b) != pointLen+scalarLen {
		return nil, errors.Wrapf(ErrMalformed, "signature must be %d bytes, got %d", pointLen+scalarLen, len(b))
	}
	R, err := f.group.NewPoint().SetBytes(b[:pointLen])
	if err != nil {
		return nil, wrapMalformed(err, "signature R")
	}
	z, err := f.DecodeScalar(b[pointLen:])
	if err != nil {
		return nil, err
	}
	return &Signature{R: R, Z: z}, nil
}

// EncodeKeyShare serializes a key share as versioned JSON so that it
// can carry the group key next to the secret share.
func (f *FROST) EncodeKeyShare(k *KeyShare) ([]byte, error) {
	b, err := json.Marshal(&keyShareRecord{
		Version:        encodingVersion,
		Ciphersuite:    f.Name(),
		Identifier:     hex.EncodeToString(k.ID.Bytes()),
		SigningShare:   hex.EncodeToString(k.SecretKey.Bytes()),
		VerifyingShare: hex.EncodeToString(k.PublicKey.Bytes()),
		VerifyingKey:   hex.EncodeToString(k.GroupKey.Bytes()),
		MinSigners:     k.MinSigners,
	})
	if err != nil {
		return nil, errors.Wrap(err, "frost: encoding key share")
	}
	return b, nil
}

// DecodeKeyShare parses the JSON form and checks that the signing share
// matches the verifying share it claims.
func (f *FROST) DecodeKeyShare(b []byte) (*KeyShare, error) {
	var rec keyShareRecord
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return nil, wrapMalformed(err, "key share")
	}
	if err := f.checkHeader(uint32(rec.Version), rec.Ciphersuite); err != nil {
		return nil, err
	}
	if rec.MinSigners < 2 {
		return nil, errors.Wrapf(ErrInvalidMinSigners, "key share min signers %d", rec.MinSigners)
	}

	field := func(name, h string) ([]byte, error) {
		raw, err := hex.DecodeString(h)
		if err != nil {
			return nil, wrapMalformed(err, name)
		}
		return raw, nil
	}
	raw, err := field("identifier", rec.Identifier)
	if err != nil {
		return nil, err
	}
	id, err := f.DecodeIdentifier(raw)
	if err != nil {
		return nil, err
	}
	if raw, err = field("signing share", rec.SigningShare); err != nil {
		return nil, err
	}
	secret, err := f.DecodeScalar(raw)
	if err != nil {
		return nil, err
	}
	if raw, err = field("verifying share", rec.VerifyingShare); err != nil {
		return nil, err
	}
	public, err := f.DecodePoint(raw)
	if err != nil {
		return nil, err
	}
	if raw, err = field("verifying key", rec.VerifyingKey); err != nil {
		return nil, err
	}
	groupKey, err := f.DecodePoint(raw)
	if err != nil {
		return nil, err
	}

	if !f.group.NewPoint().ScalarMult(secret, f.group.Generator()).Equal(public) {
		return nil, errors.Wrap(ErrInvalidSecretShare, "signing share does not match verifying share")
	}
	return &KeyShare{
		ID:         id,
		SecretKey:  secret,
		PublicKey:  public,
		GroupKey:   groupKey,
		MinSigners: rec.MinSigners,
	}, nil
}

// NewPublicKeyPackage assembles group public data received over the
// wire. ids and shares are parallel slices.
func (f *FROST) NewPublicKeyPackage(
	ids []group.Scalar,
	shares []group.Point,
	groupKey group.Point,
	minSigners int,
) (*PublicKeyPackage, error) {
	if len(ids) != len(shares) {
		return nil, errors.Wrap(ErrMalformed, "identifier and share counts differ")
	}
	pub := &PublicKeyPackage{
		VerifyingShares: make(map[string]group.Point, len(ids)),
		GroupKey:        groupKey,
		MinSigners:      minSigners,
	}
	for i, id := range ids {
		if _, ok := pub.VerifyingShares[group.Key(id)]; ok {
			return nil, errors.Wrapf(ErrDuplicateIdentifier, "verifying share for %x", id.Bytes())
		}
		pub.VerifyingShares[group.Key(id)] = shares[i]
		pub.Participants = append(pub.Participants, id)
	}
	group.SortScalars(pub.Participants)
	return pub, nil
}
