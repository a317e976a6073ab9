package ed25519

import (
	"bytes"
	"crypto/sha512"
	"errors"
	"io"
	"math/big"
	"slices"

	"go.dedis.ch/kyber/v3"
	"go.dedis.ch/kyber/v3/group/edwards25519"

	"github.com/f3rmion/frostkit/group"
)

const (
	scalarSize = 32
	pointSize  = 32
)

var (
	suite = edwards25519.NewBlakeSHA256Ed25519()

	// order is l = 2^252 + 27742317777372353535851937790883648493.
	order, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)
)

// leToInt reads a little-endian byte string as an unsigned integer.
func leToInt(b []byte) *big.Int {
	be := slices.Clone(b)
	slices.Reverse(be)
	return new(big.Int).SetBytes(be)
}

// intToLE writes v < order as a 32-byte little-endian string.
func intToLE(v *big.Int) []byte {
	out := make([]byte, scalarSize)
	v.FillBytes(out)
	slices.Reverse(out)
	return out
}

// Scalar is an element of the edwards25519 scalar field.
type Scalar struct {
	inner kyber.Scalar
}

func newScalar() *Scalar {
	return &Scalar{inner: suite.Scalar().Zero()}
}

func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(a.(*Scalar).inner, b.(*Scalar).inner)
	return s
}

func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Sub(a.(*Scalar).inner, b.(*Scalar).inner)
	return s
}

func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul(a.(*Scalar).inner, b.(*Scalar).inner)
	return s
}

func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Neg(a.(*Scalar).inner)
	return s
}

// Invert sets s to a^(-1) and returns s. Zero has no inverse.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	if a.IsZero() {
		return nil, errors.New("ed25519: cannot invert zero scalar")
	}
	s.inner.Inv(a.(*Scalar).inner)
	return s, nil
}

func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(a.(*Scalar).inner)
	return s
}

// Bytes returns the 32-byte little-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	b, _ := s.inner.MarshalBinary()
	return b
}

// SetBytes reads data as a little-endian integer of any length and
// reduces it modulo the group order.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	v := leToInt(data)
	v.Mod(v, order)
	if err := s.inner.UnmarshalBinary(intToLE(v)); err != nil {
		return nil, err
	}
	return s, nil
}

// SetCanonicalBytes accepts only a 32-byte little-endian value below
// the group order.
func (s *Scalar) SetCanonicalBytes(data []byte) (group.Scalar, error) {
	if len(data) != scalarSize {
		return nil, errors.New("ed25519: scalar encoding must be 32 bytes")
	}
	if leToInt(data).Cmp(order) >= 0 {
		return nil, errors.New("ed25519: scalar encoding is not reduced")
	}
	if err := s.inner.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scalar) SetUint64(n uint64) group.Scalar {
	v := new(big.Int).SetUint64(n)
	_ = s.inner.UnmarshalBinary(intToLE(v.Mod(v, order)))
	return s
}

func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equal(b.(*Scalar).inner)
}

// Cmp orders scalars by integer value, not by their encoding.
func (s *Scalar) Cmp(b group.Scalar) int {
	return leToInt(s.Bytes()).Cmp(leToInt(b.Bytes()))
}

func (s *Scalar) IsZero() bool {
	return s.inner.Equal(suite.Scalar().Zero())
}

// Point is an edwards25519 curve point.
type Point struct {
	inner kyber.Point
}

func newPoint() *Point {
	return &Point{inner: suite.Point().Null()}
}

func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(a.(*Point).inner, b.(*Point).inner)
	return p
}

func (p *Point) Sub(a, b group.Point) group.Point {
	p.inner.Sub(a.(*Point).inner, b.(*Point).inner)
	return p
}

func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Neg(a.(*Point).inner)
	return p
}

func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.Mul(s.(*Scalar).inner, q.(*Point).inner)
	return p
}

func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(a.(*Point).inner)
	return p
}

// Bytes returns the RFC 8032 compressed encoding of p.
func (p *Point) Bytes() []byte {
	b, _ := p.inner.MarshalBinary()
	return b
}

// SetBytes decodes a compressed point. Encodings that are not on the
// curve, that are not the canonical encoding of their point, or whose
// point lies outside the prime-order subgroup are rejected.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != pointSize {
		return nil, errors.New("ed25519: point encoding must be 32 bytes")
	}
	q := suite.Point()
	if err := q.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	enc, err := q.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(enc, data) {
		return nil, errors.New("ed25519: non-canonical point encoding")
	}
	if !inPrimeOrderSubgroup(q) {
		return nil, errors.New("ed25519: point has a small-order component")
	}
	p.inner = q
	return p, nil
}

// inPrimeOrderSubgroup reports whether [l]q is the identity. [l]q is
// computed as [l-1]q + q since l itself reduces to zero as a scalar.
func inPrimeOrderSubgroup(q kyber.Point) bool {
	lMinusOne := suite.Scalar().Neg(suite.Scalar().One())
	lq := suite.Point().Mul(lMinusOne, q)
	lq.Add(lq, q)
	return lq.Equal(suite.Point().Null())
}

func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(b.(*Point).inner)
}

func (p *Point) IsIdentity() bool {
	return p.inner.Equal(suite.Point().Null())
}

// Group implements [group.Group] for edwards25519.
type Group struct{}

var _ group.Group = Group{}

// Name returns "ed25519".
func (Group) Name() string {
	return "ed25519"
}

func (Group) NewScalar() group.Scalar {
	return newScalar()
}

func (Group) NewPoint() group.Point {
	return newPoint()
}

// Generator returns the RFC 8032 base point.
func (Group) Generator() group.Point {
	return &Point{inner: suite.Point().Base()}
}

// RandomScalar reads 64 bytes from r and reduces them modulo the order,
// which keeps the bias negligible.
func (Group) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	return newScalar().SetBytes(buf[:])
}

// HashToScalar hashes the concatenation of data with SHA-512 and reduces
// the little-endian digest modulo the order.
func (Group) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h := sha512.New()
	for _, d := range data {
		h.Write(d)
	}
	return newScalar().SetBytes(h.Sum(nil))
}

// Order returns the group order as a big-endian byte slice.
func (Group) Order() []byte {
	return order.Bytes()
}
