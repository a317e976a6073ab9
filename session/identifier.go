package session

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/f3rmion/frostkit/group"
)

// IdentifierSize is the length of an encoded identifier.
const IdentifierSize = 32

// Identifier is a participant handle within one key generation. It is
// the engine's 32-byte encoding of a nonzero scalar and is comparable,
// so it can be used as a map key. Its text form is lowercase hex.
type Identifier [IdentifierSize]byte

// ParseIdentifier decodes b, checking that it is a canonical nonzero
// scalar for e.
func ParseIdentifier(e Engine, b []byte) (Identifier, error) {
	var id Identifier
	if len(b) != IdentifierSize {
		return id, newError(StageIdentifier, DeserializationError, nil).
			withReason("identifier must be %d bytes, got %d", IdentifierSize, len(b))
	}
	if _, err := e.DecodeIdentifier(b); err != nil {
		return id, newError(StageIdentifier, DeserializationError, err)
	}
	copy(id[:], b)
	return id, nil
}

// IdentifierFromUint returns the identifier for the integer n, as used
// for default sequential assignment.
func IdentifierFromUint(e Engine, n uint64) (Identifier, error) {
	if n == 0 {
		return Identifier{}, newError(StageIdentifier, InvalidIdentifier, nil).withReason("identifier must be nonzero")
	}
	return identifierFromScalar(e.Group().NewScalar().SetUint64(n))
}

// DeriveIdentifier hashes external data, such as a device public key,
// into an identifier.
func DeriveIdentifier(e Engine, data []byte) (Identifier, error) {
	s, err := e.DeriveIdentifier(data)
	if err != nil {
		return Identifier{}, newError(StageIdentifier, InvalidIdentifier, err)
	}
	return identifierFromScalar(s)
}

func identifierFromScalar(s group.Scalar) (Identifier, error) {
	var id Identifier
	b := s.Bytes()
	if len(b) != IdentifierSize {
		return id, newError(StageIdentifier, SerializationError, nil).
			withReason("engine encodes scalars in %d bytes", len(b))
	}
	copy(id[:], b)
	return id, nil
}

func (id Identifier) scalar(e Engine) (group.Scalar, error) {
	s, err := e.DecodeIdentifier(id[:])
	if err != nil {
		return nil, newError(StageIdentifier, InvalidIdentifier, err).withIdentifier(id)
	}
	return s, nil
}

// Bytes returns the 32-byte encoding.
func (id Identifier) Bytes() []byte {
	return slices.Clone(id[:])
}

// IsZero reports whether id is the zero value, which is never valid.
func (id Identifier) IsZero() bool {
	return id == Identifier{}
}

func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

// MarshalText implements encoding.TextMarshaler.
func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It only checks the
// length; [ParseIdentifier] checks the value against an engine.
func (id *Identifier) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return newError(StageIdentifier, DeserializationError, err)
	}
	if len(b) != IdentifierSize {
		return newError(StageIdentifier, DeserializationError, nil).
			withReason("identifier must be %d bytes, got %d", IdentifierSize, len(b))
	}
	copy(id[:], b)
	return nil
}

// SortIdentifiers puts ids into the engine's canonical order, the order
// in which signing packages list their commitments. Identifiers that do
// not decode sort last, by bytes.
func SortIdentifiers(e Engine, ids []Identifier) {
	scalars := make(map[Identifier]group.Scalar, len(ids))
	for _, id := range ids {
		if s, err := e.DecodeIdentifier(id[:]); err == nil {
			scalars[id] = s
		}
	}
	slices.SortFunc(ids, func(a, b Identifier) int {
		sa, okA := scalars[a]
		sb, okB := scalars[b]
		switch {
		case okA && okB:
			return sa.Cmp(sb)
		case okA:
			return -1
		case okB:
			return 1
		}
		return bytes.Compare(a[:], b[:])
	})
}

func (id Identifier) GoString() string {
	return fmt.Sprintf("session.Identifier(%s)", id)
}
