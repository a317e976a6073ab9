package frost

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/f3rmion/frostkit/group"
)

// Errors returned by the engine. They are wrapped with context; use
// errors.Is to test for them. Messages never contain secret values.
var (
	ErrInvalidMinSigners   = errors.New("frost: invalid number of minimum signers")
	ErrInvalidMaxSigners   = errors.New("frost: invalid number of maximum signers")
	ErrInvalidIdentifier   = errors.New("frost: invalid identifier")
	ErrDuplicateIdentifier = errors.New("frost: duplicate identifier")
	ErrUnknownIdentifier   = errors.New("frost: unknown identifier")
	ErrInvalidSecret       = errors.New("frost: invalid secret")
	ErrInvalidSecretShare  = errors.New("frost: secret share failed verification")
	ErrIncorrectCommitment = errors.New("frost: nonce does not match commitment")
	ErrInsufficientSigners = errors.New("frost: not enough signers")
	ErrInsufficientShares  = errors.New("frost: not enough signature shares")
	ErrInvalidShare        = errors.New("frost: invalid signature share")
	ErrInvalidSignature    = errors.New("frost: invalid signature")
	ErrMalformed           = errors.New("frost: malformed encoding")
	ErrCiphersuiteMismatch = errors.New("frost: ciphersuite mismatch")
)

// InvalidShareError lists every signer whose signature share failed
// verification during aggregation.
type InvalidShareError struct {
	Culprits []group.Scalar
}

func (e *InvalidShareError) Error() string {
	ids := make([]string, len(e.Culprits))
	for i, c := range e.Culprits {
		ids[i] = fmt.Sprintf("%x", c.Bytes())
	}
	return fmt.Sprintf("%v from %s", ErrInvalidShare, strings.Join(ids, ", "))
}

// Unwrap makes errors.Is(err, ErrInvalidShare) hold.
func (e *InvalidShareError) Unwrap() error {
	return ErrInvalidShare
}

func wrapMalformed(err error, what string) error {
	return errors.Wrapf(ErrMalformed, "%s: %v", what, err)
}
