package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/f3rmion/frostkit/frost"
)

// Kind classifies a protocol failure.
type Kind uint8

const (
	UnknownError Kind = iota
	InvalidMinSigners
	InvalidMaxSigners
	InvalidIdentifier
	SerializationError
	DeserializationError
	NonceSerializationError
	CommitmentSerializationError
	SigningPackageDeserializationError
	InvalidKeyPackage
	InvalidSecretKey
	UnknownIdentifier
	InsufficientCommitments
	InsufficientShares
	DuplicateIdentifier
	InvalidShare
	SigningFailed
	InvalidSignature
	SigningPackageAlreadyCreated
	SigningPackageMissing
	NonceConsumed
)

var kindNames = [...]string{
	UnknownError:                       "unknown error",
	InvalidMinSigners:                  "invalid min signers",
	InvalidMaxSigners:                  "invalid max signers",
	InvalidIdentifier:                  "invalid identifier",
	SerializationError:                 "serialization error",
	DeserializationError:               "deserialization error",
	NonceSerializationError:            "nonce serialization error",
	CommitmentSerializationError:       "commitment serialization error",
	SigningPackageDeserializationError: "signing package deserialization error",
	InvalidKeyPackage:                  "invalid key package",
	InvalidSecretKey:                   "invalid secret key",
	UnknownIdentifier:                  "unknown identifier",
	InsufficientCommitments:            "insufficient commitments",
	InsufficientShares:                 "insufficient signature shares",
	DuplicateIdentifier:                "duplicate identifier",
	InvalidShare:                       "invalid signature share",
	SigningFailed:                      "signing failed",
	InvalidSignature:                   "invalid signature",
	SigningPackageAlreadyCreated:       "signing package already created",
	SigningPackageMissing:              "signing package missing",
	NonceConsumed:                      "nonce already consumed",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Phase groups error kinds by when they are raised. Every kind is
// terminal for the operation that raised it.
type Phase uint8

const (
	// PhaseConfiguration errors are raised before any cryptographic work.
	PhaseConfiguration Phase = iota
	// PhaseSerialization errors mean bytes from the wire did not decode.
	// Retrying the same bytes never helps.
	PhaseSerialization
	// PhaseProtocol errors mean well-formed values broke a cross-entity
	// rule, for example a bad signature share.
	PhaseProtocol
	// PhaseSession errors mean an operation was called out of order.
	PhaseSession
)

func (p Phase) String() string {
	switch p {
	case PhaseConfiguration:
		return "configuration"
	case PhaseSerialization:
		return "serialization"
	case PhaseProtocol:
		return "protocol"
	case PhaseSession:
		return "session"
	}
	return "unknown"
}

// Phase returns the phase k belongs to.
func (k Kind) Phase() Phase {
	switch k {
	case UnknownError, InvalidMinSigners, InvalidMaxSigners, InvalidIdentifier:
		return PhaseConfiguration
	case SerializationError, DeserializationError, NonceSerializationError,
		CommitmentSerializationError, SigningPackageDeserializationError:
		return PhaseSerialization
	case SigningPackageAlreadyCreated, SigningPackageMissing, NonceConsumed:
		return PhaseSession
	default:
		return PhaseProtocol
	}
}

// Stage names the operation that failed.
type Stage string

const (
	StageConfig      Stage = "config"
	StageIdentifier  Stage = "identifier"
	StageDealer      Stage = "dealer"
	StageKeyPackage  Stage = "key package"
	StageCommit      Stage = "commit"
	StageAssemble    Stage = "assemble"
	StageSign        Stage = "sign"
	StageAggregate   Stage = "aggregate"
	StageVerify      Stage = "verify"
	StageCoordinator Stage = "coordinator"
	StageNonceStore  Stage = "nonce store"
)

// Error is the error type of every fallible operation in this package.
// It carries enough structure for a caller to decide whether to exclude
// a participant and retry with the rest. It never carries key material.
type Error struct {
	Kind  Kind
	Stage Stage
	// Identifier is the participant the failure is attributed to, if any.
	Identifier *Identifier
	// Culprits lists every participant whose signature share failed
	// verification. Only set for InvalidShare.
	Culprits []Identifier
	// Reason details SigningFailed and other kinds where the cause is not
	// obvious from the kind alone.
	Reason string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("session: ")
	if e.Stage != "" {
		b.WriteString(string(e.Stage))
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Identifier != nil {
		fmt.Fprintf(&b, " (participant %s)", e.Identifier)
	}
	if len(e.Culprits) > 0 {
		ids := make([]string, len(e.Culprits))
		for i, c := range e.Culprits {
			ids[i] = c.String()
		}
		fmt.Fprintf(&b, " (culprits %s)", strings.Join(ids, ", "))
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so that
// errors.Is(err, ErrInvalidShare) matches regardless of stage or payload.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for use with errors.Is.
var (
	ErrUnknownError                       = &Error{Kind: UnknownError}
	ErrInvalidMinSigners                  = &Error{Kind: InvalidMinSigners}
	ErrInvalidMaxSigners                  = &Error{Kind: InvalidMaxSigners}
	ErrInvalidIdentifier                  = &Error{Kind: InvalidIdentifier}
	ErrSerializationError                 = &Error{Kind: SerializationError}
	ErrDeserializationError               = &Error{Kind: DeserializationError}
	ErrNonceSerializationError            = &Error{Kind: NonceSerializationError}
	ErrCommitmentSerializationError       = &Error{Kind: CommitmentSerializationError}
	ErrSigningPackageDeserializationError = &Error{Kind: SigningPackageDeserializationError}
	ErrInvalidKeyPackage                  = &Error{Kind: InvalidKeyPackage}
	ErrInvalidSecretKey                   = &Error{Kind: InvalidSecretKey}
	ErrUnknownIdentifier                  = &Error{Kind: UnknownIdentifier}
	ErrInsufficientCommitments            = &Error{Kind: InsufficientCommitments}
	ErrInsufficientShares                 = &Error{Kind: InsufficientShares}
	ErrDuplicateIdentifier                = &Error{Kind: DuplicateIdentifier}
	ErrInvalidShare                       = &Error{Kind: InvalidShare}
	ErrSigningFailed                      = &Error{Kind: SigningFailed}
	ErrInvalidSignature                   = &Error{Kind: InvalidSignature}
	ErrSigningPackageAlreadyCreated       = &Error{Kind: SigningPackageAlreadyCreated}
	ErrSigningPackageMissing              = &Error{Kind: SigningPackageMissing}
	ErrNonceConsumed                      = &Error{Kind: NonceConsumed}
)

// KindOf returns the kind of the outermost *Error in err's chain, or
// UnknownError.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return UnknownError
}

func newError(stage Stage, kind Kind, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Err: err}
}

func (e *Error) withIdentifier(id Identifier) *Error {
	e.Identifier = &id
	return e
}

func (e *Error) withReason(format string, args ...interface{}) *Error {
	e.Reason = fmt.Sprintf(format, args...)
	return e
}

// engineKind maps an error returned by the signature engine to the
// protocol kind it stands for.
func engineKind(err error) Kind {
	switch {
	case errors.Is(err, frost.ErrMalformed), errors.Is(err, frost.ErrCiphersuiteMismatch):
		return DeserializationError
	case errors.Is(err, frost.ErrInvalidMinSigners):
		return InvalidMinSigners
	case errors.Is(err, frost.ErrInvalidMaxSigners):
		return InvalidMaxSigners
	case errors.Is(err, frost.ErrInvalidIdentifier):
		return InvalidIdentifier
	case errors.Is(err, frost.ErrDuplicateIdentifier):
		return DuplicateIdentifier
	case errors.Is(err, frost.ErrUnknownIdentifier):
		return UnknownIdentifier
	case errors.Is(err, frost.ErrInvalidSecretShare):
		return InvalidSecretKey
	case errors.Is(err, frost.ErrInsufficientSigners):
		return InsufficientCommitments
	case errors.Is(err, frost.ErrInsufficientShares):
		return InsufficientShares
	case errors.Is(err, frost.ErrInvalidShare):
		return InvalidShare
	case errors.Is(err, frost.ErrInvalidSignature):
		return InvalidSignature
	case errors.Is(err, frost.ErrIncorrectCommitment):
		return SigningFailed
	}
	return UnknownError
}

func fromEngine(stage Stage, err error) *Error {
	return newError(stage, engineKind(err), err)
}
