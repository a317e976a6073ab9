package session

import (
	"slices"
	"sync"
)

// Coordinator drives one signing ceremony over a message: it collects
// commitments, creates the signing package once, collects signature
// shares and aggregates them. It is safe for concurrent use, so
// transport handlers for different participants may call it in parallel.
type Coordinator struct {
	mu          sync.Mutex
	engine      Engine
	pub         *PublicKeyPackage
	message     []byte
	commitments map[Identifier]*SigningCommitments
	pkg         *SigningPackage
	signers     map[Identifier]bool
	shares      map[Identifier]*SignatureShare
}

// NewCoordinator starts a ceremony for message under pub.
func NewCoordinator(e Engine, pub *PublicKeyPackage, message []byte) (*Coordinator, error) {
	if _, err := pub.engine(e, StageCoordinator); err != nil {
		return nil, err
	}
	return &Coordinator{
		engine:      e,
		pub:         pub,
		message:     slices.Clone(message),
		commitments: make(map[Identifier]*SigningCommitments),
		shares:      make(map[Identifier]*SignatureShare),
	}, nil
}

// ReceiveCommitment records the round-1 commitment of one participant.
func (c *Coordinator) ReceiveCommitment(comm *SigningCommitments) error {
	if comm == nil {
		return newError(StageCoordinator, DeserializationError, nil).withReason("nil commitment")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pkg != nil {
		return newError(StageCoordinator, SigningPackageAlreadyCreated, nil).withIdentifier(comm.Identifier)
	}
	if _, ok := c.pub.VerifyingShares[comm.Identifier]; !ok {
		return newError(StageCoordinator, UnknownIdentifier, nil).withIdentifier(comm.Identifier).
			withReason("not a participant of this key")
	}
	if _, ok := c.commitments[comm.Identifier]; ok {
		return newError(StageCoordinator, DuplicateIdentifier, nil).withIdentifier(comm.Identifier)
	}
	c.commitments[comm.Identifier] = &SigningCommitments{Identifier: comm.Identifier, Data: slices.Clone(comm.Data)}
	log.Debugw("commitment received", "identifier", comm.Identifier.String(), "count", len(c.commitments))
	return nil
}

// CreateSigningPackage assembles the commitments received so far. It
// succeeds at most once; later commitments are refused.
func (c *Coordinator) CreateSigningPackage() (*SigningPackage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pkg != nil {
		return nil, newError(StageCoordinator, SigningPackageAlreadyCreated, nil)
	}
	if len(c.commitments) > len(c.pub.VerifyingShares) {
		return nil, newError(StageCoordinator, InvalidMaxSigners, nil).
			withReason("%d commitments for %d participants", len(c.commitments), len(c.pub.VerifyingShares))
	}

	ids := make([]Identifier, 0, len(c.commitments))
	for id := range c.commitments {
		ids = append(ids, id)
	}
	SortIdentifiers(c.engine, ids)
	list := make([]*SigningCommitments, len(ids))
	for i, id := range ids {
		list[i] = c.commitments[id]
	}

	pkg, err := NewSigningPackage(c.engine, c.pub.MinSigners, c.message, list)
	if err != nil {
		return nil, err
	}
	c.pkg = pkg.clone()
	c.signers = make(map[Identifier]bool, len(ids))
	for _, id := range ids {
		c.signers[id] = true
	}
	return pkg, nil
}

// SigningPackage returns a copy of the package, or nil before it is
// created.
func (c *Coordinator) SigningPackage() *SigningPackage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pkg.clone()
}

// ReceiveSignatureShare records the round-2 share of one signer. Shares
// are checked when the ceremony is aggregated.
func (c *Coordinator) ReceiveSignatureShare(share *SignatureShare) error {
	if share == nil {
		return newError(StageCoordinator, DeserializationError, nil).withReason("nil signature share")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pkg == nil {
		return newError(StageCoordinator, SigningPackageMissing, nil).withIdentifier(share.Identifier)
	}
	if !c.signers[share.Identifier] {
		return newError(StageCoordinator, UnknownIdentifier, nil).withIdentifier(share.Identifier).
			withReason("not a signer of this package")
	}
	if _, ok := c.shares[share.Identifier]; ok {
		return newError(StageCoordinator, DuplicateIdentifier, nil).withIdentifier(share.Identifier)
	}
	c.shares[share.Identifier] = &SignatureShare{Identifier: share.Identifier, Data: slices.Clone(share.Data)}
	return nil
}

// Missing returns the signers whose shares have not arrived, in
// canonical order.
func (c *Coordinator) Missing() []Identifier {
	c.mu.Lock()
	defer c.mu.Unlock()

	var missing []Identifier
	for id := range c.signers {
		if _, ok := c.shares[id]; !ok {
			missing = append(missing, id)
		}
	}
	SortIdentifiers(c.engine, missing)
	return missing
}

// Aggregate combines the collected shares, see [Aggregate].
func (c *Coordinator) Aggregate() (*Signature, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pkg == nil {
		return nil, newError(StageCoordinator, SigningPackageMissing, nil)
	}
	shares := make([]*SignatureShare, 0, len(c.shares))
	for _, s := range c.shares {
		shares = append(shares, s)
	}
	return Aggregate(c.engine, c.pkg, shares, c.pub)
}

// Verify checks sig over the ceremony's message.
func (c *Coordinator) Verify(sig *Signature) (bool, error) {
	return Verify(c.engine, c.pub, c.message, sig)
}
