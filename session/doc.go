// Package session orchestrates FROST threshold signing with a trusted
// dealer. It wraps the primitives of the [frost] package behind opaque,
// serializable records and typed errors, and keeps the rules that the
// primitives leave to the caller: identifiers match the bytes they label,
// nonces are used once, and a bad signature share is attributed to its
// signer.
//
// Three roles take part. The dealer splits a group key into shares, each
// participant turns its share into a [KeyPackage] and signs, and a
// coordinator assembles commitments and aggregates signature shares. The
// coordinator only sees public values.
//
// # Key Generation
//
//	e, _ := session.NewEngine(session.Ed25519)
//	keys, err := session.GenerateKeys(e, rand.Reader, &session.Configuration{
//		MinSigners: 2,
//		MaxSigners: 3,
//	})
//	if err != nil {
//		return err
//	}
//	// Send keys.SecretShares[id] to participant id over a secure channel
//	// and publish keys.PublicKeyPackage.
//
// Each participant checks its share before use:
//
//	kp, err := session.VerifyAndGetKeyPackage(e, share)
//
// # Signing
//
// A [SigningSession] holds the round-1 nonces and can sign once:
//
//	p, _ := session.NewParticipant(e, kp)
//	sess, _ := p.NewSigningSession(rand.Reader)
//	// Send sess.Commitments() to the coordinator.
//
//	c, _ := session.NewCoordinator(e, pub, message)
//	_ = c.ReceiveCommitment(commitments) // for each signer
//	pkg, _ := c.CreateSigningPackage()
//
//	share, err := sess.Sign(pkg)
//	_ = c.ReceiveSignatureShare(share) // for each signer
//	sig, err := c.Aggregate()
//
// Participants that cannot keep a session object between rounds can park
// their nonces in a [NonceStore] under a session id instead.
//
// # Errors
//
// Every operation fails with an [*Error]. Match kinds with errors.Is
// against the Err sentinels, or read [Error.Kind] and [Kind.Phase]. An
// InvalidShare error lists every culprit, so the coordinator can exclude
// them and start a new ceremony with the rest.
//
// # Transport
//
// This package does not handle network communication. Records marshal to
// JSON and carry their cryptographic content as opaque bytes, so any
// transport works.
package session
