// Package ed25519 provides an edwards25519 implementation of the
// [group.Group] interface for use with FROST threshold signatures.
//
// Scalars and points are encoded exactly as in RFC 8032: 32-byte
// little-endian scalars and 32-byte compressed points. Paired with
// [frost.SHA512Hasher] the aggregated signatures are ordinary Ed25519
// signatures and verify with any RFC 8032 implementation, see
// [VerifyStandard].
//
// The curve arithmetic is delegated to the edwards25519 suite of
// go.dedis.ch/kyber.
package ed25519
