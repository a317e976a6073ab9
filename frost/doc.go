// Package frost implements the FROST (Flexible Round-Optimized Schnorr Threshold)
// signature scheme over an arbitrary elliptic curve group.
//
// FROST is a threshold signature scheme that allows t-of-n participants to
// collaboratively generate a Schnorr signature without any single participant
// knowing the full private key. An engine ([FROST]) pairs a [group.Group] with
// a [Hasher]; the pair is named by [FROST.Name] and that name is stamped into
// every encoded value.
//
// # Trusted Dealer Key Generation
//
// A dealer splits a secret with Shamir's scheme and publishes Feldman
// commitments to the polynomial:
//
//  1. The dealer calls [FROST.Split] and sends each [SecretShare] to its
//     participant over a confidential channel.
//  2. Each participant checks its share with [FROST.VerifySecretShare],
//     which yields the [KeyShare] used for signing.
//  3. The [PublicKeyPackage] is published to whoever aggregates.
//
// # Threshold Signing
//
// Any t participants can then sign a message:
//
//  1. Each signer generates nonces and commitments using [FROST.SignRound1].
//  2. The coordinator bundles message and commitments with
//     [FROST.NewSigningPackage].
//  3. Each signer computes its signature share using [FROST.SignRound2].
//  4. Signature shares are verified and aggregated using [FROST.Aggregate].
//  5. Anyone can verify the signature using [FROST.Verify].
//
// # Example
//
// Basic usage with 2-of-3 threshold:
//
//	f := frost.NewWithHasher(ed25519.Group{}, &frost.SHA512Hasher{})
//	shares, pub, _ := f.Split(rand.Reader, nil, 2, 3, nil)
//	ks1, _ := f.VerifySecretShare(shares[0])
//	ks2, _ := f.VerifySecretShare(shares[1])
//
//	message := []byte("hello")
//	nonce1, commit1, _ := f.SignRound1(rand.Reader, ks1)
//	nonce2, commit2, _ := f.SignRound1(rand.Reader, ks2)
//	pkg, _ := f.NewSigningPackage(message, []*frost.SigningCommitment{commit1, commit2})
//
//	share1, _ := f.SignRound2(ks1, nonce1, pkg)
//	share2, _ := f.SignRound2(ks2, nonce2, pkg)
//
//	sig, _ := f.Aggregate(pkg, []*frost.SignatureShare{share1, share2}, pub)
//	valid := f.Verify(message, sig, pub.GroupKey)
//
// With the ed25519 group and [SHA512Hasher] the 64-byte output of
// [FROST.EncodeSignature] is an ordinary RFC 8032 signature.
//
// # Security Considerations
//
// The dealer learns the secret and must be trusted. Signing is secure
// against an adversary controlling up to t-1 participants.
//
// Nonces generated in [FROST.SignRound1] must never be reused. Each signing
// session requires fresh nonces; the session package enforces this.
package frost
