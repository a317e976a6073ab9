package ed25519

import (
	"github.com/decred/dcrd/dcrec/edwards/v2"
)

// VerifyStandard checks a 64-byte R || S signature over message with an
// independent RFC 8032 verifier. It is used to confirm that threshold
// signatures are indistinguishable from single-signer Ed25519 ones.
func VerifyStandard(publicKey, message, signature []byte) bool {
	pub, err := edwards.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	sig, err := edwards.ParseSignature(signature)
	if err != nil {
		return false
	}
	return edwards.Verify(pub, message, sig.R, sig.S)
}
