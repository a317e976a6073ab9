package session

import (
	stded25519 "crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
	"go.dedis.ch/kyber/v3/xof/blake2xb"

	"github.com/f3rmion/frostkit/ed25519"
)

// forEachEngine runs fn once per registered ciphersuite.
func forEachEngine(t *testing.T, fn func(t *testing.T, e Engine)) {
	for _, name := range Ciphersuites() {
		t.Run(name, func(t *testing.T) {
			e, err := NewEngine(name)
			require.NoError(t, err)
			fn(t, e)
		})
	}
}

// seeded returns a deterministic randomness source.
func seeded(seed string) io.Reader {
	return blake2xb.New([]byte(seed))
}

func newKeys(t *testing.T, e Engine, minSigners, maxSigners uint16) *KeyGeneration {
	t.Helper()
	kg, err := GenerateKeys(e, rand.Reader, &Configuration{MinSigners: minSigners, MaxSigners: maxSigners})
	require.NoError(t, err)
	return kg
}

func mustID(t *testing.T, e Engine, n uint64) Identifier {
	t.Helper()
	id, err := IdentifierFromUint(e, n)
	require.NoError(t, err)
	return id
}

// keyPackages derives the key package of every participant, in
// canonical order.
func keyPackages(t *testing.T, e Engine, kg *KeyGeneration) []*KeyPackage {
	t.Helper()
	var out []*KeyPackage
	for _, id := range kg.PublicKeyPackage.Identifiers(e) {
		kp, err := VerifyAndGetKeyPackage(e, kg.SecretShares[id])
		require.NoError(t, err)
		out = append(out, kp)
	}
	return out
}

// runRounds runs both signing rounds for kps and returns the package and
// the shares.
func runRounds(t *testing.T, e Engine, kps []*KeyPackage, minSigners uint16, message []byte) (*SigningPackage, []*SignatureShare) {
	t.Helper()
	sessions := make([]*SigningSession, len(kps))
	commitments := make([]*SigningCommitments, len(kps))
	for i, kp := range kps {
		p, err := NewParticipant(e, kp)
		require.NoError(t, err)
		sessions[i], err = p.NewSigningSession(rand.Reader)
		require.NoError(t, err)
		commitments[i] = sessions[i].Commitments()
	}

	pkg, err := NewSigningPackage(e, minSigners, message, commitments)
	require.NoError(t, err)

	shares := make([]*SignatureShare, len(kps))
	for i, sess := range sessions {
		shares[i], err = sess.Sign(pkg)
		require.NoError(t, err)
	}
	return pkg, shares
}

// subsets returns every k-element subset of 0..n-1.
func subsets(n, k int) [][]int {
	if k == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for first := 0; first <= n-k; first++ {
		for _, rest := range subsets(n-first-1, k-1) {
			s := []int{first}
			for _, r := range rest {
				s = append(s, first+1+r)
			}
			out = append(out, s)
		}
	}
	return out
}

func TestHelloGoodbye(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e Engine) {
		kg, err := GenerateKeys(e, rand.Reader, &Configuration{MinSigners: 2, MaxSigners: 3})
		require.NoError(t, err)

		id1, id2, id3 := mustID(t, e, 1), mustID(t, e, 2), mustID(t, e, 3)
		require.Len(t, kg.SecretShares, 3)
		for _, id := range []Identifier{id1, id2, id3} {
			require.Contains(t, kg.SecretShares, id)
			require.Contains(t, kg.PublicKeyPackage.VerifyingShares, id)
		}

		// Round 1 for participants 1 and 2.
		nonces1, comm1, err := Commit(e, rand.Reader, kg.SecretShares[id1])
		require.NoError(t, err)
		nonces2, comm2, err := Commit(e, rand.Reader, kg.SecretShares[id2])
		require.NoError(t, err)
		require.Equal(t, id1, comm1.Identifier)
		require.Equal(t, id2, comm2.Identifier)

		pkg, err := NewSigningPackage(e, 2, []byte("hello"), []*SigningCommitments{comm1, comm2})
		require.NoError(t, err)

		kp1, err := VerifyAndGetKeyPackage(e, kg.SecretShares[id1])
		require.NoError(t, err)
		kp2, err := VerifyAndGetKeyPackage(e, kg.SecretShares[id2])
		require.NoError(t, err)
		require.Equal(t, id1.String(), kp1.Identifier)

		share1, err := Sign(e, pkg, nonces1, kp1)
		require.NoError(t, err)
		share2, err := Sign(e, pkg, nonces2, kp2)
		require.NoError(t, err)

		sig, err := Aggregate(e, pkg, []*SignatureShare{share1, share2}, kg.PublicKeyPackage)
		require.NoError(t, err)

		ok, err := Verify(e, kg.PublicKeyPackage, []byte("hello"), sig)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = Verify(e, kg.PublicKeyPackage, []byte("goodbye"), sig)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestDealerProducesDistinctShares(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e Engine) {
		for _, cfg := range []struct{ min, max uint16 }{{2, 2}, {2, 3}, {3, 5}, {4, 4}, {5, 9}} {
			t.Run(fmt.Sprintf("%d_of_%d", cfg.min, cfg.max), func(t *testing.T) {
				kg := newKeys(t, e, cfg.min, cfg.max)
				require.Len(t, kg.SecretShares, int(cfg.max))
				require.Len(t, kg.PublicKeyPackage.VerifyingShares, int(cfg.max))
				require.Equal(t, cfg.min, kg.PublicKeyPackage.MinSigners)

				for n := uint64(1); n <= uint64(cfg.max); n++ {
					id := mustID(t, e, n)
					share, ok := kg.SecretShares[id]
					require.True(t, ok, "missing share for %d", n)
					require.Equal(t, id, share.Identifier)
					require.NoError(t, share.Validate(e))
				}
			})
		}
	})
}

func TestAnyThresholdSubsetSigns(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e Engine) {
		kg := newKeys(t, e, 3, 5)
		kps := keyPackages(t, e, kg)
		message := []byte("any subset")

		var all [][]int
		all = append(all, subsets(5, 3)...)
		all = append(all, subsets(5, 4)...)
		all = append(all, subsets(5, 5)...)
		for _, subset := range all {
			t.Run(fmt.Sprint(subset), func(t *testing.T) {
				signers := make([]*KeyPackage, len(subset))
				for i, idx := range subset {
					signers[i] = kps[idx]
				}
				pkg, shares := runRounds(t, e, signers, 3, message)

				sig, err := Aggregate(e, pkg, shares, kg.PublicKeyPackage)
				require.NoError(t, err)
				ok, err := Verify(e, kg.PublicKeyPackage, message, sig)
				require.NoError(t, err)
				require.True(t, ok)
			})
		}
	})
}

func TestBelowThreshold(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e Engine) {
		kg := newKeys(t, e, 3, 5)
		kps := keyPackages(t, e, kg)
		message := []byte("below threshold")

		t.Run("Shares", func(t *testing.T) {
			pkg, shares := runRounds(t, e, kps[:3], 3, message)
			for n := 0; n < 3; n++ {
				_, err := Aggregate(e, pkg, shares[:n], kg.PublicKeyPackage)
				require.ErrorIs(t, err, ErrInsufficientShares)
			}
		})

		t.Run("Commitments", func(t *testing.T) {
			var commitments []*SigningCommitments
			for _, kp := range kps[:2] {
				p, err := NewParticipant(e, kp)
				require.NoError(t, err)
				_, c, err := p.Commit(rand.Reader)
				require.NoError(t, err)
				commitments = append(commitments, c)
			}
			_, err := NewSigningPackage(e, 3, message, commitments)
			require.ErrorIs(t, err, ErrInsufficientCommitments)
		})

		t.Run("PackageBelowKeyThreshold", func(t *testing.T) {
			// A package assembled with a lower threshold than the key's
			// is refused by every signer.
			p, err := NewParticipant(e, kps[0])
			require.NoError(t, err)
			nonces, c0, err := p.Commit(rand.Reader)
			require.NoError(t, err)
			q, err := NewParticipant(e, kps[1])
			require.NoError(t, err)
			_, c1, err := q.Commit(rand.Reader)
			require.NoError(t, err)

			pkg, err := NewSigningPackage(e, 2, message, []*SigningCommitments{c0, c1})
			require.NoError(t, err)
			_, err = p.Sign(pkg, nonces)
			require.ErrorIs(t, err, ErrSigningFailed)
		})
	})
}

func TestWireRecordsRoundTrip(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e Engine) {
		kg := newKeys(t, e, 2, 3)
		kps := keyPackages(t, e, kg)
		p, err := NewParticipant(e, kps[0])
		require.NoError(t, err)
		nonces, commitments, err := p.Commit(rand.Reader)
		require.NoError(t, err)
		pkg, shares := runRounds(t, e, kps[:2], 2, []byte("round trip"))
		sig, err := Aggregate(e, pkg, shares, kg.PublicKeyPackage)
		require.NoError(t, err)
		id := mustID(t, e, 2)

		records := []interface{}{
			&id,
			kg.SecretShares[id],
			kps[0],
			kg.PublicKeyPackage,
			kg,
			nonces,
			commitments,
			pkg,
			shares[0],
			sig,
		}
		for _, rec := range records {
			t.Run(fmt.Sprintf("%T", rec), func(t *testing.T) {
				raw, err := json.Marshal(rec)
				require.NoError(t, err)
				decoded := newOfSameType(rec)
				require.NoError(t, json.Unmarshal(raw, decoded))
				require.Equal(t, rec, decoded)
			})
		}

		// Opaque bytes survive the trip intact, so the decoded package
		// still signs.
		raw, err := json.Marshal(pkg)
		require.NoError(t, err)
		var decoded SigningPackage
		require.NoError(t, json.Unmarshal(raw, &decoded))
		_, err = p.Sign(&decoded, nonces)
		require.ErrorIs(t, err, ErrSigningFailed, "participant 1 committed outside this package")
	})
}

func newOfSameType(v interface{}) interface{} {
	switch v.(type) {
	case *Identifier:
		return new(Identifier)
	case *SecretShare:
		return new(SecretShare)
	case *KeyPackage:
		return new(KeyPackage)
	case *PublicKeyPackage:
		return new(PublicKeyPackage)
	case *KeyGeneration:
		return new(KeyGeneration)
	case *SigningNonces:
		return new(SigningNonces)
	case *SigningCommitments:
		return new(SigningCommitments)
	case *SigningPackage:
		return new(SigningPackage)
	case *SignatureShare:
		return new(SignatureShare)
	case *Signature:
		return new(Signature)
	}
	panic(fmt.Sprintf("unexpected record %T", v))
}

func TestTamperedShareNeverYieldsKeyPackage(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e Engine) {
		kg := newKeys(t, e, 2, 3)
		id := mustID(t, e, 1)
		original := kg.SecretShares[id]

		for i := range original.Data {
			data := append([]byte(nil), original.Data...)
			data[i] ^= 0x01
			_, err := VerifyAndGetKeyPackage(e, &SecretShare{Identifier: id, Data: data})
			require.ErrorIs(t, err, ErrInvalidSecretKey, "byte %d", i)
		}

		// The untouched share still works.
		_, err := VerifyAndGetKeyPackage(e, original)
		require.NoError(t, err)
	})
}

func TestIdentifierMismatch(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e Engine) {
		kg := newKeys(t, e, 2, 3)
		id1, id2 := mustID(t, e, 1), mustID(t, e, 2)
		forged := &SecretShare{Identifier: id2, Data: kg.SecretShares[id1].Data}

		err := forged.Validate(e)
		require.ErrorIs(t, err, ErrUnknownIdentifier)

		_, err = VerifyAndGetKeyPackage(e, forged)
		require.ErrorIs(t, err, ErrInvalidSecretKey)
		require.ErrorIs(t, err, ErrUnknownIdentifier)

		_, _, err = Commit(e, rand.Reader, forged)
		require.ErrorIs(t, err, ErrInvalidKeyPackage)

		var perr *Error
		require.True(t, errors.As(err, &perr))
		require.NotNil(t, perr.Identifier)
		require.Equal(t, id2, *perr.Identifier)
	})
}

func TestSigningSessionSingleUse(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e Engine) {
		kg := newKeys(t, e, 2, 3)
		kps := keyPackages(t, e, kg)

		p0, err := NewParticipant(e, kps[0])
		require.NoError(t, err)
		p1, err := NewParticipant(e, kps[1])
		require.NoError(t, err)

		sess, err := p0.NewSigningSession(rand.Reader)
		require.NoError(t, err)
		other, err := p1.NewSigningSession(rand.Reader)
		require.NoError(t, err)
		require.False(t, sess.IsConsumed())

		first, err := NewSigningPackage(e, 2, []byte("first"), []*SigningCommitments{sess.Commitments(), other.Commitments()})
		require.NoError(t, err)
		second, err := NewSigningPackage(e, 2, []byte("second"), []*SigningCommitments{sess.Commitments(), other.Commitments()})
		require.NoError(t, err)

		_, err = sess.Sign(first)
		require.NoError(t, err)
		require.True(t, sess.IsConsumed())

		_, err = sess.Sign(second)
		require.ErrorIs(t, err, ErrNonceConsumed)
		require.Equal(t, PhaseSession, KindOf(err).Phase())
	})
}

func TestSigningSessionConsumedOnFailure(t *testing.T) {
	e, err := NewEngine(Ed25519)
	require.NoError(t, err)
	kg := newKeys(t, e, 2, 3)
	kps := keyPackages(t, e, kg)
	p, err := NewParticipant(e, kps[0])
	require.NoError(t, err)

	sess, err := p.NewSigningSession(rand.Reader)
	require.NoError(t, err)
	_, err = sess.Sign(&SigningPackage{Data: []byte("garbage")})
	require.ErrorIs(t, err, ErrSigningPackageDeserializationError)

	_, err = sess.Sign(&SigningPackage{})
	require.ErrorIs(t, err, ErrNonceConsumed)
}

func TestSignFailures(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e Engine) {
		kg := newKeys(t, e, 2, 3)
		kps := keyPackages(t, e, kg)
		message := []byte("failures")

		parts := make([]*Participant, 3)
		nonces := make([]*SigningNonces, 3)
		comms := make([]*SigningCommitments, 3)
		for i, kp := range kps {
			var err error
			parts[i], err = NewParticipant(e, kp)
			require.NoError(t, err)
			nonces[i], comms[i], err = parts[i].Commit(rand.Reader)
			require.NoError(t, err)
		}
		pkg, err := NewSigningPackage(e, 2, message, comms[:2])
		require.NoError(t, err)

		t.Run("NotInPackage", func(t *testing.T) {
			_, err := Sign(e, pkg, nonces[2], kps[2])
			require.ErrorIs(t, err, ErrSigningFailed)
			var perr *Error
			require.True(t, errors.As(err, &perr))
			require.Equal(t, "identifier not in signing package", perr.Reason)
		})

		t.Run("WrongNonces", func(t *testing.T) {
			fresh, _, err := parts[0].Commit(rand.Reader)
			require.NoError(t, err)
			_, err = Sign(e, pkg, fresh, kps[0])
			require.ErrorIs(t, err, ErrSigningFailed)
		})

		t.Run("ForeignNonces", func(t *testing.T) {
			_, err := Sign(e, pkg, nonces[1], kps[0])
			require.ErrorIs(t, err, ErrSigningFailed)
		})

		t.Run("BadPackage", func(t *testing.T) {
			_, err := Sign(e, &SigningPackage{Data: []byte{1, 2, 3}}, nonces[0], kps[0])
			require.ErrorIs(t, err, ErrSigningPackageDeserializationError)
		})

		t.Run("BadNonces", func(t *testing.T) {
			_, err := Sign(e, pkg, &SigningNonces{Data: []byte{1, 2, 3}}, kps[0])
			require.ErrorIs(t, err, ErrNonceSerializationError)
		})

		t.Run("BadKeyPackage", func(t *testing.T) {
			relabeled := &KeyPackage{Identifier: kps[1].Identifier, Data: kps[0].Data}
			_, err := Sign(e, pkg, nonces[0], relabeled)
			require.ErrorIs(t, err, ErrInvalidKeyPackage)

			_, err = NewParticipant(e, &KeyPackage{Identifier: "zz", Data: kps[0].Data})
			require.ErrorIs(t, err, ErrInvalidKeyPackage)
		})
	})
}

func TestAssembleChecks(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e Engine) {
		kg := newKeys(t, e, 2, 3)
		kps := keyPackages(t, e, kg)
		var comms []*SigningCommitments
		for _, kp := range kps {
			p, err := NewParticipant(e, kp)
			require.NoError(t, err)
			_, c, err := p.Commit(rand.Reader)
			require.NoError(t, err)
			comms = append(comms, c)
		}
		message := []byte("assemble")

		_, err := NewSigningPackage(e, 2, message, []*SigningCommitments{comms[0], comms[0]})
		require.ErrorIs(t, err, ErrDuplicateIdentifier)

		mislabeled := &SigningCommitments{Identifier: comms[2].Identifier, Data: comms[1].Data}
		_, err = NewSigningPackage(e, 2, message, []*SigningCommitments{comms[0], mislabeled})
		require.ErrorIs(t, err, ErrUnknownIdentifier)

		broken := &SigningCommitments{Identifier: comms[1].Identifier, Data: []byte("broken")}
		_, err = NewSigningPackage(e, 2, message, []*SigningCommitments{comms[0], broken})
		require.ErrorIs(t, err, ErrDeserializationError)

		// Input order does not change the package.
		a, err := NewSigningPackage(e, 2, message, []*SigningCommitments{comms[2], comms[0], comms[1]})
		require.NoError(t, err)
		b, err := NewSigningPackage(e, 2, message, []*SigningCommitments{comms[1], comms[2], comms[0]})
		require.NoError(t, err)
		require.Equal(t, a.Data, b.Data)
	})
}

func TestAggregateReportsCulprits(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e Engine) {
		kg := newKeys(t, e, 2, 3)
		kps := keyPackages(t, e, kg)

		pkgA, sharesA := runRounds(t, e, kps, 2, []byte("message A"))
		_, sharesB := runRounds(t, e, kps, 2, []byte("message B"))

		// Shares from another session are well-formed but invalid here.
		mixed := []*SignatureShare{sharesA[0], sharesB[1], sharesB[2]}
		_, err := Aggregate(e, pkgA, mixed, kg.PublicKeyPackage)
		require.ErrorIs(t, err, ErrInvalidShare)
		require.Equal(t, InvalidShare, KindOf(err))
		require.Equal(t, PhaseProtocol, InvalidShare.Phase())

		var perr *Error
		require.True(t, errors.As(err, &perr))
		require.Equal(t, []Identifier{sharesB[1].Identifier, sharesB[2].Identifier}, perr.Culprits)

		var merr *multierror.Error
		require.True(t, errors.As(err, &merr))
		require.Len(t, merr.Errors, 2)

		t.Run("Duplicate", func(t *testing.T) {
			_, err := Aggregate(e, pkgA, []*SignatureShare{sharesA[0], sharesA[0], sharesA[1]}, kg.PublicKeyPackage)
			require.ErrorIs(t, err, ErrDuplicateIdentifier)
		})

		t.Run("Unknown", func(t *testing.T) {
			pkg2, shares2 := runRounds(t, e, kps[:2], 2, []byte("two signers"))
			_, err := Aggregate(e, pkg2, append(shares2, sharesA[2]), kg.PublicKeyPackage)
			require.ErrorIs(t, err, ErrUnknownIdentifier)
		})

		t.Run("Mislabeled", func(t *testing.T) {
			relabeled := &SignatureShare{Identifier: sharesA[1].Identifier, Data: sharesA[2].Data}
			_, err := Aggregate(e, pkgA, []*SignatureShare{sharesA[0], relabeled, sharesA[2]}, kg.PublicKeyPackage)
			require.ErrorIs(t, err, ErrUnknownIdentifier)
		})
	})
}

func TestGenerateKeysWithIdentifiers(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e Engine) {
		var ids []Identifier
		for _, device := range []string{"phone", "laptop", "server"} {
			id, err := DeriveIdentifier(e, []byte(device))
			require.NoError(t, err)
			ids = append(ids, id)
		}
		cfg := &Configuration{MinSigners: 2, MaxSigners: 3}

		kg, err := GenerateKeysWithIdentifiers(e, rand.Reader, cfg, ids)
		require.NoError(t, err)
		for _, id := range ids {
			require.Contains(t, kg.SecretShares, id)
		}
		kps := keyPackages(t, e, kg)
		pkg, shares := runRounds(t, e, kps[1:], 2, []byte("derived"))
		_, err = Aggregate(e, pkg, shares, kg.PublicKeyPackage)
		require.NoError(t, err)

		_, err = GenerateKeysWithIdentifiers(e, rand.Reader, cfg, ids[:2])
		require.ErrorIs(t, err, ErrInvalidMaxSigners)

		_, err = GenerateKeysWithIdentifiers(e, rand.Reader, cfg, []Identifier{ids[0], ids[1], ids[0]})
		require.ErrorIs(t, err, ErrInvalidIdentifier)

		_, err = GenerateKeysWithIdentifiers(e, rand.Reader, cfg, []Identifier{ids[0], ids[1], {}})
		require.ErrorIs(t, err, ErrInvalidIdentifier)
	})
}

func TestGenerateKeysFromSecret(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e Engine) {
		secret, err := e.Group().RandomScalar(rand.Reader)
		require.NoError(t, err)
		cfg := &Configuration{MinSigners: 2, MaxSigners: 3, Secret: secret.Bytes()}

		kg, err := GenerateKeys(e, rand.Reader, cfg)
		require.NoError(t, err)
		want := e.Group().NewPoint().ScalarMult(secret, e.Group().Generator())
		require.Equal(t, hex.EncodeToString(want.Bytes()), kg.PublicKeyPackage.VerifyingKey)

		cfg.Secret = make([]byte, len(cfg.Secret))
		_, err = GenerateKeys(e, rand.Reader, cfg)
		require.ErrorIs(t, err, ErrUnknownError)

		cfg.Secret = []byte{1, 2, 3}
		_, err = GenerateKeys(e, rand.Reader, cfg)
		require.ErrorIs(t, err, ErrUnknownError)
	})
}

func TestGenerateKeysInvalidConfiguration(t *testing.T) {
	e, err := NewEngine(Ed25519)
	require.NoError(t, err)

	_, err = GenerateKeys(e, rand.Reader, &Configuration{MinSigners: 1, MaxSigners: 3})
	require.ErrorIs(t, err, ErrInvalidMinSigners)
	_, err = GenerateKeys(e, rand.Reader, &Configuration{MinSigners: 4, MaxSigners: 3})
	require.ErrorIs(t, err, ErrInvalidMinSigners)
	_, err = GenerateKeysWithIdentifiers(e, rand.Reader, &Configuration{MinSigners: 2, MaxSigners: 1}, nil)
	require.ErrorIs(t, err, ErrInvalidMaxSigners)
}

func TestGenerateKeysHonorsCiphersuite(t *testing.T) {
	ed, err := NewEngine(Ed25519)
	require.NoError(t, err)
	bj, err := NewEngine(BabyJubjub)
	require.NoError(t, err)

	_, err = GenerateKeys(ed, rand.Reader, &Configuration{MinSigners: 2, MaxSigners: 3, Ciphersuite: BabyJubjub})
	require.ErrorIs(t, err, ErrUnknownError)

	_, err = GenerateKeys(ed, rand.Reader, &Configuration{MinSigners: 2, MaxSigners: 3, Ciphersuite: "nonsense"})
	require.ErrorIs(t, err, ErrUnknownError)

	ids := []Identifier{mustID(t, ed, 1), mustID(t, ed, 2), mustID(t, ed, 3)}
	_, err = GenerateKeysWithIdentifiers(ed, rand.Reader, &Configuration{MinSigners: 2, MaxSigners: 3, Ciphersuite: BabyJubjub}, ids)
	require.ErrorIs(t, err, ErrUnknownError)

	kg, err := GenerateKeys(bj, rand.Reader, &Configuration{MinSigners: 2, MaxSigners: 3, Ciphersuite: BabyJubjub})
	require.NoError(t, err)
	require.NoError(t, kg.SecretShares[mustID(t, bj, 1)].Validate(bj))

	_, err = GenerateKeys(ed, rand.Reader, &Configuration{MinSigners: 2, MaxSigners: 3, Ciphersuite: Ed25519})
	require.NoError(t, err)
}

func TestDeterministicKeyGeneration(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e Engine) {
		cfg := &Configuration{MinSigners: 2, MaxSigners: 3}
		a, err := GenerateKeys(e, seeded("frost test seed"), cfg)
		require.NoError(t, err)
		b, err := GenerateKeys(e, seeded("frost test seed"), cfg)
		require.NoError(t, err)
		c, err := GenerateKeys(e, seeded("another seed"), cfg)
		require.NoError(t, err)

		require.Equal(t, a, b)
		require.NotEqual(t, a.PublicKeyPackage.VerifyingKey, c.PublicKeyPackage.VerifyingKey)
	})
}

func TestEd25519Interop(t *testing.T) {
	e, err := NewEngine(Ed25519)
	require.NoError(t, err)
	kg := newKeys(t, e, 3, 4)
	kps := keyPackages(t, e, kg)
	message := []byte("verify me with any ed25519 library")

	sig, err := QuickSign(e, rand.Reader, kps[1:], kg.PublicKeyPackage, message)
	require.NoError(t, err)
	require.Len(t, sig.Data, stded25519.SignatureSize)

	pub, err := hex.DecodeString(kg.PublicKeyPackage.VerifyingKey)
	require.NoError(t, err)
	require.True(t, stded25519.Verify(pub, message, sig.Data))
	require.True(t, ed25519.VerifyStandard(pub, message, sig.Data))
	require.False(t, stded25519.Verify(pub, []byte("something else"), sig.Data))
}

func TestQuickSign(t *testing.T) {
	forEachEngine(t, func(t *testing.T, e Engine) {
		kg := newKeys(t, e, 2, 3)
		kps := keyPackages(t, e, kg)
		message := []byte("quick sign test")

		sig, err := QuickSign(e, rand.Reader, []*KeyPackage{kps[2], kps[0]}, kg.PublicKeyPackage, message)
		require.NoError(t, err)
		ok, err := Verify(e, kg.PublicKeyPackage, message, sig)
		require.NoError(t, err)
		require.True(t, ok)

		_, err = QuickSign(e, rand.Reader, kps[:1], kg.PublicKeyPackage, message)
		require.ErrorIs(t, err, ErrInsufficientCommitments)
	})
}

func TestCrossEngineRejected(t *testing.T) {
	ed, err := NewEngine(Ed25519)
	require.NoError(t, err)
	bj, err := NewEngine(BabyJubjub)
	require.NoError(t, err)

	kg := newKeys(t, ed, 2, 3)
	id := mustID(t, ed, 1)
	_, err = VerifyAndGetKeyPackage(bj, kg.SecretShares[id])
	require.ErrorIs(t, err, ErrInvalidSecretKey)
	require.ErrorIs(t, err, ErrDeserializationError)

	_, err = NewEngine("secp256k1")
	require.ErrorIs(t, err, ErrUnknownError)
}
