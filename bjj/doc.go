// Package bjj implements [group.Group] over Baby Jubjub, the twisted
// Edwards curve defined over the BN254 scalar field:
//
//	a*x^2 + y^2 = 1 + d*x^2*y^2,  a = 168700, d = 168696
//
// Arithmetic comes from gnark-crypto. Scalars live modulo the prime
// subgroup order
//
//	2736030358979909402780800718157159386076813972158567259200215660948447373041
//
// and are encoded as 32 big-endian bytes. Points use gnark-crypto's
// 32-byte compressed form; decoding rejects points off the curve.
//
// The curve suits signatures that are later checked inside a SNARK
// circuit. Pair it with the Blake2b hasher:
//
//	f := frost.NewWithHasher(&bjj.BJJ{}, frost.NewBlake2bHasher())
package bjj
