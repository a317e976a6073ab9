package group

import "slices"

// SortScalars sorts s in place by integer value using [Scalar.Cmp].
func SortScalars(s []Scalar) {
	slices.SortFunc(s, func(a, b Scalar) int { return a.Cmp(b) })
}

// Key returns a string usable as a map key for s. Two scalars of the
// same group share a key if and only if they are equal.
func Key(s Scalar) string {
	return string(s.Bytes())
}
