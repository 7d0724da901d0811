package zx0

import "golang.org/x/exp/slices"

// Reverse returns a copy of b with the bytes in reverse order.
func Reverse(b []byte) []byte {
	r := slices.Clone(b)
	slices.Reverse(r)
	return r
}
