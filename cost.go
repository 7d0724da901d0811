package zx0

const (
	initialOffset = 1

	// MaxOffset is the largest offset in the standard format.
	MaxOffset = 255 * 128
	// MaxOffsetExtended is the largest offset in the extended format.
	MaxOffsetExtended = 255 * 256

	// endMarker is the offset MSB that terminates a stream.
	endMarker = 256

	// terminatorBits is the size of the end-of-stream code.
	terminatorBits = 1 + 17
)

// eliasGammaBits returns the length of the Elias-gamma code for value.
func eliasGammaBits(value int) int {
	bits := 1
	for value >>= 1; value > 0; value >>= 1 {
		bits += 2
	}
	return bits
}

// offsetMSB returns the high part of offset, as stored in the gamma code of
// a new-offset match.
func offsetMSB(offset int, extended bool) int {
	if extended {
		return (offset-1)/256 + 1
	}
	return (offset-1)/128 + 1
}

// newOffsetBits returns the cost of a new-offset match, not counting its
// length.
func newOffsetBits(offset int, extended bool) int {
	if extended {
		return 1 + eliasGammaBits(offsetMSB(offset, true)) + 8
	}
	// The eighth bit of the low byte belongs to the length code.
	return 1 + eliasGammaBits(offsetMSB(offset, false)) + 7
}

func maxOffset(extended bool) int {
	if extended {
		return MaxOffsetExtended
	}
	return MaxOffset
}

// offsetLimit returns the search window for an n-byte input.
func offsetLimit(n, shrinkFactor int, extended bool) int {
	limit := maxOffset(extended) >> shrinkFactor
	if limit > n-1 {
		limit = n - 1
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}
