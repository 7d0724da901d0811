package zx0

import "fmt"

// MaxShrinkFactor is the largest accepted Config.ShrinkFactor.
const MaxShrinkFactor = 15

// Config holds the settings for one compression run.
// The zero value compresses optimally, in the standard format.
type Config struct {
	// Skip is the number of leading bytes left out of the compressed stream.
	// They are never referenced by a match; the caller is expected to store
	// them ahead of the stream.
	Skip int

	// ShrinkFactor narrows the match search window to
	// (maximum offset >> ShrinkFactor), trading compression for speed.
	// 0 searches every offset the format can express.
	ShrinkFactor int

	// Extended selects the extended format, with offsets up to 65280.
	Extended bool

	// Backwards compresses the input back to front, for decompressors that
	// expand from high to low addresses. The output is reversed too.
	Backwards bool
}

// Validate checks c against an input of n bytes.
func (c Config) Validate(n int) error {
	if n == 0 {
		return ErrEmptyInput
	}
	if c.Skip < 0 || c.Skip >= n {
		return fmt.Errorf("%w: skip %d, input %d bytes", ErrSkip, c.Skip, n)
	}
	if c.ShrinkFactor < 0 || c.ShrinkFactor > MaxShrinkFactor {
		return fmt.Errorf("%w: %d (want 0..%d)", ErrShrinkFactor, c.ShrinkFactor, MaxShrinkFactor)
	}
	return nil
}
