package zx0

import "golang.org/x/exp/slices"

// Compress compresses src with the settings in cfg. It returns the
// compressed stream and the margin needed to decompress it in place.
//
// The first cfg.Skip bytes (counted from the end when cfg.Backwards is set)
// are not part of the stream.
func Compress(src []byte, cfg Config) (out []byte, delta int, err error) {
	matches, payload, err := Parse(src, cfg)
	if err != nil {
		return nil, 0, err
	}

	out, delta = Encode(payload, matches, cfg)
	return out, delta, nil
}

// Encode encodes a parse returned by Parse into the stream Compress would
// produce, and returns it with its in-place decompression margin.
func Encode(payload []byte, matches []Match, cfg Config) (out []byte, delta int) {
	e := &StreamEncoder{Extended: cfg.Extended}
	out = e.Encode(nil, payload, matches)

	if cfg.Backwards {
		slices.Reverse(out)
	}
	return out, e.Delta()
}

// Parse returns the optimal parse Compress encodes for src, and the
// payload it covers: src without the skipped bytes, reversed if
// cfg.Backwards is set.
func Parse(src []byte, cfg Config) (matches []Match, payload []byte, err error) {
	if err := cfg.Validate(len(src)); err != nil {
		return nil, nil, err
	}

	data := src
	if cfg.Backwards {
		data = Reverse(src)
	}
	payload = data[cfg.Skip:]

	o := &Optimal{ShrinkFactor: cfg.ShrinkFactor, Extended: cfg.Extended}
	return o.FindMatches(nil, payload), payload, nil
}
