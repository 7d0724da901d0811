package zx0

import "strconv"

// A TextEncoder is an Encoder that produces a human-readable representation of
// a parse. Literal bytes are copied, and matches are replaced with
// <Length,Distance> symbols, or <Length,=Distance> when the stream reuses
// the previous offset.
type TextEncoder struct{}

func (t TextEncoder) Reset() {}

func (t TextEncoder) Encode(dst []byte, src []byte, matches []Match) []byte {
	pos := 0
	lastOffset := initialOffset
	for _, m := range matches {
		if m.Unmatched > 0 {
			dst = append(dst, src[pos:pos+m.Unmatched]...)
			pos += m.Unmatched
		}
		if m.Length > 0 {
			dst = append(dst, '<')
			dst = strconv.AppendInt(dst, int64(m.Length), 10)
			dst = append(dst, ',')
			if m.Unmatched > 0 && m.Distance == lastOffset {
				dst = append(dst, '=')
			}
			dst = strconv.AppendInt(dst, int64(m.Distance), 10)
			dst = append(dst, '>')
			pos += m.Length
			lastOffset = m.Distance
		}
	}
	if pos < len(src) {
		dst = append(dst, src[pos:]...)
	}
	return dst
}
