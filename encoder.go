package zx0

import (
	"fmt"
	"math"
)

// A StreamEncoder is an Encoder that produces ZX0 streams.
//
// A Match whose Distance repeats the previous one is encoded as a last-offset
// copy if it follows a literal run. Matches that the format cannot express
// (a stream not starting with literals, an offset out of range, a new-offset
// match shorter than 2 bytes) cause a panic, as does a list of matches that
// does not describe src.
type StreamEncoder struct {
	// Extended selects the extended format.
	Extended bool

	delta int
}

func (e *StreamEncoder) Reset() {
	e.delta = 0
}

// Delta returns the in-place decompression margin of the last stream
// encoded. A decompressor writing its output forward over the compressed
// data does not overwrite unread input as long as the compressed data ends at
// least Delta bytes past the end of the decompressed data. The compressed
// data starts before the decompressed data when the stream is the longer of
// the two.
func (e *StreamEncoder) Delta() int {
	return e.delta
}

func (e *StreamEncoder) Encode(dst []byte, src []byte, matches []Match) []byte {
	w := newBitWriter(dst)
	base := len(dst)
	limit := maxOffset(e.Extended)

	pos := 0
	// overhang is the largest excess of bytes consumed from src over bytes
	// produced, at any point where input is consumed.
	overhang := math.MinInt
	consume := func(n int) {
		pos += n
		if d := pos - (len(w.dst) - base); d > overhang {
			overhang = d
		}
	}

	lastOffset := initialOffset
	for i, m := range matches {
		if i == 0 && m.Unmatched == 0 {
			panic("zx0: stream does not start with a literal")
		}

		if m.Unmatched > 0 {
			if pos+m.Unmatched > len(src) {
				panic(fmt.Sprintf("zx0: %d unmatched bytes at %d overrun the input (%d bytes)", m.Unmatched, pos, len(src)))
			}
			w.writeBit(false)
			w.writeGamma(m.Unmatched, false)
			for _, c := range src[pos : pos+m.Unmatched] {
				w.writeByte(c)
			}
			consume(m.Unmatched)
		}

		if m.Length == 0 {
			if i != len(matches)-1 {
				panic(fmt.Sprintf("zx0: empty match at %d is not the last one", pos))
			}
			continue
		}

		if m.Distance < 1 || m.Distance > limit || m.Distance > pos {
			panic(fmt.Sprintf("zx0: invalid offset %d at %d", m.Distance, pos))
		}
		if pos+m.Length > len(src) {
			panic(fmt.Sprintf("zx0: match of %d bytes at %d overruns the input (%d bytes)", m.Length, pos, len(src)))
		}
		for j := 0; j < m.Length; j++ {
			if src[pos+j] != src[pos-m.Distance+j] {
				panic(fmt.Sprintf("zx0: bad match at %d (length %d, offset %d)", pos, m.Length, m.Distance))
			}
		}

		if m.Unmatched > 0 && m.Distance == lastOffset {
			w.writeBit(false)
			w.writeGamma(m.Length, false)
		} else {
			if m.Length < 2 {
				panic(fmt.Sprintf("zx0: new-offset match of length %d at %d", m.Length, pos))
			}
			w.writeBit(true)
			e.writeOffset(&w, m.Distance, m.Length)
		}
		consume(m.Length)
		lastOffset = m.Distance
	}

	if pos != len(src) {
		panic(fmt.Sprintf("zx0: matches cover %d bytes of %d", pos, len(src)))
	}

	w.writeBit(true)
	w.writeGamma(endMarker, true)

	e.delta = 0
	if overhang != math.MinInt {
		if d := overhang + len(w.dst) - base - len(src); d > 0 {
			e.delta = d
		}
	}
	return w.dst
}

// writeOffset writes the offset and length of a new-offset match.
func (e *StreamEncoder) writeOffset(w *bitWriter, offset, length int) {
	w.writeGamma(offsetMSB(offset, e.Extended), true)
	if e.Extended {
		w.writeByte(byte(offset - 1))
		w.writeGamma(length-1, false)
		return
	}
	w.writeByte(byte(127-(offset-1)%128) << 1)
	w.backtrack = true
	w.writeGamma(length-1, false)
}
