package zx0

// A bitWriter appends a ZX0 stream to dst. Single bits are packed, high bit
// first, into bytes that are placed in the output when the first of their
// bits is written, so they are interleaved with the whole bytes that follow.
type bitWriter struct {
	dst []byte

	// bitIndex is the position in dst of the byte receiving bits.
	bitIndex int
	bitMask  byte

	// backtrack means the next bit goes in bit 0 of the last byte written.
	backtrack bool
}

func newBitWriter(dst []byte) bitWriter {
	// The first literal run has no indicator bit. Pretending that the next
	// bit is a backtrack bit lets the writer drop it.
	return bitWriter{dst: dst, backtrack: true}
}

func (w *bitWriter) writeByte(b byte) {
	w.dst = append(w.dst, b)
}

func (w *bitWriter) writeBit(bit bool) {
	if w.backtrack {
		if bit && len(w.dst) > 0 {
			w.dst[len(w.dst)-1] |= 1
		}
		w.backtrack = false
		return
	}
	if w.bitMask == 0 {
		w.bitMask = 0x80
		w.bitIndex = len(w.dst)
		w.dst = append(w.dst, 0)
	}
	if bit {
		w.dst[w.bitIndex] |= w.bitMask
	}
	w.bitMask >>= 1
}

// writeGamma writes value (>= 1) as an interlaced Elias gamma code. If
// invert is set, the data bits are written inverted.
func (w *bitWriter) writeGamma(value int, invert bool) {
	i := 2
	for i <= value {
		i <<= 1
	}
	i >>= 1
	for i >>= 1; i > 0; i >>= 1 {
		w.writeBit(false)
		w.writeBit((value&i != 0) != invert)
	}
	w.writeBit(true)
}
