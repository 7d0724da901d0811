package zx0

import (
	"encoding/binary"
	"math/bits"
	"runtime"
)

// A Candidate is an offset that matches the byte at the queried position.
// Length is the number of consecutive bytes, ending at that position, that
// equal the bytes Offset positions earlier.
type Candidate struct {
	Offset int
	Length int
}

// ByteChain indexes every position of its input on a chain of earlier
// positions holding the same byte. It implements MatchFinder (through its
// Parser) and Searcher, and it supplies the per-position candidates used by
// the optimal parser.
type ByteChain struct {
	// MaxDistance is the maximum distance (in bytes) to look back for
	// a match. The default is MaxOffset.
	MaxDistance int

	// SearchLen is how many entries Search examines on the chain.
	// The default is 16.
	SearchLen int

	Parser Parser

	// table holds the latest position seen for each byte value, or -1.
	table [256]int32

	history []byte
	// chain[i] is the distance from i back to the previous position holding
	// the same byte, or 0 if there is none in range.
	chain []uint16

	// runEnd and runLen track, per offset, the run of matching bytes found
	// by the most recent Candidates calls.
	runEnd []int32
	runLen []int32
}

func (q *ByteChain) Reset() {
	for i := range q.table {
		q.table[i] = -1
	}
	q.history = q.history[:0]
	q.chain = q.chain[:0]
	q.runEnd = q.runEnd[:0]
	q.runLen = q.runLen[:0]
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (q *ByteChain) FindMatches(dst []Match, src []byte) []Match {
	q.index(src)
	if q.Parser == nil {
		q.Parser = &GreedyParser{}
	}
	return q.Parser.Parse(dst, q, 0, len(src))
}

// index builds the chains for src, replacing any previous input.
func (q *ByteChain) index(src []byte) {
	if q.MaxDistance == 0 {
		q.MaxDistance = MaxOffset
	}
	if q.SearchLen == 0 {
		q.SearchLen = 16
	}
	q.Reset()
	q.history = src

	chain := q.chain
	for i, c := range src {
		candidate := int(q.table[c])
		q.table[c] = int32(i)
		if candidate < 0 || i-candidate > 65535 {
			chain = append(chain, 0)
		} else {
			chain = append(chain, uint16(i-candidate))
		}
	}
	q.chain = chain

	for i := 0; i <= q.MaxDistance; i++ {
		q.runEnd = append(q.runEnd, -2)
		q.runLen = append(q.runLen, 0)
	}
}

// Candidates appends to dst, in order of increasing offset, every offset up
// to MaxDistance at which the byte at pos repeats. Only positions before pos
// are considered. Run lengths are tracked across calls, so Candidates must
// be called for each position in turn, starting at 0.
func (q *ByteChain) Candidates(dst []Candidate, pos int) []Candidate {
	candidate := pos
	for {
		d := q.chain[candidate]
		if d == 0 {
			break
		}
		candidate -= int(d)
		offset := pos - candidate
		if offset > q.MaxDistance {
			break
		}
		length := int32(1)
		if q.runEnd[offset] == int32(pos-1) {
			length = q.runLen[offset] + 1
		}
		q.runEnd[offset] = int32(pos)
		q.runLen[offset] = length
		dst = append(dst, Candidate{Offset: offset, Length: int(length)})
	}
	return dst
}

// extendMatch returns the largest k such that k <= len(src) and that
// src[i:i+k-j] and src[j:k] have the same contents.
//
// It assumes that:
//
//	0 <= i && i < j && j <= len(src)
func extendMatch(src []byte, i, j int) int {
	switch runtime.GOARCH {
	case "amd64":
		// As long as we are 8 or more bytes before the end of src, we can load and
		// compare 8 bytes at a time. If those 8 bytes are equal, repeat.
		for j+8 < len(src) {
			iBytes := binary.LittleEndian.Uint64(src[i:])
			jBytes := binary.LittleEndian.Uint64(src[j:])
			if iBytes != jBytes {
				// The index of the first byte that differs is the number of
				// trailing zero bits of the XOR, divided by 8.
				return j + bits.TrailingZeros64(iBytes^jBytes)>>3
			}
			i, j = i+8, j+8
		}
	case "386":
		// On a 32-bit CPU, we do it 4 bytes at a time.
		for j+4 < len(src) {
			iBytes := binary.LittleEndian.Uint32(src[i:])
			jBytes := binary.LittleEndian.Uint32(src[j:])
			if iBytes != jBytes {
				return j + bits.TrailingZeros32(iBytes^jBytes)>>3
			}
			i, j = i+4, j+4
		}
	}
	for ; j < len(src) && src[i] == src[j]; i, j = i+1, j+1 {
	}
	return j
}

func (q *ByteChain) Search(dst []AbsoluteMatch, pos, min, max int) []AbsoluteMatch {
	if pos >= len(q.chain) || pos >= max {
		return dst
	}
	src := q.history

	var length int

	candidate := pos
	for i := 0; i < q.SearchLen; i++ {
		d := q.chain[candidate]
		if d == 0 {
			break
		}
		candidate -= int(d)
		if pos-candidate > q.MaxDistance {
			break
		}

		newEnd := extendMatch(src[:max], candidate+1, pos+1)

		// Extend the match backward as far as possible.
		newStart := pos
		newMatch := candidate
		for newStart > min && newMatch > 0 && src[newStart-1] == src[newMatch-1] {
			newStart--
			newMatch--
		}

		if newEnd-newStart > length {
			dst = append(dst, AbsoluteMatch{
				Start: newStart,
				End:   newEnd,
				Match: newMatch,
			})
			length = newEnd - newStart
		}
	}

	return dst
}
