package zx0

// A block is one step of a parse: a literal run (offset == 0) or a match
// ending at index. Blocks live in Optimal.blocks and refer to each other by
// their position there. chain is the step before; 0 means there is none.
type block struct {
	chain  int32
	refs   int32
	offset int32
	index  int
	bits   int
}

// Optimal is a MatchFinder that finds the parse with the smallest encoded
// size. For every offset it keeps the cheapest parse whose last match used
// that offset, since the next match at the same offset can skip encoding it.
type Optimal struct {
	// ShrinkFactor narrows the search window to (maximum offset >> ShrinkFactor).
	ShrinkFactor int

	// Extended selects the cost model of the extended format.
	Extended bool

	chain      ByteChain
	candidates []Candidate
	path       []int32
	bits       int

	// blocks is reference counted, and unused entries are recycled through
	// free. blocks[0] is never used.
	blocks []block
	free   []int32

	optimal     []int32
	lastMatch   []int32
	lastLiteral []int32
	bestLength  []int
	frontier    literalFrontier
}

func (o *Optimal) Reset() {
	o.chain.Reset()
	o.candidates = o.candidates[:0]
	o.path = o.path[:0]
	o.bits = 0
	o.blocks = o.blocks[:0]
	o.free = o.free[:0]
	o.frontier = o.frontier[:0]
}

// Bits returns the size, in bits, of the stream for the last parse found,
// including the end marker.
func (o *Optimal) Bits() int {
	return o.bits
}

// FindMatches finds the optimal parse of src, appends it to dst, and returns dst.
func (o *Optimal) FindMatches(dst []Match, src []byte) []Match {
	if len(src) == 0 {
		o.bits = 0
		return dst
	}
	o.chain.MaxDistance = offsetLimit(len(src), o.ShrinkFactor, o.Extended)
	o.chain.index(src)

	last := o.optimize(src)
	o.bits = o.blocks[last].bits + terminatorBits
	return o.appendPath(dst, last)
}

// newBlock stores a step and returns its position. The new block has no
// references yet.
func (o *Optimal) newBlock(chain int32, bits, index, offset int) int32 {
	if chain != 0 {
		o.blocks[chain].refs++
	}
	b := block{chain: chain, offset: int32(offset), index: index, bits: bits}
	if n := len(o.free); n > 0 {
		id := o.free[n-1]
		o.free = o.free[:n-1]
		o.blocks[id] = b
		return id
	}
	o.blocks = append(o.blocks, b)
	return int32(len(o.blocks) - 1)
}

// literalBlock stores a literal run that follows block m and ends at index.
func (o *Optimal) literalBlock(m int32, index int) int32 {
	prev := o.blocks[m]
	length := index - prev.index
	return o.newBlock(m, prev.bits+1+eliasGammaBits(length)+8*length, index, 0)
}

// assign makes *slot refer to block id, and releases the block it referred
// to before.
func (o *Optimal) assign(slot *int32, id int32) {
	if id != 0 {
		o.blocks[id].refs++
	}
	old := *slot
	*slot = id
	o.release(old)
}

// release drops a reference to block id. Blocks left without references
// go on the free list, and so do the steps before them that nothing else
// refers to.
func (o *Optimal) release(id int32) {
	for id != 0 {
		b := &o.blocks[id]
		b.refs--
		if b.refs > 0 {
			return
		}
		o.free = append(o.free, id)
		id = b.chain
	}
}

// slots returns s with n entries, all 0.
func slots(s []int32, n int) []int32 {
	if cap(s) < n {
		return make([]int32, n)
	}
	s = s[:n]
	clear(s)
	return s
}

// optimize runs the shortest-path search over src and returns the final
// step of the cheapest parse.
func (o *Optimal) optimize(src []byte) int32 {
	n := len(src)
	limit := o.chain.MaxDistance

	o.blocks = append(o.blocks[:0], block{})
	o.free = o.free[:0]
	o.frontier = o.frontier[:0]
	o.optimal = slots(o.optimal, n)
	o.lastMatch = slots(o.lastMatch, limit+1)
	o.lastLiteral = slots(o.lastLiteral, limit+1)
	if cap(o.bestLength) < n+3 {
		o.bestLength = make([]int, n+3)
	}
	optimal, lastMatch, lastLiteral := o.optimal, o.lastMatch, o.lastLiteral
	bestLength := o.bestLength[:n+3]
	bestLength[2] = 2

	// The stream starts as if a match at the initial offset had just ended
	// before the first byte. Its indicator bit is never written, hence -1.
	start := o.newBlock(0, -1, -1, initialOffset)
	o.assign(&lastMatch[initialOffset], start)
	o.pushFrontier(start)

	for index := 0; index < n; index++ {
		bestLengthSize := 2
		var best, bestMatch int32
		var bestBits, bestMatchBits int
		consider := func(id int32, bits int) {
			if best == 0 || bits < bestBits {
				best, bestBits = id, bits
			}
			if bestMatch == 0 || bits < bestMatchBits {
				bestMatch, bestMatchBits = id, bits
			}
		}

		o.candidates = o.chain.Candidates(o.candidates[:0], index)
		for _, c := range o.candidates {
			offset := c.Offset

			if c.Length == 1 {
				// A run of matches at this offset starts here. The literals
				// before it follow the last match that used the offset.
				if m := lastMatch[offset]; m != 0 {
					o.assign(&lastLiteral[offset], o.literalBlock(m, index-1))
				}
			}

			// copy from last offset
			if l := lastLiteral[offset]; l != 0 {
				bits := o.blocks[l].bits + 1 + eliasGammaBits(index-o.blocks[l].index)
				id := o.newBlock(l, bits, index, offset)
				o.assign(&lastMatch[offset], id)
				consider(id, bits)
			}

			// copy from new offset
			if c.Length > 1 {
				if bestLengthSize < c.Length {
					bits := o.blocks[optimal[index-bestLength[bestLengthSize]]].bits + eliasGammaBits(bestLength[bestLengthSize]-1)
					for bestLengthSize < c.Length {
						bestLengthSize++
						bits2 := o.blocks[optimal[index-bestLengthSize]].bits + eliasGammaBits(bestLengthSize-1)
						if bits2 <= bits {
							bestLength[bestLengthSize] = bestLengthSize
							bits = bits2
						} else {
							bestLength[bestLengthSize] = bestLength[bestLengthSize-1]
						}
					}
				}
				length := bestLength[c.Length]
				prev := optimal[index-length]
				bits := o.blocks[prev].bits + newOffsetBits(offset, o.Extended) + eliasGammaBits(length-1)
				// A block replaced here is never best: its replacement is cheaper.
				if m := lastMatch[offset]; m == 0 || o.blocks[m].index != index || o.blocks[m].bits > bits {
					id := o.newBlock(prev, bits, index, offset)
					o.assign(&lastMatch[offset], id)
					consider(id, bits)
				}
			}
		}

		// copy literals
		if m, bits := o.frontier.cheapest(index); best == 0 || bits < bestBits {
			best = o.newBlock(m, bits, index, 0)
		}

		o.assign(&optimal[index], best)
		if bestMatch != 0 {
			o.pushFrontier(bestMatch)
		}
	}

	return optimal[n-1]
}

// A literalFrontier holds the matches a literal run can follow.
//
// A literal run from the end of match m to index costs
// m.bits - 8*m.index + 8*index + 1 + gamma(index - m.index). Ordering the
// matches by key = m.bits - 8*m.index, a match is useless once a later match
// has a key no larger, because the gamma term only grows with the run
// length. The frontier therefore keeps strictly increasing keys, and since
// the gamma term is small, only its first few entries need to be examined.
type literalFrontier []frontierEntry

type frontierEntry struct {
	key   int
	index int
	id    int32
}

// pushFrontier adds block id to the literal frontier, dropping the entries
// it makes useless.
func (o *Optimal) pushFrontier(id int32) {
	b := o.blocks[id]
	key := b.bits - 8*b.index
	f := o.frontier
	for len(f) > 0 && f[len(f)-1].key >= key {
		o.release(f[len(f)-1].id)
		f = f[:len(f)-1]
	}
	o.blocks[id].refs++
	o.frontier = append(f, frontierEntry{key: key, index: b.index, id: id})
}

// cheapest returns the match to start a literal run ending at index from,
// and the cost of the parse through that run.
func (f literalFrontier) cheapest(index int) (int32, int) {
	var best int32
	bestBits := 0
	for _, e := range f {
		base := e.key + 8*index + 1
		if best != 0 && base+1 >= bestBits {
			// Every later entry costs at least its key + 8*index + 2.
			break
		}
		bits := base + eliasGammaBits(index-e.index)
		if best == 0 || bits < bestBits {
			best, bestBits = e.id, bits
		}
	}
	return best, bestBits
}
