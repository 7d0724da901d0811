package zx0

import "golang.org/x/exp/slices"

// appendPath follows the chain of steps back from last, and appends the
// parse it describes to dst as Matches.
func (o *Optimal) appendPath(dst []Match, last int32) []Match {
	path := o.path[:0]
	for id := last; o.blocks[id].chain != 0; id = o.blocks[id].chain {
		path = append(path, id)
	}
	slices.Reverse(path)

	prev := -1
	unmatched := 0
	for _, id := range path {
		b := &o.blocks[id]
		length := b.index - prev
		prev = b.index
		if b.offset == 0 {
			unmatched += length
			continue
		}
		dst = append(dst, Match{
			Unmatched: unmatched,
			Length:    length,
			Distance:  int(b.offset),
		})
		unmatched = 0
	}
	if unmatched > 0 {
		dst = append(dst, Match{Unmatched: unmatched})
	}

	o.path = path[:0]
	return dst
}
