package zx0

// An OverlapParser looks for overlapping matches and chooses the best ones,
// using an algorithm based on
// https://fastcompression.blogspot.com/2011/12/advanced-parsing-strategies.html
//
// It sits between GreedyParser and Optimal: it considers more than one
// match at a time, but it does not know about last-offset copies.
type OverlapParser struct {
	// Score is used to choose the best match. Matches scoring 0 or less are
	// not used. If it is nil, the number of bits the match saves over
	// literals is used.
	Score func(AbsoluteMatch) int

	// Extended selects the cost model of the extended format for the
	// default Score.
	Extended bool

	matchCache []AbsoluteMatch
	setCache   []matchSet
}

func length(m AbsoluteMatch) int {
	return m.End - m.Start
}

// savings returns how many bits a new-offset match saves over encoding its
// bytes as literals.
func savings(m AbsoluteMatch, extended bool) int {
	n := length(m)
	if n < 2 {
		return 0
	}
	return 8*n - newOffsetBits(m.Start-m.Match, extended) - eliasGammaBits(n-1)
}

type matchSet struct {
	AbsoluteMatch
	options []AbsoluteMatch
}

func (ms *matchSet) choose(score func(AbsoluteMatch) int) {
	ms.AbsoluteMatch = AbsoluteMatch{}
	maxScore := 0

	for _, m := range ms.options {
		s := score(m)
		if s > maxScore {
			ms.AbsoluteMatch = m
			maxScore = s
		}
	}
}

// trim chooses the best match from ms.options, with the range limited to
// min..max.
func (ms *matchSet) trim(min, max int, score func(AbsoluteMatch) int) {
	ms.AbsoluteMatch = AbsoluteMatch{}
	maxScore := 0

	for _, m := range ms.options {
		if m.Start < min {
			m.Match += min - m.Start
			m.Start = min
		}
		if m.End > max {
			m.End = max
		}
		if m.End <= m.Start {
			continue
		}
		s := score(m)
		if s > maxScore {
			ms.AbsoluteMatch = m
			maxScore = s
		}
	}
}

func (p *OverlapParser) Parse(dst []Match, src Searcher, start, end int) []Match {
	s := start
	nextEmit := start
	matchList := p.setCache[:0]

	if p.Score == nil {
		extended := p.Extended
		p.Score = func(m AbsoluteMatch) int {
			return savings(m, extended)
		}
	}
	// usable reports whether a match can be encoded and is worth encoding.
	// The stream must start with a literal.
	usable := func(m AbsoluteMatch) bool {
		return m.End-m.Start >= 2 && m.Start > start && p.Score(m) > 0
	}

	for s < end {
		matchList = matchList[:0]

		p.matchCache = src.Search(p.matchCache[:0], s, nextEmit, end)
		m := matchSet{options: p.matchCache}
		m.choose(p.Score)
		if !usable(m.AbsoluteMatch) {
			s++
			continue
		}
		matchList = append(matchList, m)

		for m.End-2 > m.Start {
			// Look for a new match overlapping the end of m.
			cacheLen := len(p.matchCache)
			p.matchCache = src.Search(p.matchCache, m.End-2, m.Start, end)
			newMatch := matchSet{options: p.matchCache[cacheLen:]}
			newMatch.choose(p.Score)
			if p.Score(newMatch.AbsoluteMatch) <= p.Score(m.AbsoluteMatch) {
				// It's no better than the previous match, so ignore it.
				break
			}
			m = newMatch
			matchList = append(matchList, m)
		}

		// We now have a series of overlapping matches,
		// each one better than the previous one.
		// Now we need to resolve the overlaps.
		for i := len(matchList) - 2; i >= 0; i-- {
			if length(matchList[i].AbsoluteMatch) > length(matchList[i+1].AbsoluteMatch) {
				// This match is actually longer than the following one, probably because
				// the following one has already been trimmed.
				// So we'll trim the following one to remove the overlap with this match.
				if matchList[i].End > matchList[i+1].Start {
					if i < len(matchList)-2 {
						matchList[i+1].trim(matchList[i].End, matchList[i+2].Start, p.Score)
					} else {
						matchList[i+1].trim(matchList[i].End, end, p.Score)
					}
				}
				if !usable(matchList[i+1].AbsoluteMatch) {
					// The following match is too short now, so we'll just drop it.
					matchList = append(matchList[:i+1], matchList[i+2:]...)
					if i < len(matchList)-1 {
						// Run through the loop with the same index again,
						// to catch overlaps between this match and its new neighbor.
						i++
					}
				}
			} else {
				// The following match is longer than this one, so we'll trim this one
				// to remove the overlap.
				if matchList[i].End > matchList[i+1].Start {
					matchList[i].trim(nextEmit, matchList[i+1].Start, p.Score)
				}
				if !usable(matchList[i].AbsoluteMatch) {
					// This match is too short now, so we'll just drop it.
					matchList = append(matchList[:i], matchList[i+1:]...)
				}
			}
		}

		for _, m := range matchList {
			dst = append(dst, Match{
				Unmatched: m.Start - nextEmit,
				Length:    m.End - m.Start,
				Distance:  m.Start - m.Match,
			})
			nextEmit = m.End
		}
		s = nextEmit
	}

	if nextEmit < end {
		dst = append(dst, Match{
			Unmatched: end - nextEmit,
		})
	}
	p.setCache = matchList[:0]
	return dst
}
