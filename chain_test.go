package zx0

import (
	"bytes"
	"testing"

	"github.com/andybalholm/zx0/internal/dzx0"
)

func bruteCandidates(src []byte, pos, maxDistance int) []Candidate {
	var c []Candidate
	for offset := 1; offset <= pos && offset <= maxDistance; offset++ {
		if src[pos] != src[pos-offset] {
			continue
		}
		length := 1
		for pos-length-offset >= 0 && src[pos-length] == src[pos-length-offset] {
			length++
		}
		c = append(c, Candidate{Offset: offset, Length: length})
	}
	return c
}

func TestCandidates(t *testing.T) {
	for _, maxDistance := range []int{1, 7, 100, MaxOffset} {
		src := smallAlphabet(600, 3, 2)
		q := &ByteChain{MaxDistance: maxDistance}
		q.index(src)
		var got []Candidate
		for pos := range src {
			got = q.Candidates(got[:0], pos)
			want := bruteCandidates(src, pos, maxDistance)
			if len(got) != len(want) {
				t.Fatalf("MaxDistance %d, pos %d: got %d candidates, want %d", maxDistance, pos, len(got), len(want))
			}
			for i := range got {
				if got[i] != want[i] {
					t.Fatalf("MaxDistance %d, pos %d: candidate %d = %+v, want %+v", maxDistance, pos, i, got[i], want[i])
				}
			}
		}
	}
}

func TestCandidatesFirstPosition(t *testing.T) {
	q := &ByteChain{}
	q.index([]byte("aaaa"))
	if c := q.Candidates(nil, 0); len(c) != 0 {
		t.Errorf("got candidates %v at position 0", c)
	}
	if c := q.Candidates(nil, 1); len(c) != 1 || c[0] != (Candidate{1, 1}) {
		t.Errorf("position 1: got %v", c)
	}
}

func TestSearch(t *testing.T) {
	src := []byte("abcdefabcdefgabcd")
	q := &ByteChain{}
	q.index(src)
	m := longestMatch(q.Search(nil, 6, 6, len(src)))
	if m != (AbsoluteMatch{Start: 6, End: 12, Match: 0}) {
		t.Errorf("got %+v", m)
	}
	m = longestMatch(q.Search(nil, 13, 13, len(src)))
	if m.End-m.Start != 4 || m.Start != 13 {
		t.Errorf("got %+v", m)
	}
	// Matches must not extend past max.
	m = longestMatch(q.Search(nil, 6, 6, 9))
	if m.End != 9 {
		t.Errorf("got %+v", m)
	}
}

func TestGreedyRoundTrip(t *testing.T) {
	for _, data := range [][]byte{
		testText(20000),
		smallAlphabet(5000, 4, 3),
		bytes.Repeat([]byte("xyz"), 1000),
	} {
		q := &ByteChain{Parser: &GreedyParser{}}
		matches := q.FindMatches(nil, data)
		var e StreamEncoder
		out := e.Encode(nil, data, matches)
		decompressed, err := dzx0.Decompress(out, false)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(decompressed, data) {
			t.Fatal("decompressed output doesn't match")
		}
	}
}

func TestGreedyMinLength(t *testing.T) {
	src := []byte("abXabYabcdZabcd")
	q := &ByteChain{Parser: &GreedyParser{MinLength: 3}}
	for _, m := range q.FindMatches(nil, src) {
		if m.Length != 0 && m.Length < 3 {
			t.Errorf("match %+v is shorter than MinLength", m)
		}
	}
}
