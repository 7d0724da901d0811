package zx0

import (
	"bytes"
	"errors"
	"testing"

	"github.com/andybalholm/zx0/internal/dzx0"
)

// decompressInPlace decodes out in a buffer laid out for in-place
// decompression: the n decompressed bytes are written from the front of the
// buffer, and the compressed data ends delta bytes after them. If out is
// longer than n+delta, it starts before the decompressed data does.
func decompressInPlace(out []byte, n, delta int, extended bool) ([]byte, error) {
	pad := 0
	if len(out) > n+delta {
		pad = len(out) - (n + delta)
	}
	buf := make([]byte, pad+n+delta)
	start := len(buf) - len(out)
	copy(buf[start:], out)
	m, err := dzx0.DecompressInPlace(buf, pad, start, extended)
	if err != nil {
		return nil, err
	}
	return buf[pad : pad+m], nil
}

func TestDeltaRun(t *testing.T) {
	data := []byte("AAAAAAAAAA")
	out, delta, err := Compress(data, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if delta != 2 {
		t.Errorf("delta = %d, want 2", delta)
	}
	decompressed, err := decompressInPlace(out, len(data), delta, false)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Fatal("decompressed output doesn't match")
	}
	if _, err := decompressInPlace(out, len(data), delta-1, false); !errors.Is(err, dzx0.ErrOverwrite) {
		t.Errorf("with delta %d: got %v, want ErrOverwrite", delta-1, err)
	}
}

func TestDeltaInPlace(t *testing.T) {
	for _, data := range [][]byte{
		testText(20000),
		smallAlphabet(3000, 3, 13),
		randomBytes(2000, 14),
		make([]byte, 3000),
	} {
		for _, extended := range []bool{false, true} {
			out, delta, err := Compress(data, Config{Extended: extended})
			if err != nil {
				t.Fatal(err)
			}
			decompressed, err := decompressInPlace(out, len(data), delta, extended)
			if err != nil {
				t.Fatalf("delta %d: %v", delta, err)
			}
			if !bytes.Equal(decompressed, data) {
				t.Fatal("decompressed output doesn't match")
			}
			if delta > 0 {
				if _, err := decompressInPlace(out, len(data), delta-1, extended); err == nil {
					t.Errorf("delta %d is not the smallest margin that works", delta)
				}
			}
		}
	}
}

func TestDeltaExpanded(t *testing.T) {
	for i, n := range []int{1, 50, 2000} {
		data := randomBytes(n, int64(20+i))
		for _, extended := range []bool{false, true} {
			out, delta, err := Compress(data, Config{Extended: extended})
			if err != nil {
				t.Fatal(err)
			}
			if len(out) <= n+delta {
				t.Errorf("%d random bytes: %d bytes compressed with delta %d, expected the stream to start before the output", n, len(out), delta)
			}
			decompressed, err := decompressInPlace(out, n, delta, extended)
			if err != nil {
				t.Fatalf("%d random bytes, delta %d: %v", n, delta, err)
			}
			if !bytes.Equal(decompressed, data) {
				t.Fatal("decompressed output doesn't match")
			}
			if _, err := decompressInPlace(out, n, delta-1, extended); !errors.Is(err, dzx0.ErrOverwrite) {
				t.Errorf("%d random bytes with delta %d: got %v, want ErrOverwrite", n, delta-1, err)
			}
		}
	}
}

func TestEncodeReuse(t *testing.T) {
	src := []byte("aaaaaaaa")
	matches := []Match{
		{Unmatched: 1, Length: 4, Distance: 1}, // last offset
		{Unmatched: 0, Length: 3, Distance: 1}, // new offset, since no literal precedes it
	}
	var e StreamEncoder
	out := e.Encode(nil, src, matches)
	decompressed, err := dzx0.Decompress(out, false)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, src) {
		t.Fatal("decompressed output doesn't match")
	}
	if got := string(TextEncoder{}.Encode(nil, src, matches)); got != "a<4,=1><3,1>" {
		t.Errorf("got %q", got)
	}
}

func TestEncodeLongOffset(t *testing.T) {
	src := make([]byte, 40010)
	matches := []Match{{Unmatched: 40000, Length: 10, Distance: 40000}}
	mustPanic(t, "standard format", func() {
		var e StreamEncoder
		e.Encode(nil, src, matches)
	})

	e := &StreamEncoder{Extended: true}
	out := e.Encode(nil, src, matches)
	decompressed, err := dzx0.Decompress(out, true)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, src) {
		t.Fatal("decompressed output doesn't match")
	}
}

func TestEncodeInvalid(t *testing.T) {
	for _, c := range []struct {
		name    string
		src     string
		matches []Match
	}{
		{"no leading literal", "aaaa", []Match{{Unmatched: 0, Length: 3, Distance: 1}, {Unmatched: 1}}},
		{"zero offset", "abcabc", []Match{{Unmatched: 3, Length: 3, Distance: 0}}},
		{"offset before start", "abcabc", []Match{{Unmatched: 3, Length: 3, Distance: 4}}},
		{"bytes differ", "abcabc", []Match{{Unmatched: 3, Length: 3, Distance: 2}}},
		{"short new offset", "abab", []Match{{Unmatched: 2, Length: 1, Distance: 2}, {Unmatched: 1}}},
		{"empty match in the middle", "abcabc", []Match{{Unmatched: 3}, {Unmatched: 0, Length: 3, Distance: 3}}},
		{"input not covered", "abcabc", []Match{{Unmatched: 3, Length: 2, Distance: 3}}},
		{"input overrun", "abcabc", []Match{{Unmatched: 3, Length: 4, Distance: 3}}},
		{"too many literals", "abc", []Match{{Unmatched: 4}}},
	} {
		mustPanic(t, c.name, func() {
			var e StreamEncoder
			e.Encode(nil, []byte(c.src), c.matches)
		})
	}
}

func TestEncodeAppends(t *testing.T) {
	src := testText(1000)
	matches := (&Optimal{}).FindMatches(nil, src)
	var e StreamEncoder
	alone := e.Encode(nil, src, matches)
	delta := e.Delta()

	prefix := []byte("header")
	out := e.Encode(append([]byte(nil), prefix...), src, matches)
	if !bytes.Equal(out[:len(prefix)], prefix) || !bytes.Equal(out[len(prefix):], alone) {
		t.Error("Encode with a non-empty dst changed the stream")
	}
	if e.Delta() != delta {
		t.Errorf("delta %d with a non-empty dst, %d without", e.Delta(), delta)
	}

	e.Reset()
	if e.Delta() != 0 {
		t.Error("Reset did not clear delta")
	}
}
