package zx0

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/andybalholm/zx0/internal/dzx0"
)

var words = []string{
	"the", "light", "of", "rays", "which", "are", "refracted", "by", "prism",
	"colours", "and", "is", "in", "that", "reflected", "more", "than", "a",
	"bodies", "to", "experiment", "when", "it", "from", "glass", "this",
	"Newton", "OPTICKS", "sun", "beam", "thin", "plates", "water", "air",
}

// testText returns n bytes of repetitive, English-like text.
func testText(n int) []byte {
	r := rand.New(rand.NewSource(1))
	var b bytes.Buffer
	for b.Len() < n {
		b.WriteString(words[r.Intn(len(words))])
		switch r.Intn(12) {
		case 0:
			b.WriteString(".\n")
		case 1:
			b.WriteString(", ")
		default:
			b.WriteByte(' ')
		}
	}
	return b.Bytes()[:n]
}

// randomBytes returns n pseudo-random bytes.
func randomBytes(n int, seed int64) []byte {
	b := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(b)
	return b
}

// smallAlphabet returns n pseudo-random bytes drawn from k values, which
// produces many short matches at many offsets.
func smallAlphabet(n, k int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a' + byte(r.Intn(k))
	}
	return b
}

func roundTrip(t *testing.T, data []byte, cfg Config) []byte {
	t.Helper()
	out, _, err := Compress(data, cfg)
	if err != nil {
		t.Fatal(err)
	}
	stream, want := out, data[cfg.Skip:]
	if cfg.Backwards {
		stream, want = Reverse(out), data[:len(data)-cfg.Skip]
	}
	decompressed, err := dzx0.Decompress(stream, cfg.Extended)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backwards {
		decompressed = Reverse(decompressed)
	}
	if !bytes.Equal(decompressed, want) {
		t.Fatal("decompressed output doesn't match")
	}
	return out
}

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: no panic", name)
		}
	}()
	f()
}
