package crypto

import "testing"

func TestHashDeterministic(t *testing.T) {
	h1 := Hash([]byte("bootynet"))
	h2 := Hash([]byte("bootynet"))
	if h1 != h2 {
		t.Error("same input should produce same hash")
	}
}

func TestHashDistinct(t *testing.T) {
	h1 := Hash([]byte("a"))
	h2 := Hash([]byte("b"))
	if h1 == h2 {
		t.Error("different inputs should produce different hashes")
	}
}

func TestHashEmptyInput(t *testing.T) {
	h := Hash(nil)
	if h.IsZero() {
		t.Error("hash of empty input should not be zero")
	}
}

func TestHashAllMatchesConcatenation(t *testing.T) {
	combined := Hash([]byte("foobar"))
	chunked := HashAll([]byte("foo"), []byte("bar"))
	if combined != chunked {
		t.Error("HashAll should equal hash of concatenation")
	}
}
