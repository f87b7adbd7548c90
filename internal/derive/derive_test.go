package derive

import (
	"testing"

	"github.com/corsair-labs/bootynet-chain/pkg/crypto"
)

func TestDeriveDeterministic(t *testing.T) {
	a1, b1, err := Derive([]byte("deposit"), []byte("player"), U64Seed(1))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	a2, b2, err := Derive([]byte("deposit"), []byte("player"), U64Seed(1))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if a1 != a2 || b1 != b2 {
		t.Error("same inputs should derive same address and bump")
	}
}

func TestDeriveDistinctNamespaces(t *testing.T) {
	a1, _, _ := Derive([]byte("deposit"), []byte("player"))
	a2, _, _ := Derive([]byte("search"), []byte("player"))
	if a1 == a2 {
		t.Error("different namespaces should derive different addresses")
	}
}

func TestDeriveDistinctSeeds(t *testing.T) {
	a1, _, _ := Derive([]byte("deposit"), []byte("player"), U64Seed(1))
	a2, _, _ := Derive([]byte("deposit"), []byte("player"), U64Seed(2))
	if a1 == a2 {
		t.Error("different nonces should derive different addresses")
	}
}

func TestDeriveSeedBoundaries(t *testing.T) {
	// ("ab", "c") and ("a", "bc") concatenate identically; the length
	// prefixes must keep them apart.
	a1, _, _ := Derive([]byte("ns"), []byte("ab"), []byte("c"))
	a2, _, _ := Derive([]byte("ns"), []byte("a"), []byte("bc"))
	if a1 == a2 {
		t.Error("seed boundaries should be collision-free")
	}
}

func TestDeriveOffCurve(t *testing.T) {
	addr, _, err := Derive([]byte("vault"))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !crypto.IsOffCurve(addr) {
		t.Error("derived address must be off-curve")
	}
}

func TestDeriveWithBumpRoundTrip(t *testing.T) {
	seeds := [][]byte{[]byte("player"), U64Seed(7)}
	addr, bump, err := Derive([]byte("deposit"), seeds...)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	again, err := DeriveWithBump([]byte("deposit"), seeds, bump)
	if err != nil {
		t.Fatalf("derive with bump: %v", err)
	}
	if again != addr {
		t.Error("stored bump should reproduce the derived address")
	}
}

func TestDeriveEmptySeeds(t *testing.T) {
	a1, _, err := Derive([]byte("vault"))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	a2, _, _ := Derive([]byte("supply"))
	if a1 == a2 {
		t.Error("namespace alone should still separate addresses")
	}
}
