package search

import (
	"errors"
	"testing"

	"github.com/corsair-labs/bootynet-chain/config"
	"github.com/corsair-labs/bootynet-chain/internal/assets"
	"github.com/corsair-labs/bootynet-chain/internal/record"
	"github.com/corsair-labs/bootynet-chain/internal/storage"
	"github.com/corsair-labs/bootynet-chain/internal/vault"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
)

func testKey(b byte) types.PublicKey {
	var k types.PublicKey
	for i := range k {
		k[i] = b
	}
	return k
}

func newTestLedger(t *testing.T) (*Ledger, types.PublicKey) {
	t.Helper()

	db := storage.NewMemory()
	asset := types.AssetID(testKey(0x42))
	v := vault.New(db, assets.NewMemoryService(), asset, config.DefaultParams())
	authority := testKey(1)
	if _, err := v.InitVault(authority); err != nil {
		t.Fatalf("init vault: %v", err)
	}
	return New(db, v), authority
}

func TestRecordCodecRoundTrip(t *testing.T) {
	rec := &Record{
		Searcher: testKey(7),
		X:        -150,
		Y:        2_000_000,
		Nonce:    99,
		Found:    true,
		Bump:     252,
	}
	got, err := DecodeRecord(rec.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *got != *rec {
		t.Errorf("round trip mismatch: %+v != %+v", got, rec)
	}
}

func TestSubmit(t *testing.T) {
	l, _ := newTestLedger(t)
	searcher := testKey(2)

	rec, addr, err := l.Submit(searcher, 10, -20, 1)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Found {
		t.Error("new record marked found")
	}

	got, err := l.Get(addr)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.X != 10 || got.Y != -20 || got.Searcher != searcher {
		t.Errorf("stored record = %+v", got)
	}
}

func TestSubmitDuplicateNonce(t *testing.T) {
	l, _ := newTestLedger(t)
	searcher := testKey(2)

	if _, _, err := l.Submit(searcher, 1, 1, 5); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, _, err := l.Submit(searcher, 2, 2, 5); !errors.Is(err, ErrDuplicateSearch) {
		t.Fatalf("expected ErrDuplicateSearch, got %v", err)
	}

	// Another searcher may reuse the nonce.
	if _, _, err := l.Submit(testKey(3), 1, 1, 5); err != nil {
		t.Errorf("other searcher, same nonce: %v", err)
	}
}

func TestResolve(t *testing.T) {
	l, authority := newTestLedger(t)
	searcher := testKey(2)

	_, addr, err := l.Submit(searcher, 3, 4, 1)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := l.Resolve(searcher, addr); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for searcher, got %v", err)
	}

	rec, err := l.Resolve(authority, addr)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !rec.Found {
		t.Error("record not marked found")
	}

	if _, err := l.Resolve(authority, addr); !errors.Is(err, ErrAlreadyResolved) {
		t.Errorf("expected ErrAlreadyResolved, got %v", err)
	}
}

func TestResolveMissingRecord(t *testing.T) {
	l, authority := newTestLedger(t)
	addr, _, _ := Address(testKey(2), 77)
	if _, err := l.Resolve(authority, addr); !errors.Is(err, record.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
