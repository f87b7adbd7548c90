package crypto

import (
	"testing"

	"github.com/corsair-labs/bootynet-chain/pkg/types"
)

func TestSignAndVerify(t *testing.T) {
	pk, err := GenerateKey()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	digest := Hash([]byte("test message"))
	sig, err := pk.Sign(digest)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if len(sig) != SignatureSize {
		t.Errorf("signature length = %d, want %d", len(sig), SignatureSize)
	}

	if !VerifySignature(digest, sig, pk.PublicKey()) {
		t.Error("valid signature should verify")
	}
}

func TestVerifyRejectsWrongDigest(t *testing.T) {
	pk, _ := GenerateKey()
	sig, _ := pk.Sign(Hash([]byte("one")))
	if VerifySignature(Hash([]byte("two")), sig, pk.PublicKey()) {
		t.Error("signature over other digest should not verify")
	}
}

func TestVerifyRejectsWrongSigner(t *testing.T) {
	pk1, _ := GenerateKey()
	pk2, _ := GenerateKey()
	digest := Hash([]byte("msg"))
	sig, _ := pk1.Sign(digest)
	if VerifySignature(digest, sig, pk2.PublicKey()) {
		t.Error("signature should not verify against another key")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	pk, _ := GenerateKey()
	digest := Hash([]byte("msg"))
	if VerifySignature(digest, []byte{1, 2, 3}, pk.PublicKey()) {
		t.Error("malformed signature should not verify")
	}
	if VerifySignature(digest, make([]byte, SignatureSize), types.PublicKey{}) {
		t.Error("zero key should not verify")
	}
}

func TestPrivateKeyFromBytesRoundTrip(t *testing.T) {
	pk, _ := GenerateKey()
	restored, err := PrivateKeyFromBytes(pk.Serialize())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.PublicKey() != pk.PublicKey() {
		t.Error("restored key should have same public key")
	}
}

func TestPrivateKeyFromBytesRejectsBadLength(t *testing.T) {
	if _, err := PrivateKeyFromBytes(make([]byte, 31)); err == nil {
		t.Error("31-byte secret should be rejected")
	}
}

func TestIsOffCurve(t *testing.T) {
	// A real public key x-coordinate is on-curve.
	pk, _ := GenerateKey()
	if IsOffCurve(pk.PublicKey()) {
		t.Error("real public key should be on-curve")
	}

	// Significantly more than half of random 32-byte strings are
	// off-curve; a hash preimage search in the deriver relies on that.
	offCurve := 0
	for i := 0; i < 64; i++ {
		h := Hash([]byte{byte(i), 0xa5})
		if IsOffCurve(h) {
			offCurve++
		}
	}
	if offCurve == 0 {
		t.Error("expected at least some off-curve candidates")
	}
}
