package collectible

import (
	"github.com/corsair-labs/bootynet-chain/internal/record"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
)

var discReceipt = record.Discriminator("IssuanceReceipt")

// receiptLen is the encoded payload size after the discriminator:
// deposit(32) + mint(32) + bump(1).
const receiptLen = 32 + 32 + 1

// Receipt anchors a collectible issuance to the deposit record that
// backed it. Its existence at derive("collectible", deposit) is the
// exactly-once guard.
type Receipt struct {
	Deposit types.ProgramAddress `json:"deposit"`
	Mint    types.AssetID        `json:"mint"`
	Bump    uint8                `json:"bump"`
}

func (r *Receipt) Encode() []byte {
	buf := make([]byte, record.DiscriminatorSize+receiptLen)

	off := 0
	copy(buf[off:], discReceipt[:])
	off += record.DiscriminatorSize

	copy(buf[off:], r.Deposit[:])
	off += 32
	copy(buf[off:], r.Mint[:])
	off += 32
	buf[off] = r.Bump
	return buf
}

func DecodeReceipt(data []byte) (*Receipt, error) {
	payload, err := record.CheckDiscriminator(data, discReceipt, receiptLen)
	if err != nil {
		return nil, err
	}

	r := &Receipt{}
	off := 0
	copy(r.Deposit[:], payload[off:])
	off += 32
	copy(r.Mint[:], payload[off:])
	off += 32
	r.Bump = payload[off]
	return r, nil
}
