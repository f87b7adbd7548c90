package ledger

import (
	"encoding/binary"

	"github.com/corsair-labs/bootynet-chain/internal/record"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
)

// discSupplyState tags SupplyState records in the account store.
var discSupplyState = record.Discriminator("SupplyState")

// supplyStateLen is the encoded payload size after the discriminator:
// asset(32) + authority(32) + minted(8) + burned(8) + cap flag(1) +
// cap(8) + bump(1).
const supplyStateLen = 32 + 32 + 8 + 8 + 1 + 8 + 1

// SupplyState tracks cumulative mint/burn accounting for the reward
// token. Net circulating supply is always computed, never stored.
type SupplyState struct {
	Asset       types.AssetID   `json:"asset"`
	Authority   types.PublicKey `json:"authority"`
	TotalMinted uint64          `json:"total_minted"`
	TotalBurned uint64          `json:"total_burned"`
	MaxSupply   *uint64         `json:"max_supply,omitempty"` // nil = unlimited
	Bump        uint8           `json:"bump"`
}

// NetSupply returns total minted minus total burned.
func (s *SupplyState) NetSupply() uint64 {
	return s.TotalMinted - s.TotalBurned
}

// Encode serializes the state: discriminator followed by fixed-width
// little-endian fields in declared order.
func (s *SupplyState) Encode() []byte {
	buf := make([]byte, record.DiscriminatorSize+supplyStateLen)

	off := 0
	copy(buf[off:], discSupplyState[:])
	off += record.DiscriminatorSize

	copy(buf[off:], s.Asset[:])
	off += 32
	copy(buf[off:], s.Authority[:])
	off += 32

	binary.LittleEndian.PutUint64(buf[off:], s.TotalMinted)
	off += 8
	binary.LittleEndian.PutUint64(buf[off:], s.TotalBurned)
	off += 8

	if s.MaxSupply != nil {
		buf[off] = 1
		binary.LittleEndian.PutUint64(buf[off+1:], *s.MaxSupply)
	}
	off += 9

	buf[off] = s.Bump
	return buf
}

// DecodeSupplyState parses a SupplyState record, validating the
// discriminator and length.
func DecodeSupplyState(data []byte) (*SupplyState, error) {
	payload, err := record.CheckDiscriminator(data, discSupplyState, supplyStateLen)
	if err != nil {
		return nil, err
	}

	s := &SupplyState{}
	off := 0
	copy(s.Asset[:], payload[off:])
	off += 32
	copy(s.Authority[:], payload[off:])
	off += 32

	s.TotalMinted = binary.LittleEndian.Uint64(payload[off:])
	off += 8
	s.TotalBurned = binary.LittleEndian.Uint64(payload[off:])
	off += 8

	if payload[off] == 1 {
		maxSupply := binary.LittleEndian.Uint64(payload[off+1:])
		s.MaxSupply = &maxSupply
	}
	off += 9

	s.Bump = payload[off]
	return s, nil
}
