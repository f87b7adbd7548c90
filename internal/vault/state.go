package vault

import (
	"encoding/binary"

	"github.com/corsair-labs/bootynet-chain/internal/record"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
)

// Record type tags.
var (
	discVaultState     = record.Discriminator("Vault")
	discDepositRecord  = record.Discriminator("DepositRecord")
	discWhitelistEntry = record.Discriminator("WhitelistEntry")
)

// Encoded payload sizes after the discriminator.
const (
	vaultStateLen     = 32 + 8 + 8 + 1
	depositRecordLen  = 32 + 8 + 8 + 1 + 1 + 1
	whitelistEntryLen = 32 + 1 + 1
)

// VaultState is the custodial vault's aggregate record. Both counters
// only ever grow; claimed count never exceeds the number of deposit
// records created.
type VaultState struct {
	Authority         types.PublicKey `json:"authority"`
	TotalDeposited    uint64          `json:"total_deposited"`
	TotalClaimedCount uint64          `json:"total_claimed_count"`
	Bump              uint8           `json:"bump"`
}

func (v *VaultState) Encode() []byte {
	buf := make([]byte, record.DiscriminatorSize+vaultStateLen)

	off := 0
	copy(buf[off:], discVaultState[:])
	off += record.DiscriminatorSize

	copy(buf[off:], v.Authority[:])
	off += 32
	binary.LittleEndian.PutUint64(buf[off:], v.TotalDeposited)
	off += 8
	binary.LittleEndian.PutUint64(buf[off:], v.TotalClaimedCount)
	off += 8
	buf[off] = v.Bump
	return buf
}

func DecodeVaultState(data []byte) (*VaultState, error) {
	payload, err := record.CheckDiscriminator(data, discVaultState, vaultStateLen)
	if err != nil {
		return nil, err
	}

	v := &VaultState{}
	off := 0
	copy(v.Authority[:], payload[off:])
	off += 32
	v.TotalDeposited = binary.LittleEndian.Uint64(payload[off:])
	off += 8
	v.TotalClaimedCount = binary.LittleEndian.Uint64(payload[off:])
	off += 8
	v.Bump = payload[off]
	return v, nil
}

// DepositRecord is one depositor's deposit, addressed by (depositor,
// nonce). Claimed flips exactly once; tier is fixed at creation.
type DepositRecord struct {
	Depositor types.PublicKey `json:"depositor"`
	Amount    uint64          `json:"amount"`
	Nonce     uint64          `json:"nonce"`
	Claimed   bool            `json:"claimed"`
	Tier      uint8           `json:"tier"`
	Bump      uint8           `json:"bump"`
}

func (d *DepositRecord) Encode() []byte {
	buf := make([]byte, record.DiscriminatorSize+depositRecordLen)

	off := 0
	copy(buf[off:], discDepositRecord[:])
	off += record.DiscriminatorSize

	copy(buf[off:], d.Depositor[:])
	off += 32
	binary.LittleEndian.PutUint64(buf[off:], d.Amount)
	off += 8
	binary.LittleEndian.PutUint64(buf[off:], d.Nonce)
	off += 8
	if d.Claimed {
		buf[off] = 1
	}
	off++
	buf[off] = d.Tier
	off++
	buf[off] = d.Bump
	return buf
}

func DecodeDepositRecord(data []byte) (*DepositRecord, error) {
	payload, err := record.CheckDiscriminator(data, discDepositRecord, depositRecordLen)
	if err != nil {
		return nil, err
	}

	d := &DepositRecord{}
	off := 0
	copy(d.Depositor[:], payload[off:])
	off += 32
	d.Amount = binary.LittleEndian.Uint64(payload[off:])
	off += 8
	d.Nonce = binary.LittleEndian.Uint64(payload[off:])
	off += 8
	d.Claimed = payload[off] == 1
	off++
	d.Tier = payload[off]
	off++
	d.Bump = payload[off]
	return d, nil
}

// WhitelistEntry marks an asset as accepted for deposit. Toggled only
// by the vault authority, read by every deposit.
type WhitelistEntry struct {
	Asset   types.AssetID `json:"asset"`
	Enabled bool          `json:"enabled"`
	Bump    uint8         `json:"bump"`
}

func (w *WhitelistEntry) Encode() []byte {
	buf := make([]byte, record.DiscriminatorSize+whitelistEntryLen)

	off := 0
	copy(buf[off:], discWhitelistEntry[:])
	off += record.DiscriminatorSize

	copy(buf[off:], w.Asset[:])
	off += 32
	if w.Enabled {
		buf[off] = 1
	}
	off++
	buf[off] = w.Bump
	return buf
}

func DecodeWhitelistEntry(data []byte) (*WhitelistEntry, error) {
	payload, err := record.CheckDiscriminator(data, discWhitelistEntry, whitelistEntryLen)
	if err != nil {
		return nil, err
	}

	w := &WhitelistEntry{}
	off := 0
	copy(w.Asset[:], payload[off:])
	off += 32
	w.Enabled = payload[off] == 1
	off++
	w.Bump = payload[off]
	return w, nil
}
