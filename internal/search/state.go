package search

import (
	"encoding/binary"

	"github.com/corsair-labs/bootynet-chain/internal/record"
	"github.com/corsair-labs/bootynet-chain/pkg/types"
)

var discSearchRecord = record.Discriminator("SearchRecord")

// searchRecordLen is the encoded payload size after the discriminator:
// searcher(32) + x(4) + y(4) + nonce(8) + found(1) + bump(1).
const searchRecordLen = 32 + 4 + 4 + 8 + 1 + 1

// Record is one coordinate search, addressed by (searcher, nonce).
type Record struct {
	Searcher types.PublicKey `json:"searcher"`
	X        int32           `json:"x"`
	Y        int32           `json:"y"`
	Nonce    uint64          `json:"nonce"`
	Found    bool            `json:"found"`
	Bump     uint8           `json:"bump"`
}

func (r *Record) Encode() []byte {
	buf := make([]byte, record.DiscriminatorSize+searchRecordLen)

	off := 0
	copy(buf[off:], discSearchRecord[:])
	off += record.DiscriminatorSize

	copy(buf[off:], r.Searcher[:])
	off += 32
	binary.LittleEndian.PutUint32(buf[off:], uint32(r.X))
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], uint32(r.Y))
	off += 4
	binary.LittleEndian.PutUint64(buf[off:], r.Nonce)
	off += 8
	if r.Found {
		buf[off] = 1
	}
	off++
	buf[off] = r.Bump
	return buf
}

func DecodeRecord(data []byte) (*Record, error) {
	payload, err := record.CheckDiscriminator(data, discSearchRecord, searchRecordLen)
	if err != nil {
		return nil, err
	}

	r := &Record{}
	off := 0
	copy(r.Searcher[:], payload[off:])
	off += 32
	r.X = int32(binary.LittleEndian.Uint32(payload[off:]))
	off += 4
	r.Y = int32(binary.LittleEndian.Uint32(payload[off:]))
	off += 4
	r.Nonce = binary.LittleEndian.Uint64(payload[off:])
	off += 8
	r.Found = payload[off] == 1
	off++
	r.Bump = payload[off]
	return r, nil
}
