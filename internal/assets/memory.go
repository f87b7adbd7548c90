package assets

import (
	"fmt"
	"sync"

	"github.com/corsair-labs/bootynet-chain/pkg/types"
)

// MemoryService implements TokenService and CollectibleService with an
// in-memory ledger. The daemon runs it in devnet mode; tests use it as
// the collaborator double.
type MemoryService struct {
	mu      sync.Mutex
	assets  map[types.AssetID]*memAsset
	issued  map[types.AssetID]types.PublicKey // collectible mint -> holder
	meta    map[types.AssetID]Metadata
	failAll error // when set, every mutating call fails (test hook)
}

type memAsset struct {
	decimals  uint8
	authority types.PublicKey
	balances  map[types.PublicKey]uint64
}

// NewMemoryService creates an empty in-memory asset service.
func NewMemoryService() *MemoryService {
	return &MemoryService{
		assets: make(map[types.AssetID]*memAsset),
		issued: make(map[types.AssetID]types.PublicKey),
		meta:   make(map[types.AssetID]Metadata),
	}
}

// FailWith makes every subsequent mutating call return err.
// Pass nil to restore normal operation.
func (m *MemoryService) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAll = err
}

// CreateAsset registers a new fungible asset.
func (m *MemoryService) CreateAsset(asset types.AssetID, decimals uint8, authority types.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	if _, ok := m.assets[asset]; ok {
		return fmt.Errorf("%w: %s", ErrAssetExists, asset.Short())
	}
	m.assets[asset] = &memAsset{
		decimals:  decimals,
		authority: authority,
		balances:  make(map[types.PublicKey]uint64),
	}
	return nil
}

// Transfer moves amount between holding accounts.
func (m *MemoryService) Transfer(asset types.AssetID, from, to types.PublicKey, amount uint64, authorizedBy types.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	a, ok := m.assets[asset]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, asset.Short())
	}
	if authorizedBy != from {
		return fmt.Errorf("%w: signer %s does not own source account", ErrInvalidHoldingAccount, authorizedBy.Short())
	}
	if a.balances[from] < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, a.balances[from], amount)
	}
	a.balances[from] -= amount
	a.balances[to] += amount
	return nil
}

// MintTo credits the recipient's holding account.
func (m *MemoryService) MintTo(asset types.AssetID, to types.PublicKey, amount uint64, authorizedBy types.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	a, ok := m.assets[asset]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, asset.Short())
	}
	if authorizedBy != a.authority {
		return fmt.Errorf("%w: %s", ErrNotAssetAuthority, authorizedBy.Short())
	}
	a.balances[to] += amount
	return nil
}

// Burn debits the owner's holding account.
func (m *MemoryService) Burn(asset types.AssetID, from types.PublicKey, amount uint64, authorizedBy types.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	a, ok := m.assets[asset]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, asset.Short())
	}
	if authorizedBy != from {
		return fmt.Errorf("%w: signer %s does not own account", ErrInvalidHoldingAccount, authorizedBy.Short())
	}
	if a.balances[from] < amount {
		return fmt.Errorf("%w: have %d, burn %d", ErrInsufficientFunds, a.balances[from], amount)
	}
	a.balances[from] -= amount
	return nil
}

// BalanceOf reports a holding-account balance.
func (m *MemoryService) BalanceOf(asset types.AssetID, owner types.PublicKey) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[asset]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownAsset, asset.Short())
	}
	return a.balances[owner], nil
}

// Issue creates a unique asset and assigns its single unit.
func (m *MemoryService) Issue(mint types.AssetID, to types.PublicKey, authorizedBy types.PublicKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	if _, ok := m.issued[mint]; ok {
		return fmt.Errorf("%w: collectible %s", ErrAssetExists, mint.Short())
	}
	m.issued[mint] = to
	return nil
}

// CreateMetadata attaches metadata to an issued collectible.
func (m *MemoryService) CreateMetadata(mint types.AssetID, meta Metadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll != nil {
		return m.failAll
	}
	if _, ok := m.issued[mint]; !ok {
		return fmt.Errorf("%w: collectible %s not issued", ErrUnknownAsset, mint.Short())
	}
	m.meta[mint] = meta
	return nil
}

// HolderOf reports who holds an issued collectible (devnet queries).
func (m *MemoryService) HolderOf(mint types.AssetID) (types.PublicKey, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.issued[mint]
	return h, ok
}

// MetadataOf reports the metadata attached to a collectible.
func (m *MemoryService) MetadataOf(mint types.AssetID) (Metadata, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta, ok := m.meta[mint]
	return meta, ok
}
