package storage

import (
	"strings"
	"sync"
)

// MemoryDB implements DB using an in-memory map. It mirrors the
// transactional semantics of BadgerDB: Update stages writes in an
// overlay that is applied only when the callback succeeds.
type MemoryDB struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates a new in-memory database.
func NewMemory() *MemoryDB {
	return &MemoryDB{
		data: make(map[string][]byte),
	}
}

// memTxn is a staged view over the base map.
type memTxn struct {
	base    map[string][]byte
	staged  map[string][]byte
	deleted map[string]bool
	mutable bool
}

func (t *memTxn) Get(key []byte) ([]byte, error) {
	k := string(key)
	if t.deleted[k] {
		return nil, ErrKeyNotFound
	}
	if v, ok := t.staged[k]; ok {
		return append([]byte(nil), v...), nil
	}
	if v, ok := t.base[k]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, ErrKeyNotFound
}

func (t *memTxn) Put(key, value []byte) error {
	if !t.mutable {
		return errReadOnly
	}
	k := string(key)
	delete(t.deleted, k)
	t.staged[k] = append([]byte(nil), value...)
	return nil
}

func (t *memTxn) Delete(key []byte) error {
	if !t.mutable {
		return errReadOnly
	}
	k := string(key)
	delete(t.staged, k)
	t.deleted[k] = true
	return nil
}

func (t *memTxn) Has(key []byte) (bool, error) {
	k := string(key)
	if t.deleted[k] {
		return false, nil
	}
	if _, ok := t.staged[k]; ok {
		return true, nil
	}
	_, ok := t.base[k]
	return ok, nil
}

func (t *memTxn) PutIfAbsent(key, value []byte) error {
	exists, err := t.Has(key)
	if err != nil {
		return err
	}
	if exists {
		return ErrKeyExists
	}
	return t.Put(key, value)
}

var errReadOnly = errorString("write in read-only transaction")

type errorString string

func (e errorString) Error() string { return string(e) }

// View runs fn against a read-only snapshot.
func (m *MemoryDB) View(fn func(Txn) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(&memTxn{base: m.data})
}

// Update runs fn with staged writes; the overlay is applied to the
// base map only if fn returns nil.
func (m *MemoryDB) Update(fn func(Txn) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	txn := &memTxn{
		base:    m.data,
		staged:  make(map[string][]byte),
		deleted: make(map[string]bool),
		mutable: true,
	}
	if err := fn(txn); err != nil {
		return err
	}

	for k := range txn.deleted {
		delete(m.data, k)
	}
	for k, v := range txn.staged {
		m.data[k] = v
	}
	return nil
}

// ForEach iterates over all keys with the given prefix.
func (m *MemoryDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p := string(prefix)
	for k, v := range m.data {
		if strings.HasPrefix(k, p) {
			// Callbacks get copies, never the backing slices.
			if err := fn([]byte(k), append([]byte(nil), v...)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes the database.
func (m *MemoryDB) Close() error {
	return nil
}
