package keyring

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// keyringFile is the on-disk JSON format for an encrypted keyring.
type keyringFile struct {
	Version    int             `json:"version"`
	CreatedAt  time.Time       `json:"created_at"`
	SealedSeed []byte          `json:"sealed_seed"`
	Identities []IdentityEntry `json:"identities"`
	NextIndex  uint32          `json:"next_index"` // next unused derivation index
}

// IdentityEntry stores metadata for a derived signing identity.
type IdentityEntry struct {
	Index     uint32 `json:"index"`
	Name      string `json:"name"`
	PublicKey string `json:"public_key"` // hex-encoded x-only key
}

// Keyring manages encrypted seed storage on disk, one file per keyring
// name.
type Keyring struct {
	dir string
}

// NewKeyring creates a keyring that reads/writes to the given
// directory. The directory is created if it doesn't exist.
func NewKeyring(dir string) (*Keyring, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create keyring dir: %w", err)
	}
	return &Keyring{dir: dir}, nil
}

func (kr *Keyring) path(name string) string {
	return filepath.Join(kr.dir, name+".keys")
}

// Create creates a new encrypted keyring file holding the seed.
func (kr *Keyring) Create(name string, seed, password []byte, params KDFParams) error {
	path := kr.path(name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("keyring %q already exists", name)
	}

	sealed, err := Seal(seed, password, params)
	if err != nil {
		return fmt.Errorf("seal seed: %w", err)
	}

	kf := keyringFile{
		Version:    1,
		CreatedAt:  time.Now().UTC(),
		SealedSeed: sealed,
		Identities: []IdentityEntry{},
	}
	return kr.writeFile(path, &kf)
}

// Unlock decrypts a keyring and returns the seed bytes.
func (kr *Keyring) Unlock(name string, password []byte) ([]byte, error) {
	kf, err := kr.readFile(kr.path(name))
	if err != nil {
		return nil, err
	}

	seed, err := Open(kf.SealedSeed, password)
	if err != nil {
		return nil, fmt.Errorf("unlock keyring: %w", err)
	}
	return seed, nil
}

// AllocateIndex returns the next unused derivation index and advances
// the counter.
func (kr *Keyring) AllocateIndex(name string) (uint32, error) {
	path := kr.path(name)
	kf, err := kr.readFile(path)
	if err != nil {
		return 0, err
	}
	idx := kf.NextIndex
	kf.NextIndex++
	if err := kr.writeFile(path, kf); err != nil {
		return 0, err
	}
	return idx, nil
}

// AddIdentity records a derived identity in the keyring metadata.
// Re-adding the same (index, public key) pair is a no-op; a different
// key at a recorded index is rejected.
func (kr *Keyring) AddIdentity(name string, entry IdentityEntry) error {
	path := kr.path(name)
	kf, err := kr.readFile(path)
	if err != nil {
		return err
	}

	for _, existing := range kf.Identities {
		if existing.Index == entry.Index {
			if existing.PublicKey == entry.PublicKey {
				return nil
			}
			return fmt.Errorf("identity index %d already exists", entry.Index)
		}
		if existing.PublicKey == entry.PublicKey {
			return nil
		}
	}

	kf.Identities = append(kf.Identities, entry)
	return kr.writeFile(path, kf)
}

// ListIdentities returns the identity entries for a keyring.
func (kr *Keyring) ListIdentities(name string) ([]IdentityEntry, error) {
	kf, err := kr.readFile(kr.path(name))
	if err != nil {
		return nil, err
	}
	return kf.Identities, nil
}

// FindIdentity looks an identity up by its recorded name.
func (kr *Keyring) FindIdentity(name, identity string) (IdentityEntry, error) {
	entries, err := kr.ListIdentities(name)
	if err != nil {
		return IdentityEntry{}, err
	}
	for _, e := range entries {
		if e.Name == identity {
			return e, nil
		}
	}
	return IdentityEntry{}, fmt.Errorf("identity %q not found in keyring %q", identity, name)
}

// List returns the names of all keyring files in the directory.
func (kr *Keyring) List() ([]string, error) {
	entries, err := os.ReadDir(kr.dir)
	if err != nil {
		return nil, fmt.Errorf("read keyring dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := filepath.Ext(name); ext == ".keys" {
			names = append(names, name[:len(name)-len(ext)])
		}
	}
	return names, nil
}

// Delete removes a keyring file.
func (kr *Keyring) Delete(name string) error {
	path := kr.path(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("keyring %q not found", name)
	}
	return os.Remove(path)
}

func (kr *Keyring) writeFile(path string, kf *keyringFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal keyring: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write keyring: %w", err)
	}
	return nil
}

func (kr *Keyring) readFile(path string) (*keyringFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyring: %w", err)
	}
	var kf keyringFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse keyring: %w", err)
	}
	if kf.Version != 1 {
		return nil, fmt.Errorf("unsupported keyring version: %d", kf.Version)
	}
	return &kf, nil
}
