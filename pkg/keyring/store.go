package keyring

import (
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
	keyExt   = ".pem"
)

// Entry describes one key in the keyring without loading its private half.
type Entry struct {
	// Fingerprint identifies the key and doubles as its file name.
	Fingerprint string
	// Path is the absolute location of the key file.
	Path string
}

// Store is a directory of PEM-encoded recipient keys, one file per key,
// named by fingerprint. The directory and its files are private to the
// owner.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on
// first use.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the keyring directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) ensureDir() error {
	return os.MkdirAll(s.dir, dirPerm)
}

// List enumerates the keys in the keyring, sorted by fingerprint.
func (s *Store) List() ([]Entry, error) {
	if err := s.ensureDir(); err != nil {
		return nil, fmt.Errorf("failed to create keyring directory %s: %w", s.dir, err)
	}

	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring directory %s: %w", s.dir, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), keyExt) {
			continue
		}
		fingerprint := strings.TrimSuffix(de.Name(), keyExt)
		entries = append(entries, Entry{
			Fingerprint: fingerprint,
			Path:        filepath.Join(s.dir, de.Name()),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Fingerprint < entries[j].Fingerprint
	})
	return entries, nil
}

// Load reads and parses the key with the given fingerprint. The parsed
// key must produce the fingerprint it was stored under.
func (s *Store) Load(fingerprint string) (*Key, error) {
	path := filepath.Join(s.dir, fingerprint+keyExt)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %s: %w", path, err)
	}

	block, _ := pem.Decode(data)
	if block == nil || block.Type != "RSA PRIVATE KEY" {
		return nil, fmt.Errorf("key file %s does not contain an RSA private key", path)
	}

	key, err := NewKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse key file %s: %w", path, err)
	}

	if key.Fingerprint() != fingerprint {
		return nil, fmt.Errorf("key file %s has a mismatched fingerprint", path)
	}
	return key, nil
}

// Generate creates a new key, writes it to the keyring and returns it.
func (s *Store) Generate() (*Key, error) {
	if err := s.ensureDir(); err != nil {
		return nil, fmt.Errorf("failed to create keyring directory %s: %w", s.dir, err)
	}

	key, err := GenerateKey()
	if err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, key.Fingerprint()+keyExt)
	if err := os.WriteFile(path, key.PrivateRSAPem(), filePerm); err != nil {
		return nil, fmt.Errorf("failed to write key file %s: %w", path, err)
	}
	return key, nil
}
