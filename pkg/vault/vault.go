// Package vault persists one encrypted credential file per identity.
//
// Files are named <identity>.conf.gpg, live in a directory private to the
// owner and are sealed to a recipient key from the keyring. Storing the
// same identity again replaces the previous envelope.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/AliZainoul/pg-bdd-project/pkg/identifier"
	"github.com/AliZainoul/pg-bdd-project/pkg/keyring"
	"github.com/AliZainoul/pg-bdd-project/pkg/logging"
	"github.com/AliZainoul/pg-bdd-project/pkg/secret"
)

const (
	dirPerm    = 0o700
	filePerm   = 0o600
	fileSuffix = ".conf.gpg"
)

// IOError reports a failed filesystem interaction with the vault.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("vault %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Vault stores and retrieves credentials sealed to a single recipient key.
type Vault struct {
	dir       string
	recipient *keyring.Key
	log       *logging.Logger
}

// New returns a vault rooted at dir, sealing to recipient.
func New(dir string, recipient *keyring.Key, log *logging.Logger) *Vault {
	if log == nil {
		log = logging.Nop()
	}
	return &Vault{dir: dir, recipient: recipient, log: log}
}

// Dir returns the vault directory.
func (v *Vault) Dir() string {
	return v.dir
}

// Recipient returns the key new entries are sealed to.
func (v *Vault) Recipient() *keyring.Key {
	return v.recipient
}

// Path returns the credential file location for an identity.
func (v *Vault) Path(identity identifier.Identifier) string {
	return filepath.Join(v.dir, identity.String()+fileSuffix)
}

// Store seals the secret for the identity and replaces any previous
// credential file. The write goes through a temp file in the same
// directory so readers never observe a partial envelope.
func (v *Vault) Store(identity identifier.Identifier, s secret.Secret) error {
	if err := os.MkdirAll(v.dir, dirPerm); err != nil {
		return &IOError{Op: "create directory", Path: v.dir, Err: err}
	}

	envelope, err := Seal(v.recipient, []byte(identity.String()), []byte(s.Reveal()))
	if err != nil {
		return &IOError{Op: "seal credential for", Path: v.Path(identity), Err: err}
	}

	tmp, err := os.CreateTemp(v.dir, "."+identity.String()+".*")
	if err != nil {
		return &IOError{Op: "create temp file in", Path: v.dir, Err: err}
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return &IOError{Op: "set permissions on", Path: tmp.Name(), Err: err}
	}
	if _, err := tmp.Write(envelope); err != nil {
		tmp.Close()
		return &IOError{Op: "write", Path: tmp.Name(), Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "close", Path: tmp.Name(), Err: err}
	}

	path := v.Path(identity)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &IOError{Op: "replace", Path: path, Err: err}
	}
	return nil
}

// Retrieve opens the credential for an identity. A missing file is not an
// error: the second return is false and the caller is expected to mint a
// fresh credential. A file that exists but cannot be opened with the
// recipient key is treated the same way, with a warning, so a stale or
// foreign envelope never blocks provisioning.
func (v *Vault) Retrieve(identity identifier.Identifier) (secret.Secret, bool, error) {
	path := v.Path(identity)

	envelope, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return secret.Secret{}, false, nil
	}
	if err != nil {
		return secret.Secret{}, false, &IOError{Op: "read", Path: path, Err: err}
	}

	plainText, err := Open(v.recipient, []byte(identity.String()), envelope)
	if err != nil {
		v.log.Warnf("vault entry %s cannot be opened with the resolved key, treating it as absent", path)
		return secret.Secret{}, false, nil
	}

	return secret.New(string(plainText)), true, nil
}

// List enumerates the identities with a credential file, sorted.
func (v *Vault) List() ([]identifier.Identifier, error) {
	dirEntries, err := os.ReadDir(v.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &IOError{Op: "read directory", Path: v.dir, Err: err}
	}

	var identities []identifier.Identifier
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), fileSuffix) {
			continue
		}
		name := strings.TrimSuffix(de.Name(), fileSuffix)
		id, err := identifier.Validate(name)
		if err != nil {
			continue // foreign file, not ours
		}
		identities = append(identities, id)
	}

	sort.Slice(identities, func(i, j int) bool { return identities[i] < identities[j] })
	return identities, nil
}
