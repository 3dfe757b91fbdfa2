package keyring

import (
	"bytes"
	"fmt"
	"strings"
)

// Selector picks one key when the keyring holds several. Resolution never
// guesses between multiple keys.
type Selector interface {
	SelectKey(entries []Entry) (Entry, error)
}

// FingerprintSelector selects by full fingerprint or unique prefix.
type FingerprintSelector string

func (f FingerprintSelector) SelectKey(entries []Entry) (Entry, error) {
	var matches []Entry
	for _, e := range entries {
		if strings.HasPrefix(e.Fingerprint, string(f)) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return Entry{}, fmt.Errorf("no key matches fingerprint %q", string(f))
	default:
		return Entry{}, fmt.Errorf("fingerprint %q is ambiguous, %d keys match", string(f), len(matches))
	}
}

// ResolutionError reports why no usable recipient key could be produced.
type ResolutionError struct {
	Reason string
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("key resolution failed: %s: %v", e.Reason, e.Err)
	}
	return "key resolution failed: " + e.Reason
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Resolution is the outcome of resolving a recipient key.
type Resolution struct {
	Key *Key
	// Generated reports that the keyring was empty and a key was created
	// during resolution.
	Generated bool
}

// Resolve produces the single recipient key to seal and unseal credentials
// with.
//
// An empty keyring gets exactly one generated key. A single key is selected
// automatically. Multiple keys require an explicit selection. The resolved
// key must pass a seal/unseal probe before it is returned.
func Resolve(store *Store, selector Selector) (*Resolution, error) {
	entries, err := store.List()
	if err != nil {
		return nil, &ResolutionError{Reason: "failed to enumerate keyring", Err: err}
	}

	generated := false
	if len(entries) == 0 {
		if _, err := store.Generate(); err != nil {
			return nil, &ResolutionError{Reason: "failed to generate recipient key", Err: err}
		}
		generated = true

		entries, err = store.List()
		if err != nil {
			return nil, &ResolutionError{Reason: "failed to enumerate keyring", Err: err}
		}
		if len(entries) == 0 {
			return nil, &ResolutionError{Reason: "keyring is still empty after key generation"}
		}
	}

	var selected Entry
	switch {
	case len(entries) == 1:
		selected = entries[0]
	case selector != nil:
		selected, err = selector.SelectKey(entries)
		if err != nil {
			return nil, &ResolutionError{Reason: "key selection failed", Err: err}
		}
	default:
		return nil, &ResolutionError{
			Reason: fmt.Sprintf("keyring holds %d keys and no selection was made", len(entries)),
		}
	}

	key, err := store.Load(selected.Fingerprint)
	if err != nil {
		return nil, &ResolutionError{Reason: "failed to load selected key", Err: err}
	}

	if err := probe(key); err != nil {
		return nil, &ResolutionError{Reason: "key failed the usability probe", Err: err}
	}

	return &Resolution{Key: key, Generated: generated}, nil
}

// probe runs a seal/unseal round trip so a corrupt or unusable key is
// rejected before any credential is entrusted to it.
func probe(key *Key) error {
	canary := []byte("probe")
	sealed, err := key.SealKey(canary)
	if err != nil {
		return err
	}
	unsealed, err := key.UnsealKey(sealed)
	if err != nil {
		return err
	}
	if !bytes.Equal(canary, unsealed) {
		return fmt.Errorf("seal round trip produced different bytes")
	}
	return nil
}
