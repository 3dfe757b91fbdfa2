// Package secret holds the in-memory password value and the acceptance
// policy applied to candidate passwords.
package secret

import "crypto/subtle"

// Mask is what a Secret renders as anywhere it could end up in output.
const Mask = "********"

// Secret is an in-memory password. It masks itself in every formatting path
// so that a stray %v or %s can never leak the value; callers that need the
// plaintext (encryption, CREATE ROLE) must ask for it with Reveal.
type Secret struct {
	value string
}

// New wraps a plaintext value.
func New(value string) Secret {
	return Secret{value: value}
}

// Reveal returns the plaintext. Keep the result short-lived and never pass
// it to a logger.
func (s Secret) Reveal() string {
	return s.value
}

// IsZero reports whether no value has been set.
func (s Secret) IsZero() bool {
	return s.value == ""
}

// Equal compares two secrets in constant time.
func (s Secret) Equal(other Secret) bool {
	return subtle.ConstantTimeCompare([]byte(s.value), []byte(other.value)) == 1
}

// String implements fmt.Stringer with a fixed mask.
func (s Secret) String() string {
	return Mask
}

// GoString masks %#v as well.
func (s Secret) GoString() string {
	return Mask
}

// MarshalText masks the value in any text encoding (JSON, YAML, logs).
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(Mask), nil
}
