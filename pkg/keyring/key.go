package keyring

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
)

// Key is an RSA recipient key pair. Credentials are sealed to the public
// half; the private half stays in the keyring directory.
type Key struct {
	privateKey  *rsa.PrivateKey
	fingerprint string // reset if privateKey changes. Lazy loaded.
}

// NewKey parses a DER-encoded PKCS#1 private key.
func NewKey(pkeyDer []byte) (*Key, error) {
	pkey, err := x509.ParsePKCS1PrivateKey(pkeyDer)
	if err != nil {
		return nil, err
	}

	return &Key{privateKey: pkey}, nil
}

// GenerateKey generates a new 2048-bit RSA key for credential sealing
func GenerateKey() (*Key, error) {
	pkey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	return &Key{privateKey: pkey}, nil
}

// Serialize returns the DER-encoded private key
func (k *Key) Serialize() ([]byte, error) {
	return x509.MarshalPKCS1PrivateKey(k.privateKey), nil
}

func sha256Digest(value []byte) []byte {
	hash := sha256.New()
	hash.Write(value)
	return hash.Sum(nil)
}

func (k *Key) PrivateRSAPem() []byte {
	return pem.EncodeToMemory(
		&pem.Block{
			Type:  "RSA PRIVATE KEY",
			Bytes: x509.MarshalPKCS1PrivateKey(k.privateKey),
		},
	)
}

func (k *Key) PublicPem() []byte {
	bytes, err := x509.MarshalPKIXPublicKey(&k.privateKey.PublicKey)
	if err != nil {
		panic(err)
	}
	return pem.EncodeToMemory(
		&pem.Block{
			Type:  "PUBLIC KEY",
			Bytes: bytes,
		},
	)
}

// SealKey encrypts a symmetric file key to the public half using
// RSA-OAEP with SHA-256.
func (k *Key) SealKey(fileKey []byte) ([]byte, error) {
	return rsa.EncryptOAEP(sha256.New(), rand.Reader, &k.privateKey.PublicKey, fileKey, nil)
}

// UnsealKey recovers a symmetric file key sealed with SealKey.
func (k *Key) UnsealKey(sealedKey []byte) ([]byte, error) {
	return rsa.DecryptOAEP(sha256.New(), rand.Reader, k.privateKey, sealedKey, nil)
}

// Fingerprint is the hex SHA-256 digest of the DER-encoded public key.
func (k *Key) Fingerprint() string {
	if len(k.fingerprint) > 0 {
		return k.fingerprint
	}

	der, err := x509.MarshalPKIXPublicKey(&k.privateKey.PublicKey)
	if err != nil {
		return ""
	}

	k.fingerprint = hex.EncodeToString(sha256Digest(der))
	return k.fingerprint
}
