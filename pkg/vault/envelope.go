package vault

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/AliZainoul/pg-bdd-project/pkg/keyring"
)

const versionMagic = byte('P')

const (
	fileKeySize = chacha20poly1305.KeySize
	nonceSize   = chacha20poly1305.NonceSizeX
)

// Seal encrypts a plaintext for the recipient key. A fresh symmetric file
// key encrypts the payload with XChaCha20-Poly1305 and is itself sealed to
// the recipient's public half, so only the private half can open the
// envelope.
//
// The envelope layout is:
//
//	"#{VERSION_MAGIC}#{len(sealedKey)}#{sealedKey}#{nonce}#{ctext+tag}"
func Seal(recipient *keyring.Key, aad, plainText []byte) ([]byte, error) {
	fileKey, err := randomBytes(fileKeySize)
	if err != nil {
		return nil, err
	}

	sealedKey, err := recipient.SealKey(fileKey)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(fileKey)
	if err != nil {
		return nil, err
	}

	nonce, err := randomBytes(nonceSize)
	if err != nil {
		return nil, err
	}

	cipherTextWithTag := aead.Seal(nil, nonce, plainText, aad)

	data := make([]byte, 0, 1+2+len(sealedKey)+nonceSize+len(cipherTextWithTag))
	data = append(data, versionMagic)
	data = binary.BigEndian.AppendUint16(data, uint16(len(sealedKey)))
	data = append(data, sealedKey...)
	data = append(data, nonce...)
	data = append(data, cipherTextWithTag...)

	return data, nil
}

// Open decrypts an envelope produced by Seal. The aad must match the one
// used at sealing time.
func Open(recipient *keyring.Key, aad, packed []byte) ([]byte, error) {
	if len(packed) < 1+2 {
		return nil, errors.New("envelope is too short")
	}
	if packed[0] != versionMagic {
		return nil, errors.New("envelope has an unknown version")
	}

	index := 1
	sealedKeyLen := int(binary.BigEndian.Uint16(packed[index:]))
	index += 2

	if len(packed) < index+sealedKeyLen+nonceSize {
		return nil, errors.New("envelope is truncated")
	}

	sealedKey := packed[index : index+sealedKeyLen]
	index += sealedKeyLen

	nonce := packed[index : index+nonceSize]
	index += nonceSize

	cipherTextWithTag := packed[index:]

	fileKey, err := recipient.UnsealKey(sealedKey)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(fileKey)
	if err != nil {
		return nil, err
	}

	return aead.Open(nil, nonce, cipherTextWithTag, aad)
}

func randomBytes(size int) ([]byte, error) {
	value := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, value); err != nil {
		return nil, err
	}

	return value, nil
}
