package keyring

import (
	"bytes"
	"testing"
)

func TestGenerateKey(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if key == nil {
		t.Fatal("expected non-nil key")
	}

	// Check that fingerprint is generated
	fingerprint := key.Fingerprint()
	if fingerprint == "" {
		t.Error("expected non-empty fingerprint")
	}

	// Fingerprint should be hex-encoded SHA256 (64 chars)
	if len(fingerprint) != 64 {
		t.Errorf("expected fingerprint length 64, got %d", len(fingerprint))
	}
}

func TestKeySerializeAndRestore(t *testing.T) {
	original, err := GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	serialized, err := original.Serialize()
	if err != nil {
		t.Fatalf("failed to serialize key: %v", err)
	}

	if len(serialized) == 0 {
		t.Fatal("expected non-empty serialized key")
	}

	restored, err := NewKey(serialized)
	if err != nil {
		t.Fatalf("failed to restore key: %v", err)
	}

	// Fingerprints should match
	if original.Fingerprint() != restored.Fingerprint() {
		t.Errorf("fingerprints don't match: %s != %s", original.Fingerprint(), restored.Fingerprint())
	}
}

func TestSealAndUnsealKey(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	fileKey := make([]byte, 32)
	for i := range fileKey {
		fileKey[i] = byte(i)
	}

	sealed, err := key.SealKey(fileKey)
	if err != nil {
		t.Fatalf("failed to seal: %v", err)
	}

	if bytes.Contains(sealed, fileKey) {
		t.Error("sealed key contains the plaintext file key")
	}

	unsealed, err := key.UnsealKey(sealed)
	if err != nil {
		t.Fatalf("failed to unseal: %v", err)
	}

	if !bytes.Equal(fileKey, unsealed) {
		t.Error("unsealed file key differs from original")
	}
}

func TestUnsealWithWrongKeyFails(t *testing.T) {
	key1, err := GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key1: %v", err)
	}
	key2, err := GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key2: %v", err)
	}

	sealed, err := key1.SealKey([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("failed to seal: %v", err)
	}

	if _, err := key2.UnsealKey(sealed); err == nil {
		t.Error("expected unsealing with the wrong key to fail")
	}
}

func TestKeyPemExport(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	privatePem := key.PrivateRSAPem()
	if !bytes.Contains(privatePem, []byte("RSA PRIVATE KEY")) {
		t.Error("private PEM should contain RSA PRIVATE KEY")
	}

	publicPem := key.PublicPem()
	if !bytes.Contains(publicPem, []byte("PUBLIC KEY")) {
		t.Error("public PEM should contain PUBLIC KEY")
	}
}

func TestFingerprintConsistency(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	// Fingerprint should be consistent across multiple calls
	fp1 := key.Fingerprint()
	fp2 := key.Fingerprint()

	if fp1 != fp2 {
		t.Errorf("fingerprint not consistent: %s != %s", fp1, fp2)
	}
}

func TestDifferentKeysHaveDifferentFingerprints(t *testing.T) {
	key1, err := GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key1: %v", err)
	}

	key2, err := GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key2: %v", err)
	}

	if key1.Fingerprint() == key2.Fingerprint() {
		t.Error("different keys should have different fingerprints")
	}
}
