package vault

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AliZainoul/pg-bdd-project/pkg/identifier"
	"github.com/AliZainoul/pg-bdd-project/pkg/secret"
)

func testVault(t *testing.T) *Vault {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "credentials"), testKey(t), nil)
}

func TestStoreAndRetrieve(t *testing.T) {
	v := testVault(t)
	identity := identifier.MustValidate("app_role")

	if err := v.Store(identity, secret.New("Sup3r#Secret99")); err != nil {
		t.Fatalf("failed to store: %v", err)
	}

	// The credential directory must be private to the owner.
	info, err := os.Stat(v.Dir())
	if err != nil {
		t.Fatalf("failed to stat vault dir: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("expected directory mode 0700, got %o", perm)
	}

	path := v.Path(identity)
	if filepath.Base(path) != "app_role.conf.gpg" {
		t.Errorf("unexpected credential file name %s", filepath.Base(path))
	}

	info, err = os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat credential file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected file mode 0600, got %o", perm)
	}

	got, found, err := v.Retrieve(identity)
	if err != nil {
		t.Fatalf("failed to retrieve: %v", err)
	}
	if !found {
		t.Fatal("expected the credential to be found")
	}
	if got.Reveal() != "Sup3r#Secret99" {
		t.Errorf("retrieved %q, want the stored secret", got.Reveal())
	}
}

func TestRetrieveMissingIsNotAnError(t *testing.T) {
	v := testVault(t)

	_, found, err := v.Retrieve(identifier.MustValidate("nobody"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected no credential for an unknown identity")
	}
}

func TestStoreReplacesPreviousCredential(t *testing.T) {
	v := testVault(t)
	identity := identifier.MustValidate("app_role")

	if err := v.Store(identity, secret.New("First#Secret123")); err != nil {
		t.Fatalf("failed to store: %v", err)
	}
	if err := v.Store(identity, secret.New("Second#Secret123")); err != nil {
		t.Fatalf("failed to store again: %v", err)
	}

	got, found, err := v.Retrieve(identity)
	if err != nil {
		t.Fatalf("failed to retrieve: %v", err)
	}
	if !found {
		t.Fatal("expected the credential to be found")
	}
	if got.Reveal() != "Second#Secret123" {
		t.Error("expected the second store to win")
	}
}

func TestRetrieveCorruptFileIsTreatedAsAbsent(t *testing.T) {
	v := testVault(t)
	identity := identifier.MustValidate("app_role")

	if err := v.Store(identity, secret.New("Sup3r#Secret99")); err != nil {
		t.Fatalf("failed to store: %v", err)
	}
	if err := os.WriteFile(v.Path(identity), []byte("garbage"), 0o600); err != nil {
		t.Fatalf("failed to corrupt file: %v", err)
	}

	_, found, err := v.Retrieve(identity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected a corrupt credential file to be treated as absent")
	}
}

func TestRetrieveForeignEnvelopeIsTreatedAsAbsent(t *testing.T) {
	// A credential sealed to a different recipient key is unreadable and
	// must not block provisioning.
	dir := filepath.Join(t.TempDir(), "credentials")
	identity := identifier.MustValidate("app_role")

	other := New(dir, testKey(t), nil)
	if err := other.Store(identity, secret.New("Foreign#Secret1")); err != nil {
		t.Fatalf("failed to store: %v", err)
	}

	v := New(dir, testKey(t), nil)
	_, found, err := v.Retrieve(identity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected a foreign envelope to be treated as absent")
	}
}

func TestRetrieveRenamedFileIsTreatedAsAbsent(t *testing.T) {
	// The envelope is bound to the identity it was stored under, so a
	// credential file copied to another identity's name does not open.
	v := testVault(t)
	identity := identifier.MustValidate("app_role")

	if err := v.Store(identity, secret.New("Sup3r#Secret99")); err != nil {
		t.Fatalf("failed to store: %v", err)
	}

	otherIdentity := identifier.MustValidate("other_role")
	if err := os.Rename(v.Path(identity), v.Path(otherIdentity)); err != nil {
		t.Fatalf("failed to rename: %v", err)
	}

	_, found, err := v.Retrieve(otherIdentity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Error("expected a renamed credential file to be treated as absent")
	}
}

func TestList(t *testing.T) {
	v := testVault(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := v.Store(identifier.MustValidate(name), secret.New("Sup3r#Secret99")); err != nil {
			t.Fatalf("failed to store %s: %v", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(v.Dir(), "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatalf("failed to plant file: %v", err)
	}

	identities, err := v.List()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}

	want := []string{"alpha", "mid", "zeta"}
	if len(identities) != len(want) {
		t.Fatalf("expected %d identities, got %d", len(want), len(identities))
	}
	for i, id := range identities {
		if id.String() != want[i] {
			t.Errorf("identity %d is %s, want %s", i, id, want[i])
		}
	}
}

func TestListMissingDirectory(t *testing.T) {
	v := New(filepath.Join(t.TempDir(), "never-created"), testKey(t), nil)

	identities, err := v.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(identities) != 0 {
		t.Errorf("expected no identities, got %d", len(identities))
	}
}
